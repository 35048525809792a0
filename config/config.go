package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	App         AppConfig
	Compliance  ComplianceConfig
	Analysis    AnalysisConfig
	Persistence PersistenceConfig
	Session     SessionConfig
	Auth        AuthConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
}

// ComplianceConfig points at the external NF C 15-100 rule engine.
type ComplianceConfig struct {
	EngineURL       string
	Timeout         time.Duration
	RatePerSecond   float64
	Burst           int
	VerdictTTL      time.Duration
	UseVerdictCache bool
}

type AnalysisConfig struct {
	EngineURL string
	Timeout   time.Duration
}

// PersistenceConfig selects where editing sessions read and write project
// state. An empty URL means the in-process services are used.
type PersistenceConfig struct {
	RemoteURL string
	Timeout   time.Duration
}

type SessionConfig struct {
	DebounceDelay time.Duration
	IdleTimeout   time.Duration
	EvictSchedule string
}

type AuthConfig struct {
	FirebaseCredentialsFile string
	FirebaseProjectID       string

	// DevUserID identifies callers that send no X-User-Id while Firebase
	// is disabled.
	DevUserID string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "abplan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Compliance: ComplianceConfig{
			EngineURL:       getEnv("COMPLIANCE_ENGINE_URL", "http://compliance-engine:8000"),
			Timeout:         getEnvAsDuration("COMPLIANCE_TIMEOUT", 30*time.Second),
			RatePerSecond:   getEnvAsFloat("COMPLIANCE_RATE_PER_SECOND", 5),
			Burst:           getEnvAsInt("COMPLIANCE_BURST", 10),
			VerdictTTL:      getEnvAsDuration("COMPLIANCE_VERDICT_TTL", 24*time.Hour),
			UseVerdictCache: getEnvAsBool("COMPLIANCE_VERDICT_CACHE", true),
		},
		Analysis: AnalysisConfig{
			EngineURL: getEnv("ANALYSIS_ENGINE_URL", "http://plan-analysis:8001"),
			Timeout:   getEnvAsDuration("ANALYSIS_TIMEOUT", 120*time.Second),
		},
		Persistence: PersistenceConfig{
			RemoteURL: getEnv("PERSISTENCE_URL", ""),
			Timeout:   getEnvAsDuration("PERSISTENCE_TIMEOUT", 0),
		},
		Session: SessionConfig{
			DebounceDelay: getEnvAsDuration("DEBOUNCE_DELAY", time.Second),
			IdleTimeout:   getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			EvictSchedule: getEnv("SESSION_EVICT_SCHEDULE", "0 */5 * * * *"),
		},
		Auth: AuthConfig{
			FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			DevUserID:               getEnv("AUTH_DEV_USER_ID", "demo-user"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Compliance.EngineURL == "" {
		return fmt.Errorf("COMPLIANCE_ENGINE_URL is required")
	}

	if c.Session.DebounceDelay <= 0 {
		return fmt.Errorf("DEBOUNCE_DELAY must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
