package bootstrap

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abplan/abplan-backend/config"
	analysishttp "github.com/abplan/abplan-backend/internal/analysis/http"
	analysissvc "github.com/abplan/abplan-backend/internal/analysis/service"
	httpapi "github.com/abplan/abplan-backend/internal/api/http"
	"github.com/abplan/abplan-backend/internal/api/http/middleware"
	"github.com/abplan/abplan-backend/internal/auth"
	authmw "github.com/abplan/abplan-backend/internal/auth/middleware"
	compliancehttp "github.com/abplan/abplan-backend/internal/compliance/http"
	compliancerepo "github.com/abplan/abplan-backend/internal/compliance/repository"
	eqhttp "github.com/abplan/abplan-backend/internal/equipment/http"
	eqrepo "github.com/abplan/abplan-backend/internal/equipment/repository"
	eqsvc "github.com/abplan/abplan-backend/internal/equipment/service"
	projecthttp "github.com/abplan/abplan-backend/internal/projects/http"
	projectrepo "github.com/abplan/abplan-backend/internal/projects/repository"
	projectsvc "github.com/abplan/abplan-backend/internal/projects/service"
	roomshttp "github.com/abplan/abplan-backend/internal/rooms/http"
	roomsrepo "github.com/abplan/abplan-backend/internal/rooms/repository"
	roomssvc "github.com/abplan/abplan-backend/internal/rooms/service"
	sessionhttp "github.com/abplan/abplan-backend/internal/session/http"
	sessionrepo "github.com/abplan/abplan-backend/internal/session/repository"
	sessionsvc "github.com/abplan/abplan-backend/internal/session/service"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Pool        *pgxpool.Pool // projects and health
	SQL         *sql.DB       // rooms and equipment
	Redis       *redis.Client // optional
	Verifier    authmw.TokenVerifier
	Logger      *zap.Logger
}

// Runtime holds what main needs to shut down cleanly.
type Runtime struct {
	Engine   *gin.Engine
	Sessions *sessionsvc.Registry
}

// BuildRouter wires repositories, services and handlers. ctx bounds the
// lifetime of the session registry and its background writers.
func BuildRouter(ctx context.Context, dep RouterDeps) *Runtime {
	cfg := dep.Config
	log := dep.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, auth.HeaderUserID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	var redisPing httpapi.RedisPinger
	if dep.Redis != nil {
		redisPing = func(ctx context.Context) error { return dep.Redis.Ping(ctx).Err() }
	}
	var dbPing httpapi.Pinger
	if dep.Pool != nil {
		dbPing = dep.Pool
	}
	httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, dbPing, redisPing).RegisterRoutes(r)

	projectSvc := projectsvc.NewProjectService(projectrepo.NewProjectRepository(dep.Pool))
	roomsSvc := roomssvc.NewRoomsService(roomsrepo.NewRoomsRepository(dep.SQL), log)
	equipmentSvc := eqsvc.NewEquipmentService(eqrepo.NewEquipmentRepository(dep.SQL), log)

	var verdicts *compliancerepo.VerdictCache
	if dep.Redis != nil && cfg.Compliance.UseVerdictCache {
		verdicts = compliancerepo.NewVerdictCache(dep.Redis, cfg.Compliance.VerdictTTL)
	}

	engine := compliancehttp.NewEngineClient(
		cfg.Compliance.EngineURL,
		cfg.Compliance.Timeout,
		cfg.Compliance.RatePerSecond,
		cfg.Compliance.Burst,
	)

	var store sessionsvc.Store
	if cfg.Persistence.RemoteURL != "" {
		store = sessionrepo.NewRemoteStore(cfg.Persistence.RemoteURL, cfg.Persistence.Timeout, log)
		log.Info("sessions use remote persistence", zap.String("url", cfg.Persistence.RemoteURL))
	} else {
		store = sessionrepo.NewLocalStore(projectSvc, roomsSvc, equipmentSvc)
	}

	deps := sessionsvc.Deps{
		Store:  store,
		Engine: engine,
		Merger: eqsvc.NewMerger(log),
		Delay:  cfg.Session.DebounceDelay,
		Logger: log,
	}
	var events compliancehttp.Events
	if verdicts != nil {
		deps.Cache = verdicts
		events = verdicts
	}
	sessions := sessionsvc.NewRegistry(ctx, deps, cfg.Session.IdleTimeout)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier, log))
	} else {
		api.Use(auth.OptionalUser(cfg.Auth.DevUserID))
	}

	projects := api.Group("/projects")
	projecthttp.New(projectSvc, sessions).Register(projects)
	roomshttp.New(roomsSvc).Register(projects)

	importer := analysissvc.NewImporter(
		analysishttp.NewEngineClient(cfg.Analysis.EngineURL, cfg.Analysis.Timeout, log),
		roomsSvc,
		sessions,
		log,
	)
	analysishttp.New(importer).Register(projects)

	eqhttp.New(equipmentSvc).Register(api)
	compliancehttp.New(engine, events, log).Register(api.Group("/compliance"))
	sessionhttp.New(sessions, log).Register(api.Group("/sessions"))

	return &Runtime{Engine: r, Sessions: sessions}
}
