package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abplan/abplan-backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:     config.ServerConfig{Port: "8080", CORSOrigins: []string{"http://localhost:5173"}},
		App:        config.AppConfig{Version: "test"},
		Compliance: config.ComplianceConfig{EngineURL: "http://engine", Timeout: time.Second, RatePerSecond: 5, Burst: 5, VerdictTTL: time.Hour, UseVerdictCache: true},
		Analysis:   config.AnalysisConfig{EngineURL: "http://analysis", Timeout: time.Second},
		Session:    config.SessionConfig{DebounceDelay: time.Second, IdleTimeout: time.Minute},
		Auth:       config.AuthConfig{DevUserID: "demo-user"},
	}
}

func routeSet(r *gin.Engine) map[string]bool {
	out := map[string]bool{}
	for _, ri := range r.Routes() {
		out[ri.Method+" "+ri.Path] = true
	}
	return out
}

func TestBuildRouter_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rt := BuildRouter(context.Background(), RouterDeps{ServiceName: "abplan-api", Config: testConfig(), Redis: client})
	routes := routeSet(rt.Engine)

	for _, want := range []string{
		"GET /healthz",
		"POST /api/v1/projects",
		"GET /api/v1/projects/:id/rooms",
		"POST /api/v1/projects/:id/analyze",
		"PUT /api/v1/project-equipments",
		"GET /api/v1/equipment-types",
		"POST /api/v1/compliance/validate/room-equipment",
		"GET /api/v1/compliance/events/:projectId",
		"PATCH /api/v1/sessions/:projectId/equipment/:equipmentId/quantity",
		"POST /api/v1/sessions/:projectId/suggestions/apply",
	} {
		assert.True(t, routes[want], want)
	}
	require.NotNil(t, rt.Sessions)
}

func TestBuildRouter_NoCacheNoEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rt := BuildRouter(context.Background(), RouterDeps{ServiceName: "abplan-api", Config: testConfig()})

	assert.False(t, routeSet(rt.Engine)["GET /api/v1/compliance/events/:projectId"])

	w := httptest.NewRecorder()
	rt.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
