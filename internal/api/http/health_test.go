package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func check(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var out HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestHealthCheck_Up(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	db := pingFunc(func(context.Context) error { return nil })
	h := NewHealthHandler("abplan-api", "1.2.3", db, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})

	code, out := check(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "up", out.DB)
	assert.Equal(t, "up", out.Redis)
	assert.Equal(t, "1.2.3", out.Version)
}

func TestHealthCheck_RedisDownStaysHealthy(t *testing.T) {
	db := pingFunc(func(context.Context) error { return nil })
	h := NewHealthHandler("abplan-api", "dev", db, func(context.Context) error { return errors.New("refused") })

	code, out := check(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "down", out.Redis)
}

func TestHealthCheck_DBDown(t *testing.T) {
	db := pingFunc(func(context.Context) error { return errors.New("refused") })
	h := NewHealthHandler("abplan-api", "dev", db, nil)

	code, out := check(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", out.Status)
	assert.Equal(t, "disabled", out.Redis)
}
