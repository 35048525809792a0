package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/abplan/abplan-backend/internal/rooms/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	data map[string]domain.ProjectRooms
}

func (m *memRepo) FindByProject(_ context.Context, projectID string) (*domain.ProjectRooms, error) {
	pr, ok := m.data[projectID]
	if !ok {
		return nil, domain.ErrNoRoomConfiguration
	}
	return &pr, nil
}

func (m *memRepo) Save(_ context.Context, pr *domain.ProjectRooms) error {
	m.data[pr.ProjectID] = *pr
	return nil
}

func (m *memRepo) Delete(_ context.Context, projectID string) error {
	delete(m.data, projectID)
	return nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.NewRoomsService(&memRepo{data: map[string]domain.ProjectRooms{}}, nil)
	New(svc).Register(r.Group("/api/v1/projects"))
	return r
}

func TestRoomsHandler_PutIgnoresClientSurface(t *testing.T) {
	r := newTestRouter()

	body := `{"rooms":[{"id":"r1","name":"Salon","surface":20},{"id":"r2","name":"WC","surface":2}],"surfaceLoiCarrez":999}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/projects/p1/rooms", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.ProjectRooms
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 22.0, got.SurfaceLoiCarrez)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1/rooms", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Rooms, 2)
}

func TestRoomsHandler_RejectsInvalidRoom(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/projects/p1/rooms",
		bytes.NewBufferString(`{"rooms":[{"id":"r1","name":"Salon","surface":-1}]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)
}

func TestRoomsHandler_Delete(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/projects/p1/rooms", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.ProjectRooms
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got.Rooms)
	assert.Equal(t, 0.0, got.SurfaceLoiCarrez)
}
