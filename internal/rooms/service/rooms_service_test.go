package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu    sync.Mutex
	data  map[string]domain.ProjectRooms
	saves int
	fail  error
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[string]domain.ProjectRooms{}}
}

func (m *memRepo) FindByProject(_ context.Context, projectID string) (*domain.ProjectRooms, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pr, ok := m.data[projectID]
	if !ok {
		return nil, domain.ErrNoRoomConfiguration
	}
	return &pr, nil
}

func (m *memRepo) Save(_ context.Context, pr *domain.ProjectRooms) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.saves++
	if pr.ID == "" {
		pr.ID = "pr-" + pr.ProjectID
	}
	pr.UpdatedAt = time.Now()
	m.data[pr.ProjectID] = *pr
	return nil
}

func (m *memRepo) Delete(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, projectID)
	return nil
}

func TestRoomsService_GetEmpty(t *testing.T) {
	svc := NewRoomsService(newMemRepo(), nil)
	pr, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, pr.Rooms)
	assert.Equal(t, 0.0, pr.SurfaceLoiCarrez)
}

func TestRoomsService_ReplaceRecomputesSurface(t *testing.T) {
	repo := newMemRepo()
	svc := NewRoomsService(repo, nil)
	ctx := context.Background()

	pr, err := svc.Replace(ctx, "p1", []domain.Room{
		{ID: "r1", Name: "Salon", Surface: 25},
		{ID: "r2", Name: "Chambre", Surface: 11},
	})
	require.NoError(t, err)
	assert.Equal(t, 36.0, pr.SurfaceLoiCarrez)

	stored, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 36.0, stored.SurfaceLoiCarrez)
	assert.Equal(t, pr.ID, stored.ID)

	_, err = svc.Replace(ctx, "p1", []domain.Room{{ID: "r1", Name: "", Surface: 3}})
	assert.ErrorIs(t, err, domain.ErrInvalidRoom)
	assert.Equal(t, 1, repo.saves)
}

func TestRoomsService_InitializeFromAnalysis(t *testing.T) {
	repo := newMemRepo()
	svc := NewRoomsService(repo, nil)
	ctx := context.Background()

	pr, created, err := svc.InitializeFromAnalysis(ctx, "p1", []AnalysedRoom{
		{Name: "Cuisine", Surface: 9.5},
		{Name: "Séjour", Surface: 30},
		{Name: "", Surface: 4},
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, pr.Rooms, 2)
	assert.NotEqual(t, pr.Rooms[0].ID, pr.Rooms[1].ID)
	assert.NotEmpty(t, pr.Rooms[0].ID)
	assert.Equal(t, 39.5, pr.SurfaceLoiCarrez)

	again, created, err := svc.InitializeFromAnalysis(ctx, "p1", []AnalysedRoom{{Name: "Garage", Surface: 18}})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, again.Rooms, 2)
	assert.Equal(t, 1, repo.saves)
}

func TestRoomsService_InitializeKeepsEmptyConfiguration(t *testing.T) {
	repo := newMemRepo()
	svc := NewRoomsService(repo, nil)
	ctx := context.Background()

	_, err := svc.Replace(ctx, "p1", []domain.Room{{ID: "r1", Name: "Salon", Surface: 25}})
	require.NoError(t, err)
	_, err = svc.Purge(ctx, "p1")
	require.NoError(t, err)

	pr, created, err := svc.InitializeFromAnalysis(ctx, "p1", []AnalysedRoom{{Name: "Garage", Surface: 18}})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, pr.Rooms)
	assert.Equal(t, 2, repo.saves)

	require.NoError(t, repo.Delete(ctx, "p1"))
	pr, created, err = svc.InitializeFromAnalysis(ctx, "p1", []AnalysedRoom{{Name: "Garage", Surface: 18}})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, pr.Rooms, 1)
}

func TestRoomsService_InitializeLookupFailure(t *testing.T) {
	svc := NewRoomsService(failingFindRepo{newMemRepo()}, nil)
	_, created, err := svc.InitializeFromAnalysis(context.Background(), "p1", []AnalysedRoom{{Name: "Garage", Surface: 18}})
	assert.EqualError(t, err, "db down")
	assert.False(t, created)
}

type failingFindRepo struct{ *memRepo }

func (failingFindRepo) FindByProject(context.Context, string) (*domain.ProjectRooms, error) {
	return nil, errors.New("db down")
}

func TestRoomsService_Purge(t *testing.T) {
	repo := newMemRepo()
	svc := NewRoomsService(repo, nil)
	ctx := context.Background()

	_, err := svc.Replace(ctx, "p1", []domain.Room{{ID: "r1", Name: "Salon", Surface: 25}})
	require.NoError(t, err)

	pr, err := svc.Purge(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, pr.Rooms)
	assert.Equal(t, 0.0, pr.SurfaceLoiCarrez)
}

func TestRoomsService_SaveFailure(t *testing.T) {
	repo := newMemRepo()
	repo.fail = errors.New("db down")
	svc := NewRoomsService(repo, nil)

	_, err := svc.Replace(context.Background(), "p1", []domain.Room{{ID: "r1", Name: "Salon", Surface: 25}})
	assert.EqualError(t, err, "db down")
}
