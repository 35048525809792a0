package service

import (
	"context"
	"errors"
	"strings"

	"github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository is the persistence the rooms service needs.
type Repository interface {
	FindByProject(ctx context.Context, projectID string) (*domain.ProjectRooms, error)
	Save(ctx context.Context, pr *domain.ProjectRooms) error
	Delete(ctx context.Context, projectID string) error
}

// AnalysedRoom is a room detected on an uploaded floor plan.
type AnalysedRoom struct {
	Name     string  `json:"name"`
	Surface  float64 `json:"surface"`
	RoomType string  `json:"roomType,omitempty"`
}

// RoomsService keeps a project's room list and its total surface together.
type RoomsService struct {
	repo Repository
	log  *zap.Logger
}

func NewRoomsService(repo Repository, log *zap.Logger) *RoomsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoomsService{repo: repo, log: log}
}

// Get returns the stored configuration. A project without one yields an
// empty configuration rather than an error.
func (s *RoomsService) Get(ctx context.Context, projectID string) (*domain.ProjectRooms, error) {
	pr, err := s.repo.FindByProject(ctx, projectID)
	if errors.Is(err, domain.ErrNoRoomConfiguration) {
		return &domain.ProjectRooms{ProjectID: projectID, Rooms: []domain.Room{}}, nil
	}
	return pr, err
}

// Replace stores rooms as the project's full room list. The total surface is
// recomputed here; whatever total the client holds is ignored.
func (s *RoomsService) Replace(ctx context.Context, projectID string, rooms []domain.Room) (*domain.ProjectRooms, error) {
	if rooms == nil {
		rooms = []domain.Room{}
	}
	if err := domain.ValidateAll(rooms); err != nil {
		return nil, err
	}

	pr := &domain.ProjectRooms{
		ProjectID:        projectID,
		Rooms:            rooms,
		SurfaceLoiCarrez: domain.TotalSurface(rooms),
	}
	if existing, err := s.repo.FindByProject(ctx, projectID); err == nil {
		pr.ID = existing.ID
	} else if !errors.Is(err, domain.ErrNoRoomConfiguration) {
		return nil, err
	}

	if err := s.repo.Save(ctx, pr); err != nil {
		return nil, err
	}
	s.log.Debug("rooms replaced",
		zap.String("project_id", projectID),
		zap.Int("rooms", len(rooms)),
		zap.Float64("surface_loi_carrez", pr.SurfaceLoiCarrez))
	return pr, nil
}

// InitializeFromAnalysis seeds the room list from an analysis result. It only
// runs when the project has no stored configuration; an existing one is never
// overwritten, even when its room list is empty. created reports whether
// rooms were written.
func (s *RoomsService) InitializeFromAnalysis(ctx context.Context, projectID string, analysed []AnalysedRoom) (pr *domain.ProjectRooms, created bool, err error) {
	existing, err := s.repo.FindByProject(ctx, projectID)
	if err == nil {
		s.log.Info("analysis ignored, rooms already configured",
			zap.String("project_id", projectID),
			zap.Int("rooms", len(existing.Rooms)))
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNoRoomConfiguration) {
		return nil, false, err
	}

	rooms := make([]domain.Room, 0, len(analysed))
	for _, a := range analysed {
		name := strings.TrimSpace(a.Name)
		if name == "" || a.Surface <= 0 {
			s.log.Warn("skipping analysed room", zap.String("name", a.Name), zap.Float64("surface", a.Surface))
			continue
		}
		rooms = append(rooms, domain.Room{
			ID:       uuid.New().String(),
			Name:     name,
			Surface:  a.Surface,
			RoomType: a.RoomType,
		})
	}

	pr, err = s.Replace(ctx, projectID, rooms)
	if err != nil {
		return nil, false, err
	}
	return pr, true, nil
}

// Purge empties the room list and resets the total surface to zero.
func (s *RoomsService) Purge(ctx context.Context, projectID string) (*domain.ProjectRooms, error) {
	return s.Replace(ctx, projectID, domain.Purge())
}
