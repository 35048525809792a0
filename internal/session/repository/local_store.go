package repository

import (
	"context"
	"errors"
	"fmt"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	projectdomain "github.com/abplan/abplan-backend/internal/projects/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/abplan/abplan-backend/internal/session/domain"
)

type ProjectReader interface {
	Get(ctx context.Context, id string) (*projectdomain.Project, error)
}

type RoomsStore interface {
	Get(ctx context.Context, projectID string) (*roomdomain.ProjectRooms, error)
	Replace(ctx context.Context, projectID string, rooms []roomdomain.Room) (*roomdomain.ProjectRooms, error)
}

type EquipmentStore interface {
	Get(ctx context.Context, projectID string) (*eqdomain.ProjectEquipments, error)
	Replace(ctx context.Context, projectID string, list []eqdomain.Equipment) (*eqdomain.ProjectEquipments, error)
}

// LocalStore serves sessions from the in-process project, rooms and
// equipment services.
type LocalStore struct {
	projects  ProjectReader
	rooms     RoomsStore
	equipment EquipmentStore
}

func NewLocalStore(projects ProjectReader, rooms RoomsStore, equipment EquipmentStore) *LocalStore {
	return &LocalStore{projects: projects, rooms: rooms, equipment: equipment}
}

func (s *LocalStore) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	p, err := s.projects.Get(ctx, projectID)
	if errors.Is(err, projectdomain.ErrProjectNotFound) {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &domain.Project{ID: p.ID, PostalCode: p.PostalCode}, nil
}

func (s *LocalStore) GetRooms(ctx context.Context, projectID string) ([]roomdomain.Room, error) {
	pr, err := s.rooms.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return pr.Rooms, nil
}

func (s *LocalStore) PutRooms(ctx context.Context, projectID string, rooms []roomdomain.Room) error {
	_, err := s.rooms.Replace(ctx, projectID, rooms)
	return err
}

func (s *LocalStore) GetEquipments(ctx context.Context, projectID string) ([]eqdomain.Equipment, error) {
	pe, err := s.equipment.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return pe.Equipments, nil
}

func (s *LocalStore) PutEquipments(ctx context.Context, projectID string, list []eqdomain.Equipment) error {
	_, err := s.equipment.Replace(ctx, projectID, list)
	return err
}
