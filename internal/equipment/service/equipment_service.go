package service

import (
	"context"

	"github.com/abplan/abplan-backend/internal/equipment/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository is the persistence the equipment service needs.
type Repository interface {
	FindByProject(ctx context.Context, projectID string) (*domain.ProjectEquipments, error)
	ReplaceAll(ctx context.Context, projectID string, list []domain.Equipment) error
	DeleteByProject(ctx context.Context, projectID string) error
}

// EquipmentService is the wholesale-replace store of project equipment.
type EquipmentService struct {
	repo Repository
	log  *zap.Logger
}

func NewEquipmentService(repo Repository, log *zap.Logger) *EquipmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &EquipmentService{repo: repo, log: log}
}

func (s *EquipmentService) Get(ctx context.Context, projectID string) (*domain.ProjectEquipments, error) {
	return s.repo.FindByProject(ctx, projectID)
}

// Replace overwrites the project's whole collection with list. Zero-quantity
// records are dropped, remaining records must be well formed, and records
// without a usable UUID get a fresh one.
func (s *EquipmentService) Replace(ctx context.Context, projectID string, list []domain.Equipment) (*domain.ProjectEquipments, error) {
	out := make([]domain.Equipment, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	dropped := 0

	for i, e := range list {
		if e.Quantity == 0 {
			dropped++
			continue
		}
		if err := e.Validate(); err != nil {
			if me, ok := err.(*domain.MalformedError); ok {
				me.Index = i
			}
			return nil, err
		}
		if _, err := uuid.Parse(e.ID); err != nil {
			e.ID = uuid.New().String()
		}
		if _, dup := seen[e.ID]; dup {
			e.ID = uuid.New().String()
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}

	if err := s.repo.ReplaceAll(ctx, projectID, out); err != nil {
		return nil, err
	}

	s.log.Debug("project equipment replaced",
		zap.String("project_id", projectID),
		zap.Int("records", len(out)),
		zap.Int("dropped_zero_quantity", dropped))

	return s.repo.FindByProject(ctx, projectID)
}

// Purge removes every record of the project.
func (s *EquipmentService) Purge(ctx context.Context, projectID string) error {
	return s.repo.DeleteByProject(ctx, projectID)
}
