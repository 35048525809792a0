package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/abplan/abplan-backend/internal/projects/domain"
)

type Repository interface {
	Create(ctx context.Context, name, postalCode string) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
}

var postalCodePattern = regexp.MustCompile(`^\d{5}$`)

// ProjectService handles project-related business logic
type ProjectService struct {
	repo Repository
}

func NewProjectService(repo Repository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create validates and stores a new project. The postal code is optional but
// must be a French postal code when given.
func (s *ProjectService) Create(ctx context.Context, p domain.Project) (*domain.Project, error) {
	p.Normalize()
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidProject)
	}
	if p.PostalCode != "" && !postalCodePattern.MatchString(p.PostalCode) {
		return nil, fmt.Errorf("%w: postal code %q must have 5 digits", domain.ErrInvalidProject, p.PostalCode)
	}
	return s.repo.Create(ctx, p.Name, p.PostalCode)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.Get(ctx, id)
}
