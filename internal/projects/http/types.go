package http

import (
	"context"

	"github.com/abplan/abplan-backend/internal/projects/service"
)

// Purger empties a project's rooms and equipment.
type Purger interface {
	Purge(ctx context.Context, projectID string) error
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc    *service.ProjectService
	purger Purger
}

func New(svc *service.ProjectService, purger Purger) *Handler {
	return &Handler{svc: svc, purger: purger}
}

type createReq struct {
	Name       string `json:"name"`
	PostalCode string `json:"postalCode"`
}
