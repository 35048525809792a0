package http

import (
	"context"

	"github.com/abplan/abplan-backend/internal/analysis/service"
)

type Importer interface {
	Analyze(ctx context.Context, projectID string, images []string) (*service.Result, error)
}

type Handler struct {
	importer Importer
}

func New(importer Importer) *Handler {
	return &Handler{importer: importer}
}

type analyzeReq struct {
	Images []string `json:"images"`
}
