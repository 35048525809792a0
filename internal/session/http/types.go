package http

import (
	"context"

	"go.uber.org/zap"

	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	"github.com/abplan/abplan-backend/internal/session/service"
)

// Sessions is the session registry as seen by the handlers.
type Sessions interface {
	Open(ctx context.Context, projectID string) (*service.Session, service.Status, error)
	Acquire(ctx context.Context, projectID string) (*service.Session, error)
}

type Handler struct {
	sessions Sessions
	log      *zap.Logger
}

func New(sessions Sessions, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sessions: sessions, log: log}
}

type addEquipmentReq struct {
	RoomID   string            `json:"roomId" binding:"required"`
	Name     string            `json:"name" binding:"required"`
	Type     string            `json:"type"`
	Quantity int               `json:"quantity"`
	Metadata eqdomain.Metadata `json:"metadata,omitempty"`
}

type adjustQuantityReq struct {
	Delta int `json:"delta" binding:"required"`
}

type colorReq struct {
	Color string `json:"color" binding:"required"`
}
