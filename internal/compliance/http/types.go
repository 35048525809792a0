package http

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abplan/abplan-backend/internal/compliance/domain"
)

// Engine is the compliance engine as seen by the proxy endpoints.
type Engine interface {
	ValidateRoomEquipment(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResponse, error)
	ValidateGlobalWithDimensioning(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResponse, error)
	Health(ctx context.Context) (*domain.EngineHealth, error)
}

// Events yields the verdict channel of a project.
type Events interface {
	Subscribe(ctx context.Context, projectID string) *redis.PubSub
}

type Handler struct {
	engine Engine
	events Events
	log    *zap.Logger
}

// New creates the compliance handler. events may be nil, in which case the
// event stream is not registered.
func New(engine Engine, events Events, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{engine: engine, events: events, log: log}
}
