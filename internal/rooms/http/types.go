package http

import (
	"github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/abplan/abplan-backend/internal/rooms/service"
)

// Handler bundles the dependencies for room configuration endpoints.
type Handler struct {
	svc *service.RoomsService
}

func New(svc *service.RoomsService) *Handler {
	return &Handler{svc: svc}
}

// replaceReq carries the client's room list. SurfaceLoiCarrez is accepted
// for compatibility and ignored.
type replaceReq struct {
	Rooms            []domain.Room `json:"rooms"`
	SurfaceLoiCarrez *float64      `json:"surfaceLoiCarrez,omitempty"`
}
