package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abplan/abplan-backend/internal/auth"
	compliance "github.com/abplan/abplan-backend/internal/compliance/domain"
	eqdomain "github.com/abplan/abplan-backend/internal/equipment/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/abplan/abplan-backend/internal/session/domain"
	"github.com/abplan/abplan-backend/internal/session/service"
	"github.com/abplan/abplan-backend/internal/writer"
)

// open (re)loads the project into its session.
func (h *Handler) open(c *gin.Context) {
	_, st, err := h.sessions.Open(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": st})
}

func (h *Handler) status(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": s.Status()})
}

func (h *Handler) flush(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Flush(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": s.Status()})
}

func (h *Handler) retryWrites(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, n := s.RetryWrites()
	c.JSON(http.StatusAccepted, gin.H{"ok": true, "retried": n, "session": st})
}

func (h *Handler) addEquipment(c *gin.Context) {
	var req addEquipmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.AddEquipment(eqdomain.Equipment{
		Name:     req.Name,
		Quantity: req.Quantity,
		RoomID:   req.RoomID,
		Type:     req.Type,
		Metadata: req.Metadata,
	})
	h.respond(c, st, err)
}

func (h *Handler) removeEquipment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.RemoveEquipment(c.Param("equipmentId"))
	h.respond(c, st, err)
}

func (h *Handler) adjustQuantity(c *gin.Context) {
	var req adjustQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "delta is required"})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.AdjustQuantity(c.Param("equipmentId"), req.Delta)
	h.respond(c, st, err)
}

func (h *Handler) setColor(c *gin.Context) {
	var req colorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "color is required"})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.SetColor(req.Color)
	h.respond(c, st, err)
}

func (h *Handler) updateOptions(c *gin.Context) {
	var opts eqdomain.ProjectOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if opts.Type == "" {
		opts.Type = eqdomain.SystemNone
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.UpdateOptions(opts)
	h.respond(c, st, err)
}

func (h *Handler) addRoom(c *gin.Context) {
	var room roomdomain.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.AddRoom(room)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": st})
}

func (h *Handler) updateRoom(c *gin.Context) {
	var room roomdomain.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	room.ID = c.Param("roomId")
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.UpdateRoom(room)
	h.respond(c, st, err)
}

func (h *Handler) deleteRoom(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.DeleteRoom(c.Param("roomId"))
	h.respond(c, st, err)
}

func (h *Handler) beginRoomEdit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.BeginRoomEdit(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) confirmRoomEdit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.ConfirmRoomEdit()
	h.respond(c, st, err)
}

func (h *Handler) purge(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.Purge(c.Request.Context())
	h.respond(c, st, err)
}

func (h *Handler) revalidate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	st, err := s.Revalidate(c.Request.Context())
	if err != nil && st.ProjectID != "" {
		// The last good verdict stays visible next to the failure.
		h.failWith(c, err, gin.H{"session": st})
		return
	}
	h.respond(c, st, err)
}

func (h *Handler) applySuggestions(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	report, st, err := s.ApplySuggestions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"applied":    report.Applied,
		"unresolved": report.Unresolved,
		"session":    st,
	})
}

// session returns the project's live session, loading it on first use.
func (h *Handler) session(c *gin.Context) (*service.Session, bool) {
	s, err := h.sessions.Acquire(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) respond(c *gin.Context, st service.Status, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": st})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.failWith(c, err, nil)
}

func (h *Handler) failWith(c *gin.Context, err error, extra gin.H) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Warn("session request failed",
			zap.String("project_id", c.Param("projectId")),
			zap.String("user_id", auth.UserFirebaseUID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	body := gin.H{"ok": false, "error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, eqdomain.ErrEquipmentNotFound),
		errors.Is(err, roomdomain.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, eqdomain.ErrMalformedEquipment),
		errors.Is(err, eqdomain.ErrInvalidMetadata),
		errors.Is(err, roomdomain.ErrInvalidRoom),
		errors.Is(err, roomdomain.ErrDuplicateRoomID),
		errors.Is(err, domain.ErrEquipmentNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotLoaded),
		errors.Is(err, compliance.ErrNoRooms),
		errors.Is(err, compliance.ErrVerdictNotFound),
		errors.Is(err, compliance.ErrNoSuggestions):
		return http.StatusConflict
	case errors.Is(err, compliance.ErrValidationUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, writer.ErrPersistenceFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
