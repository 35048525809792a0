package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abplan/abplan-backend/internal/compliance/domain"
)

func (h *Handler) validateRoomEquipment(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	resp, err := h.engine.ValidateRoomEquipment(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) validateGlobalWithDimensioning(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	resp, err := h.engine.ValidateGlobalWithDimensioning(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) health(c *gin.Context) {
	resp, err := h.engine.Health(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func bindRequest(c *gin.Context) (domain.ValidationRequest, bool) {
	var req domain.ValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return req, false
	}
	if req.InstallationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "installation_id is required"})
		return req, false
	}
	if req.Context == nil {
		req.Context = domain.DefaultContext()
	}
	return req, true
}

// fail forwards the engine's status and detail. An unreachable engine is a 503.
func (h *Handler) fail(c *gin.Context, err error) {
	var engineErr *domain.EngineError
	if errors.As(err, &engineErr) {
		status := engineErr.StatusCode
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		h.log.Warn("compliance engine call failed",
			zap.String("op", engineErr.Op),
			zap.Int("status", engineErr.StatusCode),
			zap.String("detail", engineErr.Detail),
		)
		c.JSON(status, gin.H{"ok": false, "error": engineErr.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}
