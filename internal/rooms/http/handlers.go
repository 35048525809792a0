package http

import (
	"errors"
	"net/http"

	"github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/gin-gonic/gin"
)

func (h *Handler) get(c *gin.Context) {
	pr, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pr)
}

func (h *Handler) replace(c *gin.Context) {
	var req replaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	pr, err := h.svc.Replace(c.Request.Context(), c.Param("id"), req.Rooms)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pr)
}

func (h *Handler) purge(c *gin.Context) {
	pr, err := h.svc.Purge(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pr)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRoom), errors.Is(err, domain.ErrDuplicateRoomID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRoomNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
