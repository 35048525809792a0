package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abplan/abplan-backend/internal/analysis/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
)

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	res, err := h.importer.Analyze(c.Request.Context(), c.Param("id"), req.Images)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrNoImages), errors.Is(err, roomdomain.ErrInvalidRoom):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrAnalysisUnavailable):
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "created": res.Created, "found": res.Found, "rooms": res.Rooms})
}
