package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/abplan/abplan-backend/internal/equipment/domain"
	roomdomain "github.com/abplan/abplan-backend/internal/rooms/domain"
	"github.com/gin-gonic/gin"
)

func (h *Handler) get(c *gin.Context) {
	pe, err := h.svc.Get(c.Request.Context(), c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pe)
}

func (h *Handler) replace(c *gin.Context) {
	var req replaceReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	pe, err := h.svc.Replace(c.Request.Context(), req.ProjectID, req.Equipments)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrMalformedEquipment):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrUnknownProject):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pe)
}

// types lists the equipment catalogue, optionally filtered for a room type.
func (h *Handler) types(c *gin.Context) {
	roomType := c.Query("roomType")
	kitchen := roomdomain.IsKitchen(roomType)

	out := make([]equipmentTypeDTO, 0)
	for _, t := range domain.Catalog() {
		if roomType != "" && !domain.AllowedInRoom(t.Code, kitchen) {
			continue
		}
		out = append(out, equipmentTypeDTO{Code: t.Code, Name: t.Name, Colored: t.Colored, KitchenOnly: t.KitchenOnly})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "types": out})
}
