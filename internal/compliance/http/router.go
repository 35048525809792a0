package http

import "github.com/gin-gonic/gin"

// Register attaches the compliance routes to the /compliance group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/validate/room-equipment", h.validateRoomEquipment)
	rg.POST("/validate/global-with-dimensioning", h.validateGlobalWithDimensioning)
	rg.GET("/health", h.health)
	if h.events != nil {
		rg.GET("/events/:projectId", h.streamVerdicts)
	}
}
