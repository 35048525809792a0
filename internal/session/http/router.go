package http

import "github.com/gin-gonic/gin"

// Register attaches the editing session routes to the /sessions group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/:projectId")
	g.POST("", h.open)
	g.GET("", h.status)
	g.POST("/flush", h.flush)
	g.POST("/writes/retry", h.retryWrites)

	g.POST("/equipment", h.addEquipment)
	g.DELETE("/equipment/:equipmentId", h.removeEquipment)
	g.PATCH("/equipment/:equipmentId/quantity", h.adjustQuantity)
	g.PUT("/color", h.setColor)
	g.PUT("/options", h.updateOptions)

	g.POST("/rooms", h.addRoom)
	g.PUT("/rooms/:roomId", h.updateRoom)
	g.DELETE("/rooms/:roomId", h.deleteRoom)
	g.POST("/rooms/edit", h.beginRoomEdit)
	g.POST("/rooms/edit/confirm", h.confirmRoomEdit)

	g.POST("/purge", h.purge)
	g.POST("/revalidate", h.revalidate)
	g.POST("/suggestions/apply", h.applySuggestions)
}
