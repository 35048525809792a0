package http

import "github.com/gin-gonic/gin"

// Register attaches room routes under a projects group.
func (h *Handler) Register(projects *gin.RouterGroup) {
	projects.GET("/:id/rooms", h.get)
	projects.PUT("/:id/rooms", h.replace)
	projects.DELETE("/:id/rooms", h.purge)
}
