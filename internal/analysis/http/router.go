package http

import "github.com/gin-gonic/gin"

// Register attaches the analysis route under a projects group.
func (h *Handler) Register(projects *gin.RouterGroup) {
	projects.POST("/:id/analyze", h.analyze)
}
