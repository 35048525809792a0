package http

import "github.com/gin-gonic/gin"

// Register attaches equipment routes to the API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	g := api.Group("/project-equipments")
	g.GET("/:projectId", h.get)
	g.PUT("", h.replace)

	api.GET("/equipment-types", h.types)
}
