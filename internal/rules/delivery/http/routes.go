package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	rules := rg.Group("/rules")
	{
		rules.POST("", h.Create)
		rules.GET("", h.List)
		rules.GET("/:id", h.Detail)
		rules.PUT("/:id", h.Update)
		rules.DELETE("/:id", h.Delete)
		rules.PATCH("/:id/enabled", h.SetEnabled)
	}
}
