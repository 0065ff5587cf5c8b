package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	decisions := rg.Group("/decisions")
	{
		decisions.POST("/evaluate", h.EvaluateDecisions)
		decisions.POST("/apply", h.ApplyDecisions)
	}

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.SubmitTask)
	}
}
