package httpserver

import (
	"github.com/gin-gonic/gin"

	"cicd-workflow-automation/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion = "1.0.0"
	ServiceName   = "cicd-workflow-automation"
)

// healthCheck handles health check requests.
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck handles readiness check requests.
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "ready",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// liveCheck handles liveness check requests.
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// schedulerMetrics exposes the scheduler's advisory counters.
func (srv *HTTPServer) schedulerMetrics(c *gin.Context) {
	if srv.sched == nil {
		response.OK(c, gin.H{"enabled": false})
		return
	}
	m := srv.sched.Metrics()
	response.OK(c, gin.H{
		"enabled":        true,
		"processed":      m.Processed,
		"failed":         m.Failed,
		"avg_latency_ms": m.AvgLatency.Milliseconds(),
	})
}
