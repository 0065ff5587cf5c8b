package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	automationHTTP "cicd-workflow-automation/internal/automation/delivery/http"
	rulesHTTP "cicd-workflow-automation/internal/rules/delivery/http"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
	srv.gin.GET("/metrics/scheduler", srv.schedulerMetrics)
}

// registerDomainRoutes registers all domain routes.
func (srv *HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.POST("/webhook/github", srv.webhookHandler.HandleGitHubWebhook)
		srv.l.Infof(ctx, "GitHub webhook route registered at POST /webhook/github")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping ingress route")
	}

	api := srv.gin.Group("/api/v1")

	if srv.rulesStore != nil {
		h := rulesHTTP.New(srv.l, srv.rulesStore)
		rulesHTTP.RegisterRoutes(api, h)
		srv.l.Infof(ctx, "Rules admin routes registered under /api/v1/rules")
	}

	if srv.automationUC != nil {
		h := automationHTTP.New(srv.l, srv.automationUC)
		automationHTTP.RegisterRoutes(api, h)
		srv.l.Infof(ctx, "Automation routes registered under /api/v1")
	}

	return nil
}
