package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cicd-workflow-automation/internal/automation"
	"cicd-workflow-automation/internal/rules"
	"cicd-workflow-automation/internal/scheduler"
	"cicd-workflow-automation/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Webhook ingress
	webhookHandler interface {
		HandleGitHubWebhook(c *gin.Context)
	}

	// Domains
	automationUC automation.UseCase
	rulesStore   *rules.Store
	sched        *scheduler.Scheduler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	WebhookHandler interface {
		HandleGitHubWebhook(c *gin.Context)
	}

	AutomationUC automation.UseCase
	RulesStore   *rules.Store
	Scheduler    *scheduler.Scheduler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.Default(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		webhookHandler: cfg.WebhookHandler,
		automationUC:   cfg.AutomationUC,
		rulesStore:     cfg.RulesStore,
		sched:          cfg.Scheduler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
