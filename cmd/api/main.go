package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cicd-workflow-automation/config"
	"cicd-workflow-automation/internal/automation"
	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/httpserver"
	"cicd-workflow-automation/internal/pullrequest"
	"cicd-workflow-automation/internal/queue"
	"cicd-workflow-automation/internal/rules"
	"cicd-workflow-automation/internal/scheduler"
	"cicd-workflow-automation/internal/webhook"
	"cicd-workflow-automation/pkg/events"
	"cicd-workflow-automation/pkg/github"
	"cicd-workflow-automation/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting CI/CD workflow automation...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Lifecycle event bus
	bus := events.NewBus()
	defer bus.Close()

	// 4. Queue and scheduler
	jobQueue := queue.New(logger, bus)
	sched := scheduler.New(logger, jobQueue, bus, scheduler.Config{
		Workers:        cfg.Scheduler.Workers,
		RetryBaseDelay: cfg.Scheduler.RetryBaseDelay,
		RetryMaxDelay:  cfg.Scheduler.RetryMaxDelay,
		IdleInterval:   cfg.Scheduler.IdleInterval,
		JobTimeout:     cfg.Scheduler.JobTimeout,
	})

	// 5. Rule engine
	rulesStore := rules.NewStore()
	ruleEngine := rules.NewEngine(logger, rulesStore, rules.NewDefaultExecutor(logger, nil))

	// 6. Decision engine
	decisionEngine := decision.NewEngine(logger, ruleEngine)

	// 7. SCM client and PR creator
	var creator *pullrequest.Creator
	if cfg.GitHub.Token != "" {
		scm, ghErr := github.NewClient(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL)
		if ghErr != nil {
			logger.Error(ctx, "Failed to create GitHub client: ", ghErr)
			return
		}
		creator = pullrequest.NewCreator(logger, scm, pullrequest.Config{
			HourlyLimit:          cfg.PullRequest.HourlyLimit,
			BranchPrefix:         cfg.PullRequest.BranchPrefix,
			ConflictAvoidance:    cfg.PullRequest.ConflictAvoidance,
			AutoResolveConflicts: cfg.PullRequest.AutoResolveConflicts,
		})
	} else {
		logger.Warn(ctx, "GITHUB_TOKEN not set, pull request creation disabled")
	}

	// 8. Automation use case (registers job handlers on the scheduler)
	automationUC := automation.New(
		jobQueue,
		sched,
		decisionEngine,
		creator,
		logger,
		automation.WithMaxRetries(cfg.Scheduler.MaxRetries),
	)

	// 9. Webhook ingress
	var webhookHandler *webhook.Handler
	if cfg.Webhook.Enabled {
		if cfg.Webhook.Secret == "" {
			logger.Warn(ctx, "WEBHOOK_SECRET not set, all deliveries will be rejected")
		}
		webhookHandler = webhook.NewHandler(automationUC, webhook.SecurityConfig{
			Secret:             cfg.Webhook.Secret,
			AllowedIPs:         cfg.Webhook.AllowedIPs,
			RateLimitPerMin:    cfg.Webhook.RateLimitPerMin,
			MaxBodyBytes:       cfg.Webhook.MaxBodyBytes,
			TimestampTolerance: cfg.Webhook.TimestampTolerance,
		}, logger)
	}

	// 10. Start the scheduler
	sched.Start(ctx)
	defer sched.Stop()

	// 11. HTTP server
	serverCfg := httpserver.Config{
		Logger:       logger,
		Port:         cfg.HTTPServer.Port,
		Mode:         cfg.HTTPServer.Mode,
		Environment:  cfg.Environment.Name,
		AutomationUC: automationUC,
		RulesStore:   rulesStore,
		Scheduler:    sched,
	}
	if webhookHandler != nil {
		serverCfg.WebhookHandler = webhookHandler
	}

	httpServer, err := httpserver.New(logger, serverCfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 12. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
