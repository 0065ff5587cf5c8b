package scheduler

import (
	"context"
	"time"

	"cicd-workflow-automation/internal/model"
)

// JobHandler executes jobs of one kind. The returned data lands in the
// JobResult; a non-nil error triggers the retry path.
type JobHandler interface {
	Handle(ctx context.Context, job *model.AnalysisJob) (any, error)
}

// JobHandlerFunc adapts a function to JobHandler.
type JobHandlerFunc func(ctx context.Context, job *model.AnalysisJob) (any, error)

// Handle implements JobHandler.
func (f JobHandlerFunc) Handle(ctx context.Context, job *model.AnalysisJob) (any, error) {
	return f(ctx, job)
}

// Config controls the scheduler. Zero fields fall back to defaults.
type Config struct {
	Workers        int           // concurrency ceiling, default 3
	RetryBaseDelay time.Duration // default 1s
	RetryMaxDelay  time.Duration // backoff cap, default 5m
	IdleInterval   time.Duration // sleep between empty sweeps, default 5s
	JobTimeout     time.Duration // advisory only; overruns are logged
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 3
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = 5 * time.Minute
	}
	if c.IdleInterval <= 0 {
		c.IdleInterval = 5 * time.Second
	}
	return c
}

// Metrics is an advisory snapshot of scheduler activity.
type Metrics struct {
	Processed  int64
	Failed     int64
	AvgLatency time.Duration
}
