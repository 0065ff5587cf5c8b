package events

import (
	"context"
	"time"
)

// Kind enumerates the job lifecycle vocabulary visible to subscribers.
type Kind string

const (
	JobAdded   Kind = "job-added"
	JobRemoved Kind = "job-removed"
	JobStart   Kind = "job-start"
	JobSuccess Kind = "job-success"
	JobRetry   Kind = "job-retry"
	JobFailed  Kind = "job-failed"
)

// Event is one job lifecycle notification.
type Event struct {
	Kind       Kind          `json:"kind"`
	JobID      string        `json:"job_id"`
	JobKind    string        `json:"job_kind"`
	Repository string        `json:"repository"`
	Attempt    int           `json:"attempt,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	At         time.Time     `json:"at"`
}

// Publisher is the write side handed to the queue and scheduler.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus is the full pub/sub surface for external subscribers.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}
