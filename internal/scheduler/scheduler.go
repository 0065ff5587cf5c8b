package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/queue"
	"cicd-workflow-automation/pkg/events"
	"cicd-workflow-automation/pkg/log"
)

// Scheduler sweeps the queue while running, executing up to
// Config.Workers jobs concurrently. Failed jobs back off exponentially
// (base * 2^retryCount, capped) and re-enter the normal selection
// pool; exhausted jobs are removed permanently. Stopping only prevents
// new sweeps; dispatched executions run to completion.
type Scheduler struct {
	cfg      Config
	queue    *queue.Queue
	handlers map[model.JobKind]JobHandler
	pub      events.Publisher
	l        log.Logger

	sem  chan struct{}
	wake chan struct{}
	stop chan struct{}

	mu       sync.Mutex
	running  bool
	inflight map[string]bool

	processed    int64
	failed       int64
	totalLatency time.Duration
}

// New creates a scheduler over the given queue. Handlers are
// registered per job kind before Start.
func New(l log.Logger, q *queue.Queue, pub events.Publisher, cfg Config) *Scheduler {
	cfg = cfg.withDefaults()
	return &Scheduler{
		cfg:      cfg,
		queue:    q,
		handlers: make(map[model.JobKind]JobHandler),
		pub:      pub,
		l:        l,
		sem:      make(chan struct{}, cfg.Workers),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		inflight: make(map[string]bool),
	}
}

// Register installs the handler for a job kind. Not safe to call after
// Start.
func (s *Scheduler) Register(kind model.JobKind, handler JobHandler) {
	s.handlers[kind] = handler
}

// Start launches the sweep loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.loop(ctx)
}

// Stop prevents further sweeps. In-flight jobs are not cancelled.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
}

// Wake asks for an immediate sweep, used after enqueuing onto a
// backlog instead of waiting out the idle interval.
func (s *Scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Metrics returns an advisory activity snapshot.
func (s *Scheduler) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := Metrics{Processed: s.processed, Failed: s.failed}
	if s.processed > 0 {
		m.AvgLatency = s.totalLatency / time.Duration(s.processed)
	}
	return m
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		dispatched := s.sweep(ctx)

		if dispatched > 0 {
			// Backlog may remain, re-sweep immediately.
			continue
		}

		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-time.After(s.cfg.IdleInterval):
		}
	}
}

// sweep selects the highest-priority pending jobs that are not already
// executing or backing off, up to free worker capacity, and dispatches
// them.
func (s *Scheduler) sweep(ctx context.Context) int {
	select {
	case <-s.stop:
		return 0
	default:
	}

	dispatched := 0
	for _, job := range s.queue.List() {
		s.mu.Lock()
		busy := s.inflight[job.ID]
		if !busy {
			s.inflight[job.ID] = true
		}
		s.mu.Unlock()
		if busy {
			continue
		}

		select {
		case s.sem <- struct{}{}:
		default:
			// All workers occupied; put the job back in the pool.
			s.release(job.ID)
			return dispatched
		}

		dispatched++
		go s.execute(ctx, job)
	}
	return dispatched
}

func (s *Scheduler) execute(ctx context.Context, job *model.AnalysisJob) {
	defer func() { <-s.sem }()

	attempt := job.RetryCount + 1
	s.emit(ctx, events.Event{
		Kind:       events.JobStart,
		JobID:      job.ID,
		JobKind:    string(job.Kind),
		Repository: job.Repository.FullName,
		Attempt:    attempt,
		At:         time.Now(),
	})

	handler, ok := s.handlers[job.Kind]
	if !ok {
		// Unknown kind can never succeed; fail terminally.
		s.finishFailed(ctx, job, fmt.Errorf("no handler registered for kind %s", job.Kind))
		return
	}

	start := time.Now()
	_, err := handler.Handle(ctx, job)
	duration := time.Since(start)

	if s.cfg.JobTimeout > 0 && duration > s.cfg.JobTimeout {
		// Timeouts are advisory: log the overrun, never abort.
		s.l.Warnf(ctx, "Job %s (%s) ran %s, over the %s timeout", job.ID, job.Kind, duration, s.cfg.JobTimeout)
	}

	if err == nil {
		s.mu.Lock()
		s.processed++
		s.totalLatency += duration
		s.mu.Unlock()

		s.queue.Remove(ctx, job.ID)
		s.release(job.ID)
		s.emit(ctx, events.Event{
			Kind:       events.JobSuccess,
			JobID:      job.ID,
			JobKind:    string(job.Kind),
			Repository: job.Repository.FullName,
			Attempt:    attempt,
			Duration:   duration,
			At:         time.Now(),
		})
		return
	}

	if job.RetryCount >= job.MaxRetries {
		s.finishFailed(ctx, job, err)
		return
	}

	job.RetryCount++
	delay := backoff(s.cfg.RetryBaseDelay, s.cfg.RetryMaxDelay, job.RetryCount)
	s.l.Warnf(ctx, "Job %s (%s) attempt %d failed, retrying in %s: %v", job.ID, job.Kind, attempt, delay, err)
	s.emit(ctx, events.Event{
		Kind:       events.JobRetry,
		JobID:      job.ID,
		JobKind:    string(job.Kind),
		Repository: job.Repository.FullName,
		Attempt:    job.RetryCount,
		Error:      err.Error(),
		At:         time.Now(),
	})

	// The job stays in the arena; it re-enters the selection pool once
	// the backoff elapses.
	time.AfterFunc(delay, func() {
		s.release(job.ID)
		s.Wake()
	})
}

func (s *Scheduler) finishFailed(ctx context.Context, job *model.AnalysisJob, err error) {
	s.mu.Lock()
	s.failed++
	s.mu.Unlock()

	s.l.Errorf(ctx, "Job %s (%s) failed permanently after %d attempts: %v", job.ID, job.Kind, job.RetryCount+1, err)
	s.queue.Remove(ctx, job.ID)
	s.release(job.ID)
	s.emit(ctx, events.Event{
		Kind:       events.JobFailed,
		JobID:      job.ID,
		JobKind:    string(job.Kind),
		Repository: job.Repository.FullName,
		Attempt:    job.RetryCount + 1,
		Error:      err.Error(),
		At:         time.Now(),
	})
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

func (s *Scheduler) emit(ctx context.Context, event events.Event) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, event); err != nil {
		s.l.Warnf(ctx, "Failed to publish %s for job %s: %v", event.Kind, event.JobID, err)
	}
}

// backoff computes base * 2^retry capped at max.
func backoff(base, max time.Duration, retry int) time.Duration {
	delay := base
	for i := 0; i < retry; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
