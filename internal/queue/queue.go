package queue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/pkg/events"
	"cicd-workflow-automation/pkg/log"
)

// ErrNotFound is returned when a job id is not in the queue.
var ErrNotFound = errors.New("job not found")

// Queue holds pending analysis jobs ordered by priority (descending)
// then enqueue time (ascending). The store is an id-keyed arena; the
// ordering is computed over a snapshot on read, so reprioritization is
// a field update under the lock rather than a remove+reinsert.
//
// Concurrency is not the queue's concern: the scheduler is the single
// writer for retry/priority mutation, and reads are safe under RLock.
type Queue struct {
	mu   sync.RWMutex
	jobs map[string]*model.AnalysisJob

	pub events.Publisher
	l   log.Logger
}

// New creates an empty queue. pub may be nil when lifecycle
// notifications are not wanted (tests).
func New(l log.Logger, pub events.Publisher) *Queue {
	return &Queue{
		jobs: make(map[string]*model.AnalysisJob),
		pub:  pub,
		l:    l,
	}
}

// Enqueue adds a job and returns its id. A missing id is generated and
// a zero enqueue time is stamped here.
func (q *Queue) Enqueue(ctx context.Context, job *model.AnalysisJob) (string, error) {
	if job == nil {
		return "", errors.New("nil job")
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.mu.Unlock()

	q.emit(ctx, events.Event{
		Kind:       events.JobAdded,
		JobID:      job.ID,
		JobKind:    string(job.Kind),
		Repository: job.Repository.FullName,
		At:         time.Now(),
	})
	return job.ID, nil
}

// Get returns the job with the given id.
func (q *Queue) Get(id string) (*model.AnalysisJob, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	job, ok := q.jobs[id]
	return job, ok
}

// Remove deletes a job from the queue.
func (q *Queue) Remove(ctx context.Context, id string) bool {
	q.mu.Lock()
	job, ok := q.jobs[id]
	if ok {
		delete(q.jobs, id)
	}
	q.mu.Unlock()

	if !ok {
		return false
	}
	q.emit(ctx, events.Event{
		Kind:       events.JobRemoved,
		JobID:      job.ID,
		JobKind:    string(job.Kind),
		Repository: job.Repository.FullName,
		At:         time.Now(),
	})
	return true
}

// List returns all pending jobs in selection order: priority
// descending, then enqueue time ascending.
func (q *Queue) List() []*model.AnalysisJob {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]*model.AnalysisJob, 0, len(q.jobs))
	for _, job := range q.jobs {
		out = append(out, job)
	}

	// Sort under the lock: Reprioritize writes Priority concurrently.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		if !out[i].EnqueuedAt.Equal(out[j].EnqueuedAt) {
			return out[i].EnqueuedAt.Before(out[j].EnqueuedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len reports the number of pending jobs.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.jobs)
}

// Reprioritize atomically updates a job's priority. The selection
// order picks the change up on the next read.
func (q *Queue) Reprioritize(ctx context.Context, id string, priority int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return ErrNotFound
	}
	job.Priority = priority
	return nil
}

// Drain processes every currently pending job once, in selection
// order, removing each job fn handles without error. Jobs enqueued
// while draining are not visited.
func (q *Queue) Drain(ctx context.Context, fn func(ctx context.Context, job *model.AnalysisJob) error) error {
	var errs error
	for _, job := range q.List() {
		if err := fn(ctx, job); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		q.Remove(ctx, job.ID)
	}
	return errs
}

func (q *Queue) emit(ctx context.Context, event events.Event) {
	if q.pub == nil {
		return
	}
	if err := q.pub.Publish(ctx, event); err != nil && q.l != nil {
		q.l.Warnf(ctx, "Failed to publish %s for job %s: %v", event.Kind, event.JobID, err)
	}
}
