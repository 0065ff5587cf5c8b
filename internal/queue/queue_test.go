package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/queue"
	"cicd-workflow-automation/pkg/events"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Kind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

func newJob(kind model.JobKind, priority int, enqueued time.Time) *model.AnalysisJob {
	return &model.AnalysisJob{
		Kind:       kind,
		Repository: model.RepositoryRef{Owner: "octocat", Name: "hello", FullName: "octocat/hello"},
		Priority:   priority,
		EnqueuedAt: enqueued,
		MaxRetries: 3,
	}
}

func TestQueueOrdering(t *testing.T) {
	ctx := context.Background()
	q := queue.New(nil, nil)

	base := time.Now()

	// Lower priority job enqueued first must still be selected after
	// the higher priority one.
	lowID, _ := q.Enqueue(ctx, newJob(model.JobReadmeAnalysis, 2, base))
	highID, _ := q.Enqueue(ctx, newJob(model.JobAutomationAnalysis, 10, base.Add(time.Second)))

	jobs := q.List()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != highID {
		t.Errorf("expected high-priority job first, got %s", jobs[0].ID)
	}
	if jobs[1].ID != lowID {
		t.Errorf("expected low-priority job second, got %s", jobs[1].ID)
	}
}

func TestQueueFIFOWithinPriority(t *testing.T) {
	ctx := context.Background()
	q := queue.New(nil, nil)

	base := time.Now()
	firstID, _ := q.Enqueue(ctx, newJob(model.JobYAMLGeneration, 5, base))
	secondID, _ := q.Enqueue(ctx, newJob(model.JobYAMLGeneration, 5, base.Add(time.Millisecond)))

	jobs := q.List()
	if jobs[0].ID != firstID || jobs[1].ID != secondID {
		t.Errorf("expected FIFO order within one priority, got %s then %s", jobs[0].ID, jobs[1].ID)
	}
}

func TestQueueReprioritize(t *testing.T) {
	ctx := context.Background()
	q := queue.New(nil, nil)

	base := time.Now()
	oldID, _ := q.Enqueue(ctx, newJob(model.JobReadmeAnalysis, 2, base))
	q.Enqueue(ctx, newJob(model.JobFrameworkDetection, 5, base.Add(time.Second)))

	if err := q.Reprioritize(ctx, oldID, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jobs := q.List()
	if jobs[0].ID != oldID {
		t.Errorf("expected reprioritized job first, got %s", jobs[0].ID)
	}

	if err := q.Reprioritize(ctx, "missing", 1); err != queue.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQueueConcurrentListAndReprioritize(t *testing.T) {
	ctx := context.Background()
	q := queue.New(nil, nil)

	base := time.Now()
	ids := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		id, _ := q.Enqueue(ctx, newJob(model.JobAutomationAnalysis, i+1, base.Add(time.Duration(i)*time.Millisecond)))
		ids = append(ids, id)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			q.Reprioritize(ctx, ids[i%len(ids)], (i%10)+1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if jobs := q.List(); len(jobs) != len(ids) {
				t.Errorf("expected %d jobs, got %d", len(ids), len(jobs))
				return
			}
		}
	}()
	wg.Wait()
}

func TestQueueNotifications(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	q := queue.New(nil, pub)

	id, _ := q.Enqueue(ctx, newJob(model.JobReadmeAnalysis, 5, time.Now()))
	if !q.Remove(ctx, id) {
		t.Fatal("expected remove to succeed")
	}
	if q.Remove(ctx, id) {
		t.Error("expected second remove to report missing")
	}

	kinds := pub.kinds()
	if len(kinds) != 2 || kinds[0] != events.JobAdded || kinds[1] != events.JobRemoved {
		t.Errorf("expected [job-added job-removed], got %v", kinds)
	}
}

func TestQueueDrain(t *testing.T) {
	ctx := context.Background()
	q := queue.New(nil, nil)

	base := time.Now()
	q.Enqueue(ctx, newJob(model.JobReadmeAnalysis, 1, base))
	q.Enqueue(ctx, newJob(model.JobAutomationAnalysis, 8, base))

	var visited []model.JobKind
	err := q.Drain(ctx, func(ctx context.Context, job *model.AnalysisJob) error {
		visited = append(visited, job.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(visited) != 2 || visited[0] != model.JobAutomationAnalysis {
		t.Errorf("expected high-priority job drained first, got %v", visited)
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue after drain, got %d", q.Len())
	}
}
