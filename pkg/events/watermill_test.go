package events

import (
	"context"
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sub, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Event{
		Kind:       JobSuccess,
		JobID:      "job-1",
		JobKind:    "automation-analysis",
		Repository: "octocat/hello",
		Attempt:    1,
		At:         time.Now().UTC(),
	}
	if err := bus.Publish(ctx, want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-sub:
		if got.Kind != want.Kind {
			t.Errorf("expected kind %s, got %s", want.Kind, got.Kind)
		}
		if got.JobID != want.JobID {
			t.Errorf("expected job id %s, got %s", want.JobID, got.JobID)
		}
		if got.Repository != want.Repository {
			t.Errorf("expected repository %s, got %s", want.Repository, got.Repository)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	first, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := bus.Subscribe(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := bus.Publish(ctx, Event{Kind: JobRetry, JobID: "job-2", Attempt: 2}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for name, sub := range map[string]<-chan Event{"first": first, "second": second} {
		select {
		case got := <-sub:
			if got.Kind != JobRetry {
				t.Errorf("%s subscriber: expected job-retry, got %s", name, got.Kind)
			}
		case <-ctx.Done():
			t.Fatalf("%s subscriber: timed out", name)
		}
	}
}
