package automation_test

import (
	"context"
	"testing"
	"time"

	"cicd-workflow-automation/internal/automation"
	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/pullrequest"
	"cicd-workflow-automation/internal/queue"
	"cicd-workflow-automation/internal/scheduler"
	"cicd-workflow-automation/pkg/github"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type stubSCM struct{ created int }

func (s *stubSCM) BranchHeadSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	return "abc123", nil
}
func (s *stubSCM) CreateBranch(ctx context.Context, owner, repo, branch, fromSHA string) error {
	return nil
}
func (s *stubSCM) CommitFile(ctx context.Context, owner, repo string, in github.CommitFileInput) error {
	return nil
}
func (s *stubSCM) DeleteFile(ctx context.Context, owner, repo, branch, path, message string) error {
	return nil
}
func (s *stubSCM) CreatePullRequest(ctx context.Context, owner, repo string, in github.PullRequestInput) (*github.PullRequest, error) {
	s.created++
	return &github.PullRequest{Number: s.created, HeadBranch: in.HeadBranch}, nil
}
func (s *stubSCM) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]github.PullRequest, error) {
	return nil, nil
}

func newFixture(t *testing.T) (automation.UseCase, *queue.Queue, *stubSCM) {
	t.Helper()
	l := &mockLogger{}
	q := queue.New(l, nil)
	sched := scheduler.New(l, q, nil, scheduler.Config{
		Workers:        1,
		RetryBaseDelay: time.Millisecond,
		RetryMaxDelay:  5 * time.Millisecond,
		IdleInterval:   5 * time.Millisecond,
	})
	scm := &stubSCM{}
	uc := automation.New(
		q,
		sched,
		decision.NewEngine(l, nil),
		pullrequest.NewCreator(l, scm, pullrequest.Config{}),
		l,
	)
	return uc, q, scm
}

func testRepo() model.RepositoryRef {
	return model.RepositoryRef{Owner: "octocat", Name: "hello", FullName: "octocat/hello", DefaultBranch: "main"}
}

func TestSubmitWebhookEvent(t *testing.T) {
	uc, q, _ := newFixture(t)
	sc := model.Scope{UserID: "system_webhook"}

	t.Run("queues with event priority weight", func(t *testing.T) {
		out, err := uc.SubmitWebhookEvent(context.Background(), sc, automation.SubmitWebhookEventInput{
			Event: model.WebhookEvent{
				Kind:       model.EventRelease,
				Repository: testRepo(),
				Priority:   model.PriorityHigh,
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		job, ok := q.Get(out.JobID)
		if !ok {
			t.Fatal("job not in queue")
		}
		if job.Priority != model.PriorityHigh.Weight() {
			t.Errorf("expected priority %d, got %d", model.PriorityHigh.Weight(), job.Priority)
		}
		if job.Kind != model.JobAutomationAnalysis {
			t.Errorf("expected automation-analysis job, got %s", job.Kind)
		}
	})

	t.Run("rejects missing priority", func(t *testing.T) {
		_, err := uc.SubmitWebhookEvent(context.Background(), sc, automation.SubmitWebhookEventInput{
			Event: model.WebhookEvent{Kind: model.EventPush, Repository: testRepo()},
		})
		if err == nil {
			t.Error("expected error for event without priority")
		}
	})

	t.Run("rejects missing repository identity", func(t *testing.T) {
		_, err := uc.SubmitWebhookEvent(context.Background(), sc, automation.SubmitWebhookEventInput{
			Event: model.WebhookEvent{Kind: model.EventPush, Priority: model.PriorityMedium},
		})
		if err == nil {
			t.Error("expected error for event without repository")
		}
	})
}

func TestSubmitRepositoryChanges(t *testing.T) {
	uc, q, _ := newFixture(t)
	sc := model.Scope{UserID: "tester"}

	changes := model.ChangeSet{
		Dependencies: []model.DependencyChange{{Name: "react", Ecosystem: "npm"}},
	}
	out, err := uc.SubmitRepositoryChanges(context.Background(), sc, automation.SubmitChangesInput{
		Repository: testRepo(),
		Changes:    changes,
		Priority:   model.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	job, ok := q.Get(out.JobID)
	if !ok {
		t.Fatal("job not in queue")
	}
	payload, ok := job.Payload.(model.AutomationAnalysisPayload)
	if !ok {
		t.Fatalf("expected AutomationAnalysisPayload, got %T", job.Payload)
	}
	if len(payload.Changes.Dependencies) != 1 {
		t.Errorf("payload changes lost: %+v", payload.Changes)
	}
}

func TestSubmitAnalysisTask(t *testing.T) {
	uc, q, _ := newFixture(t)
	sc := model.Scope{UserID: "tester"}

	out, err := uc.SubmitAnalysisTask(context.Background(), sc, automation.SubmitTaskInput{
		Kind:       model.JobReadmeAnalysis,
		Repository: testRepo(),
		Priority:   model.PriorityLow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job, _ := q.Get(out.JobID)
	if _, ok := job.Payload.(model.ReadmeAnalysisPayload); !ok {
		t.Errorf("expected default ReadmeAnalysisPayload, got %T", job.Payload)
	}

	if _, err := uc.SubmitAnalysisTask(context.Background(), sc, automation.SubmitTaskInput{
		Kind:       "bogus",
		Repository: testRepo(),
	}); err == nil {
		t.Error("expected error for unknown job kind")
	}
}

func TestEvaluateAndCreatePRs(t *testing.T) {
	uc, _, scm := newFixture(t)
	sc := model.Scope{UserID: "tester"}

	changes := model.ChangeSet{
		Dependencies: []model.DependencyChange{
			{Name: "lodash", Ecosystem: "npm", FromVersion: "4.17.21", ToVersion: "5.0.0", Breaking: true},
		},
	}

	decisions, err := uc.EvaluateChanges(context.Background(), sc, automation.EvaluateChangesInput{
		Repository: testRepo(),
		Changes:    changes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decisions) == 0 {
		t.Fatal("expected decisions for breaking dependency change")
	}

	results, err := uc.CreatePRsForDecisions(context.Background(), sc, automation.CreatePRsInput{
		Repository: testRepo(),
		Decisions:  decisions,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 || !results[0].Success {
		t.Fatalf("expected a successful PR result, got %+v", results)
	}
	if scm.created == 0 {
		t.Error("expected a PR opened on the SCM")
	}
}
