package decision_test

import (
	"context"
	"reflect"
	"testing"

	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/model"
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

func testRepo() model.RepositoryRef {
	return model.RepositoryRef{Owner: "octocat", Name: "hello", FullName: "octocat/hello", DefaultBranch: "main"}
}

func TestEvaluateBreakingDependencyIsCritical(t *testing.T) {
	engine := decision.NewEngine(&mockLogger{}, nil)
	changes := model.ChangeSet{
		Dependencies: []model.DependencyChange{
			{Name: "lodash", Ecosystem: "npm", FromVersion: "4.17.21", ToVersion: "5.0.0", Breaking: true},
		},
	}

	decisions := engine.Evaluate(context.Background(), testRepo(), changes)
	if len(decisions) == 0 {
		t.Fatal("expected at least one decision for a breaking dependency change")
	}

	foundCritical := false
	for _, d := range decisions {
		if d.Priority == model.PriorityCritical {
			foundCritical = true
		}
		if !d.ShouldCreatePR {
			t.Error("expected decisions to request PR creation")
		}
	}
	if !foundCritical {
		t.Errorf("expected a critical decision, got %+v", decisions)
	}
}

func TestEvaluateInsignificantChangesYieldNothing(t *testing.T) {
	engine := decision.NewEngine(&mockLogger{}, nil)
	changes := model.ChangeSet{
		Files: []model.FileChange{
			{Path: "docs/notes.md", Status: "modified", Significant: false},
		},
		ReadmeChanged: true,
	}

	decisions := engine.Evaluate(context.Background(), testRepo(), changes)
	if len(decisions) != 0 {
		t.Errorf("expected no decisions for insignificant changes, got %d", len(decisions))
	}
}

func TestEvaluateDependencyBumpProposesCaching(t *testing.T) {
	engine := decision.NewEngine(&mockLogger{}, nil)
	changes := model.ChangeSet{
		Dependencies: []model.DependencyChange{
			{Name: "react", Ecosystem: "npm", FromVersion: "18.2.0", ToVersion: "18.3.0"},
		},
	}

	decisions := engine.Evaluate(context.Background(), testRepo(), changes)
	if len(decisions) != 1 {
		t.Fatalf("expected 1 decision, got %d", len(decisions))
	}
	d := decisions[0]
	if d.BatchID == "" {
		t.Error("expected batch id assigned")
	}
	hasCaching := false
	for _, c := range d.Changes {
		if c.Category == "caching" {
			hasCaching = true
		}
	}
	if !hasCaching {
		t.Errorf("expected a caching change, got %+v", d.Changes)
	}
}

func TestOptimizeKeepsOnlyUrgentWhenPresent(t *testing.T) {
	in := []decision.AutomationDecision{
		{Priority: model.PriorityCritical, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 5, Confidence: 0.9}},
		{Priority: model.PriorityMedium, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 5, Confidence: 0.9}},
		{Priority: model.PriorityHigh, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 0.2, Confidence: 0.1}},
	}

	out := decision.Optimize(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 urgent decisions kept, got %d", len(out))
	}
	for _, d := range out {
		if d.Priority != model.PriorityCritical && d.Priority != model.PriorityHigh {
			t.Errorf("unexpected priority kept: %s", d.Priority)
		}
	}
}

func TestOptimizeDropsNegligibleWhenNoUrgent(t *testing.T) {
	in := []decision.AutomationDecision{
		{Priority: model.PriorityMedium, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 5, Confidence: 0.8}},
		{Priority: model.PriorityMedium, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 0.5, Confidence: 0.8}},
		{Priority: model.PriorityLow, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 5, Confidence: 0.2}},
	}

	out := decision.Optimize(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 decision kept, got %d", len(out))
	}
	if out[0].Impact.TimeSavingsMinutes != 5 || out[0].Impact.Confidence != 0.8 {
		t.Errorf("wrong decision kept: %+v", out[0])
	}
}

func TestOptimizeIdempotent(t *testing.T) {
	in := []decision.AutomationDecision{
		{Priority: model.PriorityHigh, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 12, Confidence: 0.9}},
		{Priority: model.PriorityMedium, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 3, Confidence: 0.7}},
		{Priority: model.PriorityLow, Impact: decision.PerformanceImpact{TimeSavingsMinutes: 0.1, Confidence: 0.1}},
	}

	once := decision.Optimize(in)
	twice := decision.Optimize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("optimize not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}
