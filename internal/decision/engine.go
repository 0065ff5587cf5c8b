package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/rules"
	"cicd-workflow-automation/pkg/log"
)

// RuleEvaluator is the rule engine surface the decision pipeline needs.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, ec rules.EvaluationContext) []rules.EvaluationResult
}

// Engine turns a change-set plus fired rules into scored, batched
// automation decisions. Each stage is fault-isolated: a stage failure
// degrades to a safe default and a warning, never an aborted call.
type Engine struct {
	rules RuleEvaluator
	l     log.Logger
}

// NewEngine creates a decision engine. evaluator may be nil; the
// evaluate-rules stage then contributes nothing.
func NewEngine(l log.Logger, evaluator RuleEvaluator) *Engine {
	return &Engine{rules: evaluator, l: l}
}

// classification is the classify stage's summary of a change-set.
type classification struct {
	HasBreaking        bool
	DependencyCount    int
	SignificantConfigs int
	SignificantFiles   int
	ReadmeOnly         bool
}

// Evaluate runs the full stage sequence over one change-set:
// classify -> evaluate-rules -> generate-workflow-changes ->
// make-decisions -> score -> batch -> optimize.
func (e *Engine) Evaluate(ctx context.Context, repo model.RepositoryRef, changes model.ChangeSet) []AutomationDecision {
	var cls classification
	e.stage(ctx, "classify", func() {
		cls = classify(changes)
	})

	var evaluated []rules.EvaluationResult
	e.stage(ctx, "evaluate-rules", func() {
		evaluated = e.evaluateRules(ctx, repo, changes)
	})

	var proposals []WorkflowChange
	e.stage(ctx, "generate-workflow-changes", func() {
		proposals = generateWorkflowChanges(cls, changes)
	})

	var decisions []AutomationDecision
	e.stage(ctx, "make-decisions", func() {
		decisions = makeDecisions(proposals, cls, evaluated, repo)
	})

	e.stage(ctx, "score", func() {
		decisions = score(decisions, cls)
	})

	e.stage(ctx, "batch", func() {
		decisions = batch(decisions)
	})

	e.stage(ctx, "optimize", func() {
		decisions = Optimize(decisions)
	})

	return decisions
}

// stage runs one pipeline stage with panic isolation. On failure the
// stage's outputs keep their prior (safe default) values.
func (e *Engine) stage(ctx context.Context, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.l.Warnf(ctx, "Decision stage %s failed, using safe default: %v", name, r)
		}
	}()
	fn()
}

func classify(cs model.ChangeSet) classification {
	cls := classification{
		HasBreaking:     cs.HasBreakingDependency(),
		DependencyCount: len(cs.Dependencies),
	}
	for _, c := range cs.Configs {
		if c.Significant {
			cls.SignificantConfigs++
		}
	}
	for _, f := range cs.Files {
		if f.Significant {
			cls.SignificantFiles++
		}
	}
	cls.ReadmeOnly = cs.ReadmeChanged && cls.DependencyCount == 0 &&
		cls.SignificantConfigs == 0 && cls.SignificantFiles == 0
	return cls
}

func (e *Engine) evaluateRules(ctx context.Context, repo model.RepositoryRef, changes model.ChangeSet) []rules.EvaluationResult {
	if e.rules == nil {
		return nil
	}
	results := e.rules.Evaluate(ctx, rules.EvaluationContext{
		Repository: repo,
		Changes:    &changes,
		Timestamp:  time.Now(),
	})
	for _, c := range rules.DetectConflicts(results) {
		e.l.Warnf(ctx, "Rule conflict detected: %s", c.Description)
	}
	return results
}

// generateWorkflowChanges inspects the classified diff and proposes
// concrete workflow edits.
func generateWorkflowChanges(cls classification, cs model.ChangeSet) []WorkflowChange {
	var out []WorkflowChange

	if cls.DependencyCount > 0 {
		out = append(out, WorkflowChange{
			Operation:   OperationUpdate,
			Path:        ".github/workflows/ci.yml",
			Content:     cacheTuningSnippet(cs.Dependencies),
			Description: fmt.Sprintf("Tune dependency caching for %d updated package(s)", cls.DependencyCount),
			Category:    "caching",
		})
	}
	if cls.HasBreaking {
		out = append(out, WorkflowChange{
			Operation:   OperationCreate,
			Path:        ".github/workflows/security-scan.yml",
			Content:     enhancedScanSnippet(),
			Description: "Add enhanced dependency scanning for breaking version bumps",
			Category:    "security",
		})
	}
	if cls.SignificantConfigs > 0 {
		out = append(out, WorkflowChange{
			Operation:   OperationUpdate,
			Path:        ".github/workflows/ci.yml",
			Content:     configValidationSnippet(),
			Description: fmt.Sprintf("Validate %d changed build configuration file(s) in CI", cls.SignificantConfigs),
			Category:    "maintenance",
		})
	}

	return out
}

// makeDecisions wraps non-empty change proposals into decisions with an
// initial priority and an impact estimate. Rule confidence, when the
// evaluation pass produced any, feeds the estimate.
func makeDecisions(proposals []WorkflowChange, cls classification, evaluated []rules.EvaluationResult, repo model.RepositoryRef) []AutomationDecision {
	if len(proposals) == 0 {
		return nil
	}

	impact := estimateImpact(proposals, cls)
	if c := maxRuleConfidence(evaluated); c > impact.Confidence {
		impact.Confidence = c
	}

	rationale := fmt.Sprintf("%d workflow change(s) proposed for %s", len(proposals), repo.FullName)
	if cls.HasBreaking {
		rationale += "; includes breaking dependency updates"
	}

	return []AutomationDecision{{
		ShouldCreatePR: true,
		Changes:        proposals,
		Priority:       model.PriorityMedium,
		Rationale:      rationale,
		Impact:         impact,
	}}
}

func estimateImpact(proposals []WorkflowChange, cls classification) PerformanceImpact {
	impact := PerformanceImpact{Confidence: 0.5}
	for _, p := range proposals {
		switch p.Category {
		case "caching":
			impact.TimeSavingsMinutes += 4 * float64(cls.DependencyCount)
			impact.MonthlyCostDelta += 1.5 * float64(cls.DependencyCount)
		case "security":
			// Scanning costs a little build time but prevents incidents.
			impact.TimeSavingsMinutes -= 1
			impact.Confidence += 0.2
		case "maintenance":
			impact.TimeSavingsMinutes += 1
		}
	}
	if impact.Confidence > 1.0 {
		impact.Confidence = 1.0
	}
	impact.Rationale = fmt.Sprintf("estimated %.1f min/build saved, %.2f monthly cost delta",
		impact.TimeSavingsMinutes, impact.MonthlyCostDelta)
	return impact
}

func maxRuleConfidence(results []rules.EvaluationResult) float64 {
	max := 0.0
	for _, r := range results {
		if r.Triggered && r.ConditionsMet && r.Confidence > max {
			max = r.Confidence
		}
	}
	return max
}

// score recomputes each decision's priority by fixed precedence.
func score(decisions []AutomationDecision, cls classification) []AutomationDecision {
	for i := range decisions {
		d := &decisions[i]
		switch {
		case cls.HasBreaking:
			d.Priority = model.PriorityCritical
		case d.Impact.MonthlyCostDelta > 5:
			d.Priority = model.PriorityHigh
		case d.Impact.TimeSavingsMinutes > 10:
			d.Priority = model.PriorityHigh
		case d.Impact.MonthlyCostDelta > 1:
			d.Priority = model.PriorityMedium
		case len(d.Changes) > 0:
			d.Priority = model.PriorityMedium
		default:
			d.Priority = model.PriorityLow
		}
	}
	return decisions
}

// batch stamps every decision in the pass with one shared batch id.
func batch(decisions []AutomationDecision) []AutomationDecision {
	if len(decisions) == 0 {
		return decisions
	}
	id := uuid.NewString()
	for i := range decisions {
		decisions[i].BatchID = id
	}
	return decisions
}

// Optimize prunes the decision list: if any decision is high or
// critical, keep only those; otherwise drop decisions with negligible
// estimated savings or low confidence. Idempotent.
func Optimize(decisions []AutomationDecision) []AutomationDecision {
	hasUrgent := false
	for _, d := range decisions {
		if d.Priority == model.PriorityHigh || d.Priority == model.PriorityCritical {
			hasUrgent = true
			break
		}
	}

	out := make([]AutomationDecision, 0, len(decisions))
	for _, d := range decisions {
		if hasUrgent {
			if d.Priority == model.PriorityHigh || d.Priority == model.PriorityCritical {
				out = append(out, d)
			}
			continue
		}
		if d.Impact.TimeSavingsMinutes < 1 || d.Impact.Confidence < 0.3 {
			continue
		}
		out = append(out, d)
	}
	return out
}
