package rules

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/pkg/log"
)

// Engine evaluates enabled rules against an evaluation context. Rules
// are scanned in descending priority order for sequencing only; each
// rule's outcome is independent.
type Engine struct {
	store    *Store
	executor ActionExecutor
	l        log.Logger
}

// NewEngine creates a rule evaluation engine.
func NewEngine(l log.Logger, store *Store, executor ActionExecutor) *Engine {
	return &Engine{
		store:    store,
		executor: executor,
		l:        l,
	}
}

// Evaluate runs one pass over all enabled rules and returns one result
// per rule.
func (e *Engine) Evaluate(ctx context.Context, ec EvaluationContext) []EvaluationResult {
	enabled := e.store.ListEnabled()
	results := make([]EvaluationResult, 0, len(enabled))
	for _, rule := range enabled {
		results = append(results, e.evaluateRule(ctx, rule, ec))
	}
	return results
}

// evaluateRule walks the per-rule state machine: not-triggered →
// triggered (conditions unmet) → triggered (conditions met) →
// actions-executed.
func (e *Engine) evaluateRule(ctx context.Context, rule *AutomationRule, ec EvaluationContext) EvaluationResult {
	result := EvaluationResult{Rule: rule}

	trigger, why := matchTriggers(rule.Triggers, ec)
	if !trigger {
		result.Reasoning = append(result.Reasoning, "no trigger matched")
		return result
	}
	result.Triggered = true
	result.Reasoning = append(result.Reasoning, why)
	result.Confidence = confidence(rule, ec)

	for _, cond := range rule.Conditions {
		met, err := evalCondition(cond, ec)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			result.Reasoning = append(result.Reasoning, fmt.Sprintf("condition on %q errored: %v", cond.Field, err))
			return result
		}
		if !met {
			result.Reasoning = append(result.Reasoning, fmt.Sprintf("condition on %q not met", cond.Field))
			return result
		}
	}
	result.ConditionsMet = true
	result.Reasoning = append(result.Reasoning, "all conditions met")

	// Actions run in order; one failure never blocks the rest.
	for _, action := range rule.Actions {
		output, err := e.executor.Execute(ctx, action, ec)
		ar := ActionResult{Action: action.Type, Success: err == nil, Output: output}
		if err != nil {
			ar.Error = err.Error()
			result.Errors = append(result.Errors, err.Error())
			e.l.Warnf(ctx, "Rule %s action %s failed: %v", rule.Name, action.Type, err)
		}
		result.Actions = append(result.Actions, ar)
	}
	return result
}

// matchTriggers reports whether any trigger matches and why.
func matchTriggers(triggers []Trigger, ec EvaluationContext) (bool, string) {
	for _, t := range triggers {
		switch t.Type {
		case TriggerWebhookEvent:
			if ec.Event != nil && ec.Event.Kind == t.WebhookEvent {
				return true, fmt.Sprintf("webhook event %s matched", t.WebhookEvent)
			}
		case TriggerChangeKind:
			if matchChangeKind(t.ChangeKind, ec.Changes) {
				return true, fmt.Sprintf("change kind %s matched", t.ChangeKind)
			}
		case TriggerSchedule:
			if t.Schedule != nil && t.Schedule.matches(ec.Timestamp) {
				return true, "schedule window matched"
			}
		case TriggerPerformanceThreshold:
			if t.Performance != nil && t.Performance.breached(ec.Performance) {
				return true, "performance threshold breached"
			}
		case TriggerSecurityAlert:
			if hasOpenAlert(ec.SecurityAlerts) {
				return true, "open security alert present"
			}
		}
	}
	return false, ""
}

func matchChangeKind(kind model.ChangeKind, cs *model.ChangeSet) bool {
	if cs == nil {
		return false
	}
	switch kind {
	case model.ChangeDependency:
		return len(cs.Dependencies) > 0
	case model.ChangeConfiguration:
		return len(cs.Configs) > 0
	case model.ChangeFile:
		return len(cs.Files) > 0
	case model.ChangeReadme:
		return cs.ReadmeChanged
	}
	return false
}

func (w *ScheduleWindow) matches(at time.Time) bool {
	if len(w.Weekdays) > 0 {
		found := false
		for _, d := range w.Weekdays {
			if at.Weekday() == d {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	hour := at.Hour()
	return hour >= w.FromHour && hour < w.ToHour
}

func (t *PerformanceThreshold) breached(snap *model.PerformanceSnapshot) bool {
	if snap == nil {
		return false
	}
	if t.MaxAvgBuildMinutes > 0 && snap.AvgBuildMinutes > t.MaxAvgBuildMinutes {
		return true
	}
	if t.MinSuccessRate > 0 && snap.SuccessRate < t.MinSuccessRate {
		return true
	}
	return false
}

func hasOpenAlert(alerts []model.SecurityAlert) bool {
	for _, a := range alerts {
		if a.Open {
			return true
		}
	}
	return false
}

// confidence = clamp(priority/10 + bonuses, 1.0).
func confidence(rule *AutomationRule, ec EvaluationContext) float64 {
	c := float64(rule.Priority) / 10.0
	if ec.Event != nil {
		c += 0.1
	}
	if ec.Changes != nil && len(ec.Changes.Dependencies) > 0 {
		c += 0.2
	}
	if ec.Performance != nil && ec.Performance.Degraded {
		c += 0.2
	}
	if hasOpenAlert(ec.SecurityAlerts) {
		c += 0.3
	}
	if c > 1.0 {
		c = 1.0
	}
	return c
}

// evalCondition applies one operator; Negate flips the outcome.
func evalCondition(cond Condition, ec EvaluationContext) (bool, error) {
	field, ok := resolveField(cond.Field, ec)
	if !ok {
		return false, fmt.Errorf("unknown context field %q", cond.Field)
	}

	var met bool
	switch cond.Operator {
	case OpEquals:
		met = field == cond.Value
	case OpNotEquals:
		met = field != cond.Value
	case OpContains:
		met = strings.Contains(field, cond.Value)
	case OpNotContains:
		met = !strings.Contains(field, cond.Value)
	case OpGreaterThan, OpLessThan:
		have, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return false, fmt.Errorf("field %q is not numeric: %w", cond.Field, err)
		}
		want, err := strconv.ParseFloat(cond.Value, 64)
		if err != nil {
			return false, fmt.Errorf("condition value %q is not numeric: %w", cond.Value, err)
		}
		if cond.Operator == OpGreaterThan {
			met = have > want
		} else {
			met = have < want
		}
	case OpMatches, OpNotMatches:
		re, err := regexp.Compile(cond.Value)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", cond.Value, err)
		}
		met = re.MatchString(field)
		if cond.Operator == OpNotMatches {
			met = !met
		}
	case OpIn, OpNotIn:
		found := false
		for _, v := range cond.Values {
			if field == v {
				found = true
				break
			}
		}
		met = found
		if cond.Operator == OpNotIn {
			met = !met
		}
	default:
		return false, fmt.Errorf("unknown operator %q", cond.Operator)
	}

	if cond.Negate {
		met = !met
	}
	return met, nil
}

// resolveField maps a condition field name onto the context.
func resolveField(name string, ec EvaluationContext) (string, bool) {
	switch name {
	case "event.kind":
		if ec.Event == nil {
			return "", true
		}
		return string(ec.Event.Kind), true
	case "event.action":
		if ec.Event == nil {
			return "", true
		}
		return ec.Event.Action, true
	case "event.branch":
		if ec.Event == nil {
			return "", true
		}
		return ec.Event.Branch, true
	case "event.author":
		if ec.Event == nil {
			return "", true
		}
		return ec.Event.Author, true
	case "repository.owner":
		return ec.Repository.Owner, true
	case "repository.name":
		return ec.Repository.Name, true
	case "repository.full_name":
		return ec.Repository.FullName, true
	case "repository.language":
		return ec.Repository.Language, true
	case "repository.default_branch":
		return ec.Repository.DefaultBranch, true
	case "changes.dependency_count":
		if ec.Changes == nil {
			return "0", true
		}
		return strconv.Itoa(len(ec.Changes.Dependencies)), true
	case "changes.breaking":
		if ec.Changes == nil {
			return "false", true
		}
		return strconv.FormatBool(ec.Changes.HasBreakingDependency()), true
	case "performance.avg_build_minutes":
		if ec.Performance == nil {
			return "0", true
		}
		return strconv.FormatFloat(ec.Performance.AvgBuildMinutes, 'f', -1, 64), true
	case "performance.success_rate":
		if ec.Performance == nil {
			return "1", true
		}
		return strconv.FormatFloat(ec.Performance.SuccessRate, 'f', -1, 64), true
	case "security.open_alerts":
		n := 0
		for _, a := range ec.SecurityAlerts {
			if a.Open {
				n++
			}
		}
		return strconv.Itoa(n), true
	default:
		return "", false
	}
}
