package rules

import (
	"context"
	"fmt"

	"cicd-workflow-automation/pkg/log"
)

// ActionExecutor runs one rule action. Implementations must be safe
// for concurrent use across evaluation passes.
type ActionExecutor interface {
	Execute(ctx context.Context, action Action, ec EvaluationContext) (string, error)
}

// Notifier is the external notification fan-out boundary.
type Notifier interface {
	Notify(ctx context.Context, channel, message string) error
}

// DefaultExecutor handles the built-in action vocabulary. Actions that
// feed the decision pipeline (create-pull-request, update-workflow)
// only record intent here. Materialization happens downstream in the
// decision engine and PR creator.
type DefaultExecutor struct {
	notifier Notifier
	l        log.Logger
}

// NewDefaultExecutor creates the built-in action executor. notifier
// may be nil; notify actions then degrade to a log line.
func NewDefaultExecutor(l log.Logger, notifier Notifier) *DefaultExecutor {
	return &DefaultExecutor{notifier: notifier, l: l}
}

func (e *DefaultExecutor) Execute(ctx context.Context, action Action, ec EvaluationContext) (string, error) {
	switch action.Type {
	case ActionCreatePullRequest:
		prefix := ""
		if p, ok := action.Params.(CreatePullRequestParams); ok {
			prefix = p.TitlePrefix
		}
		return fmt.Sprintf("pull request creation requested for %s (prefix %q)", ec.Repository.FullName, prefix), nil

	case ActionUpdateWorkflow:
		path := ".github/workflows"
		if p, ok := action.Params.(UpdateWorkflowParams); ok && p.Path != "" {
			path = p.Path
		}
		return fmt.Sprintf("workflow update requested at %s", path), nil

	case ActionTriggerDeployment:
		env := "staging"
		if p, ok := action.Params.(TriggerDeploymentParams); ok && p.Environment != "" {
			env = p.Environment
		}
		e.l.Infof(ctx, "Deployment trigger requested for %s to %s", ec.Repository.FullName, env)
		return fmt.Sprintf("deployment to %s requested", env), nil

	case ActionSecurityScan:
		scanner := "default"
		if p, ok := action.Params.(SecurityScanParams); ok && p.Scanner != "" {
			scanner = p.Scanner
		}
		e.l.Infof(ctx, "Security scan (%s) requested for %s", scanner, ec.Repository.FullName)
		return fmt.Sprintf("security scan via %s requested", scanner), nil

	case ActionNotify:
		p, ok := action.Params.(NotifyParams)
		if !ok {
			return "", fmt.Errorf("notify action requires NotifyParams")
		}
		if e.notifier == nil {
			e.l.Infof(ctx, "Notification (no notifier configured) to %s: %s", p.Channel, p.Message)
			return "notification logged", nil
		}
		if err := e.notifier.Notify(ctx, p.Channel, p.Message); err != nil {
			return "", fmt.Errorf("notify %s: %w", p.Channel, err)
		}
		return fmt.Sprintf("notified %s", p.Channel), nil

	default:
		return "", fmt.Errorf("unknown action type %q", action.Type)
	}
}
