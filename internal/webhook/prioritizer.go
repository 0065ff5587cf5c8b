package webhook

import (
	"strings"

	"cicd-workflow-automation/internal/model"
)

// Prioritizer assigns each event its processing priority once, at
// ingress. Later re-prioritization is an explicit administrative call
// on the queue.
type Prioritizer struct{}

func NewPrioritizer() *Prioritizer {
	return &Prioritizer{}
}

// Prioritize maps an event onto a priority class. Workflow-run and
// release events skew high-to-critical; push and repository events
// default medium.
func (p *Prioritizer) Prioritize(event *model.WebhookEvent) model.Priority {
	switch event.Kind {
	case model.EventWorkflowRun:
		// A failed run is the most urgent signal the pipeline gets.
		if strings.Contains(event.Message, "failure") {
			return model.PriorityCritical
		}
		return model.PriorityHigh
	case model.EventRelease:
		return model.PriorityCritical
	case model.EventPullRequest:
		if event.Action == "merged" {
			return model.PriorityCritical
		}
		return model.PriorityHigh
	case model.EventPush, model.EventRepository:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
