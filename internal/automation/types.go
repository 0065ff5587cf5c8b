package automation

import (
	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/model"
)

// SubmitWebhookEventInput is input for webhook-driven job submission.
type SubmitWebhookEventInput struct {
	Event model.WebhookEvent
}

// SubmitChangesInput is input for change-set job submission.
type SubmitChangesInput struct {
	Repository model.RepositoryRef
	Changes    model.ChangeSet
	Priority   model.Priority
}

// SubmitTaskInput is input for standalone analysis task submission.
type SubmitTaskInput struct {
	Kind       model.JobKind
	Repository model.RepositoryRef
	Priority   model.Priority
	Payload    model.JobPayload
}

// SubmitOutput carries the id of the queued job.
type SubmitOutput struct {
	JobID string
}

// EvaluateChangesInput is input for synchronous decision evaluation.
type EvaluateChangesInput struct {
	Repository model.RepositoryRef
	Changes    model.ChangeSet
}

// CreatePRsInput is input for the side-effect executor.
type CreatePRsInput struct {
	Repository model.RepositoryRef
	Decisions  []decision.AutomationDecision
}

// ReadmeAnalysis summarizes what a README reveals about a project.
type ReadmeAnalysis struct {
	HasCIBadge     bool
	BuildCommands  []string
	DetectedTools  []string
	Recommendation string
}

// FrameworkDetection is the outcome of framework detection.
type FrameworkDetection struct {
	Framework  string
	Language   string
	Confidence float64
}
