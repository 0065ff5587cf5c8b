package automation

import (
	"context"

	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/pullrequest"
)

type UseCase interface {
	// SubmitWebhookEvent queues an analysis job for a verified,
	// prioritized webhook event and returns the job id.
	SubmitWebhookEvent(ctx context.Context, sc model.Scope, input SubmitWebhookEventInput) (SubmitOutput, error)

	// SubmitRepositoryChanges queues an automation-analysis job for a
	// detected change-set and returns the job id.
	SubmitRepositoryChanges(ctx context.Context, sc model.Scope, input SubmitChangesInput) (SubmitOutput, error)

	// SubmitAnalysisTask queues a standalone analysis job of the given
	// kind and returns the job id.
	SubmitAnalysisTask(ctx context.Context, sc model.Scope, input SubmitTaskInput) (SubmitOutput, error)

	// EvaluateChanges runs the decision pipeline synchronously over a
	// change-set.
	EvaluateChanges(ctx context.Context, sc model.Scope, input EvaluateChangesInput) ([]decision.AutomationDecision, error)

	// CreatePRsForDecisions applies decisions as branches plus pull
	// requests through the side-effect executor.
	CreatePRsForDecisions(ctx context.Context, sc model.Scope, input CreatePRsInput) ([]pullrequest.Result, error)
}

// ReadmeAnalyzer inspects a repository README for CI/CD hints.
type ReadmeAnalyzer interface {
	AnalyzeReadme(ctx context.Context, repo model.RepositoryRef, branch string) (ReadmeAnalysis, error)
}

// FrameworkDetector identifies the build framework of a repository.
type FrameworkDetector interface {
	DetectFramework(ctx context.Context, repo model.RepositoryRef, hints []string) (FrameworkDetection, error)
}

// YAMLGenerator renders a workflow file for a detected framework.
type YAMLGenerator interface {
	GenerateWorkflow(ctx context.Context, repo model.RepositoryRef, framework, template string) (string, error)
}
