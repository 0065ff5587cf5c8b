package automation

import (
	"context"
	"errors"
	"fmt"

	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/pullrequest"
	"cicd-workflow-automation/internal/queue"
	"cicd-workflow-automation/internal/scheduler"
	pkgLog "cicd-workflow-automation/pkg/log"
)

type usecase struct {
	queue     *queue.Queue
	sched     *scheduler.Scheduler
	decisions *decision.Engine
	creator   *pullrequest.Creator

	readme     ReadmeAnalyzer
	frameworks FrameworkDetector
	yaml       YAMLGenerator

	maxRetries int
	l          pkgLog.Logger
}

// SubmitWebhookEvent queues an analysis job for a verified webhook
// event. The event's priority class maps onto the queue's integer
// scale; the job carries the full event for downstream evaluation.
func (uc *usecase) SubmitWebhookEvent(ctx context.Context, sc model.Scope, input SubmitWebhookEventInput) (SubmitOutput, error) {
	event := input.Event
	if event.Repository.Owner == "" || event.Repository.Name == "" {
		return SubmitOutput{}, errors.New("webhook event missing repository identity")
	}
	if event.Priority == "" {
		return SubmitOutput{}, errors.New("webhook event missing priority")
	}

	job := &model.AnalysisJob{
		Kind:       model.JobAutomationAnalysis,
		Repository: event.Repository,
		Event:      &event,
		Priority:   event.Priority.Weight(),
		MaxRetries: uc.maxRetries,
		Payload:    model.AutomationAnalysisPayload{},
	}
	id, err := uc.queue.Enqueue(ctx, job)
	if err != nil {
		return SubmitOutput{}, fmt.Errorf("enqueue webhook job: %w", err)
	}

	uc.l.Infof(ctx, "Queued %s job %s for %s event on %s", job.Kind, id, event.Kind, event.Repository.FullName)
	uc.sched.Wake()
	return SubmitOutput{JobID: id}, nil
}

// SubmitRepositoryChanges queues an automation-analysis job over a
// detected change-set.
func (uc *usecase) SubmitRepositoryChanges(ctx context.Context, sc model.Scope, input SubmitChangesInput) (SubmitOutput, error) {
	if input.Repository.Owner == "" || input.Repository.Name == "" {
		return SubmitOutput{}, errors.New("missing repository identity")
	}

	changes := input.Changes
	job := &model.AnalysisJob{
		Kind:       model.JobAutomationAnalysis,
		Repository: input.Repository,
		Changes:    &changes,
		Priority:   input.Priority.Weight(),
		MaxRetries: uc.maxRetries,
		Payload:    model.AutomationAnalysisPayload{Changes: changes},
	}
	id, err := uc.queue.Enqueue(ctx, job)
	if err != nil {
		return SubmitOutput{}, fmt.Errorf("enqueue changes job: %w", err)
	}

	uc.sched.Wake()
	return SubmitOutput{JobID: id}, nil
}

// SubmitAnalysisTask queues a standalone analysis job.
func (uc *usecase) SubmitAnalysisTask(ctx context.Context, sc model.Scope, input SubmitTaskInput) (SubmitOutput, error) {
	if input.Repository.Owner == "" || input.Repository.Name == "" {
		return SubmitOutput{}, errors.New("missing repository identity")
	}
	payload := input.Payload
	if payload == nil {
		payload = defaultPayload(input.Kind)
	}
	if payload == nil {
		return SubmitOutput{}, fmt.Errorf("unknown job kind %q", input.Kind)
	}

	job := &model.AnalysisJob{
		Kind:       input.Kind,
		Repository: input.Repository,
		Priority:   input.Priority.Weight(),
		MaxRetries: uc.maxRetries,
		Payload:    payload,
	}
	id, err := uc.queue.Enqueue(ctx, job)
	if err != nil {
		return SubmitOutput{}, fmt.Errorf("enqueue %s job: %w", input.Kind, err)
	}

	uc.sched.Wake()
	return SubmitOutput{JobID: id}, nil
}

// EvaluateChanges runs the decision pipeline synchronously.
func (uc *usecase) EvaluateChanges(ctx context.Context, sc model.Scope, input EvaluateChangesInput) ([]decision.AutomationDecision, error) {
	if input.Repository.Owner == "" || input.Repository.Name == "" {
		return nil, errors.New("missing repository identity")
	}
	return uc.decisions.Evaluate(ctx, input.Repository, input.Changes), nil
}

// CreatePRsForDecisions hands decisions to the side-effect executor.
func (uc *usecase) CreatePRsForDecisions(ctx context.Context, sc model.Scope, input CreatePRsInput) ([]pullrequest.Result, error) {
	if input.Repository.Owner == "" || input.Repository.Name == "" {
		return nil, errors.New("missing repository identity")
	}
	if uc.creator == nil {
		return nil, errors.New("pull request creation not configured")
	}
	return uc.creator.CreateForDecisions(ctx, input.Decisions, input.Repository)
}

func defaultPayload(kind model.JobKind) model.JobPayload {
	switch kind {
	case model.JobReadmeAnalysis:
		return model.ReadmeAnalysisPayload{}
	case model.JobFrameworkDetection:
		return model.FrameworkDetectionPayload{}
	case model.JobYAMLGeneration:
		return model.YAMLGenerationPayload{}
	case model.JobAutomationAnalysis:
		return model.AutomationAnalysisPayload{}
	default:
		return nil
	}
}
