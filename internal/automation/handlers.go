package automation

import (
	"context"
	"fmt"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/scheduler"
)

// registerHandlers binds one handler per job kind on the scheduler.
func (uc *usecase) registerHandlers() {
	if uc.sched == nil {
		return
	}
	uc.sched.Register(model.JobAutomationAnalysis, scheduler.JobHandlerFunc(uc.handleAutomationAnalysis))
	uc.sched.Register(model.JobReadmeAnalysis, scheduler.JobHandlerFunc(uc.handleReadmeAnalysis))
	uc.sched.Register(model.JobFrameworkDetection, scheduler.JobHandlerFunc(uc.handleFrameworkDetection))
	uc.sched.Register(model.JobYAMLGeneration, scheduler.JobHandlerFunc(uc.handleYAMLGeneration))
}

// handleAutomationAnalysis runs the full decision pipeline for a queued
// change-set and applies the surviving decisions as pull requests.
func (uc *usecase) handleAutomationAnalysis(ctx context.Context, job *model.AnalysisJob) (any, error) {
	changes := resolveChanges(job)

	decisions := uc.decisions.Evaluate(ctx, job.Repository, changes)
	if len(decisions) == 0 {
		uc.l.Infof(ctx, "No actionable decisions for %s", job.Repository.FullName)
		return map[string]any{"decisions": 0}, nil
	}

	if uc.creator == nil {
		uc.l.Warnf(ctx, "PR creation not configured, %d decision(s) for %s dropped",
			len(decisions), job.Repository.FullName)
		return map[string]any{"decisions": len(decisions), "prs_opened": 0}, nil
	}

	results, err := uc.creator.CreateForDecisions(ctx, decisions, job.Repository)
	if err != nil {
		return nil, fmt.Errorf("create PRs for %s: %w", job.Repository.FullName, err)
	}

	opened := 0
	for _, r := range results {
		if r.Success {
			opened++
		}
	}
	uc.l.Infof(ctx, "Automation analysis for %s: %d decision(s), %d PR(s) opened",
		job.Repository.FullName, len(decisions), opened)
	return map[string]any{"decisions": len(decisions), "prs_opened": opened}, nil
}

func (uc *usecase) handleReadmeAnalysis(ctx context.Context, job *model.AnalysisJob) (any, error) {
	payload, _ := job.Payload.(model.ReadmeAnalysisPayload)
	branch := payload.Branch
	if branch == "" {
		branch = job.Repository.DefaultBranch
	}

	analysis, err := uc.readme.AnalyzeReadme(ctx, job.Repository, branch)
	if err != nil {
		return nil, fmt.Errorf("analyze README on %s: %w", job.Repository.FullName, err)
	}
	return analysis, nil
}

func (uc *usecase) handleFrameworkDetection(ctx context.Context, job *model.AnalysisJob) (any, error) {
	payload, _ := job.Payload.(model.FrameworkDetectionPayload)

	detection, err := uc.frameworks.DetectFramework(ctx, job.Repository, payload.LanguageHints)
	if err != nil {
		return nil, fmt.Errorf("detect framework on %s: %w", job.Repository.FullName, err)
	}
	return detection, nil
}

func (uc *usecase) handleYAMLGeneration(ctx context.Context, job *model.AnalysisJob) (any, error) {
	payload, _ := job.Payload.(model.YAMLGenerationPayload)

	workflow, err := uc.yaml.GenerateWorkflow(ctx, job.Repository, payload.Framework, payload.TemplateName)
	if err != nil {
		return nil, fmt.Errorf("generate workflow for %s: %w", job.Repository.FullName, err)
	}
	return workflow, nil
}

// resolveChanges prefers the typed payload, then the job-level set.
func resolveChanges(job *model.AnalysisJob) model.ChangeSet {
	if payload, ok := job.Payload.(model.AutomationAnalysisPayload); ok && !payload.Changes.IsEmpty() {
		return payload.Changes
	}
	if job.Changes != nil {
		return *job.Changes
	}
	return model.ChangeSet{}
}

// Collaborator defaults. Real implementations come in through Options;
// the defaults keep the per-kind jobs functional without external
// analyzers.

type noopReadmeAnalyzer struct{}

func (noopReadmeAnalyzer) AnalyzeReadme(ctx context.Context, repo model.RepositoryRef, branch string) (ReadmeAnalysis, error) {
	return ReadmeAnalysis{Recommendation: "no analyzer configured"}, nil
}

type noopFrameworkDetector struct{}

func (noopFrameworkDetector) DetectFramework(ctx context.Context, repo model.RepositoryRef, hints []string) (FrameworkDetection, error) {
	detection := FrameworkDetection{Framework: "unknown", Language: repo.Language, Confidence: 0}
	if len(hints) > 0 {
		detection.Language = hints[0]
		detection.Confidence = 0.2
	}
	return detection, nil
}

type noopYAMLGenerator struct{}

func (noopYAMLGenerator) GenerateWorkflow(ctx context.Context, repo model.RepositoryRef, framework, template string) (string, error) {
	return fmt.Sprintf("# workflow for %s (%s)\n", repo.FullName, framework), nil
}
