package model

import "time"

// JobKind selects which analysis a queued job performs.
type JobKind string

const (
	JobReadmeAnalysis     JobKind = "readme-analysis"
	JobFrameworkDetection JobKind = "framework-detection"
	JobYAMLGeneration     JobKind = "yaml-generation"
	JobAutomationAnalysis JobKind = "automation-analysis"
)

// JobPayload is the tagged union of per-kind job data. Each variant is
// decoded once at the submission boundary; handlers type-switch on it.
type JobPayload interface {
	jobPayload()
}

// ReadmeAnalysisPayload asks for README inspection on a branch.
type ReadmeAnalysisPayload struct {
	Branch string
}

// FrameworkDetectionPayload carries optional language hints.
type FrameworkDetectionPayload struct {
	LanguageHints []string
}

// YAMLGenerationPayload asks for a workflow file to be generated.
type YAMLGenerationPayload struct {
	Framework    string
	TemplateName string
}

// AutomationAnalysisPayload carries the change-set driving the decision
// pipeline.
type AutomationAnalysisPayload struct {
	Changes ChangeSet
}

func (ReadmeAnalysisPayload) jobPayload()     {}
func (FrameworkDetectionPayload) jobPayload() {}
func (YAMLGenerationPayload) jobPayload()     {}
func (AutomationAnalysisPayload) jobPayload() {}

// AnalysisJob is a unit of queued work. The scheduler owns RetryCount
// and Priority after enqueue; everything else is set once.
type AnalysisJob struct {
	ID         string
	Kind       JobKind
	Repository RepositoryRef
	Changes    *ChangeSet
	Event      *WebhookEvent
	Priority   int // higher = more urgent
	EnqueuedAt time.Time
	RetryCount int
	MaxRetries int
	Payload    JobPayload
}

// JobResult is the ephemeral outcome of one execution attempt.
type JobResult struct {
	Success  bool
	Data     any
	Err      error
	Duration time.Duration
}
