package automation

import (
	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/pullrequest"
	"cicd-workflow-automation/internal/queue"
	"cicd-workflow-automation/internal/scheduler"
	pkgLog "cicd-workflow-automation/pkg/log"
)

func New(
	q *queue.Queue,
	sched *scheduler.Scheduler,
	decisions *decision.Engine,
	creator *pullrequest.Creator,
	l pkgLog.Logger,
	opts ...Option,
) UseCase {
	uc := &usecase{
		queue:      q,
		sched:      sched,
		decisions:  decisions,
		creator:    creator,
		readme:     noopReadmeAnalyzer{},
		frameworks: noopFrameworkDetector{},
		yaml:       noopYAMLGenerator{},
		maxRetries: 3,
		l:          l,
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.registerHandlers()
	return uc
}

// Option overrides a collaborator or setting on the use case.
type Option func(*usecase)

// WithReadmeAnalyzer plugs in a real README analyzer.
func WithReadmeAnalyzer(a ReadmeAnalyzer) Option {
	return func(uc *usecase) { uc.readme = a }
}

// WithFrameworkDetector plugs in a real framework detector.
func WithFrameworkDetector(d FrameworkDetector) Option {
	return func(uc *usecase) { uc.frameworks = d }
}

// WithYAMLGenerator plugs in a real workflow generator.
func WithYAMLGenerator(g YAMLGenerator) Option {
	return func(uc *usecase) { uc.yaml = g }
}

// WithMaxRetries sets the per-job retry budget stamped at enqueue.
func WithMaxRetries(n int) Option {
	return func(uc *usecase) { uc.maxRetries = n }
}
