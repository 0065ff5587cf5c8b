package http

import (
	"cicd-workflow-automation/internal/automation"
	"cicd-workflow-automation/pkg/log"
)

// Handler is the public interface for the automation HTTP layer.
type Handler interface {
	EvaluateDecisions(c interface{})
	ApplyDecisions(c interface{})
	SubmitTask(c interface{})
}

type handler struct {
	l  log.Logger
	uc automation.UseCase
}

// New creates the HTTP handler for the automation domain.
func New(l log.Logger, uc automation.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
