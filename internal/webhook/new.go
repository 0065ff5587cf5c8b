package webhook

import (
	"cicd-workflow-automation/internal/automation"
	pkgLog "cicd-workflow-automation/pkg/log"
)

type Handler struct {
	automationUC automation.UseCase
	security     *SecurityValidator
	parser       *Parser
	prioritizer  *Prioritizer
	l            pkgLog.Logger
}

func NewHandler(
	automationUC automation.UseCase,
	securityConfig SecurityConfig,
	l pkgLog.Logger,
) *Handler {
	return &Handler{
		automationUC: automationUC,
		security:     NewSecurityValidator(securityConfig),
		parser:       NewParser(),
		prioritizer:  NewPrioritizer(),
		l:            l,
	}
}
