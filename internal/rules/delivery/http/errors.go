package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cicd-workflow-automation/internal/rules"
	"cicd-workflow-automation/pkg/response"
)

var errMissingID = errors.New("id is required")

// respondError translates store errors into HTTP responses. Validation
// sentinels are 400; a missing rule is 404.
func (h *handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rules.ErrRuleNotFound):
		response.NotFound(c, "rule not found")
	case errors.Is(err, rules.ErrEmptyName),
		errors.Is(err, rules.ErrNoTriggers),
		errors.Is(err, rules.ErrNoConditions),
		errors.Is(err, rules.ErrNoActions),
		errors.Is(err, rules.ErrInvalidPriority):
		response.Error(c, err, nil)
	default:
		response.InternalError(c, err)
	}
}
