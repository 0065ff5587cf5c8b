package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/pullrequest"
	"cicd-workflow-automation/pkg/response"
)

// EvaluateDecisions runs the decision pipeline synchronously over a
// posted change-set.
func (h *handler) EvaluateDecisions(c *gin.Context) {
	ctx := c.Request.Context()

	var req evaluateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	sc := model.Scope{UserID: "api"}
	decisions, err := h.uc.EvaluateChanges(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.EvaluateChanges: %v", err)
		response.Error(c, err, nil)
		return
	}

	response.OK(c, evaluateResp{Decisions: decisions, Total: len(decisions)})
}

// ApplyDecisions hands posted decisions to the side-effect executor.
func (h *handler) ApplyDecisions(c *gin.Context) {
	ctx := c.Request.Context()

	var req applyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	sc := model.Scope{UserID: "api"}
	results, err := h.uc.CreatePRsForDecisions(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.CreatePRsForDecisions: %v", err)
		switch {
		case errors.Is(err, pullrequest.ErrRateLimited):
			response.RateLimited(c)
		case errors.Is(err, pullrequest.ErrConflictingAutomation):
			response.Conflict(c, err.Error())
		default:
			response.Error(c, err, nil)
		}
		return
	}

	response.OK(c, gin.H{"results": results})
}

// SubmitTask queues a standalone analysis job.
func (h *handler) SubmitTask(c *gin.Context) {
	ctx := c.Request.Context()

	var req submitTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.SubmitAnalysisTask(ctx, model.Scope{UserID: "api"}, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.SubmitAnalysisTask: %v", err)
		response.Error(c, err, nil)
		return
	}

	response.OK(c, submitResp{JobID: out.JobID})
}
