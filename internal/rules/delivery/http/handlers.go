package http

import (
	"github.com/gin-gonic/gin"

	"cicd-workflow-automation/pkg/response"
)

// Create registers a new automation rule.
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processRuleReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	rule, err := req.toRule()
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	id, err := h.store.Create(rule)
	if err != nil {
		h.l.Errorf(ctx, "store.Create: %v", err)
		h.respondError(c, err)
		return
	}

	created, _ := h.store.Get(id)
	response.OK(c, newRuleResp(created))
}

// List returns all rules, priority descending.
func (h *handler) List(c *gin.Context) {
	response.OK(c, newListResp(h.store.List()))
}

// Detail returns a single rule by id.
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	rule, err := h.store.Get(id)
	if err != nil {
		h.l.Errorf(ctx, "store.Get: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, newRuleResp(rule))
}

// Update replaces an existing rule.
func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processRuleReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	if req.ID == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	rule, err := req.toRule()
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.store.Update(rule); err != nil {
		h.l.Errorf(ctx, "store.Update: %v", err)
		h.respondError(c, err)
		return
	}

	updated, _ := h.store.Get(req.ID)
	response.OK(c, newRuleResp(updated))
}

// Delete removes a rule permanently.
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.l.Errorf(ctx, "store.Delete: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetEnabled flips a rule's enabled flag.
func (h *handler) SetEnabled(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if id == "" {
		response.Error(c, errMissingID, nil)
		return
	}

	req, err := h.processSetEnabledReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.store.SetEnabled(id, *req.Enabled); err != nil {
		h.l.Errorf(ctx, "store.SetEnabled: %v", err)
		h.respondError(c, err)
		return
	}

	rule, _ := h.store.Get(id)
	response.OK(c, newRuleResp(rule))
}
