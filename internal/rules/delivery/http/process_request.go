package http

import (
	"github.com/gin-gonic/gin"
)

// processRuleReq binds and converts a rule create/update body.
func (h *handler) processRuleReq(c *gin.Context) (ruleReq, error) {
	var req ruleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.ID = c.Param("id")
	return req, nil
}

// processSetEnabledReq binds the enable/disable body.
func (h *handler) processSetEnabledReq(c *gin.Context) (setEnabledReq, error) {
	var req setEnabledReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}
