package webhook

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"cicd-workflow-automation/internal/automation"
	"cicd-workflow-automation/internal/model"
	pkgResponse "cicd-workflow-automation/pkg/response"
)

// HandleGitHubWebhook is the single ingress for GitHub deliveries. The
// gate order is fixed: body size, source IP, rate limit, signature,
// timestamp, replay, parse. Every rejection is terminal and reported
// synchronously; an accepted event is queued and acknowledged
// immediately.
func (h *Handler) HandleGitHubWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateBodySize(c.Request.ContentLength); err != nil {
		h.l.Warnf(ctx, "Webhook body rejected: %v", err)
		pkgResponse.PayloadTooLarge(c)
		return
	}

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "Webhook IP rejected: %v", err)
		pkgResponse.Unauthorized(c, "source not allowed")
		return
	}

	if err := h.security.CheckRateLimit(extractIP(c.Request)); err != nil {
		h.l.Warnf(ctx, "Webhook rate limited: %v", err)
		pkgResponse.RateLimited(c)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.security.config.MaxBodyBytes))
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.PayloadTooLarge(c)
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")
	if err := h.security.ValidateSignature(body, signature); err != nil {
		h.l.Errorf(ctx, "Signature verification failed: %v", err)
		pkgResponse.Unauthorized(c, "invalid signature")
		return
	}

	if err := h.security.ValidateTimestamp(c.GetHeader("X-Webhook-Timestamp")); err != nil {
		h.l.Warnf(ctx, "Delivery timestamp rejected: %v", err)
		pkgResponse.Unauthorized(c, "delivery outside tolerance")
		return
	}

	deliveryID := c.GetHeader("X-GitHub-Delivery")
	if err := h.security.CheckReplay(deliveryID); err != nil {
		h.l.Warnf(ctx, "Replay rejected: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	eventType := c.GetHeader("X-GitHub-Event")
	event, err := h.parser.Parse(eventType, body)
	if err != nil {
		h.l.Infof(ctx, "Webhook not processed: %v", err)
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": err.Error()})
		return
	}

	event.DeliveryID = deliveryID
	event.Signature = signature
	event.Priority = h.prioritizer.Prioritize(event)

	sc := model.Scope{UserID: "system_webhook"}
	out, err := h.automationUC.SubmitWebhookEvent(ctx, sc, automation.SubmitWebhookEventInput{Event: *event})
	if err != nil {
		h.l.Errorf(ctx, "Failed to queue webhook event: %v", err)
		pkgResponse.InternalError(c, err)
		return
	}

	h.l.Infof(ctx, "Accepted %s event for %s as job %s (%s priority)",
		event.Kind, event.Repository.FullName, out.JobID, event.Priority)
	pkgResponse.OK(c, gin.H{"status": "accepted", "job_id": out.JobID, "priority": string(event.Priority)})
}
