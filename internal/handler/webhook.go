package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/middleware"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/model"
	"github.com/hamkkebom/Ask-the-Stars-sub001/internal/service"
)

type webhookVerifier interface {
	HasWebhookSecret() bool
	VerifyWebhookSignature(header string, rawBody []byte) bool
}

type WebhookHandler struct {
	verifier webhookVerifier
	svc      *service.ReconcileService
}

func NewWebhookHandler(verifier webhookVerifier, svc *service.ReconcileService) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, svc: svc}
}

// Receive handles POST /api/webhooks/stream — the provider's encoding
// status notifications. Signature verification runs against the raw
// body before any decoding; without a configured secret the endpoint
// degrades to accepting unsigned events rather than dropping them.
func (h *WebhookHandler) Receive(c fiber.Ctx) error {
	body := c.Body()

	if h.verifier.HasWebhookSecret() {
		sig := c.Get("Webhook-Signature")
		if !h.verifier.VerifyWebhookSignature(sig, body) {
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_SIGNATURE", "Webhook signature verification failed")
		}
	}

	var evt model.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid webhook payload")
	}

	if Metrics.WebhooksTotal != nil {
		Metrics.WebhooksTotal.WithLabelValues(evt.Status.State).Inc()
	}

	if err := h.svc.Apply(c.Context(), &evt); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"received": true})
}
