package api

import (
	"io"
	"net/http"

	"log/slog"

	"github.com/lostconnect/backend/internal/usersync"
	"github.com/lostconnect/backend/internal/webhook"
)

type WebhookHandler struct {
	engine *usersync.Engine
	secret string
}

func NewWebhookHandler(engine *usersync.Engine, secret string) *WebhookHandler {
	return &WebhookHandler{engine: engine, secret: secret}
}

type webhookResponse struct {
	Message string `json:"message"`
}

// Receive handles identity-provider deliveries. Verification runs on
// the raw body before any parsing. A missing secret is a deliberate
// no-op success: the misconfiguration is logged, never leaked to the
// sender.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		logger.Warn("webhook secret not configured, ignoring delivery")
		writeJSON(w, webhookResponse{Message: "Webhook received"}, http.StatusOK)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Clerk-Signature")
	if !webhook.Verify(body, signature, h.secret) {
		writeJSON(w, errorResponse{Error: "Invalid webhook signature"}, http.StatusForbidden)
		return
	}

	ev, err := webhook.ParseEvent(r.Context(), body)
	if err != nil {
		logger.Error("malformed webhook payload", slog.Any("err", err))
		writeJSON(w, errorResponse{Error: "invalid payload"}, http.StatusBadRequest)
		return
	}

	if err := h.engine.ApplyEvent(r.Context(), ev); err != nil {
		logger.Error("failed to apply webhook event",
			slog.String("type", ev.Type),
			slog.Any("err", err),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, webhookResponse{Message: "Webhook received"}, http.StatusOK)
}
