package web

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/textforge/humanizer/lemonsqueezy"
	"github.com/textforge/humanizer/subscription"
	"github.com/textforge/humanizer/tlmt"
)

// WebhookHandler handles Lemon Squeezy webhook events
type WebhookHandler struct {
	subscriptionService subscription.ServiceInterface
	webhookSecret       string
	telemetry           tlmt.Telemetry
	logger              Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	subscriptionService subscription.ServiceInterface,
	webhookSecret string,
	telemetry tlmt.Telemetry,
	logger Logger,
) *WebhookHandler {
	return &WebhookHandler{
		subscriptionService: subscriptionService,
		webhookSecret:       webhookSecret,
		telemetry:           telemetry,
		logger:              logger,
	}
}

// HandleLemonSqueezyWebhook handles POST /api/webhooks/lemonsqueezy.
// The body must reach this handler unparsed: the signature covers the
// exact raw bytes.
func (h *WebhookHandler) HandleLemonSqueezyWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Printf("ERROR %s - failed to read webhook body: %v", r.URL.Path, err)
		renderError(w, http.StatusBadRequest, "Failed to read request body")

		return
	}

	if h.webhookSecret == "" {
		h.logger.Printf("WARN %s - no webhook secret configured, accepting webhook blindly for demo", r.URL.Path)
	} else {
		signature := r.Header.Get(lemonsqueezy.SignatureHeader)

		if err := lemonsqueezy.VerifySignature(body, signature, h.webhookSecret); err != nil {
			h.logger.Printf("ERROR %s - signature verification failed", r.URL.Path)
			renderError(w, http.StatusForbidden, "Invalid signature")

			return
		}
	}

	event, err := lemonsqueezy.ParseWebhookEvent(body)
	if err != nil {
		h.logger.Printf("ERROR %s - failed to parse webhook event: %v", r.URL.Path, err)
		renderError(w, http.StatusInternalServerError, "Webhook Error")

		return
	}

	if event.UserID == "" {
		h.logger.Printf("ERROR %s - webhook event %s has no user_id in custom_data", r.URL.Path, event.EventName)
		renderError(w, http.StatusBadRequest, "No user_id in custom_data")

		return
	}

	h.logger.Printf("POST %s - processing webhook event %s for user %s", r.URL.Path, event.EventName, event.UserID)

	h.subscriptionService.ProcessWebhookEvent(r.Context(), event)

	_ = h.telemetry.Send(r.Context(), tlmt.NewEvent("webhook_event", map[string]any{
		"event_name": event.EventName,
		"status":     event.Status,
	}))

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// RegisterRoutes registers webhook routes with the router
func (h *WebhookHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/webhooks/lemonsqueezy", h.HandleLemonSqueezyWebhook).Methods(http.MethodPost)
}
