package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/textforge/humanizer/lemonsqueezy"
	"github.com/textforge/humanizer/web/auth"
)

// CheckoutHandler creates Lemon Squeezy checkout sessions.
type CheckoutHandler struct {
	payments lemonsqueezy.Client
	apiKey   string
	storeID  string
	logger   Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(payments lemonsqueezy.Client, apiKey, storeID string, logger Logger) *CheckoutHandler {
	return &CheckoutHandler{
		payments: payments,
		apiKey:   apiKey,
		storeID:  storeID,
		logger:   logger,
	}
}

// CheckoutRequest represents a checkout creation request
type CheckoutRequest struct {
	VariantID string `json:"variantId"`
}

// CheckoutResponse represents a checkout creation response
type CheckoutResponse struct {
	URL string `json:"url"`
}

// apiCreateCheckout handles POST /api/checkout
func (h *CheckoutHandler) apiCreateCheckout(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		renderError(w, http.StatusUnauthorized, "Unauthorized")

		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, http.StatusBadRequest, "Invalid request body")

		return
	}

	if req.VariantID == "" {
		renderError(w, http.StatusBadRequest, "Variant ID is required")

		return
	}

	if h.apiKey == "" || h.storeID == "" {
		// Demo operation without payment credentials: hand back a
		// deterministic mock URL instead of failing.
		h.logger.Printf("WARN %s - no Lemon Squeezy API key or store ID configured, using mock checkout URL", r.URL.Path)

		url := fmt.Sprintf("https://demo.lemonsqueezy.com/checkout/buy/%s?checkout[custom][user_id]=%s", req.VariantID, user.ID)
		renderJSON(w, http.StatusOK, CheckoutResponse{URL: url})

		return
	}

	url, err := h.payments.CreateCheckout(r.Context(), h.storeID, req.VariantID, user.ID)
	if err != nil {
		h.logger.Printf("ERROR %s - user: %s - checkout failed: %v", r.URL.Path, user.ID, err)
		renderError(w, http.StatusInternalServerError, err.Error())

		return
	}

	h.logger.Printf("POST %s - user: %s - created checkout for variant %s", r.URL.Path, user.ID, req.VariantID)
	renderJSON(w, http.StatusOK, CheckoutResponse{URL: url})
}

// RegisterRoutes registers checkout routes with the router
func (h *CheckoutHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/checkout", h.apiCreateCheckout).Methods(http.MethodPost)
}
