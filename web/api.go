package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/textforge/humanizer/gemini"
	"github.com/textforge/humanizer/tlmt"
	"github.com/textforge/humanizer/web/auth"
)

// Free users may humanize up to this many whitespace-delimited words per
// request. The tokenization is naive for multi-byte scripts; changing it
// is a product decision, not a code fix.
const freeWordLimit = 100

// APIHandler handles the text-processing and account endpoints.
type APIHandler struct {
	ai        gemini.Client
	telemetry tlmt.Telemetry
	logger    Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(ai gemini.Client, telemetry tlmt.Telemetry, logger Logger) *APIHandler {
	return &APIHandler{
		ai:        ai,
		telemetry: telemetry,
		logger:    logger,
	}
}

// HumanizeRequest represents a humanize request
type HumanizeRequest struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// HumanizeResponse represents a humanize response
type HumanizeResponse struct {
	Text string `json:"text"`
}

// apiHumanize handles POST /api/humanize
func (h *APIHandler) apiHumanize(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		renderError(w, http.StatusUnauthorized, "Unauthorized")

		return
	}

	var req HumanizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, http.StatusBadRequest, "Invalid request body")

		return
	}

	if strings.TrimSpace(req.Text) == "" {
		renderError(w, http.StatusBadRequest, "Text is required")

		return
	}

	if req.Tone == "" {
		req.Tone = gemini.ToneStandard
	}

	words := len(strings.Fields(req.Text))

	if words > freeWordLimit && !user.IsSubscribed {
		h.logger.Printf("POST %s - user: %s - word count %d over free limit", r.URL.Path, user.ID, words)
		renderError(w, http.StatusForbidden, "Subscription required for over 100 words.")

		return
	}

	out, err := h.ai.Humanize(r.Context(), req.Text, req.Tone)
	if err != nil {
		h.logger.Printf("ERROR %s - user: %s - humanize failed: %v", r.URL.Path, user.ID, err)
		renderError(w, http.StatusInternalServerError, err.Error())

		return
	}

	_ = h.telemetry.Send(r.Context(), tlmt.NewEvent("humanize", map[string]any{
		"word_count": words,
		"tone":       req.Tone,
		"subscribed": user.IsSubscribed,
	}))

	renderJSON(w, http.StatusOK, HumanizeResponse{Text: out})
}

// DetectRequest represents a detect-ai request
type DetectRequest struct {
	Text string `json:"text"`
}

// DetectResponse represents a detect-ai response
type DetectResponse struct {
	AIPercentage int `json:"aiPercentage"`
}

// apiDetectAI handles POST /api/detect-ai
func (h *APIHandler) apiDetectAI(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		renderError(w, http.StatusUnauthorized, "Unauthorized")

		return
	}

	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, http.StatusBadRequest, "Invalid request body")

		return
	}

	// Nothing to score; skip the upstream call entirely.
	if strings.TrimSpace(req.Text) == "" {
		renderJSON(w, http.StatusOK, DetectResponse{AIPercentage: 0})

		return
	}

	out, err := h.ai.DetectAI(r.Context(), req.Text)
	if err != nil {
		h.logger.Printf("ERROR %s - user: %s - detection failed: %v", r.URL.Path, user.ID, err)
		renderError(w, http.StatusInternalServerError, err.Error())

		return
	}

	score := parseScore(out)

	_ = h.telemetry.Send(r.Context(), tlmt.NewEvent("detect_ai", map[string]any{
		"score": score,
	}))

	renderJSON(w, http.StatusOK, DetectResponse{AIPercentage: score})
}

// parseScore turns the model's raw output into an integer percentage,
// defaulting to 0 when unparsable and clamping to [0,100].
func parseScore(out string) int {
	score, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0
	}

	if score < 0 {
		return 0
	}

	if score > 100 {
		return 100
	}

	return score
}

// UserResponse represents the account status response
type UserResponse struct {
	IsSubscribed bool `json:"is_subscribed"`
}

// apiGetUser handles GET /api/user
func (h *APIHandler) apiGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUser(r.Context())
	if err != nil {
		renderError(w, http.StatusUnauthorized, "Unauthorized")

		return
	}

	renderJSON(w, http.StatusOK, UserResponse{IsSubscribed: user.IsSubscribed})
}

// apiHealth handles GET /api/health
func (h *APIHandler) apiHealth(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes registers the API routes with the router
func (h *APIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/humanize", h.apiHumanize).Methods(http.MethodPost)
	router.HandleFunc("/detect-ai", h.apiDetectAI).Methods(http.MethodPost)
	router.HandleFunc("/user", h.apiGetUser).Methods(http.MethodGet)
	router.HandleFunc("/health", h.apiHealth).Methods(http.MethodGet)
}
