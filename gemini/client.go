// Package gemini is a minimal REST client for the Gemini generateContent
// API, covering the two calls this product makes: text rewriting and
// AI-likelihood scoring.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 60 * time.Second

	apiKeyHeader = "x-goog-api-key"
)

// Client interface for Gemini operations
type Client interface {
	// Humanize rewrites text with the given tone. Returns the rewritten text.
	Humanize(ctx context.Context, text, tone string) (string, error)
	// DetectAI returns the model's raw output for the detection prompt.
	// Callers are responsible for parsing and clamping it.
	DetectAI(ctx context.Context, text string) (string, error)
}

type client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new Gemini client with an explicit request timeout.
func NewClient(apiKey string) Client {
	return &client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c *client) Humanize(ctx context.Context, text, tone string) (string, error) {
	cfg := generationConfig{
		Temperature: ptr(1.3),
		TopP:        ptr(0.95),
		TopK:        ptr(60),
	}

	return c.generateContent(ctx, text, humanizeInstruction(tone), cfg)
}

func (c *client) DetectAI(ctx context.Context, text string) (string, error) {
	cfg := generationConfig{
		Temperature: ptr(0.1), // keep the score deterministic
	}

	return c.generateContent(ctx, text, detectInstruction, cfg)
}

type generationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"topP,omitempty"`
	TopK        *int     `json:"topK,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *client) generateContent(ctx context.Context, text, systemInstruction string, cfg generationConfig) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	payload := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: text}}},
		},
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		GenerationConfig:  cfg,
	}

	body, err := json.Marshal(&payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("gemini api error: %s", parsed.Error.Message)
		}

		return "", fmt.Errorf("gemini api error: status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder

	for _, p := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	return sb.String(), nil
}

func ptr[T any](v T) *T {
	return &v
}
