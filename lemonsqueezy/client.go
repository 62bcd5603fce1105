// Package lemonsqueezy is a minimal client for the Lemon Squeezy API:
// checkout session creation plus webhook signature verification and
// payload parsing. There is no official Go SDK; the JSON:API request
// shapes follow the provider's documentation.
package lemonsqueezy

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.lemonsqueezy.com"
	defaultTimeout = 30 * time.Second

	// SignatureHeader carries the webhook HMAC on inbound requests.
	SignatureHeader = "X-Signature"
)

// ErrInvalidSignature is returned when a webhook body does not match its
// X-Signature header.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Client interface for Lemon Squeezy operations
type Client interface {
	// CreateCheckout creates a checkout session for variantID carrying
	// userID as custom data, and returns the hosted checkout URL.
	CreateCheckout(ctx context.Context, storeID, variantID, userID string) (string, error)
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Lemon Squeezy client with an explicit request
// timeout.
func NewClient(apiKey string) Client {
	return &client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type checkoutRequest struct {
	Data checkoutData `json:"data"`
}

type checkoutData struct {
	Type          string             `json:"type"`
	Attributes    checkoutAttributes `json:"attributes"`
	Relationships relationships      `json:"relationships"`
}

type checkoutAttributes struct {
	CheckoutData customData `json:"checkout_data"`
}

type customData struct {
	Custom map[string]string `json:"custom"`
}

type relationships struct {
	Store   relationship `json:"store"`
	Variant relationship `json:"variant"`
}

type relationship struct {
	Data relationshipData `json:"data"`
}

type relationshipData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type checkoutResponse struct {
	Data struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	} `json:"data"`
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (c *client) CreateCheckout(ctx context.Context, storeID, variantID, userID string) (string, error) {
	payload := checkoutRequest{
		Data: checkoutData{
			Type: "checkouts",
			Attributes: checkoutAttributes{
				CheckoutData: customData{
					Custom: map[string]string{"user_id": userID},
				},
			},
			Relationships: relationships{
				Store:   relationship{Data: relationshipData{Type: "stores", ID: storeID}},
				Variant: relationship{Data: relationshipData{Type: "variants", ID: variantID}},
			},
		},
	}

	body, err := json.Marshal(&payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkouts", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("Content-Type", "application/vnd.api+json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("checkout request failed: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read checkout response: %w", err)
	}

	var parsed checkoutResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode checkout response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		detail := parsed.Errors[0].Detail
		if detail == "The related resource does not exist." {
			return "", errors.New("invalid store id or variant id, check the Lemon Squeezy configuration")
		}

		return "", errors.New(detail)
	}

	if parsed.Data.Attributes.URL == "" {
		return "", errors.New("checkout response missing url")
	}

	return parsed.Data.Attributes.URL, nil
}

// VerifySignature checks the HMAC-SHA256 hex digest of the exact raw
// body bytes against the X-Signature header value. The comparison is
// constant time; a length mismatch rejects. Callers must pass the body
// untouched — any JSON reserialization before hashing invalidates the
// signature.
func VerifySignature(payload []byte, signature, secret string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)

	digest := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(digest), []byte(signature)) {
		return ErrInvalidSignature
	}

	return nil
}

// WebhookEvent is the decoded subset of a Lemon Squeezy webhook payload
// this service acts on.
type WebhookEvent struct {
	EventName      string
	UserID         string
	SubscriptionID string
	Status         string
}

type webhookPayload struct {
	Meta struct {
		EventName  string `json:"event_name"`
		CustomData struct {
			UserID string `json:"user_id"`
		} `json:"custom_data"`
	} `json:"meta"`
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Status string `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

// ParseWebhookEvent decodes a raw webhook body. The user id may be empty;
// rejecting such events is the caller's responsibility.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	return &WebhookEvent{
		EventName:      p.Meta.EventName,
		UserID:         p.Meta.CustomData.UserID,
		SubscriptionID: p.Data.ID,
		Status:         p.Data.Attributes.Status,
	}, nil
}
