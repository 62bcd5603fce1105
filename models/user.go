package models

// User represents an application user and their subscription state.
// IDs are opaque strings supplied by the client and are never validated
// for format. An empty SubscriptionID means no subscription event has
// ever been recorded for this user.
type User struct {
	ID             string `json:"id"`
	IsSubscribed   bool   `json:"is_subscribed"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}
