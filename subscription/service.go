// Package subscription maps payment-provider webhook events onto the
// per-user subscription flag.
package subscription

import (
	"context"

	"github.com/textforge/humanizer/lemonsqueezy"
)

// Statuses that count as an entitled subscription.
const (
	StatusActive  = "active"
	StatusPastDue = "past_due"
	StatusOnTrial = "on_trial"
)

// UserStore is the slice of the user service this package needs. The
// update is fail-soft by contract: storage errors are absorbed below us.
type UserStore interface {
	UpdateUserSubscription(ctx context.Context, id string, isSubscribed bool, subscriptionID string)
}

// Logger interface for logging
type Logger interface {
	Printf(format string, v ...interface{})
}

// ServiceInterface defines the subscription service interface
type ServiceInterface interface {
	ProcessWebhookEvent(ctx context.Context, event *lemonsqueezy.WebhookEvent)
}

// Service applies webhook events to the user store.
type Service struct {
	users  UserStore
	logger Logger
}

func NewService(users UserStore, logger Logger) *Service {
	return &Service{
		users:  users,
		logger: logger,
	}
}

// Resolve maps an event name and status to the new subscription flag.
// The second return is false for event names this service does not act
// on; those are accepted without any state change.
func Resolve(eventName, status string) (isSubscribed, recognized bool) {
	switch eventName {
	case "subscription_created", "subscription_updated":
		return status == StatusActive || status == StatusPastDue || status == StatusOnTrial, true
	case "subscription_cancelled", "subscription_expired":
		// Deactivation still records the event's subscription id: the
		// stored id then names the subscription that just ended.
		return false, true
	default:
		return false, false
	}
}

// ProcessWebhookEvent applies the event to the user store. Events with
// unrecognized names are logged and dropped; the caller has already
// rejected events without a user id.
func (s *Service) ProcessWebhookEvent(ctx context.Context, event *lemonsqueezy.WebhookEvent) {
	isSubscribed, recognized := Resolve(event.EventName, event.Status)
	if !recognized {
		s.logger.Printf("Unhandled event type: %s", event.EventName)

		return
	}

	s.users.UpdateUserSubscription(ctx, event.UserID, isSubscribed, event.SubscriptionID)

	s.logger.Printf("Applied %s for user %s (subscribed=%v, subscription=%s)",
		event.EventName, event.UserID, isSubscribed, event.SubscriptionID)
}
