package subscription_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/textforge/humanizer/lemonsqueezy"
	"github.com/textforge/humanizer/subscription"
)

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

type recordedUpdate struct {
	id             string
	isSubscribed   bool
	subscriptionID string
}

type fakeStore struct {
	updates []recordedUpdate
}

func (s *fakeStore) UpdateUserSubscription(_ context.Context, id string, isSubscribed bool, subscriptionID string) {
	s.updates = append(s.updates, recordedUpdate{id, isSubscribed, subscriptionID})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		eventName  string
		status     string
		subscribed bool
		recognized bool
	}{
		{name: "created active", eventName: "subscription_created", status: "active", subscribed: true, recognized: true},
		{name: "created past due", eventName: "subscription_created", status: "past_due", subscribed: true, recognized: true},
		{name: "updated on trial", eventName: "subscription_updated", status: "on_trial", subscribed: true, recognized: true},
		{name: "updated unpaid", eventName: "subscription_updated", status: "unpaid", subscribed: false, recognized: true},
		{name: "cancelled ignores status", eventName: "subscription_cancelled", status: "active", subscribed: false, recognized: true},
		{name: "expired", eventName: "subscription_expired", status: "expired", subscribed: false, recognized: true},
		{name: "unknown event", eventName: "order_created", status: "active", subscribed: false, recognized: false},
		{name: "case sensitive", eventName: "Subscription_Created", status: "active", subscribed: false, recognized: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			subscribed, recognized := subscription.Resolve(tc.eventName, tc.status)
			require.Equal(t, tc.subscribed, subscribed)
			require.Equal(t, tc.recognized, recognized)
		})
	}
}

func TestProcessWebhookEventApplies(t *testing.T) {
	store := &fakeStore{}
	svc := subscription.NewService(store, nopLogger{})

	svc.ProcessWebhookEvent(context.Background(), &lemonsqueezy.WebhookEvent{
		EventName:      "subscription_created",
		UserID:         "u1",
		SubscriptionID: "sub_1",
		Status:         "active",
	})

	require.Len(t, store.updates, 1)
	require.Equal(t, recordedUpdate{"u1", true, "sub_1"}, store.updates[0])
}

func TestProcessWebhookEventCancellationForwardsID(t *testing.T) {
	store := &fakeStore{}
	svc := subscription.NewService(store, nopLogger{})

	svc.ProcessWebhookEvent(context.Background(), &lemonsqueezy.WebhookEvent{
		EventName:      "subscription_cancelled",
		UserID:         "u1",
		SubscriptionID: "sub_2",
		Status:         "cancelled",
	})

	require.Len(t, store.updates, 1)
	require.Equal(t, recordedUpdate{"u1", false, "sub_2"}, store.updates[0])
}

func TestProcessWebhookEventUnrecognizedIsNoOp(t *testing.T) {
	store := &fakeStore{}
	svc := subscription.NewService(store, nopLogger{})

	svc.ProcessWebhookEvent(context.Background(), &lemonsqueezy.WebhookEvent{
		EventName: "license_key_created",
		UserID:    "u1",
	})

	require.Empty(t, store.updates)
}
