package web

import (
	"context"

	"github.com/textforge/humanizer/models"
)

// UserRepository is the storage contract shared by all backends.
// There is deliberately no delete operation: the user table only grows.
type UserRepository interface {
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (models.User, error)
	// Create inserts a new record. Returns ErrAlreadyExists on conflict.
	Create(ctx context.Context, user *models.User) error
	// UpdateSubscription upserts the subscription state for id. A record
	// is created with defaults first if none exists.
	UpdateSubscription(ctx context.Context, id string, isSubscribed bool, subscriptionID string) error
}
