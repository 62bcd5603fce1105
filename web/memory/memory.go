// Package memory provides the process-memory user store. It is the
// backend of last resort: state is lost on restart and every cold
// serverless invocation starts empty, but initialization never fails.
package memory

import (
	"context"
	"sync"

	"github.com/textforge/humanizer/models"
	"github.com/textforge/humanizer/web"
)

type repo struct {
	mu    *sync.RWMutex
	items map[string]models.User
}

func New() web.UserRepository {
	return &repo{
		mu:    &sync.RWMutex{},
		items: make(map[string]models.User),
	}
}

func (r *repo) Get(ctx context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.items[id]
	if !ok {
		return models.User{}, web.ErrNotFound
	}

	return user, nil
}

func (r *repo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[user.ID]; ok {
		return web.ErrAlreadyExists
	}

	r.items[user.ID] = *user

	return nil
}

func (r *repo) UpdateSubscription(ctx context.Context, id string, isSubscribed bool, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.items[id]
	if !ok {
		user = models.User{ID: id}
	}

	user.IsSubscribed = isSubscribed
	user.SubscriptionID = subscriptionID

	r.items[id] = user

	return nil
}
