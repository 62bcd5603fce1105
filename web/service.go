package web

import (
	"context"
	"errors"

	"github.com/textforge/humanizer/models"
)

// Logger interface for logging
type Logger interface {
	Printf(format string, v ...interface{})
}

// Service wraps a UserRepository with the fail-soft semantics the HTTP
// layer relies on. Both operations sit behind the checkout/webhook path
// where a propagated storage error would break the response contract
// (the payment provider expects a 200 regardless of bookkeeping hiccups),
// so storage failures are logged and absorbed here.
type Service struct {
	repo   UserRepository
	logger Logger
}

func NewService(repo UserRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetUser returns the record for id, creating it with defaults on first
// sight. It never fails: on a storage error the caller gets a transient
// default record and the error is only logged.
func (s *Service) GetUser(ctx context.Context, id string) models.User {
	user, err := s.repo.Get(ctx, id)
	if err == nil {
		return user
	}

	if !errors.Is(err, ErrNotFound) {
		s.logger.Printf("ERROR user store - get %s: %v", id, err)

		return models.User{ID: id}
	}

	user = models.User{ID: id}

	if err := s.repo.Create(ctx, &user); err != nil && !errors.Is(err, ErrAlreadyExists) {
		s.logger.Printf("ERROR user store - create %s: %v", id, err)

		return models.User{ID: id}
	}

	// Re-read so a concurrent writer's state wins over our defaults.
	stored, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Printf("ERROR user store - reread %s: %v", id, err)

		return user
	}

	return stored
}

// UpdateUserSubscription upserts the subscription state for id. Idempotent
// and fail-soft: a storage error is logged and the prior stored state is
// left unchanged.
func (s *Service) UpdateUserSubscription(ctx context.Context, id string, isSubscribed bool, subscriptionID string) {
	if err := s.repo.UpdateSubscription(ctx, id, isSubscribed, subscriptionID); err != nil {
		s.logger.Printf("ERROR user store - update subscription %s: %v", id, err)
	}
}
