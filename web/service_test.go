package web_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/textforge/humanizer/models"
	"github.com/textforge/humanizer/web"
	"github.com/textforge/humanizer/web/memory"
)

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

type failingRepo struct {
	err error
}

func (r *failingRepo) Get(context.Context, string) (models.User, error) {
	return models.User{}, r.err
}

func (r *failingRepo) Create(context.Context, *models.User) error {
	return r.err
}

func (r *failingRepo) UpdateSubscription(context.Context, string, bool, string) error {
	return r.err
}

func TestServiceGetUserCreatesDefaults(t *testing.T) {
	svc := web.NewService(memory.New(), nopLogger{})

	user := svc.GetUser(context.Background(), "u1")

	require.Equal(t, "u1", user.ID)
	require.False(t, user.IsSubscribed)
	require.Empty(t, user.SubscriptionID)

	// A second read returns the identical record.
	again := svc.GetUser(context.Background(), "u1")
	require.Equal(t, user, again)
}

func TestServiceUpdateThenGet(t *testing.T) {
	svc := web.NewService(memory.New(), nopLogger{})

	svc.UpdateUserSubscription(context.Background(), "u1", true, "sub_1")

	user := svc.GetUser(context.Background(), "u1")
	require.True(t, user.IsSubscribed)
	require.Equal(t, "sub_1", user.SubscriptionID)
}

func TestServiceUpdateIsIdempotent(t *testing.T) {
	svc := web.NewService(memory.New(), nopLogger{})

	svc.UpdateUserSubscription(context.Background(), "u1", true, "sub_1")
	first := svc.GetUser(context.Background(), "u1")

	svc.UpdateUserSubscription(context.Background(), "u1", true, "sub_1")
	second := svc.GetUser(context.Background(), "u1")

	require.Equal(t, first, second)
}

func TestServiceUpdateBeforeGetUpserts(t *testing.T) {
	svc := web.NewService(memory.New(), nopLogger{})

	// The record does not exist yet; the update must create it.
	svc.UpdateUserSubscription(context.Background(), "ghost", false, "sub_gone")

	user := svc.GetUser(context.Background(), "ghost")
	require.False(t, user.IsSubscribed)
	require.Equal(t, "sub_gone", user.SubscriptionID)
}

func TestServiceGetUserFailSoft(t *testing.T) {
	repo := &failingRepo{err: errors.New("disk on fire")}
	svc := web.NewService(repo, nopLogger{})

	user := svc.GetUser(context.Background(), "u1")

	require.Equal(t, "u1", user.ID)
	require.False(t, user.IsSubscribed)
	require.Empty(t, user.SubscriptionID)
}

func TestServiceUpdateFailSoft(t *testing.T) {
	repo := &failingRepo{err: errors.New("disk on fire")}
	svc := web.NewService(repo, nopLogger{})

	// Must not panic or surface the error.
	svc.UpdateUserSubscription(context.Background(), "u1", true, "sub_1")
}
