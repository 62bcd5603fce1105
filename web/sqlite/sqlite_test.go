package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/textforge/humanizer/models"
	"github.com/textforge/humanizer/web"
	"github.com/textforge/humanizer/web/sqlite"
)

func newRepo(t *testing.T) web.UserRepository {
	t.Helper()

	repo, err := sqlite.New(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)

	return repo
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, web.ErrNotFound)
}

func TestCreateThenGet(t *testing.T) {
	repo := newRepo(t)

	user := models.User{ID: "u1"}
	require.NoError(t, repo.Create(context.Background(), &user))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, user, got)

	err = repo.Create(context.Background(), &user)
	require.ErrorIs(t, err, web.ErrAlreadyExists)
}

func TestUpdateSubscriptionUpserts(t *testing.T) {
	repo := newRepo(t)

	// No prior row: the update inserts one.
	require.NoError(t, repo.UpdateSubscription(context.Background(), "u1", true, "sub_1"))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, got.IsSubscribed)
	require.Equal(t, "sub_1", got.SubscriptionID)

	// Applying the same update twice leaves the same state.
	require.NoError(t, repo.UpdateSubscription(context.Background(), "u1", true, "sub_1"))

	again, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEmptySubscriptionIDStoredAsNull(t *testing.T) {
	repo := newRepo(t)

	require.NoError(t, repo.UpdateSubscription(context.Background(), "u1", false, ""))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Empty(t, got.SubscriptionID)
}
