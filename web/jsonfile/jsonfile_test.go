package jsonfile_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/textforge/humanizer/models"
	"github.com/textforge/humanizer/web"
	"github.com/textforge/humanizer/web/jsonfile"
)

func newRepo(t *testing.T, path string) web.UserRepository {
	t.Helper()

	repo, err := jsonfile.New(path)
	require.NoError(t, err)

	return repo
}

func TestCreateThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo := newRepo(t, path)

	user := models.User{ID: "u1"}
	require.NoError(t, repo.Create(context.Background(), &user))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, user, got)

	_, err = repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, web.ErrNotFound)
}

func TestUpdateSubscriptionUpserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo := newRepo(t, path)

	require.NoError(t, repo.UpdateSubscription(context.Background(), "u1", true, "sub_1"))

	got, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, got.IsSubscribed)
	require.Equal(t, "sub_1", got.SubscriptionID)
}

func TestStateSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")

	repo := newRepo(t, path)
	require.NoError(t, repo.UpdateSubscription(context.Background(), "u1", true, "sub_1"))

	// A fresh instance reads the same file.
	reopened := newRepo(t, path)

	got, err := reopened.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, got.IsSubscribed)
	require.Equal(t, "sub_1", got.SubscriptionID)
}
