// Package auth resolves the calling user from the x-user-id header and
// carries the record through the request context. This is deliberately
// mock authentication: the identifier is client-supplied and trusted,
// matching the product's anonymous-browser-identity model.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/textforge/humanizer/models"
)

// ContextKey is used to store user information in the request context
type ContextKey string

const (
	// UserKey is the context key for storing the resolved user record
	UserKey ContextKey = "user"
	// UserIDHeader is the name of the identification header
	UserIDHeader = "x-user-id"
)

var errNotAuthenticated = errors.New("user not authenticated")

// UserGetter is the slice of the user service this middleware needs.
// GetUser is get-or-create and never fails.
type UserGetter interface {
	GetUser(ctx context.Context, id string) models.User
}

// Middleware loads the caller's user record into the request context.
type Middleware struct {
	users UserGetter
}

func NewMiddleware(users UserGetter) *Middleware {
	return &Middleware{users: users}
}

// LoadUser resolves the x-user-id header, if present, via the user
// service's get-or-create. Requests without the header pass through
// unauthenticated; handlers decide whether that is a 401.
func (m *Middleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID != "" {
			user := m.users.GetUser(r.Context(), userID)
			ctx := context.WithValue(r.Context(), UserKey, user)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// GetUser extracts the user record from the request context.
func GetUser(ctx context.Context) (models.User, error) {
	user, ok := ctx.Value(UserKey).(models.User)
	if !ok {
		return models.User{}, errNotAuthenticated
	}

	return user, nil
}

// GetUserID extracts the user ID from the request context.
func GetUserID(ctx context.Context) (string, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return "", err
	}

	return user.ID, nil
}
