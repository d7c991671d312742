// Package identity resolves the authenticated user for a request and looks up the
// display profile copied onto UserProgress rows.
package identity

import (
	"context"
	"strings"

	"lingo/apierr"
)

type ctxKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, strings.TrimSpace(userID))
}

// CurrentUserID returns the user id stored by WithUserID or ErrUnauthenticated.
func CurrentUserID(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", apierr.ErrUnauthenticated
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	if id == "" {
		return "", apierr.ErrUnauthenticated
	}
	return id, nil
}

type Profile struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	ImageSrc string `json:"image_src"`
	Email    string `json:"email"`
}

// ProfileSource looks up display data for a user id.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (*Profile, error)
}
