package auth

import (
	"context"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

type contextKey struct{}

// Identity is the authenticated caller, resolved once per request from the
// session store and passed explicitly to services.
type Identity struct {
	UserID       int64
	Username     string
	Email        string
	SessionToken string
}

func IdentityFromSession(sess *model.Session) Identity {
	return Identity{
		UserID:       sess.UserID,
		Username:     sess.Username,
		Email:        sess.Email,
		SessionToken: sess.Token,
	}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
