package auth

import (
	"context"

	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// Identity is a user as resolved by the external auth provider from a
// bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// contextKey is an unexported type to prevent context key collisions
type contextKey string

const identityKey contextKey = "identity"

// SetIdentityInContext adds the resolved identity to the context
func SetIdentityInContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext extracts the resolved identity from the context
func GetIdentityFromContext(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	if !ok || identity == nil {
		return nil, errors.NewUnauthorizedError("no identity in request context")
	}
	return identity, nil
}
