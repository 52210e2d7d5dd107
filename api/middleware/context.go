package middleware

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the caller resolved by Auth.
type Identity struct {
	UserID uuid.UUID
	Role   string
	Email  string
	// AccessID is the jti of the access token that authenticated the request.
	AccessID string
}

type identityKey struct{}

// WithIdentity seeds the context the way Auth does. Handlers under test use it directly.
func WithIdentity(ctx context.Context, userID uuid.UUID, role, email, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityKey{}, Identity{UserID: userID, Role: role, Email: email, AccessID: accessID})
}

// IdentityFromContext is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != uuid.Nil
}

func UserUUIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}

// UserIDFromContext is "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := IdentityFromContext(ctx); ok {
		return id.UserID.String()
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.Role
}

func EmailFromContext(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.Email
}

func AccessIDFromContext(ctx context.Context) string {
	id, _ := IdentityFromContext(ctx)
	return id.AccessID
}
