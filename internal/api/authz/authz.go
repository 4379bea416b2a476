package authz

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// RoleAdmin is the only role that grants access to the admin panel.
const RoleAdmin = "admin"

// AuthUser is the signed-in user carried by the session cookie.
type AuthUser struct {
	ID       string
	Email    string
	Role     string
	Provider string
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether user carries the admin role claim.
func IsAdmin(user *AuthUser) bool {
	return user != nil && strings.EqualFold(strings.TrimSpace(user.Role), RoleAdmin)
}

// RequireAdmin is the capability check at the admin route entry.
func RequireAdmin(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if !IsAdmin(user) {
		return ErrForbidden
	}
	return nil
}
