package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var userCtxKey = &contextKey{"user"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// GetFiberClaims extracts the AuthClaims stored in fiber locals by the JWT
// middleware.
func GetFiberClaims(c *fiber.Ctx, key string) (AuthClaims, bool) {
	if key == "" {
		key = "user" // Default key used by JWT middleware
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// RequireMinimumRole checks the claims stored by the JWT middleware against a
// minimum role. Protected handlers call this themselves; the middleware only
// authenticates.
func RequireMinimumRole(c *fiber.Ctx, key string, minRole UserRole) error {
	claims, ok := GetFiberClaims(c, key)
	if !ok {
		return ErrForbidden
	}
	if !UserRole(claims.Role()).IsAtLeast(minRole) {
		return ErrForbidden
	}
	return nil
}

// Can is a convenience function to check role permissions directly from the
// standard context.
func Can(ctx context.Context, permission string) bool {
	claims, ok := GetClaims(ctx)
	if !ok {
		return false
	}
	return roleCan(UserRole(claims.Role()), permission)
}

// CanFromFiber checks role permissions from the fiber request context.
func CanFromFiber(c *fiber.Ctx, permission string) bool {
	claims, ok := GetFiberClaims(c, "")
	if !ok {
		return false
	}
	return roleCan(UserRole(claims.Role()), permission)
}

func roleCan(role UserRole, permission string) bool {
	switch permission {
	case "read":
		return role.CanRead()
	case "edit":
		return role.CanEdit()
	case "create":
		return role.CanCreate()
	case "delete":
		return role.CanDelete()
	default:
		return false
	}
}
