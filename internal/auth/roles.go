package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookly-service/internal/domain"
)

// RoleChecker tests role membership against a fixed allow-set. Built once
// per allow-set and reused across requests.
type RoleChecker struct {
	allowed map[domain.Role]struct{}
}

// NewRoleChecker builds a checker for the given roles. An empty allow-set
// permits any authenticated role.
func NewRoleChecker(roles ...domain.Role) *RoleChecker {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return &RoleChecker{allowed: allowed}
}

// Check reports whether role is in the allow-set.
func (rc *RoleChecker) Check(role domain.Role) bool {
	if len(rc.allowed) == 0 {
		return true
	}
	_, ok := rc.allowed[role]
	return ok
}

// RequireRoles gates a route on the access token's role claim.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	checker := NewRoleChecker(roles...)

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return AsDomainError(ErrMissingCredentials)
		}
		if !checker.Check(claims.Role) {
			return AsDomainError(ErrInsufficientPermission)
		}
		return c.Next()
	}
}

// RequireVerified gates a route on the account's verified flag. Must run
// after LoadPrincipal.
func RequireVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := PrincipalFromContext(c)
		if !ok {
			return AsDomainError(ErrMissingCredentials)
		}
		if !user.Verified {
			return AsDomainError(ErrAccountNotVerified)
		}
		return c.Next()
	}
}
