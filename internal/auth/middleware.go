package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookly-service/internal/domain"
	"github.com/spec-kit/bookly-service/internal/repository"
)

const (
	claimsKey    = "auth_claims"
	principalKey = "auth_principal"
)

// Middleware adapts an Authenticator to fiber's handler chain.
type Middleware struct {
	authn *Authenticator
	users repository.UserDirectory
}

// NewMiddleware constructs middleware around a fixed authenticator.
func NewMiddleware(authn *Authenticator, users repository.UserDirectory) *Middleware {
	return &Middleware{authn: authn, users: users}
}

// Handle authenticates the request's bearer token and stores the claims.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	claims, err := m.authn.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return AsDomainError(err)
	}
	c.Locals(claimsKey, claims)
	return c.Next()
}

// LoadPrincipal resolves the authenticated claims to the current directory
// record. A token for a deleted account authenticates but carries no
// principal, which is treated as invalid.
func (m *Middleware) LoadPrincipal(c *fiber.Ctx) error {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return AsDomainError(ErrMissingCredentials)
	}

	user, err := m.users.GetByID(c.UserContext(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AsDomainError(ErrInvalidToken)
		}
		return err
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated claims.
func ClaimsFromContext(c *fiber.Ctx) (*SessionClaims, bool) {
	claims, ok := c.Locals(claimsKey).(*SessionClaims)
	return claims, ok && claims != nil
}

// PrincipalFromContext retrieves the authenticated user record.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(principalKey).(*domain.User)
	return user, ok && user != nil
}
