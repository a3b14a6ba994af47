package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookly-service/internal/domain"
	"github.com/spec-kit/bookly-service/internal/repository"
	apperrors "github.com/spec-kit/bookly-service/pkg/util"
)

// fakeDirectory returns a fixed user for any id.
type fakeDirectory struct {
	user *domain.User
}

func (f *fakeDirectory) Create(context.Context, *domain.User) error { return nil }

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, repository.ErrUserNotFound
	}
	cp := *f.user
	return &cp, nil
}

func (f *fakeDirectory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, repository.ErrUserNotFound
	}
	cp := *f.user
	return &cp, nil
}

func (f *fakeDirectory) UpdatePasswordHash(context.Context, string, string) error { return nil }
func (f *fakeDirectory) MarkVerified(context.Context, string) error               { return nil }

func newTestApp(m *Middleware, extra ...fiber.Handler) *fiber.App {
	// Mirrors the API boundary: denials become structured responses.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	chain := append([]fiber.Handler{m.Handle}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/protected", chain...)
	return app
}

func TestMiddlewareRejectsAnonymous(t *testing.T) {
	codec := newTestCodec()
	m := NewMiddleware(NewAccessAuthenticator(codec, newFakeRevocations(), time.Second), &fakeDirectory{})
	app := newTestApp(m)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMiddlewarePassesValidToken(t *testing.T) {
	codec := newTestCodec()
	user := testUser()
	m := NewMiddleware(NewAccessAuthenticator(codec, newFakeRevocations(), time.Second), &fakeDirectory{user: user})
	app := newTestApp(m)

	token, _, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequireRolesDeniesOutsiders(t *testing.T) {
	codec := newTestCodec()
	user := testUser()
	user.Role = domain.RoleUser
	m := NewMiddleware(NewAccessAuthenticator(codec, newFakeRevocations(), time.Second), &fakeDirectory{user: user})
	app := newTestApp(m, RequireRoles(domain.RoleAdmin))

	token, _, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRequireVerifiedDeniesUnverified(t *testing.T) {
	codec := newTestCodec()
	user := testUser()
	user.Verified = false
	m := NewMiddleware(NewAccessAuthenticator(codec, newFakeRevocations(), time.Second), &fakeDirectory{user: user})
	app := newTestApp(m, m.LoadPrincipal, RequireVerified())

	token, _, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}
