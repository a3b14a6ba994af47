package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookly-service/internal/api/http/handlers"
	"github.com/spec-kit/bookly-service/internal/auth"
	"github.com/spec-kit/bookly-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	AccessAuth  *auth.Middleware
	RefreshAuth *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/verify/:token", cfg.Auth.VerifyEmail)
	authGroup.Post("/password-reset", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm/:token", cfg.Auth.ConfirmPasswordReset)

	// The refresh endpoint is the only one gated on a refresh token.
	authGroup.Get("/refresh", cfg.RefreshAuth.Handle, cfg.Auth.Refresh)

	protected := authGroup.Group("", cfg.AccessAuth.Handle)
	protected.Get("/logout", cfg.Auth.Logout)
	protected.Post("/password/change", cfg.Auth.ChangePassword)
	protected.Get("/me",
		cfg.AccessAuth.LoadPrincipal,
		auth.RequireVerified(),
		auth.RequireRoles(domain.RoleUser, domain.RoleAdmin),
		cfg.Auth.Me)
}
