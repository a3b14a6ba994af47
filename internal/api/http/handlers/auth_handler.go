package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookly-service/internal/api/dto"
	"github.com/spec-kit/bookly-service/internal/auth"
	"github.com/spec-kit/bookly-service/internal/domain"
	"github.com/spec-kit/bookly-service/internal/service"
	apperrors "github.com/spec-kit/bookly-service/pkg/util"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	user, _, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewConflict("user with this email already exists", nil)
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user":    userResponse(user),
			"message": "account created, check your email to verify it",
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, pair, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return auth.AsDomainError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.TokenPairResponse{
				AccessToken:      pair.AccessToken,
				AccessExpiresAt:  pair.AccessExpiresAt,
				RefreshToken:     pair.RefreshToken,
				RefreshExpiresAt: pair.RefreshExpiresAt,
			},
		},
	})
}

// Refresh handles GET /auth/refresh. Runs behind the refresh-required
// authenticator.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return auth.AsDomainError(auth.ErrMissingCredentials)
	}

	token, expiresAt, err := h.auth.Refresh(c.UserContext(), claims)
	if err != nil {
		return auth.AsDomainError(err)
	}

	return c.JSON(fiber.Map{
		"data": dto.AccessTokenResponse{AccessToken: token, ExpiresAt: expiresAt},
	})
}

// Logout handles GET /auth/logout. Runs behind the access-required
// authenticator.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return auth.AsDomainError(auth.ErrMissingCredentials)
	}

	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		return auth.AsDomainError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "logged out"},
	})
}

// Me handles GET /auth/me. Runs behind the access-required authenticator and
// principal loading.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.PrincipalFromContext(c)
	if !ok {
		return auth.AsDomainError(auth.ErrMissingCredentials)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": userResponse(user)},
	})
}

// VerifyEmail handles GET /auth/verify/:token.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	if err := h.auth.VerifyEmail(c.UserContext(), token); err != nil {
		return auth.AsDomainError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "account verified"},
	})
}

// RequestPasswordReset handles POST /auth/password-reset. The response is the
// same whether or not the email exists.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "if the account exists, a reset link has been sent"},
	})
}

// ConfirmPasswordReset handles POST /auth/password-reset/confirm/:token.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.NewPassword == "" {
		return apperrors.NewValidationError("new_password required", nil)
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), token, req.NewPassword); err != nil {
		return auth.AsDomainError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "password updated"},
	})
}

// ChangePassword handles POST /auth/password/change. Runs behind the
// access-required authenticator.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return auth.AsDomainError(auth.ErrMissingCredentials)
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password required", nil)
	}

	if err := h.auth.ChangePassword(c.UserContext(), claims.SubjectID, req.CurrentPassword, req.NewPassword); err != nil {
		return auth.AsDomainError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "password updated"},
	})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		Verified: user.Verified,
	}
}
