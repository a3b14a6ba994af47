package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/bookly-service/internal/auth"
	"github.com/spec-kit/bookly-service/internal/config"
	"github.com/spec-kit/bookly-service/internal/domain"
	"github.com/spec-kit/bookly-service/internal/events"
	"github.com/spec-kit/bookly-service/internal/repository"
)

// ErrEmailTaken rejects duplicate registration attempts.
var ErrEmailTaken = errors.New("email already registered")

// TokenPair bundles the credentials minted on a successful login.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService coordinates registration, login, refresh, logout and the
// email-token flows. It holds no per-request state; the signing key and TTLs
// are fixed at construction.
type AuthService struct {
	users         repository.UserDirectory
	revocations   repository.RevocationStore
	codec         *auth.TokenCodec
	hasher        *auth.PasswordHasher
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	revocationTTL time.Duration
	storeTimeout  time.Duration
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	Users       repository.UserDirectory
	Revocations repository.RevocationStore
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.Users,
		revocations: deps.Revocations,
		codec: auth.NewTokenCodec(
			cfg.JWTSecret,
			cfg.AccessTokenTTL(),
			cfg.RefreshTokenTTL(),
			cfg.EmailTokenTTL(),
		),
		hasher:        auth.NewPasswordHasher(cfg.BcryptCost),
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		revocationTTL: cfg.RevocationTTL(),
		storeTimeout:  cfg.RevocationTimeout(),
	}
}

// Register creates a new unverified account and mints an email verification
// token for out-of-band delivery.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Verified:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	verifyToken, _, err := s.codec.SignEmailAction(user.Email)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
		Payload: events.UserRegisteredPayload{
			Username:          user.Username,
			VerificationToken: verifyToken,
		},
	})

	return user, verifyToken, nil
}

// Login verifies credentials and mints an access/refresh pair. Unknown email
// and wrong password are indistinguishable to the caller; the unknown-email
// path still burns a hash comparison so the two cost the same.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.DummyVerify()
			return nil, nil, auth.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// Malformed stored digest. Internally distinct from a mismatch but
		// surfaced identically.
		s.logger.Error("stored password digest unreadable", zap.String("user_id", user.ID), zap.Error(err))
		return nil, nil, auth.ErrInvalidCredentials
	}
	if !match {
		return nil, nil, auth.ErrInvalidCredentials
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.Event{Type: events.EventUserLoggedIn, UserID: user.ID, Email: user.Email})

	return user, pair, nil
}

// Refresh mints a new access token from validated refresh claims. The expiry
// is re-checked here independently of signature validation, and the role is
// re-derived from the directory so a role change takes effect on the next
// refresh rather than persisting until the refresh token dies.
func (s *AuthService) Refresh(ctx context.Context, claims *auth.SessionClaims) (string, time.Time, error) {
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		return "", time.Time{}, fmt.Errorf("%w: %w", auth.ErrInvalidToken, auth.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", time.Time{}, auth.ErrInvalidToken
		}
		return "", time.Time{}, err
	}

	return s.codec.SignAccess(user)
}

// Logout revokes the presented token by its id. Revoking an already revoked
// token rewrites the same entry, so the operation is idempotent.
func (s *AuthService) Logout(ctx context.Context, claims *auth.SessionClaims) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.revocations.Add(ctx, claims.ID, s.revocationTTL); err != nil {
		return fmt.Errorf("%w: %v", auth.ErrRevocationStoreUnavailable, err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserLoggedOut,
		UserID:  claims.SubjectID,
		Email:   claims.Email,
		Payload: events.UserLoggedOutPayload{TokenID: claims.ID},
	})

	return nil
}

// VerifyEmail confirms the account named by a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.codec.DecodeEmailAction(token)
	if err != nil {
		return err
	}
	if err := s.users.MarkVerified(ctx, claims.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return auth.ErrInvalidToken
		}
		return err
	}
	return nil
}

// RequestPasswordReset mints a reset token for the account, if one exists.
// The caller receives no signal either way, to avoid enumeration; the token
// travels out-of-band via the mail pipeline.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	resetToken, _, err := s.codec.SignEmailAction(user.Email)
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventPasswordResetRequested,
		UserID:  user.ID,
		Email:   user.Email,
		Payload: events.PasswordResetRequestedPayload{ResetToken: resetToken},
	})

	return nil
}

// ConfirmPasswordReset validates a reset token and installs the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.DecodeEmailAction(token)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return auth.ErrInvalidToken
		}
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.EventPasswordChanged, UserID: user.ID, Email: user.Email})
	return nil
}

// ChangePassword verifies the current password before installing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil || !match {
		return auth.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Type: events.EventPasswordChanged, UserID: user.ID, Email: user.Email})
	return nil
}

// Codec exposes the token codec for authenticator construction.
func (s *AuthService) Codec() *auth.TokenCodec {
	return s.codec
}

func (s *AuthService) mintPair(user *domain.User) (*TokenPair, error) {
	access, accessExp, err := s.codec.SignAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.codec.SignRefresh(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
