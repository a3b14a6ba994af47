package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/bookly-service/internal/domain"
	"github.com/spec-kit/bookly-service/internal/repository"
)

// Authenticator validates bearer credentials for one required token kind.
// Two instances exist per process, access-required and refresh-required,
// built once at startup and shared across requests.
type Authenticator struct {
	codec       *TokenCodec
	revocations repository.RevocationStore
	required    domain.TokenKind
	timeout     time.Duration
}

// NewAccessAuthenticator builds an authenticator that rejects refresh tokens.
func NewAccessAuthenticator(codec *TokenCodec, revocations repository.RevocationStore, timeout time.Duration) *Authenticator {
	return newAuthenticator(codec, revocations, domain.TokenKindAccess, timeout)
}

// NewRefreshAuthenticator builds an authenticator that rejects access tokens.
func NewRefreshAuthenticator(codec *TokenCodec, revocations repository.RevocationStore, timeout time.Duration) *Authenticator {
	return newAuthenticator(codec, revocations, domain.TokenKindRefresh, timeout)
}

func newAuthenticator(codec *TokenCodec, revocations repository.RevocationStore, required domain.TokenKind, timeout time.Duration) *Authenticator {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Authenticator{codec: codec, revocations: revocations, required: required, timeout: timeout}
}

// Authenticate runs the per-request check: extract the bearer token, decode
// it, consult the blocklist, and enforce the required kind. Any anomaly fails
// closed.
func (a *Authenticator) Authenticate(ctx context.Context, authorizationHeader string) (*SessionClaims, error) {
	token, err := extractBearer(authorizationHeader)
	if err != nil {
		return nil, err
	}

	claims, err := a.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	revoked, err := a.isRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	if claims.Kind() != a.required {
		if a.required == domain.TokenKindAccess {
			return nil, ErrAccessTokenRequired
		}
		return nil, ErrRefreshTokenRequired
	}

	return claims, nil
}

func (a *Authenticator) isRevoked(ctx context.Context, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	revoked, err := a.revocations.Contains(ctx, tokenID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRevocationStoreUnavailable, err)
	}
	return revoked, nil
}

func extractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredentials
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMissingCredentials
	}
	return parts[1], nil
}
