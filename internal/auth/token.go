package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/bookly-service/internal/domain"
)

// SessionClaims is the payload of access and refresh tokens. Refresh is the
// single discriminator between the two kinds; role is carried by access
// tokens only, so a refresh forces re-deriving the current role.
type SessionClaims struct {
	SubjectID string      `json:"uid"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role,omitempty"`
	Refresh   bool        `json:"refresh"`
	jwt.RegisteredClaims
}

// Kind returns the token kind implied by the discriminator.
func (c *SessionClaims) Kind() domain.TokenKind {
	if c.Refresh {
		return domain.TokenKindRefresh
	}
	return domain.TokenKindAccess
}

// EmailActionClaims is the payload of email verification and password reset
// tokens. It carries only the target email; the purpose is implied by the
// endpoint that consumes it.
type EmailActionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the service's tokens. Session tokens and
// email action tokens use separate keys derived from one secret, so a token
// from one domain can never validate in the other.
type TokenCodec struct {
	sessionKey []byte
	emailKey   []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

// NewTokenCodec builds a codec from the process-wide signing secret and TTLs.
func NewTokenCodec(secret string, accessTTL, refreshTTL, emailTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 48 * time.Hour
	}
	if emailTTL <= 0 {
		emailTTL = time.Hour
	}
	return &TokenCodec{
		sessionKey: deriveKey(secret, "session-token"),
		emailKey:   deriveKey(secret, "email-action"),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
	}
}

// deriveKey binds the signing key to a context string.
func deriveKey(secret, context string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(context))
	return mac.Sum(nil)
}

// SignAccess mints an access token embedding identity, email and role.
func (c *TokenCodec) SignAccess(user *domain.User) (string, time.Time, error) {
	return c.signSession(&SessionClaims{
		SubjectID: user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Refresh:   false,
	}, c.accessTTL)
}

// SignRefresh mints a refresh token. Role is deliberately left out so that
// refresh re-derives the subject's current role.
func (c *TokenCodec) SignRefresh(user *domain.User) (string, time.Time, error) {
	return c.signSession(&SessionClaims{
		SubjectID: user.ID,
		Email:     user.Email,
		Refresh:   true,
	}, c.refreshTTL)
}

func (c *TokenCodec) signSession(claims *SessionClaims, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.SubjectID,
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.sessionKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode validates a session token and returns its claims. Bad signature,
// malformed structure and expiry all collapse into ErrInvalidToken; expiry
// additionally wraps ErrTokenExpired.
func (c *TokenCodec) Decode(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := c.parse(tokenStr, claims, c.sessionKey); err != nil {
		return nil, err
	}
	return claims, nil
}

// SignEmailAction mints a single-purpose token carrying the target email.
func (c *TokenCodec) SignEmailAction(email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.emailTTL)
	claims := &EmailActionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.emailKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// DecodeEmailAction validates an email action token and returns its payload.
func (c *TokenCodec) DecodeEmailAction(tokenStr string) (*EmailActionClaims, error) {
	claims := &EmailActionClaims{}
	if err := c.parse(tokenStr, claims, c.emailKey); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) parse(tokenStr string, claims jwt.Claims, key []byte) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %w", ErrInvalidToken, ErrTokenExpired)
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
