package auth

import "errors"

// Sentinel errors for authentication outcomes. Handlers compare with
// errors.Is and map each to a structured denial at the API boundary.
var (
	// ErrMissingCredentials means no bearer token was supplied.
	ErrMissingCredentials = errors.New("authorization credentials missing")

	// ErrInvalidToken covers bad signature, malformed structure, and expiry.
	// Expired tokens additionally wrap ErrTokenExpired.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrTokenExpired classifies expiry within ErrInvalidToken.
	ErrTokenExpired = errors.New("token expired")

	// ErrRevokedToken means the token id is present in the blocklist.
	ErrRevokedToken = errors.New("token has been revoked")

	// ErrAccessTokenRequired means a refresh token was presented where an
	// access token is required.
	ErrAccessTokenRequired = errors.New("access token required")

	// ErrRefreshTokenRequired means an access token was presented where a
	// refresh token is required.
	ErrRefreshTokenRequired = errors.New("refresh token required")

	// ErrInvalidCredentials is the single login denial for unknown email and
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInsufficientPermission means the subject's role is outside the
	// operation's allow-set.
	ErrInsufficientPermission = errors.New("insufficient permission")

	// ErrAccountNotVerified means the account exists but its email was never
	// confirmed.
	ErrAccountNotVerified = errors.New("account not verified")

	// ErrRevocationStoreUnavailable means the blocklist could not be reached
	// within the bounded timeout. Authentication fails closed.
	ErrRevocationStoreUnavailable = errors.New("revocation store unavailable")
)
