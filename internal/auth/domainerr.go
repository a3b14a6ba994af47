package auth

import (
	"errors"

	apperrors "github.com/spec-kit/bookly-service/pkg/util"
)

// AsDomainError recovers an auth sentinel into the structured denial the API
// boundary returns. Unknown errors pass through untouched and surface as
// internal errors. Invalid, malformed and expired tokens share one message so
// the response never reveals which check failed.
func AsDomainError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingCredentials):
		return apperrors.NewUnauthorized("MISSING_CREDENTIALS", "authentication required")
	case errors.Is(err, ErrRevokedToken):
		return apperrors.NewUnauthorized("TOKEN_REVOKED", "token revoked, obtain a new one")
	case errors.Is(err, ErrInvalidToken):
		return apperrors.NewUnauthorized("INVALID_TOKEN", "invalid or expired token")
	case errors.Is(err, ErrAccessTokenRequired):
		return apperrors.NewForbidden("ACCESS_TOKEN_REQUIRED", "please provide a valid access token")
	case errors.Is(err, ErrRefreshTokenRequired):
		return apperrors.NewForbidden("REFRESH_TOKEN_REQUIRED", "please provide a valid refresh token")
	case errors.Is(err, ErrInvalidCredentials):
		return apperrors.NewUnauthorized("INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, ErrInsufficientPermission):
		return apperrors.NewForbidden("INSUFFICIENT_PERMISSION", "insufficient permission")
	case errors.Is(err, ErrAccountNotVerified):
		return apperrors.NewForbidden("ACCOUNT_NOT_VERIFIED", "account email not verified")
	case errors.Is(err, ErrRevocationStoreUnavailable):
		return apperrors.NewDependencyUnavailable("revocation store unavailable")
	default:
		return err
	}
}
