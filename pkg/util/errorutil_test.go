package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewUnauthorized("TOKEN_REVOKED", "token revoked")

	got := ToDomainError(original)
	if got.Code != "TOKEN_REVOKED" || got.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("got (%s, %d), want (TOKEN_REVOKED, 401)", got.Code, got.HTTPStatus)
	}
}

func TestToDomainErrorUnwrapsWrapped(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewForbidden("INSUFFICIENT_PERMISSION", "nope"))

	got := ToDomainError(wrapped)
	if got.Code != "INSUFFICIENT_PERMISSION" {
		t.Errorf("code = %q, want INSUFFICIENT_PERMISSION", got.Code)
	}
}

func TestToDomainErrorUnknownBecomesInternal(t *testing.T) {
	got := ToDomainError(errors.New("boom"))
	if got.Code != "INTERNAL_ERROR" || got.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("got (%s, %d), want (INTERNAL_ERROR, 500)", got.Code, got.HTTPStatus)
	}
}

func TestNewValidationError(t *testing.T) {
	got := ToDomainError(NewValidationError("email required", map[string]any{"field": "email"}))
	if got.Code != "VALIDATION_FAILED" || got.HTTPStatus != http.StatusBadRequest {
		t.Errorf("got (%s, %d), want (VALIDATION_FAILED, 400)", got.Code, got.HTTPStatus)
	}
	if got.Details["field"] != "email" {
		t.Errorf("details = %v, want field=email", got.Details)
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if got := ToDomainError(nil); got != nil {
		t.Errorf("ToDomainError(nil) = %v, want nil", got)
	}
}
