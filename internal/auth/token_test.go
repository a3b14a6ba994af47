package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/bookly-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "5f0c9c6a-0000-0000-0000-000000000001",
		Username: "jane",
		Email:    "a@b.com",
		Role:     domain.RoleAdmin,
		Verified: true,
	}
}

func newTestCodec() *TokenCodec {
	return NewTokenCodec("test-secret", time.Minute, time.Hour, time.Minute)
}

func TestSignAccessDecode(t *testing.T) {
	codec := newTestCodec()
	user := testUser()

	token, expiresAt, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("access token expiry not in the future")
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.SubjectID != user.ID || claims.Email != user.Email {
		t.Errorf("claims subject = (%s, %s), want (%s, %s)", claims.SubjectID, claims.Email, user.ID, user.Email)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want %q", claims.Role, domain.RoleAdmin)
	}
	if claims.Refresh {
		t.Error("access token decoded as refresh")
	}
	if claims.Kind() != domain.TokenKindAccess {
		t.Errorf("kind = %q, want %q", claims.Kind(), domain.TokenKindAccess)
	}
	if claims.ID == "" {
		t.Error("access token missing jti")
	}
}

func TestSignRefreshOmitsRole(t *testing.T) {
	codec := newTestCodec()

	token, _, err := codec.SignRefresh(testUser())
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !claims.Refresh {
		t.Error("refresh token decoded as access")
	}
	if claims.Role != "" {
		t.Errorf("refresh token carries role %q, want none", claims.Role)
	}
}

func TestTokenIDsNeverRepeat(t *testing.T) {
	codec := newTestCodec()
	user := testUser()
	seen := map[string]bool{}

	for i := 0; i < 10; i++ {
		access, _, err := codec.SignAccess(user)
		if err != nil {
			t.Fatalf("SignAccess: %v", err)
		}
		refresh, _, err := codec.SignRefresh(user)
		if err != nil {
			t.Fatalf("SignRefresh: %v", err)
		}
		for _, token := range []string{access, refresh} {
			claims, err := codec.Decode(token)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if seen[claims.ID] {
				t.Fatalf("jti %q reused", claims.ID)
			}
			seen[claims.ID] = true
		}
	}
}

func TestDecodeRejectsTamperedToken(t *testing.T) {
	codec := newTestCodec()

	token, _, err := codec.SignAccess(testUser())
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	otherCodec := NewTokenCodec("other-secret", time.Minute, time.Hour, time.Minute)
	otherToken, _, err := otherCodec.SignAccess(testUser())
	if err != nil {
		t.Fatalf("SignAccess with other key: %v", err)
	}

	cases := map[string]string{
		"tampered":  token[:len(token)-4] + "AAAA",
		"malformed": "not.a.token",
		"empty":     "",
		"wrong-key": otherToken,
	}

	for name, bad := range cases {
		if _, err := codec.Decode(bad); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: Decode error = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestDecodeClassifiesExpiry(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Nanosecond, time.Nanosecond, time.Nanosecond)

	token, _, err := codec.SignAccess(testUser())
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, err = codec.Decode(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Decode error = %v, want ErrInvalidToken", err)
	}
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token not classified as expiry: %v", err)
	}
}

func TestEmailActionTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, expiresAt, err := codec.SignEmailAction("a@b.com")
	if err != nil {
		t.Fatalf("SignEmailAction: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("email token expiry not in the future")
	}

	claims, err := codec.DecodeEmailAction(token)
	if err != nil {
		t.Fatalf("DecodeEmailAction: %v", err)
	}
	if claims.Email != "a@b.com" {
		t.Errorf("email = %q, want a@b.com", claims.Email)
	}
}

func TestEmailActionTokenExpiry(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Minute, time.Hour, time.Nanosecond)

	token, _, err := codec.SignEmailAction("a@b.com")
	if err != nil {
		t.Fatalf("SignEmailAction: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, err = codec.DecodeEmailAction(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired email token error = %v, want expiry classification", err)
	}
}

// Session and email tokens use separate signing domains; a token minted in
// one must never validate in the other.
func TestSigningDomainsAreSeparate(t *testing.T) {
	codec := newTestCodec()

	session, _, err := codec.SignAccess(testUser())
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	if _, err := codec.DecodeEmailAction(session); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("session token decoded as email action token: %v", err)
	}

	email, _, err := codec.SignEmailAction("a@b.com")
	if err != nil {
		t.Fatalf("SignEmailAction: %v", err)
	}
	if _, err := codec.Decode(email); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("email action token decoded as session token: %v", err)
	}
}
