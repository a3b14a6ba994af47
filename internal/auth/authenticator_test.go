package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeRevocations is an in-memory blocklist.
type fakeRevocations struct {
	mu      sync.Mutex
	entries map[string]time.Time
	fail    error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{entries: make(map[string]time.Time)}
}

func (f *fakeRevocations) Add(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[tokenID] = time.Now().Add(ttl)
	return nil
}

func (f *fakeRevocations) Contains(_ context.Context, tokenID string) (bool, error) {
	if f.fail != nil {
		return false, f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	deadline, ok := f.entries[tokenID]
	return ok && deadline.After(time.Now()), nil
}

func TestAuthenticateSuccess(t *testing.T) {
	codec := newTestCodec()
	store := newFakeRevocations()
	authn := NewAccessAuthenticator(codec, store, time.Second)

	token, _, err := codec.SignAccess(testUser())
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	claims, err := authn.Authenticate(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if claims.Email != "a@b.com" {
		t.Errorf("email = %q, want a@b.com", claims.Email)
	}
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	authn := NewAccessAuthenticator(newTestCodec(), newFakeRevocations(), time.Second)

	cases := map[string]string{
		"empty header": "",
		"wrong scheme": "Basic dXNlcjpwYXNz",
		"no token":     "Bearer ",
		"scheme only":  "Bearer",
		"unparseable":  "Bearer-token",
	}

	for name, header := range cases {
		if _, err := authn.Authenticate(context.Background(), header); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("%s: error = %v, want ErrMissingCredentials", name, err)
		}
	}
}

func TestAuthenticateKindMismatch(t *testing.T) {
	codec := newTestCodec()
	store := newFakeRevocations()
	user := testUser()

	access, _, err := codec.SignAccess(user)
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	refresh, _, err := codec.SignRefresh(user)
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	accessAuthn := NewAccessAuthenticator(codec, store, time.Second)
	refreshAuthn := NewRefreshAuthenticator(codec, store, time.Second)

	// Exhaustive two-way check.
	if _, err := accessAuthn.Authenticate(context.Background(), "Bearer "+refresh); !errors.Is(err, ErrAccessTokenRequired) {
		t.Errorf("access authenticator with refresh token: %v, want ErrAccessTokenRequired", err)
	}
	if _, err := refreshAuthn.Authenticate(context.Background(), "Bearer "+access); !errors.Is(err, ErrRefreshTokenRequired) {
		t.Errorf("refresh authenticator with access token: %v, want ErrRefreshTokenRequired", err)
	}

	if _, err := accessAuthn.Authenticate(context.Background(), "Bearer "+access); err != nil {
		t.Errorf("access authenticator with access token: %v", err)
	}
	if _, err := refreshAuthn.Authenticate(context.Background(), "Bearer "+refresh); err != nil {
		t.Errorf("refresh authenticator with refresh token: %v", err)
	}
}

func TestAuthenticateRevoked(t *testing.T) {
	codec := newTestCodec()
	store := newFakeRevocations()
	authn := NewAccessAuthenticator(codec, store, time.Second)

	token, _, err := codec.SignAccess(testUser())
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	claims, err := authn.Authenticate(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("Authenticate before revocation: %v", err)
	}

	if err := store.Add(context.Background(), claims.ID, time.Hour); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// The same token must be rejected by every authenticator, well before
	// its natural expiry.
	if _, err := authn.Authenticate(context.Background(), "Bearer "+token); !errors.Is(err, ErrRevokedToken) {
		t.Errorf("access authenticator error = %v, want ErrRevokedToken", err)
	}
	refreshAuthn := NewRefreshAuthenticator(codec, store, time.Second)
	if _, err := refreshAuthn.Authenticate(context.Background(), "Bearer "+token); !errors.Is(err, ErrRevokedToken) {
		t.Errorf("refresh authenticator error = %v, want ErrRevokedToken", err)
	}
}

func TestAuthenticateStoreUnavailableFailsClosed(t *testing.T) {
	codec := newTestCodec()
	store := newFakeRevocations()
	store.fail = errors.New("connection refused")
	authn := NewAccessAuthenticator(codec, store, time.Second)

	token, _, err := codec.SignAccess(testUser())
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	if _, err := authn.Authenticate(context.Background(), "Bearer "+token); !errors.Is(err, ErrRevocationStoreUnavailable) {
		t.Errorf("error = %v, want ErrRevocationStoreUnavailable", err)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	authn := NewAccessAuthenticator(newTestCodec(), newFakeRevocations(), time.Second)

	if _, err := authn.Authenticate(context.Background(), "Bearer garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}
