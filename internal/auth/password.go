package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes; truncate explicitly so overlong
// inputs hash deterministically instead of erroring.
const maxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with a configured bcrypt cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher builds a hasher, clamping the cost to bcrypt's range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the salted bcrypt digest of the password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncate(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches digest. A malformed digest and a
// mismatch both return false; they are distinguishable through the error for
// callers that care.
func (h *PasswordHasher) Verify(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), truncate(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// DummyVerify burns one bcrypt comparison against a fixed digest. Login calls
// it on the unknown-user path so that absent and present accounts cost the
// same, resisting enumeration by timing.
func (h *PasswordHasher) DummyVerify() {
	_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte("timing-equalizer"))
}

// A digest of an unguessable value, used only to equalize timing.
var dummyDigest = func() []byte {
	d, err := bcrypt.GenerateFromPassword([]byte("bookly-dummy-subject"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return d
}()

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
