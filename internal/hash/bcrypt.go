// Package hash implements the password hashing policy. Plaintext
// passwords must pass through a Hasher before they reach storage.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// cost is the bcrypt work factor. Pinned rather than using
// bcrypt.DefaultCost so stored digests keep a stable cost even if the
// library default moves.
const cost = 10

// maxPasswordBytes is the bcrypt input limit. The Go implementation
// rejects longer input where classic bcrypt implementations silently
// truncate; we truncate so Hash never fails on input length, and
// Verify must agree with Hash on the same prefix.
const maxPasswordBytes = 72

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// Hasher hashes passwords and verifies candidates against stored digests.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct{}

// NewBcryptHasher creates a new BcryptHasher.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash produces a salted bcrypt digest of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(passwordBytes(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches the stored digest. A malformed
// digest is treated as a mismatch, not an error. Comparison is
// constant-time inside bcrypt.
func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), passwordBytes(password)) == nil
}
