// Package auth provides one-way password hashing for the signup/login flows.
package auth

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 10

// Hasher hashes and verifies passwords with bcrypt. Each Hash call embeds a
// fresh salt, so two digests of the same plaintext never match byte-for-byte.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. A mismatch is
// not an error; only false is returned.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
