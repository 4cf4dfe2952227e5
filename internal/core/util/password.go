package util

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"accountapp/internal/core/port"
)

const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

// SaltedSHA256 digests password+salt with SHA-256 and hex encodes it.
// The salt is application wide, so equal passwords share a digest. Kept for
// compatibility with digests already stored.
type SaltedSHA256 struct {
	Salt string
}

func NewSaltedSHA256(salt string) *SaltedSHA256 {
	return &SaltedSHA256{Salt: salt}
}

func (h *SaltedSHA256) Hash(password string) (string, error) {
	return h.digest(password), nil
}

func (h *SaltedSHA256) Verify(password, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(h.digest(password)), []byte(digest)) == 1
}

func (h *SaltedSHA256) digest(password string) string {
	sum := sha256.Sum256([]byte(password + h.Salt))
	return hex.EncodeToString(sum[:])
}

// Bcrypt is the per-password salted alternative. Digests it produces cannot
// be verified by SaltedSHA256 and vice versa.
type Bcrypt struct {
	Cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{Cost: cost}
}

func (h *Bcrypt) Hash(password string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)

	if err != nil {
		return "", err
	}

	return string(encrypted), nil
}

func (h *Bcrypt) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

func NewPasswordHasher(kind, salt string) (port.PasswordHasher, error) {
	switch kind {
	case "", HasherSHA256:
		return NewSaltedSHA256(salt), nil
	case HasherBcrypt:
		return NewBcrypt(bcrypt.DefaultCost), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", kind)
	}
}
