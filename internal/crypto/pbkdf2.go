// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor used when none is configured.
	DefaultIterations = 100_000

	// DefaultSaltLength is the salt size in bytes used when none is configured.
	DefaultSaltLength = 16

	// keyLength matches the SHA-256 output size.
	keyLength = sha256.Size
)

// pbkdf2Hasher is the PBKDF2-HMAC-SHA256 implementation of [PasswordHasher].
type pbkdf2Hasher struct {
	iterations int
	saltLength int
	random     io.Reader
}

// NewPBKDF2Hasher constructs a [PasswordHasher] with the given work factor
// and salt size. Non-positive values fall back to [DefaultIterations] and
// [DefaultSaltLength].
func NewPBKDF2Hasher(iterations, saltLength int) PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if saltLength <= 0 {
		saltLength = DefaultSaltLength
	}

	return &pbkdf2Hasher{
		iterations: iterations,
		saltLength: saltLength,
		random:     rand.Reader,
	}
}

// GenerateSalt implements [PasswordHasher]. It reads saltLength bytes from
// the OS CSPRNG.
func (h *pbkdf2Hasher) GenerateSalt() (string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneratingSalt, err)
	}
	return hex.EncodeToString(salt), nil
}

// Hash implements [PasswordHasher].
func (h *pbkdf2Hasher) Hash(password, salt string) (string, error) {
	rawSalt, err := hex.DecodeString(salt)
	if err != nil || len(rawSalt) == 0 {
		return "", ErrInvalidSalt
	}

	dk := pbkdf2.Key([]byte(password), rawSalt, h.iterations, keyLength, sha256.New)
	return hex.EncodeToString(dk), nil
}

// Verify implements [PasswordHasher]. An empty hash or salt never verifies.
func (h *pbkdf2Hasher) Verify(password, salt, expectedHash string) bool {
	if expectedHash == "" || salt == "" {
		return false
	}

	attempted, err := h.Hash(password, salt)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(attempted), []byte(expectedHash)) == 1
}
