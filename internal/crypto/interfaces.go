// Package crypto implements the password hashing primitives shared by
// registration, login, password resets and the password history check.
package crypto

// PasswordHasher derives and verifies salted password digests.
//
// Salts and digests are hex strings so they can be stored as text columns.
// The same hasher instance (and therefore the same iteration count) must be
// used wherever digests are compared, otherwise history checks would never
// match.
type PasswordHasher interface {
	// GenerateSalt returns a fresh random salt, hex encoded.
	GenerateSalt() (string, error)

	// Hash derives the hex digest of password using the hex salt.
	// Returns ErrInvalidSalt when salt is not valid hex.
	Hash(password, salt string) (string, error)

	// Verify reports whether password hashes to expectedHash under salt.
	// The digest comparison is constant-time.
	Verify(password, salt, expectedHash string) bool
}
