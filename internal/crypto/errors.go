package crypto

import "errors"

var (
	// ErrInvalidSalt is returned when a stored salt cannot be hex-decoded.
	ErrInvalidSalt = errors.New("invalid password salt")

	// ErrGeneratingSalt is returned when the OS random source fails.
	ErrGeneratingSalt = errors.New("failed to generate password salt")
)
