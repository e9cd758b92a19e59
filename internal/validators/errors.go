package validators

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidName     = fmt.Errorf("name must be 1-%d characters", MaxNameLength)
	ErrInvalidEmail    = fmt.Errorf("email must be 1-%d characters", MaxEmailLength)
	ErrInvalidPhone    = errors.New("invalid phone number format")
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	ErrInvalidRole     = errors.New("role must be 'user' or 'admin'")
)
