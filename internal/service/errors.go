package service

import (
	"errors"
	"strings"

	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/internal/validators"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrEmailAlreadyExists is returned when another account owns the email.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrPhoneAlreadyExists is returned when another account owns the
	// normalized phone number.
	ErrPhoneAlreadyExists = errors.New("phone number already registered")

	ErrUserNotFound = errors.New("user not found")

	// ErrCannotModifySelf guards admins against disabling or deleting
	// their own account.
	ErrCannotModifySelf = errors.New("administrators cannot disable or delete their own account")
	ErrInvalidRole      = validators.ErrInvalidRole

	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordNotSet     = errors.New("account has no password set")
	ErrPasswordAlreadySet = errors.New("account already has a password")

	ErrAlreadyLinked   = errors.New("account is already linked to another provider")
	ErrNotLinked       = errors.New("account is not linked to a provider")
	ErrAccountDisabled = errors.New("account is disabled")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)

// ValidationError reports malformed input. Messages are human readable and
// ordered; for password policy failures they follow the policy's rule order.
type ValidationError struct {
	Messages []string
	cause    error
}

func newValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// validationFrom turns an input validator error into a *ValidationError
// that still matches the validator's sentinel.
func validationFrom(err error) *ValidationError {
	return &ValidationError{Messages: []string{err.Error()}, cause: err}
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrValidation, e.cause}
	}
	return []error{ErrValidation}
}

// mapStoreError translates repository sentinels into service errors.
// Any other persistence error is returned as is.
func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNoUserWasFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return ErrEmailAlreadyExists
	case errors.Is(err, store.ErrPhoneAlreadyExists):
		return ErrPhoneAlreadyExists
	default:
		return err
	}
}
