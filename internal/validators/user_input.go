package validators

import (
	"context"
	"unicode/utf8"

	"github.com/clepord34/pawres/models"
)

// Input length limits.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxPhoneLength    = 20
	MaxPasswordLength = 128
)

// Field name constants used to scope validation.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldPassword = "password"
	FieldRole     = "role"
)

// UserInputValidator checks the structural rules of account input.
// Uniqueness and password complexity are enforced by the services.
type UserInputValidator struct{}

func NewUserInputValidator() Validator {
	return &UserInputValidator{}
}

func (v *UserInputValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Registration:
		return v.validateRegistration(value, fields...)
	case *models.Registration:
		return v.validateRegistration(*value, fields...)

	case models.UserUpdate:
		return v.validateUserUpdate(value)
	case *models.UserUpdate:
		return v.validateUserUpdate(*value)

	case models.ProfileUpdate:
		return v.validateProfileUpdate(value)
	case *models.ProfileUpdate:
		return v.validateProfileUpdate(*value)

	default:
		return ErrUnsupportedType
	}
}

func (v *UserInputValidator) validateRegistration(r models.Registration, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldEmail, FieldPhone, FieldPassword, FieldRole}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if err := checkName(r.Name); err != nil {
				return err
			}
		case FieldEmail:
			if err := checkEmail(r.Email); err != nil {
				return err
			}
		case FieldPhone:
			if err := checkPhone(r.Phone); err != nil {
				return err
			}
		case FieldPassword:
			if utf8.RuneCountInString(r.Password) > MaxPasswordLength {
				return ErrPasswordTooLong
			}
		case FieldRole:
			if !r.Role.IsValid() {
				return ErrInvalidRole
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserInputValidator) validateUserUpdate(u models.UserUpdate) error {
	if u.Name != nil {
		if err := checkName(*u.Name); err != nil {
			return err
		}
	}
	if u.Email != nil {
		if err := checkEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Phone != nil {
		if err := checkPhone(*u.Phone); err != nil {
			return err
		}
	}
	if u.Role != nil && !u.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

func (v *UserInputValidator) validateProfileUpdate(u models.ProfileUpdate) error {
	if u.Name != nil {
		if err := checkName(*u.Name); err != nil {
			return err
		}
	}
	if u.Phone != nil {
		if err := checkPhone(*u.Phone); err != nil {
			return err
		}
	}
	return nil
}

func checkName(name string) error {
	if n := utf8.RuneCountInString(name); n == 0 || n > MaxNameLength {
		return ErrInvalidName
	}
	return nil
}

func checkEmail(email string) error {
	if n := utf8.RuneCountInString(email); n == 0 || n > MaxEmailLength {
		return ErrInvalidEmail
	}
	return nil
}

// checkPhone only bounds the raw length; format is checked on normalization.
func checkPhone(phone string) error {
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return ErrInvalidPhone
	}
	return nil
}
