package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("identity provider rejected the request")
	ErrUnauthorized        = errors.New("access token rejected by identity provider")
	ErrInternalServerError = errors.New("identity provider failure")
	ErrMissingEmail        = errors.New("identity provider returned no email")
)
