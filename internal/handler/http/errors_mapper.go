package http

import (
	"errors"
	"net/http"

	"github.com/clepord34/pawres/internal/adapter"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/service"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

var errorStatusMap = map[error]int{
	service.ErrValidation: http.StatusBadRequest,

	service.ErrEmailAlreadyExists: http.StatusConflict,
	service.ErrPhoneAlreadyExists: http.StatusConflict,
	service.ErrUserNotFound:       http.StatusNotFound,

	service.ErrCannotModifySelf: http.StatusForbidden,
	service.ErrWrongPassword:    http.StatusForbidden,
	service.ErrAccountDisabled:  http.StatusForbidden,

	service.ErrPasswordNotSet:     http.StatusConflict,
	service.ErrPasswordAlreadySet: http.StatusConflict,
	service.ErrAlreadyLinked:      http.StatusConflict,
	service.ErrNotLinked:          http.StatusConflict,

	adapter.ErrUnauthorized:        http.StatusUnauthorized,
	adapter.ErrMissingEmail:        http.StatusBadRequest,
	adapter.ErrBadRequest:          http.StatusBadGateway,
	adapter.ErrInternalServerError: http.StatusBadGateway,

	ErrInvalidJSON:        http.StatusBadRequest,
	ErrInvalidUserID:      http.StatusBadRequest,
	ErrInvalidQuery:       http.StatusBadRequest,
	ErrMissingIdentifier:  http.StatusBadRequest,
	ErrOAuthDisabled:      http.StatusNotImplemented,
	ErrOAuthEmailMismatch: http.StatusForbidden,
	ErrTooManyRequests:    http.StatusTooManyRequests,
	ErrInvalidLogin:       http.StatusUnauthorized,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err as an ErrorResponse. Server-side failures are
// logged and hidden behind the generic status text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	body := models.ErrorResponse{Error: err.Error()}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		body.Error = service.ErrValidation.Error()
		body.Messages = validationErr.Messages
	}

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
		if status == http.StatusInternalServerError {
			body.Error = http.StatusText(status)
		}
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	utils.WriteJSON(w, body, status)
}
