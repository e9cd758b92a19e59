package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/service"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

var errAccountLocked = errors.New("account is temporarily locked")

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var registration models.Registration
	if err := decodeJSON(r, &registration); err != nil {
		writeError(w, r, err)
		return
	}
	// self-registration never grants admin
	registration.Role = models.RoleUser

	id, err := h.services.AuthService.RegisterUser(ctx, registration)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("user_id", id).Msg("user registered")
	utils.WriteJSON(w, models.CreatedResponse{ID: id}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		writeError(w, r, err)
		return
	}

	outcome, err := h.services.AuthService.Login(ctx, credentials.Identifier, credentials.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Debug().Stringer("result", outcome.Result).Msg("login attempt")

	switch outcome.Result {
	case models.LoginSuccess:
		if err = h.startSession(ctx, w, *outcome.User); err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, outcome.User, http.StatusOK)
	case models.LoginAccountLocked:
		h.writeLocked(w, r, credentials.Identifier)
	case models.LoginAccountDisabled:
		writeError(w, r, service.ErrAccountDisabled)
	default:
		writeError(w, r, ErrInvalidLogin)
	}
}

// writeLocked answers 423 with the remaining lockout minutes.
func (h *Handler) writeLocked(w http.ResponseWriter, r *http.Request, identifier string) {
	body := models.ErrorResponse{Error: errAccountLocked.Error()}

	status, err := h.services.AuthService.GetLockoutStatus(r.Context(), identifier)
	if err != nil {
		logger.FromRequest(r).Warn().Err(err).Msg("failed to read lockout status")
	} else {
		body.RemainingMinutes = status.RemainingMinutes
	}

	utils.WriteJSON(w, body, http.StatusLocked)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ref := currentSession(r)

	if err := h.services.SessionService.EndSession(r.Context(), ref.Token); err != nil {
		writeError(w, r, err)
		return
	}

	h.expireSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) lockoutStatus(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		writeError(w, r, ErrMissingIdentifier)
		return
	}

	status, err := h.services.AuthService.GetLockoutStatus(r.Context(), identifier)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, status, http.StatusOK)
}

func (h *Handler) passwordRequirements(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.PasswordRequirementsResponse{
		Requirements: h.services.AuthService.PasswordRequirements(),
	}, http.StatusOK)
}
