package http

import (
	"net/http"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	user, err := h.services.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref := currentSession(r)

	var update models.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.ProfileService.UpdateProfile(ctx, ref.Session.UserID, update); err != nil {
		writeError(w, r, err)
		return
	}

	// keep the display name of the session in step with the profile
	if update.Name != nil && ref.Token != "" {
		ref.Session.Name = *update.Name
		if err := h.services.SessionService.SaveSession(ctx, ref.Token, ref.Session); err != nil {
			logger.FromRequest(r).Warn().Err(err).Msg("failed to refresh session name")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req models.PasswordChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.ProfileService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// setPassword gives an OAuth-only account its first password.
func (h *Handler) setPassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req models.PasswordSetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.ProfileService.SetPasswordForOAuth(r.Context(), userID, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
