package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

// pathUserID parses the {id} segment of admin user routes.
func pathUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

// adminIDs returns the acting admin and the target user of the request.
func adminIDs(r *http.Request) (adminID, userID int64, err error) {
	adminID, _ = utils.GetUserIDFromContext(r.Context())
	userID, err = pathUserID(r)
	return adminID, userID, err
}

func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.UserAdminService.GetUserStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}

func (h *Handler) adminLockout(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		writeError(w, r, ErrMissingIdentifier)
		return
	}

	info, err := h.services.UserAdminService.GetLockoutInfo(r.Context(), identifier)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, info, http.StatusOK)
}

// adminListUsers supports the include_disabled, role and search query
// parameters.
func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.UserFilter{Search: query.Get("search")}

	if raw := query.Get("include_disabled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, ErrInvalidQuery)
			return
		}
		filter.IncludeDisabled = include
	}
	if raw := query.Get("role"); raw != "" {
		role := models.Role(raw)
		if !role.IsValid() {
			writeError(w, r, ErrInvalidQuery)
			return
		}
		filter.Role = &role
	}

	users, err := h.services.UserAdminService.ListUsers(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) adminCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	adminID, _ := utils.GetUserIDFromContext(ctx)

	var registration models.Registration
	if err := decodeJSON(r, &registration); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.services.UserAdminService.CreateUser(ctx, adminID, registration)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Int64("admin_id", adminID).Int64("user_id", id).Msg("user created by admin")
	utils.WriteJSON(w, models.CreatedResponse{ID: id}, http.StatusCreated)
}

func (h *Handler) adminGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.services.UserAdminService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	adminID, userID, err := adminIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var update models.UserUpdate
	if err = decodeJSON(r, &update); err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.UserAdminService.UpdateUser(r.Context(), adminID, userID, update); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminDisableUser(w http.ResponseWriter, r *http.Request) {
	adminID, userID, err := adminIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.UserAdminService.DisableUser(r.Context(), adminID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminEnableUser(w http.ResponseWriter, r *http.Request) {
	adminID, userID, err := adminIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.UserAdminService.EnableUser(r.Context(), adminID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminResetPassword(w http.ResponseWriter, r *http.Request) {
	adminID, userID, err := adminIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.PasswordResetRequest
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err = h.services.UserAdminService.ResetPassword(r.Context(), adminID, userID, req.NewPassword, req.ResetPasswordOptions)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	adminID, userID, err := adminIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.UserAdminService.DeleteUser(r.Context(), adminID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
