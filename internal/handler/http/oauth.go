package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

// fetchProviderProfile resolves the access token of the request body into
// the provider profile.
func (h *Handler) fetchProviderProfile(r *http.Request) (models.OAuthProfile, error) {
	if h.oauth == nil {
		return models.OAuthProfile{}, ErrOAuthDisabled
	}

	var req models.OAuthTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		return models.OAuthProfile{}, err
	}

	return h.oauth.FetchProfile(r.Context(), req.AccessToken)
}

func (h *Handler) oauthLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	profile, err := h.fetchProviderProfile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.services.AuthService.LoginOAuth(ctx, models.OAuthLogin{
		Email:           profile.Email,
		Name:            profile.Name,
		Provider:        h.oauth.Name(),
		ProfilePicture:  profile.Picture,
		PictureResolved: h.pictureReachable(ctx, profile.Picture),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Stringer("result", result.Kind).Int64("user_id", result.User.ID).Msg("oauth sign-in")

	response := models.OAuthResponse{Result: result.Kind.String(), User: result.User}
	if !result.StartsSession() {
		utils.WriteJSON(w, response, http.StatusConflict)
		return
	}

	if err = h.startSession(ctx, w, result.User); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) pictureReachable(ctx context.Context, url string) bool {
	if strings.TrimSpace(url) == "" {
		return false
	}
	return h.oauth.PictureReachable(ctx, url)
}

// oauthLink links the provider to the signed-in account. The provider
// account must belong to the same email.
func (h *Handler) oauthLink(w http.ResponseWriter, r *http.Request) {
	ref := currentSession(r)

	profile, err := h.fetchProviderProfile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(profile.Email) != ref.Session.Email {
		writeError(w, r, ErrOAuthEmailMismatch)
		return
	}

	if err = h.services.AuthService.LinkOAuthAccount(r.Context(), ref.Session.UserID, h.oauth.Name()); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) oauthUnlink(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.services.AuthService.UnlinkOAuthAccount(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
