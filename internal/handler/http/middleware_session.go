package http

import (
	"context"
	"net/http"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

const sessionCookieName = "session_id"

// withSession loads the session addressed by the session cookie into the
// request context. Unknown or missing tokens yield an anonymous session.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ref := &utils.SessionRef{}

		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			if session, ok := h.services.SessionService.GetSession(r.Context(), cookie.Value); ok {
				ref.Token = cookie.Value
				ref.Session = session
			}
		}

		next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), ref)))
	})
}

// startSession opens a session for user and hands its token to the client.
func (h *Handler) startSession(ctx context.Context, w http.ResponseWriter, user models.User) error {
	token, _, err := h.services.SessionService.StartSession(ctx, user)
	if err != nil {
		return err
	}

	h.setSessionCookie(w, token)
	return nil
}

// setSessionCookie issues the session cookie with a lifetime of one full
// idle window from now.
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.sessionCookie(token, int(h.services.AccessService.SessionTimeout().Seconds())))
}

func (h *Handler) expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, h.sessionCookie("", -1))
}

func (h *Handler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// currentSession returns the session loaded by withSession. Handlers behind
// authorize always have one.
func currentSession(r *http.Request) *utils.SessionRef {
	ref, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Warn().Msg("no session in request context")
		return &utils.SessionRef{}
	}
	return ref
}
