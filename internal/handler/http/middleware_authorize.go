package http

import (
	"context"
	"net/http"

	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/utils"
	"github.com/clepord34/pawres/models"
)

// Route IDs used as keys of routeRules and as the route of audit events.
const (
	routeVersion              = "version"
	routeRegister             = "register"
	routeLogin                = "login"
	routeLogout               = "logout"
	routeLockoutStatus        = "lockout_status"
	routePasswordRequirements = "password_requirements"
	routeOAuthLogin           = "oauth_login"
	routeOAuthLink            = "oauth_link"
	routeOAuthUnlink          = "oauth_unlink"
	routeProfile              = "profile"
	routeProfileUpdate        = "profile_update"
	routePasswordChange       = "password_change"
	routePasswordSet          = "password_set"
	routeAdminStats           = "admin_stats"
	routeAdminLockout         = "admin_lockout"
	routeAdminUsers           = "admin_users"
	routeAdminUserCreate      = "admin_user_create"
	routeAdminUser            = "admin_user"
	routeAdminUserUpdate      = "admin_user_update"
	routeAdminUserDisable     = "admin_user_disable"
	routeAdminUserEnable      = "admin_user_enable"
	routeAdminUserPassword    = "admin_user_password"
	routeAdminUserDelete      = "admin_user_delete"
)

var (
	public        = models.RouteAccessRule{}
	authenticated = models.RouteAccessRule{RequiresAuth: true}
	adminOnly     = models.RouteAccessRule{RequiresAuth: true, AllowedRoles: []models.Role{models.RoleAdmin}}
)

// routeRules is the access metadata of every route served by Init.
var routeRules = map[string]models.RouteAccessRule{
	routeVersion:              public,
	routeRegister:             public,
	routeLogin:                public,
	routeLockoutStatus:        public,
	routePasswordRequirements: public,
	routeOAuthLogin:           public,

	routeLogout:         authenticated,
	routeOAuthLink:      authenticated,
	routeOAuthUnlink:    authenticated,
	routeProfile:        authenticated,
	routeProfileUpdate:  authenticated,
	routePasswordChange: authenticated,
	routePasswordSet:    authenticated,

	routeAdminStats:        adminOnly,
	routeAdminLockout:      adminOnly,
	routeAdminUsers:        adminOnly,
	routeAdminUserCreate:   adminOnly,
	routeAdminUser:         adminOnly,
	routeAdminUserUpdate:   adminOnly,
	routeAdminUserDisable:  adminOnly,
	routeAdminUserEnable:   adminOnly,
	routeAdminUserPassword: adminOnly,
	routeAdminUserDelete:   adminOnly,
}

// authorize applies the access rule of routeID to the request session.
// Routes without a rule are denied.
func (h *Handler) authorize(routeID string) func(http.Handler) http.Handler {
	rule, known := routeRules[routeID]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromRequest(r)

			if !known {
				log.Error().Str("route", routeID).Msg("route has no access rule")
				writeDenied(w, models.Deny(models.DenyInsufficientRole, models.RedirectLogin))
				return
			}

			if !rule.RequiresAuth {
				next.ServeHTTP(w, r)
				return
			}

			ref := currentSession(r)
			decision := h.services.AccessService.CheckAccess(ctx, &ref.Session, routeID, rule)
			h.persistSession(ctx, ref)
			if ref.Token != "" {
				// the idle window moved, so the cookie lifetime moves with it
				h.setSessionCookie(w, ref.Token)
			}

			if !decision.Allowed {
				if decision.Reason == models.DenySessionExpired {
					h.expireSessionCookie(w)
				}
				writeDenied(w, decision)
				return
			}

			if ref.Session.IsAuthenticated {
				ctx = context.WithValue(ctx, utils.UserIDCtxKey, ref.Session.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// persistSession writes back a session that the access check touched or
// cleared.
func (h *Handler) persistSession(ctx context.Context, ref *utils.SessionRef) {
	if ref.Token == "" {
		return
	}

	if err := h.services.SessionService.SaveSession(ctx, ref.Token, ref.Session); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to save session")
	}
	if !ref.Session.IsAuthenticated {
		ref.Token = ""
	}
}

// writeDenied answers 401 when the client has to sign in again and 403
// when it is signed in with the wrong role.
func writeDenied(w http.ResponseWriter, decision models.AccessDecision) {
	status := http.StatusUnauthorized
	if decision.Reason == models.DenyInsufficientRole {
		status = http.StatusForbidden
	}

	utils.WriteJSON(w, models.AccessDeniedResponse{Error: decision.Reason, Redirect: decision.Redirect}, status)
}
