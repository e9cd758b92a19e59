package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, h.withSession)

	router.Handle("/metrics", h.metrics)
	router.With(h.authorize(routeVersion)).Get("/api/version", h.getServerVersion)

	router.Route("/api/user", func(r chi.Router) {
		r.With(h.authorize(routeRegister)).Post("/register", h.register)
		r.With(h.withLoginRateLimit(routeLogin), h.authorize(routeLogin)).Post("/login", h.login)
		r.With(h.authorize(routeLogout)).Post("/logout", h.logout)
		r.With(h.authorize(routeLockoutStatus)).Get("/lockout", h.lockoutStatus)
		r.With(h.authorize(routePasswordRequirements)).Get("/password/requirements", h.passwordRequirements)

		r.With(h.withLoginRateLimit(routeOAuthLogin), h.authorize(routeOAuthLogin)).Post("/oauth/google", h.oauthLogin)
		r.With(h.authorize(routeOAuthLink)).Post("/oauth/link", h.oauthLink)
		r.With(h.authorize(routeOAuthUnlink)).Post("/oauth/unlink", h.oauthUnlink)

		r.With(h.authorize(routeProfile)).Get("/profile", h.getProfile)
		r.With(h.authorize(routeProfileUpdate)).Put("/profile", h.updateProfile)
		r.With(h.authorize(routePasswordChange)).Put("/password", h.changePassword)
		r.With(h.authorize(routePasswordSet)).Post("/password", h.setPassword)
	})

	router.Route("/api/admin", func(r chi.Router) {
		r.With(h.authorize(routeAdminStats)).Get("/stats", h.adminStats)
		r.With(h.authorize(routeAdminLockout)).Get("/lockout", h.adminLockout)
		r.With(h.authorize(routeAdminUsers)).Get("/users", h.adminListUsers)
		r.With(h.authorize(routeAdminUserCreate)).Post("/users", h.adminCreateUser)

		r.Route("/users/{id}", func(r chi.Router) {
			r.With(h.authorize(routeAdminUser)).Get("/", h.adminGetUser)
			r.With(h.authorize(routeAdminUserUpdate)).Put("/", h.adminUpdateUser)
			r.With(h.authorize(routeAdminUserDelete)).Delete("/", h.adminDeleteUser)
			r.With(h.authorize(routeAdminUserDisable)).Post("/disable", h.adminDisableUser)
			r.With(h.authorize(routeAdminUserEnable)).Post("/enable", h.adminEnableUser)
			r.With(h.authorize(routeAdminUserPassword)).Post("/password", h.adminResetPassword)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
