package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clepord34/pawres/internal/adapter"
	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/service"
	"github.com/clepord34/pawres/internal/utils"
)

type Handler struct {
	services *service.Services
	oauth    adapter.OAuthProvider
	recorder audit.Recorder
	limiter  *loginLimiter
	metrics  http.Handler
	traceIDs *utils.UUIDGenerator

	secureCookie bool

	logger *logger.Logger
}

// Option customizes a Handler built by NewHandler.
type Option func(*Handler)

// WithOAuthProvider enables the OAuth sign-in and linking routes.
func WithOAuthProvider(provider adapter.OAuthProvider) Option {
	return func(h *Handler) {
		h.oauth = provider
	}
}

// WithRecorder sets the audit sink used for transport-level events.
func WithRecorder(recorder audit.Recorder) Option {
	return func(h *Handler) {
		h.recorder = recorder
	}
}

// WithMetrics exposes gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.metrics = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
}

// WithServerConfig applies cookie and login rate limit settings.
func WithServerConfig(cfg config.Server) Option {
	return func(h *Handler) {
		h.secureCookie = cfg.UseSecureCookie()
		h.limiter = newLoginLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		recorder: audit.Nop{},
		limiter:  newLoginLimiter(defaultLoginRate, defaultLoginBurst),
		metrics:  promhttp.Handler(),
		traceIDs: utils.NewUUIDGenerator(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Bool("oauth", h.oauth != nil).Msg("http handler created")
	return h
}
