package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clepord34/pawres/internal/adapter"
	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/handler/http"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

// Collaborators are the non-service dependencies of the transport layer.
// OAuth is optional; without it the OAuth routes answer 501.
type Collaborators struct {
	OAuth    adapter.OAuthProvider
	Recorder audit.Recorder
	Gatherer prometheus.Gatherer
}

func NewHandlers(services *service.Services, collab Collaborators, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	opts := []http.Option{http.WithServerConfig(cfg)}
	if collab.OAuth != nil {
		opts = append(opts, http.WithOAuthProvider(collab.OAuth))
	}
	if collab.Recorder != nil {
		opts = append(opts, http.WithRecorder(collab.Recorder))
	}
	if collab.Gatherer != nil {
		opts = append(opts, http.WithMetrics(collab.Gatherer))
	}

	return &Handlers{HTTP: http.NewHandler(services, logger, opts...)}, nil
}
