package server

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/handler"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/workers"
)

const defaultShutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	workers    *workers.Workers

	shutdownTimeout time.Duration

	mu   sync.Mutex
	stop context.CancelFunc

	logger *logger.Logger
}

func NewServer(handlers *handler.Handlers, background *workers.Workers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}
	if background == nil {
		background = workers.NewWorkers()
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &server{
		httpServer:      newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		workers:         background,
		shutdownTimeout: timeout,
		logger:          logger,
	}, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx)
}

// Shutdown stops a running server as if a termination signal had arrived.
func (s *server) Shutdown() {
	s.mu.Lock()
	stop := s.stop
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

func (s *server) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.stop = cancel
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.httpServer.RunServer()
	}()
	go func() {
		defer wg.Done()
		s.logger.Info().Int("count", s.workers.Len()).Msg("Launching workers")
		s.workers.Run(ctx)
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancelShutdown()
	s.httpServer.Shutdown(shutdownCtx)

	wg.Wait()
	s.logger.Info().Msg("server Shutdown gracefully")
}
