package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/clepord34/pawres/internal/adapter"
	"github.com/clepord34/pawres/internal/audit"
	"github.com/clepord34/pawres/internal/config"
	"github.com/clepord34/pawres/internal/handler"
	"github.com/clepord34/pawres/internal/logger"
	"github.com/clepord34/pawres/internal/server"
	"github.com/clepord34/pawres/internal/service"
	"github.com/clepord34/pawres/internal/store"
	"github.com/clepord34/pawres/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("pawres-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = log.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.App.LogLevel).Msg("unknown log level, keeping debug")
	}

	ctx := log.WithContext(context.Background())

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := audit.NewMulti(
		audit.NewLogRecorder(log.WithComponent("audit")),
		audit.NewMetricsRecorder(registry),
	)

	deps := service.NewDependencies(storages, recorder, cfg)
	services, err := service.NewServices(deps, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	if err = services.AuthService.EnsureAdminExists(ctx); err != nil {
		log.Fatal().Err(err).Msg("error creating admin account")
	}

	oauth, err := adapter.NewGoogleOAuthProvider(cfg.OAuth, log.WithComponent("oauth"))
	if err != nil {
		log.Fatal().Err(err).Msg("error creating oauth provider")
	}

	handlers, err := handler.NewHandlers(services, handler.Collaborators{
		OAuth:    oauth,
		Recorder: recorder,
		Gatherer: registry,
	}, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	background := workers.NewWorkers(
		workers.NewTicker("session_purge", cfg.Workers.SessionPurgeInterval, func(ctx context.Context) error {
			_, err := services.SessionService.PurgeExpired(ctx)
			return err
		}, log),
		workers.NewTicker("limiter_sweep", cfg.Workers.LimiterSweepInterval, handlers.HTTP.SweepLoginLimiters, log),
	)

	srv, err := server.NewServer(handlers, background, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
