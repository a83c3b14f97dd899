package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	gameservice "parliament/contexts/game-play/game-service"
	gamepostgres "parliament/contexts/game-play/game-service/adapters/postgres"
	setupservice "parliament/contexts/game-play/setup-service"
	setuppostgres "parliament/contexts/game-play/setup-service/adapters/postgres"
	"parliament/internal/platform/config"
	"parliament/internal/platform/db"
	"parliament/internal/platform/httpserver"
	"parliament/internal/platform/stream"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	database *db.Database
	hub      *stream.Hub
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	database, err := db.Connect(cfg.DBDriver, cfg.PostgresDSN, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := gamepostgres.Migrate(database.DB); err != nil {
		_ = database.Close()
		return nil, err
	}

	hub := stream.NewHub(cfg.StreamBuffer, logger)

	games := gameservice.NewModule(gameservice.Dependencies{
		Repo:   gamepostgres.NewRepository(database.DB, logger),
		Stream: hub,
		Clock:  gamepostgres.SystemClock{},
		Logger: logger,
	})
	setup := setupservice.NewModule(setupservice.Dependencies{
		Writer: setuppostgres.NewWriter(database.DB, logger),
		Clock:  gamepostgres.SystemClock{},
		Logger: logger,
	})

	server := httpserver.New(games, setup, hub, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		database: database,
		hub:      hub,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.hub != nil {
		a.hub.Close()
	}
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
