package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration, parsed from the environment.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"parliament"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`

	// DBDriver selects the storage engine: "postgres" for deployments,
	// "sqlite" for local development and demos.
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"parliament.db"`

	// StreamBuffer is the per-observer snapshot channel depth; an observer
	// falling further behind starts dropping snapshots.
	StreamBuffer int `env:"STREAM_BUFFER" envDefault:"128"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
