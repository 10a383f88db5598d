// Package config loads server configuration from the environment.
// All knobs have defaults suitable for local development; production
// deployments override them via env vars.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable for the forge server process.
type Config struct {
	// Addr is the HTTP/WebSocket listen address.
	Addr string `env:"FORGE_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file for saves and the event ledger.
	DBPath string `env:"FORGE_DB_PATH" envDefault:"forge.db"`

	// CatalogPath points to an optional catalog.yaml override.
	// Empty means the built-in catalog is used.
	CatalogPath string `env:"FORGE_CATALOG_PATH" envDefault:""`

	// TickInterval is the real-time cadence of the simulation loop.
	TickInterval time.Duration `env:"FORGE_TICK_INTERVAL" envDefault:"250ms"`

	// AutosaveInterval is the cadence of automatic persistence.
	AutosaveInterval time.Duration `env:"FORGE_AUTOSAVE_INTERVAL" envDefault:"30s"`

	// SnapshotInterval is how often the hub pushes full state to clients.
	SnapshotInterval time.Duration `env:"FORGE_SNAPSHOT_INTERVAL" envDefault:"1s"`

	// ClientSendBuffer is the per-WebSocket outbound channel size.
	ClientSendBuffer int `env:"FORGE_CLIENT_SEND_BUFFER" envDefault:"64"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("autosave interval must be positive, got %s", c.AutosaveInterval)
	}
	if c.ClientSendBuffer <= 0 {
		return fmt.Errorf("client send buffer must be positive, got %d", c.ClientSendBuffer)
	}
	return nil
}
