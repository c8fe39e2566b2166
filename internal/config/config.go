// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - Validation failures wrap ErrInvalidConfig so callers can errors.Is them.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Supported roster store drivers.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory fixture queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of match workers.
	WorkerCount int `koanf:"worker_count"`

	// StoreDriver picks the roster store: file (teams.json) or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the roster file or sqlite database path.
	StorePath string `koanf:"store_path"`

	// LiveIntervalMS paces live matches between minutes.
	LiveIntervalMS int `koanf:"live_interval_ms"`

	// MaxMatches caps how many matches the service remembers.
	MaxMatches int `koanf:"max_matches"`

	// IdempotencyKeys caps how many schedule request keys are remembered.
	IdempotencyKeys int `koanf:"idempotency_keys"`

	// MatchLength is the number of simulated minutes.
	MatchLength int `koanf:"match_length"`

	// RecentTemplates sizes the per-match commentary repetition window.
	RecentTemplates int `koanf:"recent_templates"`

	// CommentaryLang is a BCP 47 tag, matched against the available catalogs.
	CommentaryLang string `koanf:"commentary_lang"`

	// CORSOrigins lists allowed origins for the HTTP API.
	CORSOrigins []string `koanf:"cors_origins"`

	// OTelEndpoint enables OTLP/HTTP tracing when set.
	OTelEndpoint string `koanf:"otel_endpoint"`

	// OTelServiceName is reported as service.name.
	OTelServiceName string `koanf:"otel_service_name"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		QueueSize:       1_000,
		WorkerCount:     runtime.NumCPU(),
		StoreDriver:     StoreFile,
		StorePath:       "teams.json",
		LiveIntervalMS:  1_000,
		MaxMatches:      1_000,
		IdempotencyKeys: 10_000,
		MatchLength:     90,
		RecentTemplates: 10,
		CommentaryLang:  "pl",
		CORSOrigins:     []string{"*"},
		OTelServiceName: "derby",
	}
}

// LiveInterval returns the live pacing interval as a duration.
func (c *Config) LiveInterval() time.Duration {
	return time.Duration(c.LiveIntervalMS) * time.Millisecond
}

// Validate checks the values Load cannot coerce.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.StoreDriver) {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.MatchLength <= 0 {
		return fmt.Errorf("%w: match_length must be positive", ErrInvalidConfig)
	}
	if c.LiveIntervalMS < 0 {
		return fmt.Errorf("%w: live_interval_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
