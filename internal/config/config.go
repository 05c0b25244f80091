// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and JURY_* env vars.
// - External errors must be wrapped via this package's sentinel errors.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// MaxFiles caps the number of files in one batch.
	MaxFiles int `koanf:"max_files" validate:"gt=0"`

	// Concurrency bounds how many sheets are decoded and scored at once.
	Concurrency int `koanf:"concurrency" validate:"gt=0"`

	// PlacementPolicy selects the placement labels: threshold or bands.
	PlacementPolicy string `koanf:"placement_policy" validate:"oneof=threshold bands"`

	// PartialResults returns a leaderboard of the good files plus per-file
	// errors instead of failing the whole batch on the first bad file.
	PartialResults bool `koanf:"partial_results"`

	// ReadTimeoutMS and WriteTimeoutMS bound HTTP request handling.
	ReadTimeoutMS  int `koanf:"read_timeout_ms" validate:"gt=0"`
	WriteTimeoutMS int `koanf:"write_timeout_ms" validate:"gt=0"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		MaxUploadBytes:  32 << 20,
		MaxFiles:        100,
		Concurrency:     runtime.NumCPU(),
		PlacementPolicy: "threshold",
		PartialResults:  false,
		ReadTimeoutMS:   30_000,
		WriteTimeoutMS:  30_000,
	}
}
