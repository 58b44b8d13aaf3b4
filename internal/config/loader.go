package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PANENKA_CONFIG is set
//  3. env (prefix PANENKA_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PANENKA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PANENKA_ADDR, PANENKA_QUEUE_SIZE, ...
	// Map env keys like PANENKA_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PANENKA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "panenka_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the handful of invariants the service cannot start
// without.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.StoreBackend != "memory" && c.StoreBackend != "badger" {
		return fmt.Errorf("%w: store_backend must be memory or badger, got %q", ErrInvalidConfig, c.StoreBackend)
	}
	if c.StoreBackend == "badger" && c.BadgerPath == "" {
		return fmt.Errorf("%w: badger_path must not be empty for the badger backend", ErrInvalidConfig)
	}
	if c.MatchDurationMinutes <= 0 {
		return fmt.Errorf("%w: match_duration_minutes must be positive", ErrInvalidConfig)
	}
	if c.RatingWindowHours <= 0 {
		return fmt.Errorf("%w: rating_window_hours must be positive", ErrInvalidConfig)
	}
	return nil
}
