// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory settlement queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of settlement workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// StoreBackend selects the persistence layer: "memory" or "badger".
	StoreBackend string `koanf:"store_backend"`

	// BadgerPath is the on-disk location for the badger backend.
	BadgerPath string `koanf:"badger_path"`

	// MatchDurationMinutes is the assumed match length used when deriving
	// the rating window from kickoff for finished matches.
	MatchDurationMinutes int `koanf:"match_duration_minutes"`

	// RatingWindowHours is how long ratings stay open after a match ends.
	RatingWindowHours int `koanf:"rating_window_hours"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		QueueSize:            100_000,
		WorkerCount:          runtime.NumCPU() * 4,
		DedupeSize:           500_000,
		MaxLeaderboardLimit:  100,
		StoreBackend:         "memory",
		BadgerPath:           "data/panenka",
		MatchDurationMinutes: 120,
		RatingWindowHours:    24,
	}
}
