// Package badgerstore provides badger-backed implementations of the
// repository contracts, for deployments that need the engine's state to
// survive restarts. All stores share one DB handle; value-log garbage
// collection runs on a cron schedule.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/robfig/cron/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/okian/panenka/pkg/logger"
)

// Default configuration.
const (
	defaultGCSchedule     = "@every 10m"
	defaultGCDiscardRatio = 0.5
)

// DB wraps a shared badgerhold store plus its maintenance schedule.
type DB struct {
	store          *badgerhold.Store
	path           string
	gcSchedule     string
	gcDiscardRatio float64
	cron           *cron.Cron
	logger         logger.Logger
}

// Option applies a configuration option to the DB.
type Option func(*DB)

// WithGCSchedule sets the cron spec for value-log garbage collection.
func WithGCSchedule(spec string) Option {
	return func(d *DB) {
		if spec != "" {
			d.gcSchedule = spec
		}
	}
}

// WithGCDiscardRatio sets the badger value-log GC discard ratio.
func WithGCDiscardRatio(ratio float64) Option {
	return func(d *DB) {
		if ratio > 0 && ratio < 1 {
			d.gcDiscardRatio = ratio
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *DB) {
		if l != nil {
			d.logger = l
		}
	}
}

// Open opens (or creates) the database at path and starts the GC schedule.
func Open(ctx context.Context, path string, opts ...Option) (*DB, error) {
	d := &DB{
		path:           path,
		gcSchedule:     defaultGCSchedule,
		gcDiscardRatio: defaultGCDiscardRatio,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logger.Get().Named("badgerstore")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // replaced by our structured logger

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	d.store = store

	d.cron = cron.New()
	if _, err := d.cron.AddFunc(d.gcSchedule, func() { d.runGC(ctx) }); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("schedule value-log gc: %w", err)
	}
	d.cron.Start()

	d.logger.Info(ctx, "badger store opened",
		logger.String("path", path),
		logger.String("gcSchedule", d.gcSchedule))
	return d, nil
}

// Store returns the underlying badgerhold store.
func (d *DB) Store() *badgerhold.Store {
	return d.store
}

// Close stops maintenance and closes the database.
func (d *DB) Close() error {
	if d.cron != nil {
		d.cron.Stop()
	}
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// runGC runs one round of badger value-log garbage collection. Badger
// returns ErrNoRewrite when there was nothing to collect; that is not a
// failure.
func (d *DB) runGC(ctx context.Context) {
	err := d.store.Badger().RunValueLogGC(d.gcDiscardRatio)
	switch {
	case err == nil:
		d.logger.Debug(ctx, "value-log gc reclaimed space")
	case errors.Is(err, badger.ErrNoRewrite):
		// Nothing to collect this round.
	default:
		d.logger.Warn(ctx, "value-log gc failed", logger.Error(err))
	}
}
