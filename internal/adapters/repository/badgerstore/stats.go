package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/model"
)

// StatsStore is the badger-backed repository.StatsStore.
type StatsStore struct {
	db *DB
}

// NewStatsStore creates a stats store on the shared DB handle.
func NewStatsStore(db *DB) *StatsStore {
	return &StatsStore{db: db}
}

// Get returns the user's stats snapshot, or repository.ErrNotFound.
func (s *StatsStore) Get(ctx context.Context, userID string) (*model.UserStats, error) {
	var st model.UserStats
	err := s.db.Store().Get(userID, &st)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &st, nil
}

// Put replaces the user's stats snapshot.
func (s *StatsStore) Put(ctx context.Context, stats *model.UserStats) error {
	if err := s.db.Store().Upsert(stats.UserID, stats); err != nil {
		return fmt.Errorf("put user stats: %w", err)
	}
	return nil
}
