package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/model"
)

// RatingStore is the badger-backed repository.RatingStore.
type RatingStore struct {
	db *DB
}

// NewRatingStore creates a rating store on the shared DB handle.
func NewRatingStore(db *DB) *RatingStore {
	return &RatingStore{db: db}
}

func ratingKey(userID, matchID string, kind model.RatingKind) string {
	return userID + "/" + matchID + "/" + string(kind)
}

// Get returns the saved rating for the key, or repository.ErrNotFound.
func (s *RatingStore) Get(ctx context.Context, userID, matchID string, kind model.RatingKind) (*model.Rating, error) {
	var r model.Rating
	err := s.db.Store().Get(ratingKey(userID, matchID, kind), &r)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &r, nil
}

// SaveOnce persists the rating if and only if the key is vacant. Insert
// runs in one badger transaction, so concurrent saves resolve to exactly
// one winner; every other writer gets repository.ErrAlreadySaved.
func (s *RatingStore) SaveOnce(ctx context.Context, rating *model.Rating) error {
	key := ratingKey(rating.UserID, rating.MatchID, rating.Kind)
	err := s.db.Store().Insert(key, rating)
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return repository.ErrAlreadySaved
	}
	if err != nil {
		return fmt.Errorf("save rating: %w", err)
	}
	return nil
}
