package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/okian/panenka/internal/adapters/repository"
)

// shownBadge is the persisted notification marker for one (user, badge).
type shownBadge struct {
	UserID  string `badgerhold:"index"`
	BadgeID string
}

// BadgeStore is the badger-backed repository.BadgeStore.
type BadgeStore struct {
	db *DB
}

// NewBadgeStore creates a badge store on the shared DB handle.
func NewBadgeStore(db *DB) *BadgeStore {
	return &BadgeStore{db: db}
}

func earnedKey(userID, badgeID string) string {
	return userID + "/" + badgeID
}

// EarnedIDs returns the set of badge ids the user has earned.
func (s *BadgeStore) EarnedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	earned, err := s.Earned(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(earned))
	for _, e := range earned {
		out[e.BadgeID] = true
	}
	return out, nil
}

// Earned returns the full earned records for a user.
func (s *BadgeStore) Earned(ctx context.Context, userID string) ([]repository.EarnedBadge, error) {
	var out []repository.EarnedBadge
	err := s.db.Store().Find(&out, badgerhold.Where("UserID").Eq(userID).Index("UserID"))
	if err != nil {
		return nil, fmt.Errorf("find earned badges: %w", err)
	}
	return out, nil
}

// SaveEarned appends newly earned badges. Insert fails on an existing key,
// which is exactly the append-only semantic: a badge id persisted earlier
// is never overwritten or re-dated.
func (s *BadgeStore) SaveEarned(ctx context.Context, userID string, earned []repository.EarnedBadge) error {
	for _, e := range earned {
		e.UserID = userID
		err := s.db.Store().Insert(earnedKey(userID, e.BadgeID), &e)
		if err != nil && !errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("save earned badge %s: %w", e.BadgeID, err)
		}
	}
	return nil
}

// ShownIDs returns the badge ids already surfaced to the user.
func (s *BadgeStore) ShownIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var marks []shownBadge
	err := s.db.Store().Find(&marks, badgerhold.Where("UserID").Eq(userID).Index("UserID"))
	if err != nil {
		return nil, fmt.Errorf("find shown badges: %w", err)
	}
	out := make(map[string]bool, len(marks))
	for _, m := range marks {
		out[m.BadgeID] = true
	}
	return out, nil
}

// MarkShown records that a badge notification was displayed.
func (s *BadgeStore) MarkShown(ctx context.Context, userID, badgeID string) error {
	mark := shownBadge{UserID: userID, BadgeID: badgeID}
	err := s.db.Store().Insert(earnedKey(userID, badgeID), &mark)
	if err != nil && !errors.Is(err, badgerhold.ErrKeyExists) {
		return fmt.Errorf("mark badge shown: %w", err)
	}
	return nil
}
