// Package repository defines the persistence contracts for the engine:
// earned badges and shown-badge ids, one-shot rating commits, cumulative
// user stats, and the points standings. In-memory implementations live in
// this package; the badger-backed ones in the badgerstore subpackage.
package repository

import (
	"context"
	"time"

	"github.com/okian/panenka/internal/domain/model"
)

// EarnedBadge is the persisted record of one granted badge. The badge id
// is the idempotency key: a (user, badge id) pair exists at most once and
// its EarnedAt is never re-dated.
type EarnedBadge struct {
	UserID   string    `json:"user_id" badgerhold:"index"`
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// BadgeStore persists earned badges and the shown-badge-id set per user.
type BadgeStore interface {
	// EarnedIDs returns the set of badge ids the user has earned.
	EarnedIDs(ctx context.Context, userID string) (map[string]bool, error)

	// Earned returns the full earned records for a user.
	Earned(ctx context.Context, userID string) ([]EarnedBadge, error)

	// SaveEarned appends newly earned badges. Ids already persisted for the
	// user are skipped, never overwritten.
	SaveEarned(ctx context.Context, userID string, earned []EarnedBadge) error

	// ShownIDs returns the badge ids already surfaced to the user.
	ShownIDs(ctx context.Context, userID string) (map[string]bool, error)

	// MarkShown records that a badge notification was displayed. Adding an
	// id twice is a no-op.
	MarkShown(ctx context.Context, userID, badgeID string) error
}

// RatingStore persists the one-shot rating commits.
type RatingStore interface {
	// Get returns the saved rating for the key, or ErrNotFound.
	Get(ctx context.Context, userID, matchID string, kind model.RatingKind) (*model.Rating, error)

	// SaveOnce persists a rating if and only if no rating exists for the
	// (user, match, kind) key. Returns ErrAlreadySaved otherwise: the first
	// successful writer wins, permanently.
	SaveOnce(ctx context.Context, rating *model.Rating) error
}

// StatsStore persists cumulative per-user statistics snapshots.
type StatsStore interface {
	// Get returns the user's stats snapshot, or ErrNotFound.
	Get(ctx context.Context, userID string) (*model.UserStats, error)

	// Put replaces the user's stats snapshot.
	Put(ctx context.Context, stats *model.UserStats) error
}

// Entry is a standings row.
type Entry struct {
	Rank   int
	UserID string
	Points int
}

// Standings provides read/write access to the cumulative points ranking.
type Standings interface {
	// SetPoints records a user's cumulative point total.
	SetPoints(ctx context.Context, userID string, points int) error

	// Rank returns the current rank and points for a user.
	// Returns ErrNotFound if the user is unknown.
	Rank(ctx context.Context, userID string) (Entry, error)

	// TopN returns the top-N entries ordered by points desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of users tracked in the standings.
	Count(ctx context.Context) int
}
