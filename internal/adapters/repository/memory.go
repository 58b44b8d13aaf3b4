package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/pkg/metrics"
)

// MemoryBadgeStore implements BadgeStore with in-process maps. It is the
// default store and the one tests run against.
type MemoryBadgeStore struct {
	mu     sync.RWMutex
	earned map[string][]EarnedBadge   // userID -> records, append-only
	ids    map[string]map[string]bool // userID -> earned id set
	shown  map[string]map[string]bool // userID -> shown id set
}

// NewMemoryBadgeStore creates an empty in-memory badge store.
func NewMemoryBadgeStore() *MemoryBadgeStore {
	return &MemoryBadgeStore{
		earned: make(map[string][]EarnedBadge),
		ids:    make(map[string]map[string]bool),
		shown:  make(map[string]map[string]bool),
	}
}

// EarnedIDs returns a copy of the user's earned badge id set.
func (s *MemoryBadgeStore) EarnedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.ids[userID]))
	for id := range s.ids[userID] {
		out[id] = true
	}
	return out, nil
}

// Earned returns a copy of the user's earned badge records.
func (s *MemoryBadgeStore) Earned(ctx context.Context, userID string) ([]EarnedBadge, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EarnedBadge, len(s.earned[userID]))
	copy(out, s.earned[userID])
	return out, nil
}

// SaveEarned appends records whose badge id is not already persisted.
func (s *MemoryBadgeStore) SaveEarned(ctx context.Context, userID string, earned []EarnedBadge) error {
	start := time.Now()
	defer func() { metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.ids[userID]
	if set == nil {
		set = make(map[string]bool)
		s.ids[userID] = set
	}
	for _, e := range earned {
		if set[e.BadgeID] {
			continue
		}
		set[e.BadgeID] = true
		e.UserID = userID
		s.earned[userID] = append(s.earned[userID], e)
	}
	return nil
}

// ShownIDs returns a copy of the user's shown badge id set.
func (s *MemoryBadgeStore) ShownIDs(ctx context.Context, userID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.shown[userID]))
	for id := range s.shown[userID] {
		out[id] = true
	}
	return out, nil
}

// MarkShown adds a badge id to the user's shown set.
func (s *MemoryBadgeStore) MarkShown(ctx context.Context, userID, badgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.shown[userID]
	if set == nil {
		set = make(map[string]bool)
		s.shown[userID] = set
	}
	set[badgeID] = true
	return nil
}

// ratingKey identifies one one-shot rating commit.
type ratingKey struct {
	userID  string
	matchID string
	kind    model.RatingKind
}

// MemoryRatingStore implements RatingStore with an in-process map.
type MemoryRatingStore struct {
	mu      sync.Mutex
	ratings map[ratingKey]*model.Rating
}

// NewMemoryRatingStore creates an empty in-memory rating store.
func NewMemoryRatingStore() *MemoryRatingStore {
	return &MemoryRatingStore{ratings: make(map[ratingKey]*model.Rating)}
}

// Get returns the saved rating for the key, or ErrNotFound.
func (s *MemoryRatingStore) Get(ctx context.Context, userID, matchID string, kind model.RatingKind) (*model.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[ratingKey{userID, matchID, kind}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// SaveOnce persists the rating unless the key already holds one. The check
// and write happen under one lock, so concurrent saves resolve to exactly
// one winner.
func (s *MemoryRatingStore) SaveOnce(ctx context.Context, rating *model.Rating) error {
	start := time.Now()
	defer func() { metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	key := ratingKey{rating.UserID, rating.MatchID, rating.Kind}
	if _, ok := s.ratings[key]; ok {
		return ErrAlreadySaved
	}
	cp := *rating
	s.ratings[key] = &cp
	return nil
}

// MemoryStatsStore implements StatsStore with an in-process map.
type MemoryStatsStore struct {
	mu    sync.RWMutex
	stats map[string]*model.UserStats
}

// NewMemoryStatsStore creates an empty in-memory stats store.
func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{stats: make(map[string]*model.UserStats)}
}

// Get returns a deep copy of the user's stats snapshot, or ErrNotFound.
func (s *MemoryStatsStore) Get(ctx context.Context, userID string) (*model.UserStats, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyStats(st), nil
}

// Put replaces the user's stats snapshot.
func (s *MemoryStatsStore) Put(ctx context.Context, stats *model.UserStats) error {
	start := time.Now()
	defer func() { metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stats.UserID] = copyStats(stats)
	return nil
}

// copyStats deep-copies a stats snapshot so callers never share maps with
// the store.
func copyStats(st *model.UserStats) *model.UserStats {
	cp := *st
	cp.Leagues = make(map[string]model.BucketStats, len(st.Leagues))
	for k, v := range st.Leagues {
		cp.Leagues[k] = v
	}
	cp.Clusters = make(map[string]model.BucketStats, len(st.Clusters))
	for k, v := range st.Clusters {
		cp.Clusters[k] = v
	}
	return &cp
}
