package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/panenka/pkg/metrics"
)

// MemoryStandings is the in-memory Standings implementation.
//
// Ordering: points DESC, then userID ASC (deterministic). Writes mark the
// snapshot dirty; the sorted snapshot and rank index are rebuilt lazily on
// the next read, so bursts of settlement writes pay for one rebuild.
type MemoryStandings struct {
	mu     sync.RWMutex
	points map[string]int

	snapMu sync.Mutex
	dirty  bool
	sorted []Entry        // points desc, userID asc
	ranks  map[string]int // userID -> rank (1-based)
}

// NewMemoryStandings creates an empty in-memory standings store.
func NewMemoryStandings() *MemoryStandings {
	return &MemoryStandings{
		points: make(map[string]int),
		ranks:  make(map[string]int),
	}
}

// SetPoints records a user's cumulative point total.
func (s *MemoryStandings) SetPoints(ctx context.Context, userID string, points int) error {
	start := time.Now()
	defer func() { metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds())) }()

	s.mu.Lock()
	s.points[userID] = points
	s.mu.Unlock()

	s.snapMu.Lock()
	s.dirty = true
	s.snapMu.Unlock()

	metrics.RecordStandingsUpdate()
	return nil
}

// Rank returns the current rank and points for a user.
func (s *MemoryStandings) Rank(ctx context.Context, userID string) (Entry, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	s.refresh()

	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	rank, ok := s.ranks[userID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return s.sorted[rank-1], nil
}

// TopN returns the top-N entries ordered by points desc.
func (s *MemoryStandings) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}
	start := time.Now()
	defer func() { metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds())) }()

	s.refresh()

	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	if n > len(s.sorted) {
		n = len(s.sorted)
	}
	out := make([]Entry, n)
	copy(out, s.sorted[:n])
	return out, nil
}

// Count returns the number of users tracked in the standings.
func (s *MemoryStandings) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// refresh rebuilds the sorted snapshot when writes have landed since the
// last read.
func (s *MemoryStandings) refresh() {
	s.snapMu.Lock()
	if !s.dirty {
		s.snapMu.Unlock()
		return
	}
	s.dirty = false
	s.snapMu.Unlock()

	s.mu.RLock()
	entries := make([]Entry, 0, len(s.points))
	for id, pts := range s.points {
		entries = append(entries, Entry{UserID: id, Points: pts})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})

	ranks := make(map[string]int, len(entries))
	for i := range entries {
		entries[i].Rank = i + 1
		ranks[entries[i].UserID] = i + 1
	}

	s.snapMu.Lock()
	s.sorted = entries
	s.ranks = ranks
	s.snapMu.Unlock()

	metrics.UpdateTotalUsers(len(entries))
}
