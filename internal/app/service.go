// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime"
	"sync"
	"time"

	settlementqueue "github.com/okian/panenka/internal/adapters/mq/queue"
	workerpool "github.com/okian/panenka/internal/adapters/mq/worker"
	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/adapters/repository/badgerstore"
	"github.com/okian/panenka/internal/domain/analysis"
	"github.com/okian/panenka/internal/domain/badges"
	"github.com/okian/panenka/internal/domain/dedupe"
	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/internal/domain/ratinglock"
	"github.com/okian/panenka/internal/domain/scoring"
	"github.com/okian/panenka/internal/domain/types"
	"github.com/okian/panenka/pkg/logger"
	"github.com/okian/panenka/pkg/metrics"
)

// Store backend names accepted by WithStoreBackend.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// userLockStripes bounds the per-user mutex table. Settlements for the same
// user always hash to the same stripe, so stat folds for one user are
// serialized even across workers.
const userLockStripes = 256

// Service implements the API dependencies for the prediction scoring engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	badgeStore  repository.BadgeStore
	ratingStore repository.RatingStore
	statsStore  repository.StatsStore
	standings   repository.Standings
	deduper     dedupe.Deduper
	queue       settlementqueue.Queue
	aggregator  *analysis.Aggregator
	ratingClock *ratinglock.Clock
	badgeEngine *badges.Engine
	workerPool  *workerpool.Pool
	badgerDB    *badgerstore.DB

	// Per-user settlement serialization
	userLocks [userLockStripes]sync.Mutex

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	storeBackend  string
	badgerPath    string
	matchDuration time.Duration
	openWindow    time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the settlement queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStoreBackend selects the persistence backend ("memory" or "badger").
func WithStoreBackend(backend string) Option {
	return func(s *Service) {
		if backend == BackendMemory || backend == BackendBadger {
			s.storeBackend = backend
		}
	}
}

// WithBadgerPath sets the on-disk location for the badger backend.
func WithBadgerPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.badgerPath = path
		}
	}
}

// WithMatchDuration overrides the assumed match duration used by the
// rating window calculation.
func WithMatchDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.matchDuration = d
		}
	}
}

// WithOpenWindow overrides the post-match rating window length.
func WithOpenWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.openWindow = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    100000,
		dedupeSize:   50000,
		storeBackend: BackendMemory,
		badgerPath:   "data/panenka",
		stopCh:       make(chan struct{}),
		logger:       nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting prediction scoring service...")

	if err := s.initStores(ctx); err != nil {
		return err
	}

	s.standings = repository.NewMemoryStandings()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = settlementqueue.NewInMemoryQueue(
		settlementqueue.WithCapacity(s.queueSize),
		settlementqueue.WithBufferSize(s.queueSize),
	)
	s.aggregator = analysis.New(scoring.NewEngine())

	clockOpts := []ratinglock.Option{}
	if s.matchDuration > 0 {
		clockOpts = append(clockOpts, ratinglock.WithMatchDuration(s.matchDuration))
	}
	if s.openWindow > 0 {
		clockOpts = append(clockOpts, ratinglock.WithOpenWindow(s.openWindow))
	}
	s.ratingClock = ratinglock.New(clockOpts...)
	s.badgeEngine = badges.NewEngine()

	// Create and start worker pool; the service itself is the settler.
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.aggregator, s)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "prediction scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("storeBackend", s.storeBackend),
	)

	return nil
}

// initStores builds the persistence layer for the configured backend.
func (s *Service) initStores(ctx context.Context) error {
	switch s.storeBackend {
	case BackendBadger:
		db, err := badgerstore.Open(ctx, s.badgerPath)
		if err != nil {
			return fmt.Errorf("open badger store: %w", err)
		}
		s.badgerDB = db
		s.badgeStore = badgerstore.NewBadgeStore(db)
		s.ratingStore = badgerstore.NewRatingStore(db)
		s.statsStore = badgerstore.NewStatsStore(db)
		s.logger.Info(ctx, "using badger store", logger.String("path", s.badgerPath))
	default:
		s.badgeStore = repository.NewMemoryBadgeStore()
		s.ratingStore = repository.NewMemoryRatingStore()
		s.statsStore = repository.NewMemoryStatsStore()
		s.logger.Info(ctx, "using in-memory stores")
	}
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping prediction scoring service...")

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close queue
	if q, ok := s.queue.(*settlementqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Close badger if open
	if s.badgerDB != nil {
		_ = s.badgerDB.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "prediction scoring service stopped")
}

// SeenAndRecord atomically checks if a settlement id was seen and records it
// if not. Returns true if the settlement was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSettlementDuplicate()
	}
	return seen
}

// Unrecord removes a settlement ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a settlement for asynchronous processing.
// Returns false on backpressure.
func (s *Service) Enqueue(ctx context.Context, settlement model.Settlement) bool {
	s.logger.Debug(ctx, "enqueueing settlement",
		logger.String("eventID", settlement.EventID),
		logger.String("userID", settlement.UserID),
		logger.String("matchID", settlement.MatchID),
	)
	ok := s.queue.Enqueue(ctx, settlement)
	if ok {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return ok
}

// ScorePrediction scores a single prediction synchronously.
func (s *Service) ScorePrediction(ctx context.Context, category string, predicted, actual any, opts scoring.Options) scoring.Score {
	score := s.aggregator.Engine().Score(category, predicted, actual, opts)
	metrics.RecordPredictionScored(1)
	metrics.ObservePredictionPoints(score.FinalPoints)
	return score
}

// Analyze runs the full match analysis synchronously without touching
// persistent state.
func (s *Service) Analyze(ctx context.Context, in analysis.Input) analysis.Report {
	report := s.aggregator.Report(in)
	metrics.RecordMatchAnalyzed()
	return report
}

// RatingWindow resolves the rating lock state for one user, match and kind.
func (s *Service) RatingWindow(ctx context.Context, userID, matchID string, kind model.RatingKind, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error) {
	saved := false
	if userID != "" {
		_, err := s.ratingStore.Get(ctx, userID, matchID, kind)
		switch {
		case err == nil:
			saved = true
		case errors.Is(err, repository.ErrNotFound):
			// not yet saved
		default:
			return ratinglock.Window{}, fmt.Errorf("load rating: %w", err)
		}
	}
	return s.ratingClock.Window(match, saved, now), nil
}

// SaveRating commits a rating, enforcing the one-shot lock and the rating
// window. A locked window returns ratinglock-derived errors; a repeated save
// returns repository.ErrAlreadySaved.
func (s *Service) SaveRating(ctx context.Context, rating *model.Rating, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error) {
	window, err := s.RatingWindow(ctx, rating.UserID, rating.MatchID, rating.Kind, match, now)
	if err != nil {
		return window, err
	}
	if window.Locked {
		if window.Reason == ratinglock.ReasonSaved {
			metrics.RecordRatingConflict()
			return window, repository.ErrAlreadySaved
		}
		return window, nil
	}

	rating.SavedAt = now
	if err := s.ratingStore.SaveOnce(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrAlreadySaved) {
			metrics.RecordRatingConflict()
			// Lost the race; report the terminal state.
			return s.ratingClock.Window(match, true, now), err
		}
		return window, fmt.Errorf("save rating: %w", err)
	}

	metrics.RecordRatingSave()
	return s.ratingClock.Window(match, true, now), nil
}

// CheckBadges runs the award rules for a user and persists anything newly
// earned. The returned slice contains only this call's new awards.
func (s *Service) CheckBadges(ctx context.Context, userID string) ([]badges.Award, error) {
	metrics.RecordBadgeCheck()

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	stats, err := s.statsStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Nothing settled yet, so nothing to award.
			return nil, nil
		}
		return nil, fmt.Errorf("load stats: %w", err)
	}
	return s.awardBadges(ctx, userID, stats)
}

// awardBadges evaluates and persists new badges for a user. Callers must
// hold the user's lock.
func (s *Service) awardBadges(ctx context.Context, userID string, stats *model.UserStats) ([]badges.Award, error) {
	earned, err := s.badgeStore.EarnedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load earned badges: %w", err)
	}

	awards := s.badgeEngine.CheckAndAward(stats, earned)
	if len(awards) == 0 {
		return awards, nil
	}

	records := make([]repository.EarnedBadge, 0, len(awards))
	for _, a := range awards {
		records = append(records, repository.EarnedBadge{
			UserID:   userID,
			BadgeID:  a.Badge.ID,
			EarnedAt: a.EarnedAt,
		})
		metrics.RecordBadgeAwarded(string(a.Badge.Tier))
	}
	if err := s.badgeStore.SaveEarned(ctx, userID, records); err != nil {
		return nil, fmt.Errorf("save earned badges: %w", err)
	}
	return awards, nil
}

// EarnedBadges lists everything a user has earned so far.
func (s *Service) EarnedBadges(ctx context.Context, userID string) ([]repository.EarnedBadge, error) {
	return s.badgeStore.Earned(ctx, userID)
}

// UnshownAwards returns earned badges the user has not been shown yet.
func (s *Service) UnshownAwards(ctx context.Context, userID string) ([]badges.Award, error) {
	earned, err := s.badgeStore.Earned(ctx, userID)
	if err != nil {
		return nil, err
	}
	shown, err := s.badgeStore.ShownIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	awards := make([]badges.Award, 0, len(earned))
	for _, e := range earned {
		badge, ok := badges.Lookup(e.BadgeID)
		if !ok {
			continue
		}
		awards = append(awards, badges.Award{Badge: badge, EarnedAt: e.EarnedAt, IsNew: true})
	}
	return badges.FilterNewForNotification(awards, shown), nil
}

// MarkBadgesShown records that the given badges were presented to the user.
func (s *Service) MarkBadgesShown(ctx context.Context, userID string, badgeIDs []string) error {
	for _, id := range badgeIDs {
		if err := s.badgeStore.MarkShown(ctx, userID, id); err != nil {
			return fmt.Errorf("mark badge shown: %w", err)
		}
	}
	return nil
}

// UserStats returns the cumulative stats snapshot for a user.
func (s *Service) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	return s.statsStore.Get(ctx, userID)
}

// TopN returns the top N standings entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.standings.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	apiEntries := make([]types.Entry, len(entries))
	for i, entry := range entries {
		apiEntries[i] = types.Entry{
			Rank:   entry.Rank,
			UserID: entry.UserID,
			Points: entry.Points,
		}
	}
	return apiEntries, nil
}

// Rank returns the standings entry for a given user id.
func (s *Service) Rank(ctx context.Context, userID string) (types.Entry, error) {
	entry, err := s.standings.Rank(ctx, userID)
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{
		Rank:   entry.Rank,
		UserID: entry.UserID,
		Points: entry.Points,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"storeBackend": s.storeBackend,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalUsers := s.standings.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalUsers"] = totalUsers

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalUsers(totalUsers)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Settle folds one match report into the user's cumulative state: stats,
// standings, then badge awards. Calls for the same user are serialized via
// striped locks; the fold itself is read-modify-write.
func (s *Service) Settle(ctx context.Context, settlement model.Settlement, report analysis.Report) error {
	lock := s.userLock(settlement.UserID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	stats, err := s.statsStore.Get(ctx, settlement.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("load stats: %w", err)
		}
		stats = &model.UserStats{UserID: settlement.UserID}
	}

	foldReport(stats, settlement, report)
	stats.UpdatedAt = time.Now().UTC()

	if err := s.statsStore.Put(ctx, stats); err != nil {
		return fmt.Errorf("store stats: %w", err)
	}
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))

	if err := s.standings.SetPoints(ctx, settlement.UserID, stats.TotalPoints); err != nil {
		return fmt.Errorf("update standings: %w", err)
	}
	metrics.RecordStandingsUpdate()

	if _, err := s.awardBadges(ctx, settlement.UserID, stats); err != nil {
		return err
	}
	return nil
}

// foldReport applies one match report to cumulative stats. Scores are folded
// in the report's category order so the streak counter is deterministic for
// a given settlement.
func foldReport(stats *model.UserStats, settlement model.Settlement, report analysis.Report) {
	perfect := len(report.Scores) > 0
	for _, score := range report.Scores {
		stats.TotalPredictions++
		if score.Correct {
			stats.CorrectPredictions++
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestStreak {
				stats.LongestStreak = stats.CurrentStreak
			}
		} else {
			stats.CurrentStreak = 0
			perfect = false
		}
	}
	if perfect {
		stats.PerfectMatches++
	}

	stats.TotalPoints += report.TotalPoints
	stats.MatchesSettled++
	stats.Accuracy = accuracyOf(stats.CorrectPredictions, stats.TotalPredictions)

	if settlement.LeagueID != "" {
		if stats.Leagues == nil {
			stats.Leagues = make(map[string]model.BucketStats)
		}
		bucket := stats.Leagues[settlement.LeagueID]
		for _, score := range report.Scores {
			bucket.Total++
			if score.Correct {
				bucket.Correct++
			}
		}
		bucket.Accuracy = accuracyOf(bucket.Correct, bucket.Total)
		stats.Leagues[settlement.LeagueID] = bucket
	}

	if stats.Clusters == nil {
		stats.Clusters = make(map[string]model.BucketStats)
	}
	for _, cs := range report.ClusterScores {
		bucket := stats.Clusters[cs.ClusterName]
		bucket.Total += cs.TotalPredictions
		bucket.Correct += cs.CorrectCount
		bucket.Accuracy = accuracyOf(bucket.Correct, bucket.Total)
		stats.Clusters[cs.ClusterName] = bucket
	}
}

func accuracyOf(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}

// userLock returns the stripe mutex owning userID.
func (s *Service) userLock(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.userLocks[h.Sum32()%userLockStripes]
}
