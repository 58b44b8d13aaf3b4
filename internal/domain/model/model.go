// Package model contains domain models passed between layers.
package model

import "time"

// RatingKind distinguishes the two independent post-match rating surfaces.
type RatingKind string

// Rating kinds. Coach and player ratings carry independent one-shot locks.
const (
	RatingCoach  RatingKind = "coach"
	RatingPlayer RatingKind = "player"
)

// Valid reports whether k names a known rating kind.
func (k RatingKind) Valid() bool {
	return k == RatingCoach || k == RatingPlayer
}

// Settlement represents one user's concluded match submitted for scoring.
// It is the payload flowing through the settlement queue.
type Settlement struct {
	EventID     string         // unique id for idempotency
	UserID      string         // owner of the predictions
	MatchID     string         // match the predictions belong to
	LeagueID    string         // league the match was played in
	Training    string         // pre-match training choice, may be empty
	Focused     []string       // categories the user flagged as focus picks
	Predictions map[string]any // category -> predicted value
	Results     map[string]any // category -> actual value
	TS          time.Time      // submission timestamp
}

// MatchLifecycle carries the match fields the rating window is derived from.
type MatchLifecycle struct {
	Status  string    // short status code, e.g. "NS", "1H", "FT"
	Kickoff time.Time // scheduled kickoff; zero when unknown
}

// Rating is the payload a user commits for a match, at most once per kind.
type Rating struct {
	UserID  string
	MatchID string
	Kind    RatingKind
	Scores  map[string]int // subject id -> 1..10 score
	Comment string
	SavedAt time.Time
}

// BucketStats is a correct/total pair with a precomputed accuracy, used for
// the per-league and per-cluster breakdowns inside UserStats.
type BucketStats struct {
	Total    int `json:"total"`
	Correct  int `json:"correct"`
	Accuracy int `json:"accuracy"` // rounded percentage 0..100
}

// UserStats is the cumulative counter snapshot the badge engine evaluates.
// The engine treats it as read-only; only the settlement pipeline folds
// match reports into it.
type UserStats struct {
	UserID             string                 `json:"user_id"`
	TotalPredictions   int                    `json:"total_predictions"`
	CorrectPredictions int                    `json:"correct_predictions"`
	Accuracy           int                    `json:"accuracy"` // rounded percentage 0..100
	TotalPoints        int                    `json:"total_points"`
	CurrentStreak      int                    `json:"current_streak"`
	LongestStreak      int                    `json:"longest_streak"`
	PerfectMatches     int                    `json:"perfect_matches"`
	Leagues            map[string]BucketStats `json:"leagues"`  // league id -> breakdown
	Clusters           map[string]BucketStats `json:"clusters"` // cluster name -> breakdown
	MatchesSettled     int                    `json:"matches_settled"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// League returns the stats bucket for a league id, zero-valued when absent.
func (s *UserStats) League(id string) BucketStats {
	if s.Leagues == nil {
		return BucketStats{}
	}
	return s.Leagues[id]
}

// Cluster returns the stats bucket for a cluster name, zero-valued when absent.
func (s *UserStats) Cluster(name string) BucketStats {
	if s.Clusters == nil {
		return BucketStats{}
	}
	return s.Clusters[name]
}
