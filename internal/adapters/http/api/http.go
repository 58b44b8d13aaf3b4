// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/analysis"
	"github.com/okian/panenka/internal/domain/badges"
	"github.com/okian/panenka/internal/domain/dedupe"
	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/internal/domain/ratinglock"
	"github.com/okian/panenka/internal/domain/scoring"
	"github.com/okian/panenka/internal/domain/types"
)

// validate is the shared request validator. Payload structs carry
// go-playground/validator tags.
var validate = validator.New()

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a settlement for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, s model.Settlement) bool

	// Synchronous scoring operations.
	ScorePrediction(ctx context.Context, category string, predicted, actual any, opts scoring.Options) scoring.Score
	Analyze(ctx context.Context, in analysis.Input) analysis.Report

	// Rating lock operations.
	RatingWindow(ctx context.Context, userID, matchID string, kind model.RatingKind, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error)
	SaveRating(ctx context.Context, rating *model.Rating, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error)

	// Badge operations.
	CheckBadges(ctx context.Context, userID string) ([]badges.Award, error)
	EarnedBadges(ctx context.Context, userID string) ([]repository.EarnedBadge, error)
	UnshownAwards(ctx context.Context, userID string) ([]badges.Award, error)
	MarkBadgesShown(ctx context.Context, userID string, badgeIDs []string) error

	// Read operations expose stats and standings data.
	UserStats(ctx context.Context, userID string) (*model.UserStats, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, userID string) (Entry, error)
}

// Entry mirrors the read shape returned by standings queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	settlementsHandler *SettlementsHandler
	scoreHandler       *ScoreHandler
	analysisHandler    *AnalysisHandler
	ratingsHandler     *RatingsHandler
	badgesHandler      *BadgesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	userStatsHandler   *UserStatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		settlementsHandler: NewSettlementsHandler(deps),
		scoreHandler:       NewScoreHandler(deps),
		analysisHandler:    NewAnalysisHandler(deps),
		ratingsHandler:     NewRatingsHandler(deps),
		badgesHandler:      NewBadgesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		userStatsHandler:   NewUserStatsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/settlements", MetricsMiddleware(s.settlementsHandler.HandlePostSettlement, "settlements"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/analysis", MetricsMiddleware(s.analysisHandler.HandleAnalysis, "analysis"))
	mux.HandleFunc("/rating-window", MetricsMiddleware(s.ratingsHandler.HandleGetWindow, "rating_window"))
	mux.HandleFunc("/ratings", MetricsMiddleware(s.ratingsHandler.HandlePostRating, "ratings"))
	mux.HandleFunc("/badges/check", MetricsMiddleware(s.badgesHandler.HandleCheck, "badges_check"))
	mux.HandleFunc("/badges/shown", MetricsMiddleware(s.badgesHandler.HandleMarkShown, "badges_shown"))
	mux.HandleFunc("/badges", MetricsMiddleware(s.badgesHandler.HandleList, "badges"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.userStatsHandler.HandleGetUserStats, "user_stats"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
