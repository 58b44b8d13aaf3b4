package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/panenka/internal/adapters/http/api"
	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/analysis"
	"github.com/okian/panenka/internal/domain/badges"
	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/internal/domain/ratinglock"
	"github.com/okian/panenka/internal/domain/scoring"
	"github.com/okian/panenka/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDeduper struct {
	seen map[string]bool
}

func (m *mockDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDeduper) Unrecord(ctx context.Context, id string) {
	delete(m.seen, id)
}

func (m *mockDeduper) Size() int64 {
	return int64(len(m.seen))
}

// mockDependencies implements the api.Dependencies interface.
type mockDependencies struct {
	mockDeduper

	enqueueSuccess bool
	enqueued       []model.Settlement

	window    ratinglock.Window
	windowErr error
	saveErr   error

	awards       []badges.Award
	earned       []repository.EarnedBadge
	unshown      []badges.Award
	shownCalls   [][]string
	badgesErr    error
	markShownErr error

	stats    *model.UserStats
	statsErr error
	topN     []types.Entry
	topNErr  error
	rank     types.Entry
	rankErr  error
}

func (m *mockDependencies) Enqueue(ctx context.Context, s model.Settlement) bool {
	if m.enqueueSuccess {
		m.enqueued = append(m.enqueued, s)
		return true
	}
	return false
}

func (m *mockDependencies) ScorePrediction(ctx context.Context, category string, predicted, actual any, opts scoring.Options) scoring.Score {
	return scoring.NewEngine().Score(category, predicted, actual, opts)
}

func (m *mockDependencies) Analyze(ctx context.Context, in analysis.Input) analysis.Report {
	return analysis.New(nil).Report(in)
}

func (m *mockDependencies) RatingWindow(ctx context.Context, userID, matchID string, kind model.RatingKind, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error) {
	return m.window, m.windowErr
}

func (m *mockDependencies) SaveRating(ctx context.Context, rating *model.Rating, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error) {
	return m.window, m.saveErr
}

func (m *mockDependencies) CheckBadges(ctx context.Context, userID string) ([]badges.Award, error) {
	return m.awards, m.badgesErr
}

func (m *mockDependencies) EarnedBadges(ctx context.Context, userID string) ([]repository.EarnedBadge, error) {
	return m.earned, m.badgesErr
}

func (m *mockDependencies) UnshownAwards(ctx context.Context, userID string) ([]badges.Award, error) {
	return m.unshown, m.badgesErr
}

func (m *mockDependencies) MarkBadgesShown(ctx context.Context, userID string, badgeIDs []string) error {
	if m.markShownErr != nil {
		return m.markShownErr
	}
	m.shownCalls = append(m.shownCalls, badgeIDs)
	return nil
}

func (m *mockDependencies) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	return m.stats, m.statsErr
}

func (m *mockDependencies) TopN(ctx context.Context, n int) ([]api.Entry, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	if n > len(m.topN) {
		return m.topN, nil
	}
	return m.topN[:n], nil
}

func (m *mockDependencies) Rank(ctx context.Context, userID string) (api.Entry, error) {
	return m.rank, m.rankErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// Local response shapes for decoding.
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ratingResponse struct {
	Status string            `json:"status"`
	Window ratinglock.Window `json:"window"`
}

const validSettlement = `{
	"event_id": "event-123",
	"user_id": "user-456",
	"match_id": "match-789",
	"league_id": "super-lig",
	"predictions": {"matchResult": "home"},
	"results": {"matchResult": "home"},
	"ts": "2025-03-08T22:00:00Z"
}`

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{enqueueSuccess: true}
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
		server := api.NewServer(deps, statsProvider, 100)
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("Then the health endpoint responds", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint responds", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the settlements endpoint rejects an empty payload", func() {
			req := httptest.NewRequest("POST", "/settlements", strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then the leaderboard endpoint responds", func() {
			req := httptest.NewRequest("GET", "/leaderboard?limit=10", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the rank endpoint responds", func() {
			req := httptest.NewRequest("GET", "/rank/user-1", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then unknown paths fall through to 404", func() {
			req := httptest.NewRequest("GET", "/unknown", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSettlementsHandler_HandlePostSettlement(t *testing.T) {
	Convey("Given a settlements handler", t, func() {
		deps := &mockDependencies{enqueueSuccess: true}
		handler := api.NewSettlementsHandler(deps)

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/settlements", strings.NewReader(validSettlement))
			w := httptest.NewRecorder()
			handler.HandlePostSettlement(w, req)

			Convey("Then it returns accepted status", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response ackResponse
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Status, ShouldEqual, "accepted")
				So(response.Duplicate, ShouldBeFalse)
			})

			Convey("Then the settlement reached the queue with parsed fields", func() {
				So(len(deps.enqueued), ShouldEqual, 1)
				So(deps.enqueued[0].EventID, ShouldEqual, "event-123")
				So(deps.enqueued[0].LeagueID, ShouldEqual, "super-lig")
				So(deps.enqueued[0].TS.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the same event id arrives twice", func() {
			req1 := httptest.NewRequest("POST", "/settlements", strings.NewReader(validSettlement))
			handler.HandlePostSettlement(httptest.NewRecorder(), req1)

			req2 := httptest.NewRequest("POST", "/settlements", strings.NewReader(validSettlement))
			w2 := httptest.NewRecorder()
			handler.HandlePostSettlement(w2, req2)

			Convey("Then the second returns duplicate with 200", func() {
				So(w2.Code, ShouldEqual, http.StatusOK)

				var response ackResponse
				So(json.NewDecoder(w2.Body).Decode(&response), ShouldBeNil)
				So(response.Status, ShouldEqual, "duplicate")
				So(response.Duplicate, ShouldBeTrue)
				So(len(deps.enqueued), ShouldEqual, 1)
			})
		})

		Convey("When the payload is invalid JSON", func() {
			req := httptest.NewRequest("POST", "/settlements", strings.NewReader(`{invalid`))
			w := httptest.NewRecorder()
			handler.HandlePostSettlement(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When required fields are missing", func() {
			req := httptest.NewRequest("POST", "/settlements", strings.NewReader(`{"event_id": "e1"}`))
			w := httptest.NewRecorder()
			handler.HandlePostSettlement(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the timestamp is not RFC3339", func() {
			body := strings.Replace(validSettlement, "2025-03-08T22:00:00Z", "yesterday", 1)
			req := httptest.NewRequest("POST", "/settlements", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePostSettlement(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the method is not POST", func() {
			req := httptest.NewRequest("GET", "/settlements", nil)
			w := httptest.NewRecorder()
			handler.HandlePostSettlement(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the queue applies backpressure", func() {
			deps.enqueueSuccess = false
			req := httptest.NewRequest("POST", "/settlements", strings.NewReader(validSettlement))
			w := httptest.NewRecorder()
			handler.HandlePostSettlement(w, req)

			Convey("Then it returns 429 with the backpressure code", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)

				var response errorResponse
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Code, ShouldEqual, "backpressure")
			})

			Convey("Then the event id was released for retry", func() {
				deps.enqueueSuccess = true
				req := httptest.NewRequest("POST", "/settlements", strings.NewReader(validSettlement))
				w := httptest.NewRecorder()
				handler.HandlePostSettlement(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)
			})
		})
	})
}

func TestScoreHandler_HandleScore(t *testing.T) {
	Convey("Given a score handler", t, func() {
		handler := api.NewScoreHandler(&mockDependencies{})

		Convey("When scoring a correct prediction", func() {
			body := `{"category": "matchResult", "predicted": "home", "actual": "home"}`
			req := httptest.NewRequest("POST", "/score", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleScore(w, req)

			Convey("Then the score comes back with points", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var score scoring.Score
				So(json.NewDecoder(w.Body).Decode(&score), ShouldBeNil)
				So(score.Correct, ShouldBeTrue)
				So(score.FinalPoints, ShouldEqual, 10)
			})
		})

		Convey("When the category is missing", func() {
			req := httptest.NewRequest("POST", "/score", strings.NewReader(`{"predicted": 1, "actual": 1}`))
			w := httptest.NewRecorder()
			handler.HandleScore(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestAnalysisHandler_HandleAnalysis(t *testing.T) {
	Convey("Given an analysis handler", t, func() {
		handler := api.NewAnalysisHandler(&mockDependencies{})

		Convey("When analyzing a full match", func() {
			body := `{
				"predictions": {"matchResult": "home", "totalGoals": "2-3 gol"},
				"results": {"matchResult": "home", "totalGoals": 2}
			}`
			req := httptest.NewRequest("POST", "/analysis", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleAnalysis(w, req)

			Convey("Then the report covers every prediction", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var report analysis.Report
				So(json.NewDecoder(w.Body).Decode(&report), ShouldBeNil)
				So(len(report.Scores), ShouldEqual, 2)
				So(report.OverallAccuracy, ShouldEqual, 100)
				So(report.TotalPoints, ShouldEqual, 30)
			})
		})

		Convey("When the payload lacks results", func() {
			req := httptest.NewRequest("POST", "/analysis", strings.NewReader(`{"predictions": {"x": 1}}`))
			w := httptest.NewRecorder()
			handler.HandleAnalysis(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRatingsHandler_HandleGetWindow(t *testing.T) {
	Convey("Given a ratings handler", t, func() {
		deps := &mockDependencies{
			window: ratinglock.Window{Locked: false, Reason: ratinglock.ReasonOpen, HoursRemaining: 12},
		}
		handler := api.NewRatingsHandler(deps)

		Convey("When querying an open window", func() {
			req := httptest.NewRequest("GET", "/rating-window?match_id=m1&status=FT&kind=coach", nil)
			w := httptest.NewRecorder()
			handler.HandleGetWindow(w, req)

			Convey("Then the window state is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var window ratinglock.Window
				So(json.NewDecoder(w.Body).Decode(&window), ShouldBeNil)
				So(window.Locked, ShouldBeFalse)
				So(window.Reason, ShouldEqual, ratinglock.ReasonOpen)
			})
		})

		Convey("When match_id or status is missing", func() {
			req := httptest.NewRequest("GET", "/rating-window?match_id=m1", nil)
			w := httptest.NewRecorder()
			handler.HandleGetWindow(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the kind is unknown", func() {
			req := httptest.NewRequest("GET", "/rating-window?match_id=m1&status=FT&kind=referee", nil)
			w := httptest.NewRecorder()
			handler.HandleGetWindow(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the kickoff is malformed", func() {
			req := httptest.NewRequest("GET", "/rating-window?match_id=m1&status=FT&kickoff=tomorrow", nil)
			w := httptest.NewRecorder()
			handler.HandleGetWindow(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRatingsHandler_HandlePostRating(t *testing.T) {
	Convey("Given a ratings handler", t, func() {
		deps := &mockDependencies{}
		handler := api.NewRatingsHandler(deps)

		validRating := `{
			"user_id": "user-1",
			"match_id": "match-1",
			"kind": "coach",
			"scores": {"tactics": 8, "substitutions": 6},
			"match_status": "FT",
			"kickoff": "2025-03-08T20:00:00Z"
		}`

		Convey("When the window is open and the save succeeds", func() {
			deps.window = ratinglock.Window{Locked: true, Reason: ratinglock.ReasonSaved}
			req := httptest.NewRequest("POST", "/ratings", strings.NewReader(validRating))
			w := httptest.NewRecorder()
			handler.HandlePostRating(w, req)

			Convey("Then it returns created with the saved state", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)

				var response ratingResponse
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Status, ShouldEqual, "saved")
				So(response.Window.Reason, ShouldEqual, ratinglock.ReasonSaved)
			})
		})

		Convey("When the rating was already committed", func() {
			deps.window = ratinglock.Window{Locked: true, Reason: ratinglock.ReasonSaved}
			deps.saveErr = repository.ErrAlreadySaved
			req := httptest.NewRequest("POST", "/ratings", strings.NewReader(validRating))
			w := httptest.NewRecorder()
			handler.HandlePostRating(w, req)

			Convey("Then it returns 409 conflict", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)

				var response ratingResponse
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Status, ShouldEqual, "already_saved")
			})
		})

		Convey("When the window is locked for another reason", func() {
			deps.window = ratinglock.Window{Locked: true, Reason: ratinglock.ReasonLive}
			req := httptest.NewRequest("POST", "/ratings", strings.NewReader(validRating))
			w := httptest.NewRecorder()
			handler.HandlePostRating(w, req)

			Convey("Then it returns 423 locked", func() {
				So(w.Code, ShouldEqual, http.StatusLocked)

				var response ratingResponse
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Status, ShouldEqual, "locked")
				So(response.Window.Reason, ShouldEqual, ratinglock.ReasonLive)
			})
		})

		Convey("When a score is out of the 1..10 band", func() {
			body := strings.Replace(validRating, `"tactics": 8`, `"tactics": 11`, 1)
			req := httptest.NewRequest("POST", "/ratings", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePostRating(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the kind is not coach or player", func() {
			body := strings.Replace(validRating, `"kind": "coach"`, `"kind": "mascot"`, 1)
			req := httptest.NewRequest("POST", "/ratings", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandlePostRating(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestBadgesHandler(t *testing.T) {
	Convey("Given a badges handler", t, func() {
		award := badges.Award{EarnedAt: time.Now(), IsNew: true}
		award.Badge, _ = badges.Lookup("streak_5")
		deps := &mockDependencies{
			awards:  []badges.Award{award},
			earned:  []repository.EarnedBadge{{UserID: "u1", BadgeID: "streak_5"}},
			unshown: []badges.Award{award},
		}
		handler := api.NewBadgesHandler(deps)

		Convey("When a badge check runs", func() {
			req := httptest.NewRequest("POST", "/badges/check", strings.NewReader(`{"user_id": "u1"}`))
			w := httptest.NewRecorder()
			handler.HandleCheck(w, req)

			Convey("Then the new awards come back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var awards []badges.Award
				So(json.NewDecoder(w.Body).Decode(&awards), ShouldBeNil)
				So(len(awards), ShouldEqual, 1)
				So(awards[0].Badge.ID, ShouldEqual, "streak_5")
			})
		})

		Convey("When a check finds nothing new", func() {
			deps.awards = nil
			req := httptest.NewRequest("POST", "/badges/check", strings.NewReader(`{"user_id": "u1"}`))
			w := httptest.NewRecorder()
			handler.HandleCheck(w, req)

			Convey("Then the body is an empty array, not null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When the check payload lacks a user id", func() {
			req := httptest.NewRequest("POST", "/badges/check", strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			handler.HandleCheck(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When badges are listed", func() {
			req := httptest.NewRequest("GET", "/badges?user_id=u1", nil)
			w := httptest.NewRecorder()
			handler.HandleList(w, req)

			Convey("Then earned and unshown are both present", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response struct {
					UserID  string                   `json:"user_id"`
					Earned  []repository.EarnedBadge `json:"earned"`
					Unshown []badges.Award           `json:"unshown"`
				}
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.UserID, ShouldEqual, "u1")
				So(len(response.Earned), ShouldEqual, 1)
				So(len(response.Unshown), ShouldEqual, 1)
			})
		})

		Convey("When the list query lacks a user id", func() {
			req := httptest.NewRequest("GET", "/badges", nil)
			w := httptest.NewRecorder()
			handler.HandleList(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When badges are marked shown", func() {
			body := `{"user_id": "u1", "badge_ids": ["streak_5"]}`
			req := httptest.NewRequest("POST", "/badges/shown", strings.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleMarkShown(w, req)

			Convey("Then the ids reach the dependency", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(deps.shownCalls), ShouldEqual, 1)
				So(deps.shownCalls[0], ShouldResemble, []string{"streak_5"})
			})
		})

		Convey("When the shown payload has no badge ids", func() {
			req := httptest.NewRequest("POST", "/badges/shown", strings.NewReader(`{"user_id": "u1", "badge_ids": []}`))
			w := httptest.NewRecorder()
			handler.HandleMarkShown(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLeaderboardHandler_HandleGetLeaderboard(t *testing.T) {
	Convey("Given a leaderboard handler", t, func() {
		deps := &mockDependencies{
			topN: []types.Entry{
				{Rank: 1, UserID: "user-1", Points: 300},
				{Rank: 2, UserID: "user-2", Points: 200},
				{Rank: 3, UserID: "user-3", Points: 100},
			},
		}
		handler := api.NewLeaderboardHandler(deps, 100)

		Convey("When requesting the top entries", func() {
			req := httptest.NewRequest("GET", "/leaderboard?limit=2", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then the limited slice comes back in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.Entry
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(len(response), ShouldEqual, 2)
				So(response[0].UserID, ShouldEqual, "user-1")
			})
		})

		Convey("When no limit is given", func() {
			req := httptest.NewRequest("GET", "/leaderboard", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the maximum", func() {
			req := httptest.NewRequest("GET", "/leaderboard?limit=500", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)

			Convey("Then the error carries the limit code", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)

				var response errorResponse
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Code, ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the standings read fails", func() {
			deps.topNErr = fmt.Errorf("store down")
			req := httptest.NewRequest("GET", "/leaderboard?limit=10", nil)
			w := httptest.NewRecorder()
			handler.HandleGetLeaderboard(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestRankHandler_HandleGetRank(t *testing.T) {
	Convey("Given a rank handler", t, func() {
		deps := &mockDependencies{rank: types.Entry{Rank: 5, UserID: "user-123", Points: 85}}
		handler := api.NewRankHandler(deps)

		Convey("When the user exists", func() {
			req := httptest.NewRequest("GET", "/rank/user-123", nil)
			w := httptest.NewRecorder()
			handler.HandleGetRank(w, req)

			Convey("Then the entry is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var response types.Entry
				So(json.NewDecoder(w.Body).Decode(&response), ShouldBeNil)
				So(response.Rank, ShouldEqual, 5)
				So(response.Points, ShouldEqual, 85)
			})
		})

		Convey("When the user is unknown", func() {
			deps.rankErr = repository.ErrNotFound
			req := httptest.NewRequest("GET", "/rank/ghost", nil)
			w := httptest.NewRecorder()
			handler.HandleGetRank(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path has no user id", func() {
			req := httptest.NewRequest("GET", "/rank/", nil)
			w := httptest.NewRecorder()
			handler.HandleGetRank(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestUserStatsHandler_HandleGetUserStats(t *testing.T) {
	Convey("Given a user stats handler", t, func() {
		deps := &mockDependencies{
			stats: &model.UserStats{UserID: "user-1", TotalPoints: 120, Accuracy: 75},
		}
		handler := api.NewUserStatsHandler(deps)

		Convey("When the user has stats", func() {
			req := httptest.NewRequest("GET", "/users/user-1/stats", nil)
			w := httptest.NewRecorder()
			handler.HandleGetUserStats(w, req)

			Convey("Then the snapshot is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var stats model.UserStats
				So(json.NewDecoder(w.Body).Decode(&stats), ShouldBeNil)
				So(stats.TotalPoints, ShouldEqual, 120)
			})
		})

		Convey("When the user is unknown", func() {
			deps.statsErr = repository.ErrNotFound
			req := httptest.NewRequest("GET", "/users/ghost/stats", nil)
			w := httptest.NewRecorder()
			handler.HandleGetUserStats(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the path is not a stats path", func() {
			req := httptest.NewRequest("GET", "/users/user-1", nil)
			w := httptest.NewRecorder()
			handler.HandleGetUserStats(w, req)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
