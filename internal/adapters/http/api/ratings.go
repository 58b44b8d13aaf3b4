// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/internal/domain/ratinglock"
)

// ratingRequest mirrors the wire schema for POST /ratings.
type ratingRequest struct {
	UserID      string         `json:"user_id" validate:"required"`
	MatchID     string         `json:"match_id" validate:"required"`
	Kind        string         `json:"kind" validate:"required,oneof=coach player"`
	Scores      map[string]int `json:"scores" validate:"required,dive,min=1,max=10"`
	Comment     string         `json:"comment"`
	MatchStatus string         `json:"match_status" validate:"required"`
	Kickoff     string         `json:"kickoff"`
}

// ratingResponse couples the save outcome with the resulting window state.
type ratingResponse struct {
	Status string            `json:"status"`
	Window ratinglock.Window `json:"window"`
}

// RatingDependencies defines the interface for rating operations.
type RatingDependencies interface {
	RatingWindow(ctx context.Context, userID, matchID string, kind model.RatingKind, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error)
	SaveRating(ctx context.Context, rating *model.Rating, match model.MatchLifecycle, now time.Time) (ratinglock.Window, error)
}

// RatingsHandler handles rating window queries and rating submissions.
type RatingsHandler struct {
	deps RatingDependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

// HandleGetWindow handles GET /rating-window requests. The match identity
// and lifecycle arrive as query parameters; user_id is optional and only
// affects the saved check.
func (h *RatingsHandler) HandleGetWindow(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rating_window"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	matchID := q.Get("match_id")
	status := q.Get("status")
	if matchID == "" || status == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	kind := model.RatingKind(q.Get("kind"))
	if kind == "" {
		kind = model.RatingCoach
	}
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	match := model.MatchLifecycle{Status: status}
	if raw := q.Get("kickoff"); raw != "" {
		kickoff, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		match.Kickoff = kickoff
	}

	window, err := h.deps.RatingWindow(r.Context(), q.Get("user_id"), matchID, kind, match, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, window)
}

// HandlePostRating handles POST /ratings requests. A rating is committed at
// most once per user, match and kind: a repeat attempt returns 409 and any
// other closed window returns 423.
func (h *RatingsHandler) HandlePostRating(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rating"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	match := model.MatchLifecycle{Status: req.MatchStatus}
	if req.Kickoff != "" {
		kickoff, err := time.Parse(time.RFC3339, req.Kickoff)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		match.Kickoff = kickoff
	}

	rating := &model.Rating{
		UserID:  req.UserID,
		MatchID: req.MatchID,
		Kind:    model.RatingKind(req.Kind),
		Scores:  req.Scores,
		Comment: req.Comment,
	}

	window, err := h.deps.SaveRating(r.Context(), rating, match, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrAlreadySaved) {
			writeJSON(w, http.StatusConflict, ratingResponse{Status: "already_saved", Window: window})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if window.Locked && window.Reason != ratinglock.ReasonSaved {
		writeJSON(w, http.StatusLocked, ratingResponse{Status: "locked", Window: window})
		return
	}
	writeJSON(w, http.StatusCreated, ratingResponse{Status: "saved", Window: window})
}
