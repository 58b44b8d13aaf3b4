// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/panenka/internal/domain/scoring"
)

// scoreRequest mirrors the wire schema for POST /score.
type scoreRequest struct {
	Category  string `json:"category" validate:"required"`
	Predicted any    `json:"predicted"`
	Actual    any    `json:"actual"`
	Training  string `json:"training"`
	Focused   bool   `json:"focused"`
}

// ScoreDependencies defines the interface for single-prediction scoring.
type ScoreDependencies interface {
	ScorePrediction(ctx context.Context, category string, predicted, actual any, opts scoring.Options) scoring.Score
}

// ScoreHandler handles synchronous scoring requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScore handles POST /score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	score := h.deps.ScorePrediction(r.Context(), req.Category, req.Predicted, req.Actual, scoring.Options{
		Training: req.Training,
		Focused:  req.Focused,
	})
	writeJSON(w, http.StatusOK, score)
}
