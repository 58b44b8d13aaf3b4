// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/panenka/internal/domain/dedupe"
	"github.com/okian/panenka/internal/domain/model"
)

// settlementRequest mirrors the wire schema for POST /settlements.
type settlementRequest struct {
	EventID     string         `json:"event_id" validate:"required"`
	UserID      string         `json:"user_id" validate:"required"`
	MatchID     string         `json:"match_id" validate:"required"`
	LeagueID    string         `json:"league_id"`
	Training    string         `json:"training"`
	Focused     []string       `json:"focused"`
	Predictions map[string]any `json:"predictions" validate:"required"`
	Results     map[string]any `json:"results" validate:"required"`
	TS          string         `json:"ts" validate:"required"`
}

func (s settlementRequest) toModel() (model.Settlement, error) {
	ts, err := time.Parse(time.RFC3339, s.TS)
	if err != nil {
		return model.Settlement{}, err
	}
	return model.Settlement{
		EventID:     s.EventID,
		UserID:      s.UserID,
		MatchID:     s.MatchID,
		LeagueID:    s.LeagueID,
		Training:    s.Training,
		Focused:     s.Focused,
		Predictions: s.Predictions,
		Results:     s.Results,
		TS:          ts,
	}, nil
}

// SettlementDependencies defines the interface for settlement intake.
type SettlementDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, s model.Settlement) bool
}

// SettlementsHandler handles settlement submissions.
type SettlementsHandler struct {
	deps SettlementDependencies
}

// NewSettlementsHandler creates a new settlements handler.
func NewSettlementsHandler(deps SettlementDependencies) *SettlementsHandler {
	return &SettlementsHandler{deps: deps}
}

// HandlePostSettlement handles POST /settlements requests.
func (h *SettlementsHandler) HandlePostSettlement(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_settlement"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req settlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	settlement, err := req.toModel()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), settlement); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
