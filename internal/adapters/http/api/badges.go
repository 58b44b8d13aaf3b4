// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/badges"
)

// badgeCheckRequest mirrors the wire schema for POST /badges/check.
type badgeCheckRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// badgesShownRequest mirrors the wire schema for POST /badges/shown.
type badgesShownRequest struct {
	UserID   string   `json:"user_id" validate:"required"`
	BadgeIDs []string `json:"badge_ids" validate:"required,min=1"`
}

// badgeListResponse is the read shape for GET /badges.
type badgeListResponse struct {
	UserID  string                   `json:"user_id"`
	Earned  []repository.EarnedBadge `json:"earned"`
	Unshown []badges.Award           `json:"unshown"`
}

// BadgeDependencies defines the interface for badge operations.
type BadgeDependencies interface {
	CheckBadges(ctx context.Context, userID string) ([]badges.Award, error)
	EarnedBadges(ctx context.Context, userID string) ([]repository.EarnedBadge, error)
	UnshownAwards(ctx context.Context, userID string) ([]badges.Award, error)
	MarkBadgesShown(ctx context.Context, userID string, badgeIDs []string) error
}

// BadgesHandler handles badge award checks and badge reads.
type BadgesHandler struct {
	deps BadgeDependencies
}

// NewBadgesHandler creates a new badges handler.
func NewBadgesHandler(deps BadgeDependencies) *BadgesHandler {
	return &BadgesHandler{deps: deps}
}

// HandleCheck handles POST /badges/check requests. The check is idempotent:
// a second call with unchanged stats awards nothing.
func (h *BadgesHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_badges_check"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req badgeCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	awards, err := h.deps.CheckBadges(r.Context(), req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if awards == nil {
		awards = []badges.Award{}
	}
	writeJSON(w, http.StatusOK, awards)
}

// HandleList handles GET /badges?user_id=X requests.
func (h *BadgesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_badges"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	earned, err := h.deps.EarnedBadges(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	unshown, err := h.deps.UnshownAwards(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if earned == nil {
		earned = []repository.EarnedBadge{}
	}
	if unshown == nil {
		unshown = []badges.Award{}
	}
	writeJSON(w, http.StatusOK, badgeListResponse{UserID: userID, Earned: earned, Unshown: unshown})
}

// HandleMarkShown handles POST /badges/shown requests.
func (h *BadgesHandler) HandleMarkShown(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_badges_shown"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req badgesShownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.MarkBadgesShown(r.Context(), req.UserID, req.BadgeIDs); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
