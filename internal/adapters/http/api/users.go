// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/model"
)

// UserStatsDependencies defines the interface for user stats reads.
type UserStatsDependencies interface {
	UserStats(ctx context.Context, userID string) (*model.UserStats, error)
}

// UserStatsHandler handles per-user stats requests.
type UserStatsHandler struct {
	deps UserStatsDependencies
}

// NewUserStatsHandler creates a new user stats handler.
func NewUserStatsHandler(deps UserStatsDependencies) *UserStatsHandler {
	return &UserStatsHandler{deps: deps}
}

// HandleGetUserStats handles GET /users/{user_id}/stats requests.
func (h *UserStatsHandler) HandleGetUserStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/users/")
	userID, ok := strings.CutSuffix(path, "/stats")
	if !ok || userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	stats, err := h.deps.UserStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
