// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/panenka/internal/domain/analysis"
)

// analysisRequest mirrors the wire schema for POST /analysis.
type analysisRequest struct {
	Predictions map[string]any `json:"predictions" validate:"required"`
	Results     map[string]any `json:"results" validate:"required"`
	Training    string         `json:"training"`
	Focused     []string       `json:"focused"`
}

// AnalysisDependencies defines the interface for match analysis.
type AnalysisDependencies interface {
	Analyze(ctx context.Context, in analysis.Input) analysis.Report
}

// AnalysisHandler handles synchronous match analysis requests.
type AnalysisHandler struct {
	deps AnalysisDependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// HandleAnalysis handles POST /analysis requests.
func (h *AnalysisHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	report := h.deps.Analyze(r.Context(), analysis.Input{
		Predictions: req.Predictions,
		Results:     req.Results,
		Training:    req.Training,
		Focused:     req.Focused,
	})
	writeJSON(w, http.StatusOK, report)
}
