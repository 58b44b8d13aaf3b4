// Package scoring converts a single prediction into a signed point value
// using the difficulty table, training multipliers and the focus mechanic.
package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/panenka/internal/domain/catalog"
)

// Focus multipliers. Focus is a risk/reward mechanic: a focused correct
// guess is amplified, a focused wrong guess is penalized instead of
// zeroed out.
const (
	focusCorrectMultiplier = 2.0
	focusWrongMultiplier   = -1.5
)

// Per-match clamp bounds on any single prediction's final points.
const (
	MinPointsPerMatch = -500
	MaxPointsPerMatch = 500
)

// Tolerance in minutes for time-of-event categories.
const timeToleranceMinutes = 5.0

// Score is the result of scoring one prediction.
type Score struct {
	Category           string          `json:"category"`
	Cluster            catalog.Cluster `json:"-"`
	ClusterName        string          `json:"cluster"`
	BasePoints         int             `json:"base_points"`
	TrainingMultiplier float64         `json:"training_multiplier"`
	FocusMultiplier    float64         `json:"focus_multiplier"`
	FinalPoints        int             `json:"final_points"`
	Correct            bool            `json:"correct"`
	Focused            bool            `json:"focused"`
}

// Options carries the caller-supplied context for one scoring call.
type Options struct {
	// Training is the user's pre-match training choice; empty means none.
	Training string
	// Focused marks the prediction as one of the user's focus picks.
	Focused bool
	// Cluster overrides the table cluster when set. Callers normally leave
	// it nil and let the category table decide.
	Cluster *catalog.Cluster
}

// Engine scores predictions against the catalog tables.
type Engine struct {
	minPoints     int
	maxPoints     int
	timeTolerance float64
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClampBounds overrides the per-match clamp range.
func WithClampBounds(minPoints, maxPoints int) Option {
	return func(e *Engine) {
		if maxPoints > minPoints {
			e.minPoints = minPoints
			e.maxPoints = maxPoints
		}
	}
}

// WithTimeTolerance overrides the tolerance for time-of-event categories.
func WithTimeTolerance(minutes float64) Option {
	return func(e *Engine) {
		if minutes >= 0 {
			e.timeTolerance = minutes
		}
	}
}

// NewEngine creates a scoring engine with default configuration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		minPoints:     MinPointsPerMatch,
		maxPoints:     MaxPointsPerMatch,
		timeTolerance: timeToleranceMinutes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FocusMultiplier returns the focus multiplier for a prediction outcome.
// Unfocused predictions are neutral.
func FocusMultiplier(focused, correct bool) float64 {
	if !focused {
		return 1.0
	}
	if correct {
		return focusCorrectMultiplier
	}
	return focusWrongMultiplier
}

// Score computes the signed point value for one prediction. It never fails:
// unknown categories use the table defaults and incomparable values simply
// score as incorrect.
func (e *Engine) Score(category string, predicted, actual any, opts Options) Score {
	entry := catalog.Lookup(category)
	cluster := entry.Cluster
	if opts.Cluster != nil {
		cluster = *opts.Cluster
	}

	correct := e.isCorrect(category, predicted, actual)
	training := catalog.TrainingMultiplier(opts.Training, cluster)
	focus := FocusMultiplier(opts.Focused, correct)

	var final int
	if !correct && !opts.Focused {
		// Non-focused wrong guesses never score, nor are they penalized.
		final = 0
	} else {
		final = int(math.Round(float64(entry.BasePoints) * training * focus))
	}
	final = clampInt(final, e.minPoints, e.maxPoints)

	return Score{
		Category:           category,
		Cluster:            cluster,
		ClusterName:        cluster.String(),
		BasePoints:         entry.BasePoints,
		TrainingMultiplier: training,
		FocusMultiplier:    focus,
		FinalPoints:        final,
		Correct:            correct,
		Focused:            opts.Focused,
	}
}

// isCorrect applies the correctness policy for a category.
func (e *Engine) isCorrect(category string, predicted, actual any) bool {
	if predicted == nil || actual == nil {
		return false
	}

	// Goal-total predictions are labeled buckets; correctness is range
	// containment of the actual goal count.
	if category == "totalGoals" {
		label, ok := asString(predicted)
		if !ok {
			return equalValues(predicted, actual)
		}
		goals, ok := asFloat(actual)
		if !ok {
			return false
		}
		return goalBucketContains(label, int(goals))
	}

	// Time-of-event predictions allow a fixed minute tolerance.
	if strings.Contains(category, "Time") || strings.Contains(category, "Minute") {
		p, pok := asFloat(predicted)
		a, aok := asFloat(actual)
		if pok && aok {
			return math.Abs(p-a) <= e.timeTolerance
		}
	}

	return equalValues(predicted, actual)
}

// goalBucketContains checks whether goals falls inside a labeled bucket
// such as "2-3 gol". The top bucket ("6+ gol") is open-ended above.
func goalBucketContains(label string, goals int) bool {
	rangePart, _, found := strings.Cut(label, " ")
	if !found {
		rangePart = label
	}
	if open, ok := strings.CutSuffix(rangePart, "+"); ok {
		lo, err := strconv.Atoi(open)
		if err != nil {
			return false
		}
		return goals >= lo
	}
	loStr, hiStr, found := strings.Cut(rangePart, "-")
	if !found {
		exact, err := strconv.Atoi(rangePart)
		if err != nil {
			return false
		}
		return goals == exact
	}
	lo, err := strconv.Atoi(loStr)
	if err != nil {
		return false
	}
	hi, err := strconv.Atoi(hiStr)
	if err != nil {
		return false
	}
	return goals >= lo && goals <= hi
}

// equalValues implements strict equality with numeric normalization, so a
// JSON-decoded float64(3) still matches an int 3.
func equalValues(predicted, actual any) bool {
	if p, ok := asFloat(predicted); ok {
		if a, ok := asFloat(actual); ok {
			return p == a
		}
		return false
	}
	if p, ok := asString(predicted); ok {
		if a, ok := asString(actual); ok {
			return p == a
		}
		return false
	}
	if p, ok := predicted.(bool); ok {
		if a, ok := actual.(bool); ok {
			return p == a
		}
		return false
	}
	return fmt.Sprintf("%v", predicted) == fmt.Sprintf("%v", actual)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
