// Package analysis runs the scorer over a whole match and folds the results
// into a cluster-level report with an overall narrative.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/panenka/internal/domain/catalog"
	"github.com/okian/panenka/internal/domain/scoring"
)

// Analyst note thresholds on overall accuracy.
const (
	praiseThreshold = 70
	mixedThreshold  = 50
)

// ClusterScore aggregates scored predictions for one cluster.
type ClusterScore struct {
	Cluster          catalog.Cluster `json:"-"`
	ClusterName      string          `json:"cluster"`
	TotalPoints      int             `json:"total_points"`
	CorrectCount     int             `json:"correct_predictions"`
	TotalPredictions int             `json:"total_predictions"`
	Accuracy         int             `json:"accuracy"` // rounded percentage 0..100
}

// FocusedTotals counts the focus picks independently of clusters.
type FocusedTotals struct {
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
	Total   int `json:"total"`
}

// Report is the full per-match analysis.
type Report struct {
	TotalPoints     int             `json:"total_points"`
	OverallAccuracy int             `json:"overall_accuracy"`
	Scores          []scoring.Score `json:"scores"`
	ClusterScores   []ClusterScore  `json:"cluster_scores"`
	BestCluster     string          `json:"best_cluster"`
	WorstCluster    string          `json:"worst_cluster"`
	AnalystNote     string          `json:"analyst_note"`
	Focused         FocusedTotals   `json:"focused_predictions"`
}

// Input carries everything needed to analyze one user's match.
type Input struct {
	Predictions map[string]any // category -> predicted value; nil values skipped
	Results     map[string]any // category -> actual value
	Training    string
	Focused     []string // categories flagged as focus picks
}

// Aggregator scores full matches using the shared engine.
type Aggregator struct {
	engine *scoring.Engine
}

// New creates an Aggregator. A nil engine gets the default one.
func New(engine *scoring.Engine) *Aggregator {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	return &Aggregator{engine: engine}
}

// Engine exposes the underlying scoring engine for single-prediction use.
func (a *Aggregator) Engine() *scoring.Engine {
	return a.engine
}

// Aggregate scores every non-nil prediction in category order. Categories
// are sorted so repeated calls over the same input produce the same slice.
func (a *Aggregator) Aggregate(in Input) []scoring.Score {
	focused := make(map[string]bool, len(in.Focused))
	for _, c := range in.Focused {
		focused[c] = true
	}

	cats := make([]string, 0, len(in.Predictions))
	for c, v := range in.Predictions {
		if v == nil {
			continue
		}
		cats = append(cats, c)
	}
	sort.Strings(cats)

	scores := make([]scoring.Score, 0, len(cats))
	for _, c := range cats {
		scores = append(scores, a.engine.Score(c, in.Predictions[c], in.Results[c], scoring.Options{
			Training: in.Training,
			Focused:  focused[c],
		}))
	}
	return scores
}

// GroupByCluster folds scores into per-cluster aggregates. Every cluster is
// initialized before folding so an unused cluster never causes a miss, but
// clusters with zero predictions are excluded from the returned slice.
func GroupByCluster(scores []scoring.Score) []ClusterScore {
	byCluster := make(map[catalog.Cluster]*ClusterScore, 4)
	for _, c := range catalog.Clusters() {
		byCluster[c] = &ClusterScore{Cluster: c, ClusterName: c.String()}
	}

	for _, s := range scores {
		cs := byCluster[s.Cluster]
		cs.TotalPoints += s.FinalPoints
		cs.TotalPredictions++
		if s.Correct {
			cs.CorrectCount++
		}
	}

	out := make([]ClusterScore, 0, 4)
	for _, c := range catalog.Clusters() {
		cs := byCluster[c]
		if cs.TotalPredictions == 0 {
			continue
		}
		cs.Accuracy = roundPercent(cs.CorrectCount, cs.TotalPredictions)
		out = append(out, *cs)
	}
	return out
}

// Report composes the full analysis for one match.
func (a *Aggregator) Report(in Input) Report {
	scores := a.Aggregate(in)
	clusters := GroupByCluster(scores)

	var r Report
	r.Scores = scores
	r.ClusterScores = clusters

	correct := 0
	for _, s := range scores {
		r.TotalPoints += s.FinalPoints
		if s.Correct {
			correct++
		}
		if s.Focused {
			r.Focused.Total++
			if s.Correct {
				r.Focused.Correct++
			} else {
				r.Focused.Wrong++
			}
		}
	}
	r.OverallAccuracy = roundPercent(correct, len(scores))

	best, worst := bestAndWorst(clusters)
	r.BestCluster = best
	r.WorstCluster = worst
	r.AnalystNote = analystNote(r.OverallAccuracy, best, worst)
	return r
}

// bestAndWorst picks the clusters with highest and lowest accuracy. The
// input slice is already in cluster declaration order, so a plain > / <
// comparison resolves ties to the earliest-declared cluster.
func bestAndWorst(clusters []ClusterScore) (best, worst string) {
	if len(clusters) == 0 {
		return "", ""
	}
	bi, wi := 0, 0
	for i := 1; i < len(clusters); i++ {
		if clusters[i].Accuracy > clusters[bi].Accuracy {
			bi = i
		}
		if clusters[i].Accuracy < clusters[wi].Accuracy {
			wi = i
		}
	}
	return clusters[bi].ClusterName, clusters[wi].ClusterName
}

// analystNote picks the narrative template for the report. Wording is
// cosmetic; the 70/50 thresholds and which cluster is referenced are the
// stable contract.
func analystNote(accuracy int, best, worst string) string {
	switch {
	case accuracy >= praiseThreshold:
		return fmt.Sprintf("Excellent read of the game. Your %s calls carried the match, keep trusting that instinct.", best)
	case accuracy >= mixedThreshold:
		return fmt.Sprintf("A mixed performance: strong on %s, shaky on %s. Worth reviewing where those went differently.", best, worst)
	default:
		return fmt.Sprintf("A rough one, your %s picks didn't land this time. Every analyst has these matches; the next kickoff is a clean slate.", worst)
	}
}

func roundPercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
