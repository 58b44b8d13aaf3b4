package badges

import (
	"sort"
	"time"

	"github.com/okian/panenka/internal/domain/catalog"
	"github.com/okian/panenka/internal/domain/model"
)

// Rule thresholds.
const (
	leagueMinCorrect      = 10
	leagueSilverAccuracy  = 70
	leagueGoldAccuracy    = 85
	clusterMasterAccuracy = 80
	sharpEyeAccuracy      = 80
	sharpEyeMinTotal      = 10
	centuryCorrect        = 100
	machineCorrect        = 500
)

// Streak brackets are disjoint, so at most one streak badge can newly
// trigger per call. Earlier brackets already earned coexist with later
// ones across calls.
var streakBrackets = []struct {
	id  string
	lo  int
	hi  int // inclusive; 0 means open-ended
}{
	{id: "streak_5", lo: 5, hi: 9},
	{id: "streak_10", lo: 10, hi: 19},
	{id: "streak_20", lo: 20, hi: 49},
	{id: "streak_50", lo: 50, hi: 0},
}

// Award is one newly earned badge.
type Award struct {
	Badge    Badge     `json:"badge"`
	EarnedAt time.Time `json:"earned_at"`
	IsNew    bool      `json:"is_new_badge"`
}

// Engine evaluates the badge rule table.
type Engine struct {
	now func() time.Time
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the time source used to stamp awards.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a badge engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAndAward evaluates every rule against the stats snapshot and returns
// the badges not yet present in earned. The earned set is read once up
// front and extended locally as rules fire, so a rule satisfied twice in
// one call still appends its badge only once, and a second call with
// unchanged inputs returns nothing. The snapshot and the caller's set are
// never mutated.
func (e *Engine) CheckAndAward(stats *model.UserStats, earned map[string]bool) []Award {
	if stats == nil {
		return nil
	}

	have := make(map[string]bool, len(earned))
	for id := range earned {
		have[id] = true
	}

	now := e.now()
	var out []Award
	grant := func(b Badge) {
		if have[b.ID] {
			return
		}
		have[b.ID] = true
		out = append(out, Award{Badge: b, EarnedAt: now, IsNew: true})
	}

	e.leagueRules(stats, grant)
	e.clusterRules(stats, grant)
	e.streakRules(stats, grant)
	e.volumeRules(stats, grant)
	e.customRules(stats, grant)

	// Stable output order for callers and tests.
	sort.Slice(out, func(i, j int) bool { return out[i].Badge.ID < out[j].Badge.ID })
	return out
}

// leagueRules awards league-expert tiers per league with enough correct
// calls. Tiers are not exclusive across calls: a user promoted from Bronze
// keeps the Bronze badge and gains the higher one.
func (e *Engine) leagueRules(stats *model.UserStats, grant func(Badge)) {
	leagueIDs := make([]string, 0, len(stats.Leagues))
	for id := range stats.Leagues {
		leagueIDs = append(leagueIDs, id)
	}
	sort.Strings(leagueIDs)

	for _, id := range leagueIDs {
		bucket := stats.Leagues[id]
		if bucket.Correct < leagueMinCorrect {
			continue
		}
		switch {
		case bucket.Accuracy >= leagueGoldAccuracy:
			grant(leagueBadge(id, Gold))
		case bucket.Accuracy >= leagueSilverAccuracy:
			grant(leagueBadge(id, Silver))
		default:
			grant(leagueBadge(id, Bronze))
		}
	}
}

// clusterRules awards the cluster-master badge for every cluster bucket at
// or above the accuracy bar. A missing bucket reads as zero and never fires.
func (e *Engine) clusterRules(stats *model.UserStats, grant func(Badge)) {
	for _, c := range catalog.Clusters() {
		bucket := stats.Cluster(c.String())
		if bucket.Total == 0 {
			continue
		}
		if bucket.Accuracy >= clusterMasterAccuracy {
			if b, ok := static["cluster_master_"+c.String()]; ok {
				grant(b)
			}
		}
	}
}

// streakRules awards the single streak bracket containing the current streak.
func (e *Engine) streakRules(stats *model.UserStats, grant func(Badge)) {
	for _, br := range streakBrackets {
		if stats.CurrentStreak < br.lo {
			continue
		}
		if br.hi > 0 && stats.CurrentStreak > br.hi {
			continue
		}
		grant(static[br.id])
	}
}

// volumeRules awards the perfect-match and correct-count badges.
func (e *Engine) volumeRules(stats *model.UserStats, grant func(Badge)) {
	if stats.PerfectMatches >= 1 {
		grant(static["perfect_match"])
	}
	if stats.CorrectPredictions >= centuryCorrect && stats.CorrectPredictions < machineCorrect {
		grant(static["correct_100"])
	}
	if stats.CorrectPredictions >= machineCorrect {
		grant(static["correct_500"])
	}
}

// customRules holds the composite rules that cut across families.
func (e *Engine) customRules(stats *model.UserStats, grant func(Badge)) {
	if stats.Accuracy >= sharpEyeAccuracy && stats.TotalPredictions >= sharpEyeMinTotal {
		grant(static["sharp_eye"])
	}
}

// FilterNewForNotification drops awards whose badge id is already in the
// shown set, so a badge earned silently in the background never re-triggers
// a popup. The shown set itself is owned and grown by the caller once the
// host confirms the notification was displayed.
func FilterNewForNotification(awards []Award, shown map[string]bool) []Award {
	out := make([]Award, 0, len(awards))
	for _, a := range awards {
		if shown[a.Badge.ID] {
			continue
		}
		out = append(out, a)
	}
	return out
}
