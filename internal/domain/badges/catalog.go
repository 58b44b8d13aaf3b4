// Package badges evaluates cumulative user statistics against the badge
// rule table. The engine is a pure function of its inputs: the stats
// snapshot and the already-earned id set go in, newly earned awards come
// out. Persistence and notification bookkeeping live with the caller.
package badges

import "fmt"

// Tier is the ordinal display rank of a badge. It does not affect scoring.
type Tier string

// Badge tiers, lowest to highest.
const (
	Bronze   Tier = "bronze"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
	Diamond  Tier = "diamond"
)

// Order returns the sort rank of a tier for display purposes.
func (t Tier) Order() int {
	switch t {
	case Bronze:
		return 0
	case Silver:
		return 1
	case Gold:
		return 2
	case Platinum:
		return 3
	case Diamond:
		return 4
	default:
		return -1
	}
}

// Badge describes one earnable badge. ID is the idempotency key: a badge id
// is granted to a user at most once, ever.
type Badge struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Tier        Tier   `json:"tier"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
}

// Badge categories.
const (
	CategoryLeague  = "league_expert"
	CategoryCluster = "cluster_master"
	CategoryStreak  = "streak"
	CategoryVolume  = "volume"
	CategoryCustom  = "custom"
)

// Static badges keyed by id. League-expert badges are generated per league
// id via leagueBadge and are not listed here.
var static = map[string]Badge{
	"cluster_master_tempo_flow": {
		ID: "cluster_master_tempo_flow", Category: CategoryCluster, Tier: Gold,
		Name: "Tempo Whisperer", Icon: "🌀",
		Description: "Read the flow of the game better than most commentators.",
		Requirement: "80% accuracy on tempo & flow predictions",
	},
	"cluster_master_physical_fatigue": {
		ID: "cluster_master_physical_fatigue", Category: CategoryCluster, Tier: Gold,
		Name: "Conditioning Coach", Icon: "💪",
		Description: "You see tired legs before the players feel them.",
		Requirement: "80% accuracy on physical & fatigue predictions",
	},
	"cluster_master_discipline": {
		ID: "cluster_master_discipline", Category: CategoryCluster, Tier: Gold,
		Name: "Card Counter", Icon: "🟨",
		Description: "You see the booking coming before the referee does.",
		Requirement: "80% accuracy on discipline predictions",
	},
	"cluster_master_individual_performance": {
		ID: "cluster_master_individual_performance", Category: CategoryCluster, Tier: Gold,
		Name: "Talent Scout", Icon: "⭐",
		Description: "You know who steps up before they do.",
		Requirement: "80% accuracy on individual performance predictions",
	},
	"streak_5": {
		ID: "streak_5", Category: CategoryStreak, Tier: Bronze,
		Name: "Warming Up", Icon: "🔥",
		Description: "Five correct predictions in a row.",
		Requirement: "5 prediction streak",
	},
	"streak_10": {
		ID: "streak_10", Category: CategoryStreak, Tier: Silver,
		Name: "On Fire", Icon: "🔥",
		Description: "Ten correct predictions in a row.",
		Requirement: "10 prediction streak",
	},
	"streak_20": {
		ID: "streak_20", Category: CategoryStreak, Tier: Gold,
		Name: "Unstoppable", Icon: "🔥",
		Description: "Twenty correct predictions in a row.",
		Requirement: "20 prediction streak",
	},
	"streak_50": {
		ID: "streak_50", Category: CategoryStreak, Tier: Diamond,
		Name: "The Oracle", Icon: "🔮",
		Description: "Fifty correct predictions in a row. Are you from the future?",
		Requirement: "50 prediction streak",
	},
	"perfect_match": {
		ID: "perfect_match", Category: CategoryVolume, Tier: Gold,
		Name: "Flawless", Icon: "💯",
		Description: "Every single prediction correct in one match.",
		Requirement: "1 perfect match",
	},
	"correct_100": {
		ID: "correct_100", Category: CategoryVolume, Tier: Silver,
		Name: "Century Club", Icon: "🏅",
		Description: "One hundred correct predictions, all time.",
		Requirement: "100 correct predictions",
	},
	"correct_500": {
		ID: "correct_500", Category: CategoryVolume, Tier: Platinum,
		Name: "Prediction Machine", Icon: "🤖",
		Description: "Five hundred correct predictions, all time.",
		Requirement: "500 correct predictions",
	},
	"sharp_eye": {
		ID: "sharp_eye", Category: CategoryCustom, Tier: Platinum,
		Name: "Sharp Eye", Icon: "👁️",
		Description: "Sustained accuracy over a meaningful sample.",
		Requirement: "80% accuracy with at least 10 predictions",
	},
}

// Lookup returns a badge definition by id. League-expert ids are
// reconstructed on the fly; ok is false for ids from neither source.
func Lookup(id string) (Badge, bool) {
	if b, ok := static[id]; ok {
		return b, true
	}
	if b, ok := leagueBadgeFromID(id); ok {
		return b, true
	}
	return Badge{}, false
}

// leagueBadge builds the league-expert badge for a league and tier.
func leagueBadge(leagueID string, tier Tier) Badge {
	return Badge{
		ID:          fmt.Sprintf("%s_%s_%s", CategoryLeague, leagueID, tier),
		Category:    CategoryLeague,
		Tier:        tier,
		Name:        fmt.Sprintf("%s Expert", leagueDisplayName(leagueID)),
		Icon:        "🏆",
		Description: fmt.Sprintf("A proven record calling %s matches.", leagueDisplayName(leagueID)),
		Requirement: "10 correct predictions in the league",
	}
}

// leagueBadgeFromID parses a league-expert badge id back into its definition.
func leagueBadgeFromID(id string) (Badge, bool) {
	var leagueID string
	for _, tier := range []Tier{Bronze, Silver, Gold} {
		suffix := "_" + string(tier)
		prefix := CategoryLeague + "_"
		if len(id) > len(prefix)+len(suffix) && id[:len(prefix)] == prefix && id[len(id)-len(suffix):] == suffix {
			leagueID = id[len(prefix) : len(id)-len(suffix)]
			return leagueBadge(leagueID, tier), true
		}
	}
	return Badge{}, false
}

// leagueDisplayName maps league ids to display names; unknown leagues keep
// their raw id so the badge still renders.
func leagueDisplayName(leagueID string) string {
	if name, ok := leagueNames[leagueID]; ok {
		return name
	}
	return leagueID
}

var leagueNames = map[string]string{
	"super-lig":      "Süper Lig",
	"premier-league": "Premier League",
	"la-liga":        "La Liga",
	"serie-a":        "Serie A",
	"bundesliga":     "Bundesliga",
	"ligue-1":        "Ligue 1",
}
