// Package catalog holds the static rule tables the scoring engine reads:
// the prediction category -> difficulty/cluster mapping and the training
// plan multipliers. Pure lookups with no state; unknown inputs resolve to
// documented defaults so callers never fail on an unrecognized category.
package catalog

// Cluster is one of the four thematic buckets prediction categories are
// grouped into for scoring and reporting. Declaration order is the
// deterministic tie-break order for best/worst cluster selection.
type Cluster int

// Analysis clusters, in tie-break order.
const (
	TempoFlow Cluster = iota
	PhysicalFatigue
	Discipline
	IndividualPerformance
)

// Clusters lists every cluster in declaration order.
func Clusters() []Cluster {
	return []Cluster{TempoFlow, PhysicalFatigue, Discipline, IndividualPerformance}
}

// String returns the stable wire name of the cluster.
func (c Cluster) String() string {
	switch c {
	case TempoFlow:
		return "tempo_flow"
	case PhysicalFatigue:
		return "physical_fatigue"
	case Discipline:
		return "discipline"
	case IndividualPerformance:
		return "individual_performance"
	default:
		return "tempo_flow"
	}
}

// ClusterFromName resolves a wire name back to a cluster. Unknown names
// fall back to TempoFlow, mirroring the category default.
func ClusterFromName(name string) Cluster {
	switch name {
	case "physical_fatigue":
		return PhysicalFatigue
	case "discipline":
		return Discipline
	case "individual_performance":
		return IndividualPerformance
	default:
		return TempoFlow
	}
}

// Base point tiers by prediction difficulty.
const (
	EasyPoints   = 10
	MediumPoints = 20
	HardPoints   = 35
)

// Entry is the difficulty/cluster row for one prediction category.
type Entry struct {
	BasePoints int
	Cluster    Cluster
}

// categories is the canonical category table. Both the synchronous scoring
// endpoints and the settlement pipeline read this single table.
var categories = map[string]Entry{
	// Tempo & flow
	"matchResult":    {BasePoints: EasyPoints, Cluster: TempoFlow},
	"totalGoals":     {BasePoints: MediumPoints, Cluster: TempoFlow},
	"firstGoalTime":  {BasePoints: HardPoints, Cluster: TempoFlow},
	"halfTimeResult": {BasePoints: MediumPoints, Cluster: TempoFlow},
	"totalCorners":   {BasePoints: MediumPoints, Cluster: TempoFlow},
	"bothTeamsScore": {BasePoints: EasyPoints, Cluster: TempoFlow},

	// Physical & fatigue
	"totalSubstitutions": {BasePoints: MediumPoints, Cluster: PhysicalFatigue},
	"injuryTimeMinutes":  {BasePoints: HardPoints, Cluster: PhysicalFatigue},
	"lateGoal":           {BasePoints: HardPoints, Cluster: PhysicalFatigue},
	"possessionLeader":   {BasePoints: EasyPoints, Cluster: PhysicalFatigue},

	// Discipline
	"totalYellowCards": {BasePoints: MediumPoints, Cluster: Discipline},
	"redCardShown":     {BasePoints: HardPoints, Cluster: Discipline},
	"totalFouls":       {BasePoints: MediumPoints, Cluster: Discipline},
	"firstCardTime":    {BasePoints: HardPoints, Cluster: Discipline},

	// Individual performance
	"firstScorer":      {BasePoints: HardPoints, Cluster: IndividualPerformance},
	"manOfTheMatch":    {BasePoints: MediumPoints, Cluster: IndividualPerformance},
	"anytimeScorer":    {BasePoints: MediumPoints, Cluster: IndividualPerformance},
	"assistLeader":     {BasePoints: HardPoints, Cluster: IndividualPerformance},
	"keeperCleanSheet": {BasePoints: MediumPoints, Cluster: IndividualPerformance},
}

// Lookup returns the difficulty/cluster entry for a category. Unknown
// categories resolve to MEDIUM points in the TempoFlow cluster; this is a
// documented fallback, not an error.
func Lookup(category string) Entry {
	if e, ok := categories[category]; ok {
		return e
	}
	return Entry{BasePoints: MediumPoints, Cluster: TempoFlow}
}

// Known reports whether a category has an explicit table entry.
func Known(category string) bool {
	_, ok := categories[category]
	return ok
}

// Categories returns the ids of all mapped categories.
func Categories() []string {
	out := make([]string, 0, len(categories))
	for id := range categories {
		out = append(out, id)
	}
	return out
}

// trainings maps a pre-match training choice to the clusters it boosts.
// Multipliers observed in product tuning sit in the 1.15-1.25 band.
var trainings = map[string]map[Cluster]float64{
	"tactical": {
		TempoFlow:  1.25,
		Discipline: 1.15,
	},
	"conditioning": {
		PhysicalFatigue: 1.25,
	},
	"setPieces": {
		TempoFlow:             1.15,
		IndividualPerformance: 1.20,
	},
	"finishing": {
		IndividualPerformance: 1.25,
	},
	"pressing": {
		TempoFlow:       1.20,
		PhysicalFatigue: 1.15,
	},
}

// TrainingMultiplier returns the multiplier a training choice grants within
// a cluster. Absent training or a training with no entry for the cluster
// yields the neutral 1.0.
func TrainingMultiplier(training string, cluster Cluster) float64 {
	if training == "" {
		return 1.0
	}
	byCluster, ok := trainings[training]
	if !ok {
		return 1.0
	}
	if m, ok := byCluster[cluster]; ok {
		return m
	}
	return 1.0
}

// KnownTraining reports whether a training choice has a table entry.
func KnownTraining(training string) bool {
	_, ok := trainings[training]
	return ok
}

// Trainings returns the ids of all configured training choices.
func Trainings() []string {
	out := make([]string, 0, len(trainings))
	for id := range trainings {
		out = append(out, id)
	}
	return out
}
