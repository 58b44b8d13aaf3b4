package simulate

import (
	"context"
	"crypto/rand"
	"math/big"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/panenka/internal/domain/catalog"
	"github.com/okian/panenka/pkg/logger"
)

// Generation tuning constants.
const (
	predictionsPerMatch = 8
	focusPicksPerMatch  = 2
	correctChancePct    = 55 // chance a generated prediction matches the result
	trainingChancePct   = 70 // chance a settlement carries a training choice
	percentBase         = 100
)

// leagueIDs is the pool the generator assigns matches to.
var leagueIDs = []string{
	"super-lig",
	"premier-league",
	"la-liga",
	"serie-a",
	"bundesliga",
}

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateSettlements creates the configured number of settlements spread
// over a fixed user pool so streaks and volume badges actually accumulate.
func generateSettlements(ctx context.Context, cfg *Config, stats *Stats) ([]Settlement, error) {
	logger.Get().Info(ctx, "generating settlements",
		logger.Int("numSettlements", cfg.NumSettlements),
		logger.Int("numUsers", cfg.NumUsers),
	)

	userIDs := make([]string, cfg.NumUsers)
	for i := range userIDs {
		userIDs[i] = uuid.New().String()
	}

	categories := catalog.Categories()
	sort.Strings(categories)
	trainings := catalog.Trainings()
	sort.Strings(trainings)

	settlements := make([]Settlement, cfg.NumSettlements)
	for i := range settlements {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		settlements[i] = generateSingleSettlement(i, userIDs[randomInt(len(userIDs))], categories, trainings)
	}

	stats.SettlementsGenerated = len(settlements)
	logger.Get().Info(ctx, "generated settlements successfully", logger.Int("count", len(settlements)))
	return settlements, nil
}

// generateSingleSettlement builds one settlement with a random subset of
// categories, plausible predicted/actual values and a couple of focus picks.
func generateSingleSettlement(index int, userID string, categories, trainings []string) Settlement {
	picked := pickCategories(categories, predictionsPerMatch)

	predictions := make(map[string]any, len(picked))
	results := make(map[string]any, len(picked))
	for _, cat := range picked {
		actual := valueFor(cat)
		results[cat] = actual
		if randomInt(percentBase) < correctChancePct {
			predictions[cat] = actual
		} else {
			predictions[cat] = valueFor(cat)
		}
	}

	focused := make([]string, 0, focusPicksPerMatch)
	for i := 0; i < focusPicksPerMatch && i < len(picked); i++ {
		focused = append(focused, picked[i])
	}

	training := ""
	if randomInt(percentBase) < trainingChancePct {
		training = trainings[randomInt(len(trainings))]
	}

	return Settlement{
		EventID:     "settle_" + strconv.Itoa(index) + "_" + uuid.New().String(),
		UserID:      userID,
		MatchID:     "match-" + strconv.Itoa(index%1000),
		LeagueID:    leagueIDs[randomInt(len(leagueIDs))],
		Training:    training,
		Focused:     focused,
		Predictions: predictions,
		Results:     results,
		TS:          time.Now().UTC().Format(time.RFC3339),
	}
}

// pickCategories selects n distinct categories at random.
func pickCategories(categories []string, n int) []string {
	if n >= len(categories) {
		out := make([]string, len(categories))
		copy(out, categories)
		return out
	}
	perm := make([]string, len(categories))
	copy(perm, categories)
	for i := range perm {
		j := i + randomInt(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:n]
}

// valueFor returns a plausible value for a category, covering the label,
// numeric and boolean prediction shapes.
func valueFor(category string) any {
	switch category {
	case "totalGoals":
		labels := []string{"0-1 gol", "2-3 gol", "4-5 gol", "6+ gol"}
		return labels[randomInt(len(labels))]
	case "matchResult", "halfTimeResult":
		outcomes := []string{"home", "draw", "away"}
		return outcomes[randomInt(len(outcomes))]
	case "firstGoalTime", "firstCardTime":
		return float64(randomInt(90) + 1)
	case "injuryTimeMinutes":
		return float64(randomInt(10))
	case "bothTeamsScore", "redCardShown", "lateGoal", "keeperCleanSheet":
		return randomInt(2) == 1
	case "firstScorer", "anytimeScorer", "manOfTheMatch", "assistLeader", "possessionLeader":
		players := []string{"icardi", "dzeko", "muslera", "torreira", "zaha", "aktürkoğlu"}
		return players[randomInt(len(players))]
	default:
		return float64(randomInt(12))
	}
}
