package simulate

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults cross-checks individual ranks against the leaderboard.
func verifyResults(ranks, leaderboard []Entry) error {
	log.Println("verifying results...")

	if len(ranks) == 0 {
		return fmt.Errorf("no ranks to verify")
	}

	sorted := make([]Entry, len(ranks))
	copy(sorted, ranks)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	if len(leaderboard) > 0 {
		if err := verifyLeaderboardConsistency(sorted, leaderboard); err != nil {
			log.Printf("leaderboard consistency warning: %v", err)
		} else {
			log.Println("leaderboard consistency verified")
		}
	}

	displayTop(sorted, leaderboard)
	log.Println("result verification completed")
	return nil
}

// verifyLeaderboardConsistency checks ordering and that the top entries agree.
func verifyLeaderboardConsistency(sorted, leaderboard []Entry) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	if sorted[0].UserID != leaderboard[0].UserID {
		return fmt.Errorf("top leaderboard entry (%s) does not match top ranked user (%s)",
			leaderboard[0].UserID, sorted[0].UserID)
	}
	if sorted[0].Points != leaderboard[0].Points {
		return fmt.Errorf("top leaderboard points (%d) do not match top ranked points (%d)",
			leaderboard[0].Points, sorted[0].Points)
	}

	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].Points > leaderboard[i-1].Points {
			return fmt.Errorf("leaderboard not properly sorted: entry %d has more points than entry %d", i, i-1)
		}
	}
	return nil
}

// displayTop shows the leading users from both views.
func displayTop(sorted, leaderboard []Entry) {
	topN := 10
	if len(sorted) < topN {
		topN = len(sorted)
	}

	log.Printf("top %d users from individual ranks:", topN)
	for i := 0; i < topN; i++ {
		log.Printf("   %d. %s - %d points", i+1, sorted[i].UserID, sorted[i].Points)
	}

	if len(leaderboard) > 0 {
		n := topN
		if len(leaderboard) < n {
			n = len(leaderboard)
		}
		log.Printf("top %d users from leaderboard:", n)
		for i := 0; i < n; i++ {
			log.Printf("   %d. %s - %d points", i+1, leaderboard[i].UserID, leaderboard[i].Points)
		}
	}
}
