package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// retrieveRanks fetches the rank of every user that submitted settlements.
func retrieveRanks(ctx context.Context, cfg *Config, settlements []Settlement, stats *Stats) ([]Entry, error) {
	userSet := make(map[string]struct{}, cfg.NumUsers)
	for _, s := range settlements {
		userSet[s.UserID] = struct{}{}
	}
	userIDs := make([]string, 0, len(userSet))
	for id := range userSet {
		userIDs = append(userIDs, id)
	}

	log.Printf("retrieving ranks for %d users with %d workers...", len(userIDs), cfg.Workers)

	client := newHTTPClient(cfg.Timeout)
	ranks := make([]Entry, len(userIDs))
	var (
		retrieved int64
		failed    int64
	)

	indexChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				entry, err := retrieveSingleRank(ctx, client, cfg.BaseURL, userIDs[idx])
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if cfg.Verbose {
						log.Printf("failed to get rank for %s: %v", userIDs[idx], err)
					}
					continue
				}
				ranks[idx] = entry
				atomic.AddInt64(&retrieved, 1)
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range userIDs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	valid := make([]Entry, 0, len(ranks))
	for _, e := range ranks {
		if e.UserID != "" {
			valid = append(valid, e)
		}
	}

	stats.RanksRetrieved = len(valid)
	log.Printf("rank retrieval completed: retrieved=%d failed=%d", len(valid), int(atomic.LoadInt64(&failed)))
	return valid, nil
}

// retrieveSingleRank fetches the standings entry for one user.
func retrieveSingleRank(ctx context.Context, client *HTTPClient, baseURL, userID string) (Entry, error) {
	url := fmt.Sprintf("%s/rank/%s", baseURL, userID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return entry, nil
}

// getLeaderboard retrieves the top N standings entries.
func getLeaderboard(ctx context.Context, cfg *Config, stats *Stats) ([]Entry, error) {
	log.Printf("getting top %d leaderboard entries...", cfg.TopN)

	client := newHTTPClient(cfg.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", cfg.BaseURL, cfg.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != statusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var leaderboard []Entry
	if err := json.Unmarshal(body, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(leaderboard)
	log.Printf("retrieved %d leaderboard entries", len(leaderboard))
	return leaderboard, nil
}
