package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/okian/panenka/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// Run executes the complete settlement simulation.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting settlement simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("settlements", cfg.NumSettlements),
		logger.Int("users", cfg.NumUsers),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Int("topN", cfg.TopN),
	)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, cfg); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate settlements
	settlements, err := generateSettlements(ctx, cfg, stats)
	if err != nil {
		return fmt.Errorf("settlement generation failed: %w", err)
	}

	// Step 3: Submit settlements concurrently
	if err := submitSettlements(ctx, cfg, settlements, stats); err != nil {
		return fmt.Errorf("settlement submission failed: %w", err)
	}

	// Step 4: Wait for async processing
	logger.Get().Info(ctx, "waiting for settlements to be processed",
		logger.String("wait", cfg.SettleWait.String()))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.SettleWait):
	}

	// Step 5: Retrieve ranks concurrently
	ranks, err := retrieveRanks(ctx, cfg, settlements, stats)
	if err != nil {
		return fmt.Errorf("rank retrieval failed: %w", err)
	}

	// Step 6: Get leaderboard
	leaderboard, err := getLeaderboard(ctx, cfg, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(ranks, leaderboard); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save settlements to file
	if err := saveSettlementsToFile(ctx, cfg, settlements); err != nil {
		logger.Get().Warn(ctx, "failed to save settlements to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSettlementsToFile writes the generated settlements to a JSON file so a
// run can be replayed or inspected.
func saveSettlementsToFile(ctx context.Context, cfg *Config, settlements []Settlement) error {
	if len(settlements) == 0 {
		return fmt.Errorf("no settlements to save")
	}

	filename := cfg.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_settlements_" + timestamp + ".json"
	}

	data, err := json.MarshalIndent(settlements, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settlements: %w", err)
	}
	if err := os.WriteFile(filename, data, outputFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "settlements saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, perSecond float64

	if stats.SettlementsSubmitted > 0 {
		successRate = float64(stats.SettlementsAccepted) / float64(stats.SettlementsSubmitted) * 100
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.SettlementsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("settlementsGenerated", stats.SettlementsGenerated),
		logger.Int("settlementsSubmitted", stats.SettlementsSubmitted),
		logger.Int("settlementsAccepted", stats.SettlementsAccepted),
		logger.Int("settlementsDuplicate", stats.SettlementsDuplicate),
		logger.Int("settlementsFailed", stats.SettlementsFailed),
		logger.Int("ranksRetrieved", stats.RanksRetrieved),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("settlementsPerSecond", perSecond))
}
