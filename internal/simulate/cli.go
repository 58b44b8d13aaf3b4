// Package simulate drives an end-to-end settlement run against a live
// service: generate settlements, submit them, then cross-check ranks and
// the leaderboard.
package simulate

import (
	"fmt"
	"os"

	"github.com/okian/panenka/pkg/logger"
)

// SetupLogging initializes the structured logger for CLI use.
func SetupLogging() error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Panenka Settlement Simulator
============================

A concurrent tool for exercising the prediction scoring pipeline end to end.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -settlements int
        Number of settlements to generate and submit (default 5000)
  -users int
        Number of distinct users to spread settlements over (default 500)
  -top int
        Number of top entries to fetch from leaderboard (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        How long to wait for settlements to be processed (default 10s)
  -output string
        Output file for generated settlements (default: generated_settlements_TIMESTAMP.json)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/simulate/main.go

  # Heavier run against a local instance
  go run cmd/simulate/main.go -settlements 50000 -users 2000 -workers 16

  # Verbose run with a custom output file
  go run cmd/simulate/main.go -verbose -output run.json
`)
}
