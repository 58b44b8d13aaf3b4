package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/panenka/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumSettlements = 5000
	defaultNumUsers       = 500
	defaultTopN           = 50
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		settlements = flag.Int("settlements", defaultNumSettlements, "Number of settlements to generate and submit")
		users       = flag.Int("users", defaultNumUsers, "Number of distinct users to spread settlements over")
		topN        = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settleWait  = flag.Duration("wait", 10*time.Second, "How long to wait for settlements to be processed")
		outputFile  = flag.String("output", "", "Output file for generated settlements (default: generated_settlements_TIMESTAMP.json)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simulate.Config{
		BaseURL:        *baseURL,
		NumSettlements: *settlements,
		NumUsers:       *users,
		TopN:           *topN,
		Workers:        *workers,
		Timeout:        *timeout,
		SettleWait:     *settleWait,
		OutputFile:     *outputFile,
		Verbose:        *verbose,
	}

	if err := simulate.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
