package simulate

import "time"

// Config holds configuration for the settlement simulation.
type Config struct {
	BaseURL        string        // Base URL of the service
	NumSettlements int           // Number of settlements to generate
	NumUsers       int           // Number of distinct users
	TopN           int           // Number of top entries to fetch
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	SettleWait     time.Duration // How long to wait for async processing
	OutputFile     string        // Output file for settlements
	Verbose        bool          // Enable verbose logging
}

// Settlement mirrors the wire schema for POST /settlements.
type Settlement struct {
	EventID     string         `json:"event_id"`
	UserID      string         `json:"user_id"`
	MatchID     string         `json:"match_id"`
	LeagueID    string         `json:"league_id"`
	Training    string         `json:"training"`
	Focused     []string       `json:"focused"`
	Predictions map[string]any `json:"predictions"`
	Results     map[string]any `json:"results"`
	TS          string         `json:"ts"`
}

// Entry represents a leaderboard entry.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}

// AckResponse represents the response from settlement submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds simulation statistics.
type Stats struct {
	SettlementsGenerated int
	SettlementsSubmitted int
	SettlementsAccepted  int
	SettlementsDuplicate int
	SettlementsFailed    int
	RanksRetrieved       int
	LeaderboardEntries   int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
