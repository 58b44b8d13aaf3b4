// Package types contains common types used across the application
package types

// Entry represents a standings row: one user's cumulative points rank.
type Entry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}
