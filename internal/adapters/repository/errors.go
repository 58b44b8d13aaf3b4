package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrAlreadySaved = errors.New("rating already saved")
	ErrInvalidLimit = errors.New("invalid standings limit")
)
