// Package ratinglock computes the time-boxed post-match window in which a
// user may submit coach/player ratings. The computation is pure: callers
// supply the match lifecycle, the persisted saved flag and the current time,
// and get back a lock decision. Ambiguous input always locks (fail-closed).
package ratinglock

import (
	"time"

	"github.com/okian/panenka/internal/domain/model"
)

// Reason explains why a window is locked (or that it is open).
type Reason string

// Lock reasons.
const (
	ReasonNotStarted Reason = "not_started"
	ReasonLive       Reason = "live"
	ReasonOpen       Reason = "open"
	ReasonExpired    Reason = "expired"
	ReasonSaved      Reason = "saved"
	ReasonUnknown    Reason = "unknown"
)

// Window is the computed lock decision for one (match, rating kind).
type Window struct {
	Locked         bool       `json:"locked"`
	Reason         Reason     `json:"reason"`
	HoursRemaining float64    `json:"hours_remaining"`
	UnlockTime     *time.Time `json:"unlock_time,omitempty"`
	ExpireTime     *time.Time `json:"expire_time,omitempty"`
}

// Defaults for the window computation.
const (
	defaultMatchDuration = 2 * time.Hour
	defaultOpenWindow    = 24 * time.Hour
)

// Status code sets. Anything outside these maps to the unknown state.
var (
	notStartedStatuses = map[string]bool{
		"NS": true, "TBD": true, "PST": true, "CANC": true,
		"ABD": true, "AWD": true, "WO": true,
	}
	liveStatuses = map[string]bool{
		"1H": true, "HT": true, "2H": true, "ET": true,
		"P": true, "BT": true, "LIVE": true,
	}
	finishedStatuses = map[string]bool{
		"FT": true, "AET": true, "PEN": true,
	}
)

// Clock computes rating windows. Match duration is injected rather than
// special-cased per match id, so tests can shorten the timeline without
// sentinel values leaking into production logic.
type Clock struct {
	matchDuration time.Duration
	openWindow    time.Duration
}

// Option applies a configuration option to the Clock.
type Option func(*Clock)

// WithMatchDuration overrides the assumed match duration.
func WithMatchDuration(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.matchDuration = d
		}
	}
}

// WithOpenWindow overrides the post-match submission window.
func WithOpenWindow(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.openWindow = d
		}
	}
}

// New creates a Clock with default timings.
func New(opts ...Option) *Clock {
	c := &Clock{
		matchDuration: defaultMatchDuration,
		openWindow:    defaultOpenWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window computes the lock decision. The saved flag dominates everything:
// once a rating is committed the window is terminally locked regardless of
// remaining time, and no later input reopens it.
func (c *Clock) Window(match model.MatchLifecycle, saved bool, now time.Time) Window {
	if saved {
		return Window{Locked: true, Reason: ReasonSaved}
	}

	switch {
	case notStartedStatuses[match.Status]:
		return Window{Locked: true, Reason: ReasonNotStarted}
	case liveStatuses[match.Status]:
		return Window{Locked: true, Reason: ReasonLive}
	case finishedStatuses[match.Status]:
		if match.Kickoff.IsZero() {
			// Finished but no usable timestamp: never grant write access
			// on ambiguous input.
			return Window{Locked: true, Reason: ReasonUnknown}
		}
		unlock := match.Kickoff.Add(c.matchDuration)
		expire := unlock.Add(c.openWindow)
		if !now.Before(expire) {
			return Window{Locked: true, Reason: ReasonExpired, UnlockTime: &unlock, ExpireTime: &expire}
		}
		remaining := expire.Sub(now).Hours()
		if remaining < 0 {
			remaining = 0
		}
		return Window{
			Locked:         false,
			Reason:         ReasonOpen,
			HoursRemaining: remaining,
			UnlockTime:     &unlock,
			ExpireTime:     &expire,
		}
	default:
		return Window{Locked: true, Reason: ReasonUnknown}
	}
}
