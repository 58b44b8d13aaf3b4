package ratinglock_test

import (
	"testing"
	"time"

	"github.com/okian/panenka/internal/domain/model"
	"github.com/okian/panenka/internal/domain/ratinglock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClock_Window(t *testing.T) {
	Convey("Given a clock with default timings", t, func() {
		clock := ratinglock.New()
		kickoff := time.Date(2025, 3, 8, 20, 0, 0, 0, time.UTC)

		Convey("When the match has not started", func() {
			for _, status := range []string{"NS", "TBD", "PST", "CANC", "ABD", "AWD", "WO"} {
				w := clock.Window(model.MatchLifecycle{Status: status, Kickoff: kickoff}, false, kickoff)
				So(w.Locked, ShouldBeTrue)
				So(w.Reason, ShouldEqual, ratinglock.ReasonNotStarted)
			}
		})

		Convey("When the match is live", func() {
			for _, status := range []string{"1H", "HT", "2H", "ET", "P", "BT", "LIVE"} {
				w := clock.Window(model.MatchLifecycle{Status: status, Kickoff: kickoff}, false, kickoff.Add(time.Hour))
				So(w.Locked, ShouldBeTrue)
				So(w.Reason, ShouldEqual, ratinglock.ReasonLive)
			}
		})

		Convey("When the match finished inside the window", func() {
			now := kickoff.Add(3 * time.Hour)
			w := clock.Window(model.MatchLifecycle{Status: "FT", Kickoff: kickoff}, false, now)

			Convey("Then the window is open with the remaining hours", func() {
				So(w.Locked, ShouldBeFalse)
				So(w.Reason, ShouldEqual, ratinglock.ReasonOpen)
				So(w.HoursRemaining, ShouldAlmostEqual, 23.0, 0.001)
			})

			Convey("Then unlock and expire times bracket the window", func() {
				So(w.UnlockTime.Equal(kickoff.Add(2*time.Hour)), ShouldBeTrue)
				So(w.ExpireTime.Equal(kickoff.Add(26*time.Hour)), ShouldBeTrue)
			})
		})

		Convey("When extra-time and penalty finishes behave like full time", func() {
			now := kickoff.Add(3 * time.Hour)
			for _, status := range []string{"AET", "PEN"} {
				w := clock.Window(model.MatchLifecycle{Status: status, Kickoff: kickoff}, false, now)
				So(w.Locked, ShouldBeFalse)
				So(w.Reason, ShouldEqual, ratinglock.ReasonOpen)
			}
		})

		Convey("When the window has expired", func() {
			now := kickoff.Add(27 * time.Hour)
			w := clock.Window(model.MatchLifecycle{Status: "FT", Kickoff: kickoff}, false, now)

			So(w.Locked, ShouldBeTrue)
			So(w.Reason, ShouldEqual, ratinglock.ReasonExpired)
			So(w.UnlockTime, ShouldNotBeNil)
			So(w.ExpireTime, ShouldNotBeNil)
		})

		Convey("When now is exactly the expire instant", func() {
			now := kickoff.Add(26 * time.Hour)
			w := clock.Window(model.MatchLifecycle{Status: "FT", Kickoff: kickoff}, false, now)

			Convey("Then the boundary counts as expired", func() {
				So(w.Locked, ShouldBeTrue)
				So(w.Reason, ShouldEqual, ratinglock.ReasonExpired)
			})
		})

		Convey("When a rating was already saved", func() {
			Convey("Then saved dominates an open window", func() {
				now := kickoff.Add(3 * time.Hour)
				w := clock.Window(model.MatchLifecycle{Status: "FT", Kickoff: kickoff}, true, now)
				So(w.Locked, ShouldBeTrue)
				So(w.Reason, ShouldEqual, ratinglock.ReasonSaved)
			})

			Convey("Then saved dominates every status", func() {
				for _, status := range []string{"NS", "LIVE", "FT", "???"} {
					w := clock.Window(model.MatchLifecycle{Status: status, Kickoff: kickoff}, true, kickoff)
					So(w.Reason, ShouldEqual, ratinglock.ReasonSaved)
				}
			})
		})

		Convey("When the status is unrecognized", func() {
			w := clock.Window(model.MatchLifecycle{Status: "SUSP", Kickoff: kickoff}, false, kickoff)

			Convey("Then the window fails closed", func() {
				So(w.Locked, ShouldBeTrue)
				So(w.Reason, ShouldEqual, ratinglock.ReasonUnknown)
			})
		})

		Convey("When the match finished but kickoff is missing", func() {
			w := clock.Window(model.MatchLifecycle{Status: "FT"}, false, time.Now())

			Convey("Then ambiguous input locks the window", func() {
				So(w.Locked, ShouldBeTrue)
				So(w.Reason, ShouldEqual, ratinglock.ReasonUnknown)
			})
		})
	})
}

func TestClock_Options(t *testing.T) {
	Convey("Given a clock with shortened timings", t, func() {
		clock := ratinglock.New(
			ratinglock.WithMatchDuration(time.Minute),
			ratinglock.WithOpenWindow(time.Hour),
		)
		kickoff := time.Date(2025, 3, 8, 20, 0, 0, 0, time.UTC)

		Convey("When checked just after the shortened match", func() {
			w := clock.Window(model.MatchLifecycle{Status: "FT", Kickoff: kickoff}, false, kickoff.Add(2*time.Minute))

			So(w.Locked, ShouldBeFalse)
			So(w.UnlockTime.Equal(kickoff.Add(time.Minute)), ShouldBeTrue)
			So(w.ExpireTime.Equal(kickoff.Add(61*time.Minute)), ShouldBeTrue)
		})

		Convey("When checked after the shortened window", func() {
			w := clock.Window(model.MatchLifecycle{Status: "FT", Kickoff: kickoff}, false, kickoff.Add(2*time.Hour))

			So(w.Reason, ShouldEqual, ratinglock.ReasonExpired)
		})
	})

	Convey("Given non-positive overrides", t, func() {
		clock := ratinglock.New(
			ratinglock.WithMatchDuration(0),
			ratinglock.WithOpenWindow(-time.Hour),
		)
		kickoff := time.Date(2025, 3, 8, 20, 0, 0, 0, time.UTC)

		Convey("Then the defaults stay in effect", func() {
			w := clock.Window(model.MatchLifecycle{Status: "FT", Kickoff: kickoff}, false, kickoff.Add(3*time.Hour))
			So(w.Locked, ShouldBeFalse)
			So(w.ExpireTime.Equal(kickoff.Add(26*time.Hour)), ShouldBeTrue)
		})
	})
}
