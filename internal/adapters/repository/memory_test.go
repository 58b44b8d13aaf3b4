package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/panenka/internal/adapters/repository"
	"github.com/okian/panenka/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryBadgeStore(t *testing.T) {
	Convey("Given an in-memory badge store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryBadgeStore()
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		Convey("When no badges are recorded", func() {
			ids, err := store.EarnedIDs(ctx, "u1")
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)

			earned, err := store.Earned(ctx, "u1")
			So(err, ShouldBeNil)
			So(earned, ShouldBeEmpty)
		})

		Convey("When badges are saved", func() {
			err := store.SaveEarned(ctx, "u1", []repository.EarnedBadge{
				{BadgeID: "streak_5", EarnedAt: now},
				{BadgeID: "perfect_match", EarnedAt: now},
			})
			So(err, ShouldBeNil)

			Convey("Then they show up in the earned set", func() {
				ids, err := store.EarnedIDs(ctx, "u1")
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, map[string]bool{"streak_5": true, "perfect_match": true})
			})

			Convey("Then records carry the user id", func() {
				earned, err := store.Earned(ctx, "u1")
				So(err, ShouldBeNil)
				So(len(earned), ShouldEqual, 2)
				So(earned[0].UserID, ShouldEqual, "u1")
			})

			Convey("Then re-saving the same id never re-dates it", func() {
				later := now.Add(time.Hour)
				err := store.SaveEarned(ctx, "u1", []repository.EarnedBadge{
					{BadgeID: "streak_5", EarnedAt: later},
				})
				So(err, ShouldBeNil)

				earned, err := store.Earned(ctx, "u1")
				So(err, ShouldBeNil)
				So(len(earned), ShouldEqual, 2)
				So(earned[0].EarnedAt.Equal(now), ShouldBeTrue)
			})

			Convey("Then other users are unaffected", func() {
				ids, err := store.EarnedIDs(ctx, "u2")
				So(err, ShouldBeNil)
				So(ids, ShouldBeEmpty)
			})
		})

		Convey("When a badge notification is marked shown", func() {
			So(store.MarkShown(ctx, "u1", "streak_5"), ShouldBeNil)
			So(store.MarkShown(ctx, "u1", "streak_5"), ShouldBeNil)

			shown, err := store.ShownIDs(ctx, "u1")
			So(err, ShouldBeNil)
			So(shown, ShouldResemble, map[string]bool{"streak_5": true})
		})
	})
}

func TestMemoryRatingStore(t *testing.T) {
	Convey("Given an in-memory rating store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryRatingStore()
		rating := &model.Rating{
			UserID:  "u1",
			MatchID: "m1",
			Kind:    model.RatingCoach,
			Scores:  map[string]int{"tactics": 8},
		}

		Convey("When the key has no rating", func() {
			_, err := store.Get(ctx, "u1", "m1", model.RatingCoach)
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When a rating is saved once", func() {
			So(store.SaveOnce(ctx, rating), ShouldBeNil)

			Convey("Then it can be read back", func() {
				got, err := store.Get(ctx, "u1", "m1", model.RatingCoach)
				So(err, ShouldBeNil)
				So(got.Scores["tactics"], ShouldEqual, 8)
			})

			Convey("Then a second save on the same key is rejected", func() {
				So(store.SaveOnce(ctx, rating), ShouldEqual, repository.ErrAlreadySaved)
			})

			Convey("Then the other kind on the same match stays free", func() {
				player := *rating
				player.Kind = model.RatingPlayer
				So(store.SaveOnce(ctx, &player), ShouldBeNil)
			})

			Convey("Then the store returns a copy, not its own pointer", func() {
				got, _ := store.Get(ctx, "u1", "m1", model.RatingCoach)
				got.Scores = nil
				again, _ := store.Get(ctx, "u1", "m1", model.RatingCoach)
				So(again.Scores, ShouldNotBeNil)
			})
		})
	})
}

func TestMemoryStatsStore(t *testing.T) {
	Convey("Given an in-memory stats store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStatsStore()

		Convey("When the user has no snapshot", func() {
			_, err := store.Get(ctx, "u1")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When a snapshot is stored", func() {
			stats := &model.UserStats{
				UserID:      "u1",
				TotalPoints: 120,
				Leagues:     map[string]model.BucketStats{"super-lig": {Total: 5, Correct: 3, Accuracy: 60}},
			}
			So(store.Put(ctx, stats), ShouldBeNil)

			Convey("Then reading it back yields an equal snapshot", func() {
				got, err := store.Get(ctx, "u1")
				So(err, ShouldBeNil)
				So(got.TotalPoints, ShouldEqual, 120)
				So(got.League("super-lig").Correct, ShouldEqual, 3)
			})

			Convey("Then mutating the returned copy leaves the store clean", func() {
				got, _ := store.Get(ctx, "u1")
				got.Leagues["super-lig"] = model.BucketStats{}
				again, _ := store.Get(ctx, "u1")
				So(again.League("super-lig").Correct, ShouldEqual, 3)
			})

			Convey("Then a later put replaces the snapshot", func() {
				stats.TotalPoints = 200
				So(store.Put(ctx, stats), ShouldBeNil)
				got, _ := store.Get(ctx, "u1")
				So(got.TotalPoints, ShouldEqual, 200)
			})
		})
	})
}
