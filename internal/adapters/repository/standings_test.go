package repository_test

import (
	"context"
	"testing"

	"github.com/okian/panenka/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStandings(t *testing.T) {
	Convey("Given standings with a handful of users", t, func() {
		ctx := context.Background()
		s := repository.NewMemoryStandings()
		So(s.SetPoints(ctx, "carol", 300), ShouldBeNil)
		So(s.SetPoints(ctx, "alice", 100), ShouldBeNil)
		So(s.SetPoints(ctx, "bob", 200), ShouldBeNil)

		Convey("When the leaderboard is read", func() {
			top, err := s.TopN(ctx, 10)
			So(err, ShouldBeNil)

			Convey("Then entries come back points desc with 1-based ranks", func() {
				So(top, ShouldResemble, []repository.Entry{
					{Rank: 1, UserID: "carol", Points: 300},
					{Rank: 2, UserID: "bob", Points: 200},
					{Rank: 3, UserID: "alice", Points: 100},
				})
			})
		})

		Convey("When two users tie on points", func() {
			So(s.SetPoints(ctx, "dave", 200), ShouldBeNil)
			top, err := s.TopN(ctx, 4)
			So(err, ShouldBeNil)

			Convey("Then the tie breaks by user id ascending", func() {
				So(top[1].UserID, ShouldEqual, "bob")
				So(top[2].UserID, ShouldEqual, "dave")
				So(top[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When n exceeds the user count", func() {
			top, err := s.TopN(ctx, 50)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 3)
		})

		Convey("When n is not positive", func() {
			_, err := s.TopN(ctx, 0)
			So(err, ShouldEqual, repository.ErrInvalidLimit)
		})

		Convey("When a single user's rank is read", func() {
			e, err := s.Rank(ctx, "bob")
			So(err, ShouldBeNil)
			So(e, ShouldResemble, repository.Entry{Rank: 2, UserID: "bob", Points: 200})
		})

		Convey("When an unknown user's rank is read", func() {
			_, err := s.Rank(ctx, "nobody")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When a user's points change after a read", func() {
			_, err := s.TopN(ctx, 3)
			So(err, ShouldBeNil)
			So(s.SetPoints(ctx, "alice", 999), ShouldBeNil)

			Convey("Then the next read reflects the rebuilt snapshot", func() {
				e, err := s.Rank(ctx, "alice")
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 1)
				So(e.Points, ShouldEqual, 999)
			})
		})

		Convey("When the user count is read", func() {
			So(s.Count(ctx), ShouldEqual, 3)
		})
	})
}
