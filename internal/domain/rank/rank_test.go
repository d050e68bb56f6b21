package rank_test

import (
	"testing"

	rank "github.com/quizroyalty/scorekeep/internal/domain/rank"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDense(t *testing.T) {
	Convey("Given a score mapping with ties", t, func() {
		scores := map[string]int{"A": 10, "B": 10, "C": 5, "D": 5, "E": 1}

		Convey("When ranking", func() {
			ranks := rank.Dense(scores)

			Convey("Then ties share a rank and the next distinct value follows densely", func() {
				So(ranks, ShouldResemble, map[string]int{"A": 1, "B": 1, "C": 2, "D": 2, "E": 3})
			})
		})
	})

	Convey("Given two teams tied at the top", t, func() {
		ranks := rank.Dense(map[string]int{"A": 10, "B": 10, "C": 5})

		So(ranks["A"], ShouldEqual, 1)
		So(ranks["B"], ShouldEqual, 1)
		So(ranks["C"], ShouldEqual, 2)
	})

	Convey("Given an empty mapping", t, func() {
		So(rank.Dense(map[string]int{}), ShouldBeEmpty)
		So(rank.Dense(nil), ShouldBeEmpty)
	})

	Convey("Given negative totals from adjustments", t, func() {
		ranks := rank.Dense(map[string]int{"A": 3, "B": -2, "C": 0})

		So(ranks, ShouldResemble, map[string]int{"A": 1, "C": 2, "B": 3})
	})
}

func TestFor(t *testing.T) {
	Convey("Given a score mapping", t, func() {
		scores := map[string]int{"A": 50, "B": 50, "C": 30}

		Convey("When looking up a present team", func() {
			So(rank.For(scores, "A"), ShouldEqual, 1)
			So(rank.For(scores, "C"), ShouldEqual, 2)
		})

		Convey("When looking up a team with no recorded activity", func() {
			Convey("Then it scores zero and ranks below every positive score", func() {
				So(rank.For(scores, "nobody"), ShouldEqual, 3)
			})
		})

		Convey("When the mapping is empty", func() {
			So(rank.For(map[string]int{}, "anyone"), ShouldEqual, 1)
		})
	})
}
