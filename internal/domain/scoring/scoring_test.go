package scoring_test

import (
	"testing"
	"time"

	game "github.com/quizroyalty/scorekeep/internal/domain/game"
	scoring "github.com/quizroyalty/scorekeep/internal/domain/scoring"
	stage "github.com/quizroyalty/scorekeep/internal/domain/stage"
	. "github.com/smartystreets/goconvey/convey"
)

func intptr(v int) *int { return &v }

func playedGame() game.Game {
	g := game.New("game-1", "season-1", "Pub Quiz #12")
	if err := g.Start(); err != nil {
		panic(err)
	}
	if err := g.SetTeams([]string{"team-a", "team-b", "team-c"}); err != nil {
		panic(err)
	}
	must := func(_ game.QuestionResult, err error) {
		if err != nil {
			panic(err)
		}
	}
	must(g.RecordResult(stage.Stage{Set: 0, Category: 0, Question: 0}, []string{"team-a", "team-b"}, intptr(2)))
	must(g.RecordResult(stage.Stage{Set: 0, Category: 1, Question: 3}, []string{"team-a"}, intptr(3)))
	must(g.RecordResult(stage.Stage{Set: 1, Category: 0, Question: 0}, []string{"team-b"}, intptr(4)))
	must(g.RecordResult(stage.Stage{Set: 2, Category: 2, Question: 7}, []string{"team-c", "team-ghost"}, intptr(6)))
	if err := g.AddAdjustment(game.ManualAdjustment{
		ID: "adj-1", TeamID: "team-a", Points: -1, SetIndex: 1, CreatedAt: time.Now(),
	}); err != nil {
		panic(err)
	}
	if err := g.AddAdjustment(game.ManualAdjustment{
		ID: "adj-2", TeamID: "team-ghost", Points: 50, SetIndex: 0, CreatedAt: time.Now(),
	}); err != nil {
		panic(err)
	}
	return g
}

func TestTotals(t *testing.T) {
	Convey("Given a played game", t, func() {
		g := playedGame()

		Convey("When computing whole-game totals", func() {
			totals := scoring.Totals(g)

			Convey("Then every participating team is present", func() {
				So(totals, ShouldHaveLength, 3)
				So(totals["team-a"], ShouldEqual, 4) // 2+3-1
				So(totals["team-b"], ShouldEqual, 6) // 2+4
				So(totals["team-c"], ShouldEqual, 6)
			})

			Convey("And stale references outside the roster are ignored", func() {
				_, ok := totals["team-ghost"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a team is removed from the roster after playing", func() {
			So(g.SetTeams([]string{"team-a", "team-c"}), ShouldBeNil)
			totals := scoring.Totals(g)

			Convey("Then its entries stop counting without error", func() {
				So(totals, ShouldHaveLength, 2)
				_, ok := totals["team-b"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When no results are recorded", func() {
			idle := game.New("game-2", "season-1", "quiet night")
			So(idle.Start(), ShouldBeNil)
			So(idle.SetTeams([]string{"team-a"}), ShouldBeNil)

			Convey("Then every team totals zero", func() {
				So(scoring.Totals(idle), ShouldResemble, map[string]int{"team-a": 0})
			})
		})
	})
}

func TestTotalsForSet(t *testing.T) {
	Convey("Given a played game", t, func() {
		g := playedGame()

		Convey("When restricting totals to one set", func() {
			set0 := scoring.TotalsForSet(g, 0)
			set1 := scoring.TotalsForSet(g, 1)

			Convey("Then only that set's entries and adjustments count", func() {
				So(set0["team-a"], ShouldEqual, 5)
				So(set0["team-b"], ShouldEqual, 2)
				So(set0["team-c"], ShouldEqual, 0)
				So(set1["team-a"], ShouldEqual, -1)
				So(set1["team-b"], ShouldEqual, 4)
			})
		})
	})
}

func TestBreakdown(t *testing.T) {
	Convey("Given a played game", t, func() {
		g := playedGame()

		Convey("When building the per-set breakdown", func() {
			columns := scoring.Breakdown(g)

			Convey("Then there is one column per regular set", func() {
				So(columns, ShouldHaveLength, 4)
				So(columns[0].Set, ShouldEqual, 0)
				So(columns[3].Set, ShouldEqual, 3)
			})

			Convey("And per-set columns sum to the whole-game totals", func() {
				totals := scoring.Totals(g)
				for team, want := range totals {
					sum := 0
					for _, col := range columns {
						sum += col.Totals[team]
					}
					So(sum, ShouldEqual, want)
				}
			})
		})

		Convey("When the game has a bonus round", func() {
			So(g.EnableBonusRound(), ShouldBeNil)
			columns := scoring.Breakdown(g)

			Convey("Then the bonus set gets a column too", func() {
				So(columns, ShouldHaveLength, 5)
				So(columns[4].Set, ShouldEqual, 4)
			})
		})
	})
}
