package standings_test

import (
	"sort"
	"testing"
	"time"

	game "github.com/quizroyalty/scorekeep/internal/domain/game"
	stage "github.com/quizroyalty/scorekeep/internal/domain/stage"
	standings "github.com/quizroyalty/scorekeep/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

var roster = []game.Team{
	{ID: "team-a", Name: "Alphas"},
	{ID: "team-b", Name: "Bravos"},
	{ID: "team-c", Name: "Charlies"},
	{ID: "team-d", Name: "Deltas", Archived: true},
}

// archivedGame builds an archived game whose totals equal the given scores,
// one ledger entry per team.
func archivedGame(id, seasonID string, typ game.Type, playedAt time.Time, scores map[string]int) game.Game {
	g := game.New(id, seasonID, "night "+id)
	g.Type = typ
	g.PlayedAt = playedAt
	if err := g.Start(); err != nil {
		panic(err)
	}
	teamIDs := make([]string, 0, len(scores))
	for teamID := range scores {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)
	if err := g.SetTeams(teamIDs); err != nil {
		panic(err)
	}
	for i, teamID := range teamIDs {
		points := scores[teamID]
		if _, err := g.RecordResult(stage.Stage{Question: i}, []string{teamID}, &points); err != nil {
			panic(err)
		}
	}
	if err := g.Archive(nil); err != nil {
		panic(err)
	}
	return g
}

func TestCompute(t *testing.T) {
	Convey("Given a season with one archived regular game", t, func() {
		g := archivedGame("game-1", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 50, "team-b": 50, "team-c": 30})

		Convey("When computing the standings", func() {
			table := standings.Compute("season-1", []game.Game{g}, roster)

			Convey("Then tied winners both take first-place points and a win", func() {
				So(table, ShouldHaveLength, 4)
				So(table[0].TeamID, ShouldEqual, "team-a")
				So(table[0].Points, ShouldEqual, 11)
				So(table[0].Wins, ShouldEqual, 1)
				So(table[0].GamesPlayed, ShouldEqual, 1)
				So(table[1].TeamID, ShouldEqual, "team-b")
				So(table[1].Points, ShouldEqual, 11)
				So(table[1].Wins, ShouldEqual, 1)
			})

			Convey("And the runner-up at dense rank two takes second-place points", func() {
				So(table[2].TeamID, ShouldEqual, "team-c")
				So(table[2].Points, ShouldEqual, 6)
				So(table[2].Wins, ShouldEqual, 0)
			})

			Convey("And roster teams that never played keep a zero row", func() {
				So(table[3].TeamID, ShouldEqual, "team-d")
				So(table[3].TeamName, ShouldEqual, "Deltas")
				So(table[3].Points, ShouldEqual, 0)
				So(table[3].GamesPlayed, ShouldEqual, 0)
			})
		})
	})

	Convey("Given games outside the season or not archived", t, func() {
		eligible := archivedGame("game-1", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 10})
		otherSeason := archivedGame("game-2", "season-2", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 10})
		live := game.New("game-3", "season-1", "in progress")
		So(live.Start(), ShouldBeNil)
		So(live.SetTeams([]string{"team-a"}), ShouldBeNil)

		table := standings.Compute("season-1", []game.Game{eligible, otherSeason, live}, roster)

		Convey("Then only the archived in-season game counts", func() {
			So(table[0].TeamID, ShouldEqual, "team-a")
			So(table[0].GamesPlayed, ShouldEqual, 1)
			So(table[0].Points, ShouldEqual, 11)
		})
	})

	Convey("Given legacy games without an eligibility flag", t, func() {
		regular := archivedGame("game-1", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 10})
		special := archivedGame("game-2", "season-1", game.TypeSpecial, time.Now(),
			map[string]int{"team-b": 10})

		table := standings.Compute("season-1", []game.Game{regular, special}, roster)

		Convey("Then regular games count and special games do not", func() {
			byID := map[string]standings.TeamStanding{}
			for _, row := range table {
				byID[row.TeamID] = row
			}
			So(byID["team-a"].GamesPlayed, ShouldEqual, 1)
			So(byID["team-b"].GamesPlayed, ShouldEqual, 0)
		})

		Convey("And an explicit flag overrides the type default", func() {
			yes := true
			special.CountInRoyalty = &yes
			table := standings.Compute("season-1", []game.Game{regular, special}, roster)
			byID := map[string]standings.TeamStanding{}
			for _, row := range table {
				byID[row.TeamID] = row
			}
			So(byID["team-b"].GamesPlayed, ShouldEqual, 1)
		})
	})

	Convey("Given four distinct finishing positions", t, func() {
		g := archivedGame("game-1", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 40, "team-b": 30, "team-c": 20, "team-d": 10})

		table := standings.Compute("season-1", []game.Game{g}, roster)

		Convey("Then the podium bonus fades to participation only", func() {
			So(table[0].Points, ShouldEqual, 11) // 1 + 10
			So(table[1].Points, ShouldEqual, 6)  // 1 + 5
			So(table[2].Points, ShouldEqual, 4)  // 1 + 3
			So(table[3].Points, ShouldEqual, 1)  // participation only
		})
	})

	Convey("Given a participant missing from the roster", t, func() {
		g := archivedGame("game-1", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 10, "team-x": 20})

		table := standings.Compute("season-1", []game.Game{g}, roster)

		Convey("Then it still earns a row under the placeholder name", func() {
			So(table[0].TeamID, ShouldEqual, "team-x")
			So(table[0].TeamName, ShouldEqual, standings.UnknownName)
			So(table[0].Points, ShouldEqual, 11)
		})
	})

	Convey("Given equal points across teams", t, func() {
		g1 := archivedGame("game-1", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-b": 10})
		g2 := archivedGame("game-2", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 10})

		table := standings.Compute("season-1", []game.Game{g1, g2}, roster)

		Convey("Then equal-point rows order by team identifier", func() {
			So(table[0].TeamID, ShouldEqual, "team-a")
			So(table[1].TeamID, ShouldEqual, "team-b")
			So(table[0].Points, ShouldEqual, table[1].Points)
		})
	})
}

func TestEligible(t *testing.T) {
	Convey("Given archived games", t, func() {
		g := archivedGame("game-1", "season-1", game.TypeRegular, time.Now(),
			map[string]int{"team-a": 10})

		So(standings.Eligible(g, "season-1"), ShouldBeTrue)
		So(standings.Eligible(g, "season-2"), ShouldBeFalse)

		no := false
		g.CountInRoyalty = &no
		So(standings.Eligible(g, "season-1"), ShouldBeFalse)
	})
}

func TestHistory(t *testing.T) {
	Convey("Given a team with archived games across seasons", t, func() {
		older := archivedGame("game-1", "season-1", game.TypeRegular,
			time.Date(2025, 11, 3, 19, 0, 0, 0, time.UTC),
			map[string]int{"team-a": 50, "team-b": 30})
		newer := archivedGame("game-2", "season-2", game.TypeSpecial,
			time.Date(2026, 2, 9, 19, 0, 0, 0, time.UTC),
			map[string]int{"team-a": 10, "team-b": 40})

		Convey("When building the history", func() {
			h := standings.History("team-a", []game.Game{older, newer}, roster)

			Convey("Then games list most recent first with score, rank, and win", func() {
				So(h.TeamName, ShouldEqual, "Alphas")
				So(h.Games, ShouldHaveLength, 2)
				So(h.Games[0].GameID, ShouldEqual, "game-2")
				So(h.Games[0].Rank, ShouldEqual, 2)
				So(h.Games[0].Won, ShouldBeFalse)
				So(h.Games[1].GameID, ShouldEqual, "game-1")
				So(h.Games[1].Score, ShouldEqual, 50)
				So(h.Games[1].Won, ShouldBeTrue)
			})

			Convey("And the summary covers wins and win rate", func() {
				So(h.GamesPlayed, ShouldEqual, 2)
				So(h.Wins, ShouldEqual, 1)
				So(h.WinRate, ShouldEqual, 50.0)
			})

			Convey("And special games appear in history even though they skip standings", func() {
				So(h.Games[0].SeasonID, ShouldEqual, "season-2")
			})
		})

		Convey("When the team never played", func() {
			h := standings.History("team-d", []game.Game{older, newer}, roster)

			Convey("Then the win rate reports zero instead of dividing by zero", func() {
				So(h.GamesPlayed, ShouldEqual, 0)
				So(h.WinRate, ShouldEqual, 0.0)
				So(h.Games, ShouldBeEmpty)
			})
		})

		Convey("When the team is unknown", func() {
			h := standings.History("team-zz", []game.Game{older, newer}, roster)
			So(h.TeamName, ShouldEqual, standings.UnknownName)
		})
	})
}
