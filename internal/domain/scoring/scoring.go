// Package scoring folds a game's result ledger and adjustment log into
// per-team point totals. Totals are defined only over the participating
// roster: entries and adjustments crediting a team that has since been
// removed are ignored rather than rejected, so roster edits never fault the
// aggregation.
package scoring

import (
	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/internal/domain/stage"
)

// SetColumn is one per-set column of a scoreboard breakdown.
type SetColumn struct {
	Set    int            `json:"set"`
	Totals map[string]int `json:"totals"`
}

// Totals computes whole-game totals per participating team: every ledger
// entry crediting the team plus every adjustment delta for it. Teams with no
// recorded activity total zero.
func Totals(g game.Game) map[string]int {
	participating := rosterSet(g)
	totals := make(map[string]int, len(participating))
	for id := range participating {
		totals[id] = 0
	}
	for _, r := range g.Results {
		for _, id := range r.TeamIDs {
			if _, ok := participating[id]; ok {
				totals[id] += r.Points
			}
		}
	}
	for _, adj := range g.Adjustments {
		if _, ok := participating[adj.TeamID]; ok {
			totals[adj.TeamID] += adj.Points
		}
	}
	return totals
}

// TotalsForSet is Totals restricted to one set index.
func TotalsForSet(g game.Game, set int) map[string]int {
	participating := rosterSet(g)
	totals := make(map[string]int, len(participating))
	for id := range participating {
		totals[id] = 0
	}
	for _, r := range g.Results {
		if r.Stage.Set != set {
			continue
		}
		for _, id := range r.TeamIDs {
			if _, ok := participating[id]; ok {
				totals[id] += r.Points
			}
		}
	}
	for _, adj := range g.Adjustments {
		if adj.SetIndex != set {
			continue
		}
		if _, ok := participating[adj.TeamID]; ok {
			totals[adj.TeamID] += adj.Points
		}
	}
	return totals
}

// Breakdown computes one column per playable set. Summing a team across all
// columns equals its whole-game total exactly, as long as every ledger
// coordinate and adjustment set index lies inside the grid, which the
// service boundary enforces on write.
func Breakdown(g game.Game) []SetColumn {
	count := stage.SetCount(g.HasBonusRound)
	columns := make([]SetColumn, 0, count)
	for set := 0; set < count; set++ {
		columns = append(columns, SetColumn{Set: set, Totals: TotalsForSet(g, set)})
	}
	return columns
}

func rosterSet(g game.Game) map[string]struct{} {
	set := make(map[string]struct{}, len(g.TeamIDs))
	for _, id := range g.TeamIDs {
		set[id] = struct{}{}
	}
	return set
}
