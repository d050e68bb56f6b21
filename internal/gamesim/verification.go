package gamesim

import (
	"fmt"
	"sort"
)

// Standings point table, mirrored from the server.
const (
	participationPoints = 1
	firstPlaceBonus     = 10
	secondPlaceBonus    = 5
	thirdPlaceBonus     = 3
)

// denseRanks assigns competition ranks without gaps: equal scores share
// a rank and the next distinct score takes the next integer.
func denseRanks(totals map[string]int) map[string]int {
	scores := make([]int, 0, len(totals))
	seen := make(map[int]bool, len(totals))
	for _, score := range totals {
		if !seen[score] {
			seen[score] = true
			scores = append(scores, score)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))

	byScore := make(map[int]int, len(scores))
	for i, score := range scores {
		byScore[score] = i + 1
	}

	ranks := make(map[string]int, len(totals))
	for id, score := range totals {
		ranks[id] = byScore[score]
	}
	return ranks
}

// verifyScoreboard checks a served scoreboard against the script's
// locally computed totals and dense ranks.
func verifyScoreboard(s gameScript, board Scoreboard) error {
	if len(board.Rows) != len(s.teamIDs) {
		return fmt.Errorf("scoreboard has %d rows, want %d", len(board.Rows), len(s.teamIDs))
	}

	ranks := denseRanks(s.totals)
	prevRank := 0
	prevTeam := ""
	for _, row := range board.Rows {
		want, ok := s.totals[row.TeamID]
		if !ok {
			return fmt.Errorf("scoreboard row for team %s not in the script roster", row.TeamID)
		}
		if row.Score != want {
			return fmt.Errorf("team %s scored %d, want %d", row.TeamID, row.Score, want)
		}
		if row.Rank != ranks[row.TeamID] {
			return fmt.Errorf("team %s ranked %d, want %d", row.TeamID, row.Rank, ranks[row.TeamID])
		}

		perSet := 0
		for _, v := range row.PerSet {
			perSet += v
		}
		if perSet != row.Score {
			return fmt.Errorf("team %s per-set sum %d does not add up to score %d", row.TeamID, perSet, row.Score)
		}

		// Rows must arrive rank ascending, ties broken by team ID.
		if row.Rank < prevRank || (row.Rank == prevRank && row.TeamID < prevTeam) {
			return fmt.Errorf("scoreboard rows out of order at team %s", row.TeamID)
		}
		prevRank = row.Rank
		prevTeam = row.TeamID
	}

	if !board.GameOver {
		return fmt.Errorf("archived game %s not reported as over", board.GameID)
	}
	return nil
}

// foldStandings recomputes the season table from the scripts: one
// participation point per game plus podium bonuses from dense ranks.
func foldStandings(scripts []gameScript) map[string]Standing {
	expected := make(map[string]Standing)
	for _, s := range scripts {
		ranks := denseRanks(s.totals)
		for _, id := range s.teamIDs {
			row := expected[id]
			row.TeamID = id
			row.GamesPlayed++
			row.Points += participationPoints
			switch ranks[id] {
			case 1:
				row.Points += firstPlaceBonus
				row.Wins++
			case 2:
				row.Points += secondPlaceBonus
			case 3:
				row.Points += thirdPlaceBonus
			}
			expected[id] = row
		}
	}
	return expected
}

// verifyStandings checks the served season table against the local
// fold, including its ordering contract.
func verifyStandings(scripts []gameScript, got []Standing) error {
	expected := foldStandings(scripts)

	played := make(map[string]Standing, len(got))
	for _, row := range got {
		if row.GamesPlayed > 0 {
			played[row.TeamID] = row
		}
	}
	if len(played) != len(expected) {
		return fmt.Errorf("standings list %d teams with games, want %d", len(played), len(expected))
	}

	for id, want := range expected {
		row, ok := played[id]
		if !ok {
			return fmt.Errorf("team %s missing from standings", id)
		}
		if row.Points != want.Points {
			return fmt.Errorf("team %s has %d points, want %d", id, row.Points, want.Points)
		}
		if row.GamesPlayed != want.GamesPlayed {
			return fmt.Errorf("team %s played %d games, want %d", id, row.GamesPlayed, want.GamesPlayed)
		}
		if row.Wins != want.Wins {
			return fmt.Errorf("team %s has %d wins, want %d", id, row.Wins, want.Wins)
		}
	}

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if cur.Points > prev.Points || (cur.Points == prev.Points && cur.TeamID < prev.TeamID) {
			return fmt.Errorf("standings out of order at team %s", cur.TeamID)
		}
	}
	return nil
}
