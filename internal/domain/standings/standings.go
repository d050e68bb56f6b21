// Package standings folds archived games into cumulative season points and
// per-team play history. Every eligible game awards a participation point
// plus a podium bonus derived from the game's dense ranks.
package standings

import (
	"sort"
	"time"

	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/internal/domain/rank"
	"github.com/quizroyalty/scorekeep/internal/domain/scoring"
)

// Season point awards. Rank four or worse earns the participation point
// only.
const (
	ParticipationPoints = 1
	FirstPlacePoints    = 10
	SecondPlacePoints   = 5
	ThirdPlacePoints    = 3
)

// UnknownName is the placeholder for identifiers that no longer resolve to
// a roster entry.
const UnknownName = "Unknown"

// TeamStanding is one row of the season table.
type TeamStanding struct {
	TeamID      string `json:"teamId"`
	TeamName    string `json:"teamName"`
	Points      int    `json:"points"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
}

// GameRecord is one archived game from a team's point of view.
type GameRecord struct {
	GameID   string    `json:"gameId"`
	Title    string    `json:"title"`
	PlayedAt time.Time `json:"playedAt"`
	SeasonID string    `json:"seasonId"`
	Score    int       `json:"score"`
	Rank     int       `json:"rank"`
	Won      bool      `json:"won"`
}

// TeamHistory is a team's archived play record across seasons.
type TeamHistory struct {
	TeamID      string       `json:"teamId"`
	TeamName    string       `json:"teamName"`
	GamesPlayed int          `json:"gamesPlayed"`
	Wins        int          `json:"wins"`
	WinRate     float64      `json:"winRate"`
	Games       []GameRecord `json:"games"`
}

// Eligible reports whether a game counts toward a season's standings: it
// must belong to the season, be archived, and count in royalty, with legacy
// records defaulting by game type.
func Eligible(g game.Game, seasonID string) bool {
	return g.SeasonID == seasonID && g.Status == game.StatusArchived && g.CountsInRoyalty()
}

// Compute builds the season table. Every roster team gets a row, archived
// teams included; history never drops a team that once played. Teams that
// appear in an eligible game but are missing from the roster get a
// placeholder row rather than being skipped. Rows are sorted by points
// descending, then team identifier ascending so equal-point teams order
// deterministically.
func Compute(seasonID string, games []game.Game, teams []game.Team) []TeamStanding {
	rows := make(map[string]*TeamStanding, len(teams))
	for _, t := range teams {
		rows[t.ID] = &TeamStanding{TeamID: t.ID, TeamName: t.Name}
	}
	ensure := func(teamID string) *TeamStanding {
		if row, ok := rows[teamID]; ok {
			return row
		}
		row := &TeamStanding{TeamID: teamID, TeamName: UnknownName}
		rows[teamID] = row
		return row
	}

	for _, g := range games {
		if !Eligible(g, seasonID) {
			continue
		}
		totals := scoring.Totals(g)
		ranks := rank.Dense(totals)
		for teamID := range totals {
			row := ensure(teamID)
			row.GamesPlayed++
			row.Points += ParticipationPoints
			switch ranks[teamID] {
			case 1:
				row.Points += FirstPlacePoints
				row.Wins++
			case 2:
				row.Points += SecondPlacePoints
			case 3:
				row.Points += ThirdPlacePoints
			}
		}
	}

	table := make([]TeamStanding, 0, len(rows))
	for _, row := range rows {
		table = append(table, *row)
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		return table[i].TeamID < table[j].TeamID
	})
	return table
}

// History lists every archived game the team participated in, most recent
// first, with its score and dense rank in each. The win rate is a
// percentage and reports zero for a team that never played.
func History(teamID string, games []game.Game, teams []game.Team) TeamHistory {
	h := TeamHistory{
		TeamID:   teamID,
		TeamName: TeamName(teams, teamID),
		Games:    []GameRecord{},
	}
	for _, g := range games {
		if g.Status != game.StatusArchived || !g.HasTeam(teamID) {
			continue
		}
		totals := scoring.Totals(g)
		r := rank.For(totals, teamID)
		rec := GameRecord{
			GameID:   g.ID,
			Title:    g.Title,
			PlayedAt: g.PlayedAt,
			SeasonID: g.SeasonID,
			Score:    totals[teamID],
			Rank:     r,
			Won:      r == 1,
		}
		h.Games = append(h.Games, rec)
		h.GamesPlayed++
		if rec.Won {
			h.Wins++
		}
	}
	sort.Slice(h.Games, func(i, j int) bool {
		if !h.Games[i].PlayedAt.Equal(h.Games[j].PlayedAt) {
			return h.Games[i].PlayedAt.After(h.Games[j].PlayedAt)
		}
		return h.Games[i].GameID < h.Games[j].GameID
	})
	if h.GamesPlayed > 0 {
		h.WinRate = float64(h.Wins) / float64(h.GamesPlayed) * 100
	}
	return h
}

// TeamName resolves a team identifier against the roster, falling back to
// the placeholder for unknown identifiers.
func TeamName(teams []game.Team, teamID string) string {
	for _, t := range teams {
		if t.ID == teamID {
			return t.Name
		}
	}
	return UnknownName
}
