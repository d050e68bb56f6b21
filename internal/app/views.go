package service

import (
	"context"
	"sort"
	"time"

	"github.com/quizroyalty/scorekeep/internal/adapters/repository"
	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/internal/domain/rank"
	"github.com/quizroyalty/scorekeep/internal/domain/scoring"
	"github.com/quizroyalty/scorekeep/internal/domain/stage"
	"github.com/quizroyalty/scorekeep/internal/domain/standings"
	"github.com/quizroyalty/scorekeep/pkg/metrics"
)

// ScoreboardRow is one team's line on the scoreboard: total, rank, and
// per-set breakdown. The per-set values sum to the total exactly.
type ScoreboardRow struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
	PerSet   []int  `json:"perSet"`
}

// Scoreboard is the derived read model of one game.
type Scoreboard struct {
	GameID   string          `json:"gameId"`
	Title    string          `json:"title"`
	Status   game.Status     `json:"status"`
	Stage    stage.Stage     `json:"stage"`
	GameOver bool            `json:"gameOver"`
	Sets     int             `json:"sets"`
	Rows     []ScoreboardRow `json:"rows"`
}

// Scoreboard computes totals, per-set breakdown, and dense ranks for one
// game. Rows order by rank, then team identifier.
func (s *Service) Scoreboard(ctx context.Context, id string) (Scoreboard, error) {
	if err := s.ready(); err != nil {
		return Scoreboard{}, err
	}
	start := time.Now()
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return Scoreboard{}, err
	}
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return Scoreboard{}, err
	}

	totals := scoring.Totals(g)
	ranks := rank.Dense(totals)
	columns := scoring.Breakdown(g)

	rows := make([]ScoreboardRow, 0, len(totals))
	for teamID, score := range totals {
		perSet := make([]int, len(columns))
		for i, col := range columns {
			perSet[i] = col.Totals[teamID]
		}
		rows = append(rows, ScoreboardRow{
			TeamID:   teamID,
			TeamName: standings.TeamName(teams, teamID),
			Score:    score,
			Rank:     ranks[teamID],
			PerSet:   perSet,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Rank != rows[j].Rank {
			return rows[i].Rank < rows[j].Rank
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	metrics.RecordScoreboardLatency(float64(time.Since(start).Milliseconds()))
	return Scoreboard{
		GameID:   g.ID,
		Title:    g.Title,
		Status:   g.Status,
		Stage:    g.Stage,
		GameOver: g.Stage.GameOver(g.HasBonusRound),
		Sets:     stage.SetCount(g.HasBonusRound),
		Rows:     rows,
	}, nil
}

// Standings computes the royalty table of one season from its archived,
// eligible games.
func (s *Service) Standings(ctx context.Context, seasonID string) ([]standings.TeamStanding, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	if _, err := s.store.GetSeason(ctx, seasonID); err != nil {
		return nil, err
	}
	games, err := s.store.ListGames(ctx, repository.GameFilter{SeasonID: seasonID, Status: game.StatusArchived})
	if err != nil {
		return nil, err
	}
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	table := standings.Compute(seasonID, games, teams)
	metrics.RecordStandingsLatency(float64(time.Since(start).Milliseconds()))
	return table, nil
}

// TeamHistory lists a team's archived games across all seasons, most recent
// first, capped at the configured history length.
func (s *Service) TeamHistory(ctx context.Context, teamID string) (standings.TeamHistory, error) {
	if err := s.ready(); err != nil {
		return standings.TeamHistory{}, err
	}
	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		return standings.TeamHistory{}, err
	}
	games, err := s.store.ListGames(ctx, repository.GameFilter{Status: game.StatusArchived})
	if err != nil {
		return standings.TeamHistory{}, err
	}
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return standings.TeamHistory{}, err
	}
	h := standings.History(teamID, games, teams)
	if len(h.Games) > s.maxHistory {
		h.Games = h.Games[:s.maxHistory]
	}
	return h, nil
}
