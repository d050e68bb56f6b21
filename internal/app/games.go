package service

import (
	"context"
	"fmt"
	"time"

	"github.com/quizroyalty/scorekeep/internal/adapters/mq/queue"
	"github.com/quizroyalty/scorekeep/internal/adapters/repository"
	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/internal/domain/stage"
	"github.com/quizroyalty/scorekeep/pkg/logger"
	"github.com/quizroyalty/scorekeep/pkg/metrics"
)

// Host count bounds for a game.
const (
	minHosts = 1
	maxHosts = 5
)

// Feedback rating bounds.
const (
	minRating = 1
	maxRating = 10
)

// CreateGameParams carries the attributes of a new game.
type CreateGameParams struct {
	SeasonID       string    `json:"seasonId"`
	HostIDs        []string  `json:"hostIds"`
	Type           game.Type `json:"type"`
	Title          string    `json:"title"`
	PlayedAt       time.Time `json:"playedAt"`
	HasBonusRound  bool      `json:"hasBonusRound"`
	CountInRoyalty *bool     `json:"countInRoyalty,omitempty"`
}

// StageUpdate is the outcome of a stage transition.
type StageUpdate struct {
	Stage              stage.Stage `json:"stage"`
	CrossedSetBoundary bool        `json:"crossedSetBoundary"`
	GameOver           bool        `json:"gameOver"`
}

// RecordResultParams carries one question outcome. A nil Stage targets the
// game's current coordinate; nil Points falls through the sticky-points
// chain.
type RecordResultParams struct {
	Stage   *stage.Stage `json:"stage,omitempty"`
	TeamIDs []string     `json:"teamIds"`
	Points  *int         `json:"points,omitempty"`
}

// AdjustmentParams carries one manual point correction.
type AdjustmentParams struct {
	TeamID   string `json:"teamId"`
	Points   int    `json:"points"`
	SetIndex int    `json:"setIndex"`
	Reason   string `json:"reason,omitempty"`
}

// CreateGame validates the referenced season, hosts, and type, and stores a
// new upcoming game.
func (s *Service) CreateGame(ctx context.Context, p CreateGameParams) (game.Game, error) {
	if err := s.ready(); err != nil {
		return game.Game{}, err
	}
	if p.Title == "" {
		return game.Game{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if len(p.HostIDs) < minHosts || len(p.HostIDs) > maxHosts {
		return game.Game{}, fmt.Errorf("%w: a game needs %d to %d hosts", ErrValidation, minHosts, maxHosts)
	}
	switch p.Type {
	case game.TypeRegular, game.TypeSpecial:
	case "":
		p.Type = game.TypeRegular
	default:
		return game.Game{}, fmt.Errorf("%w: unknown game type %q", ErrValidation, p.Type)
	}
	if _, err := s.store.GetSeason(ctx, p.SeasonID); err != nil {
		return game.Game{}, err
	}
	for _, hostID := range p.HostIDs {
		if _, err := s.store.GetHost(ctx, hostID); err != nil {
			return game.Game{}, err
		}
	}

	g := game.New(s.newID(), p.SeasonID, p.Title)
	g.HostIDs = append(g.HostIDs, p.HostIDs...)
	g.Type = p.Type
	g.PlayedAt = p.PlayedAt
	if g.PlayedAt.IsZero() {
		g.PlayedAt = s.now()
	}
	g.HasBonusRound = p.HasBonusRound
	g.CountInRoyalty = p.CountInRoyalty

	if err := s.store.PutGame(ctx, g); err != nil {
		return game.Game{}, err
	}
	metrics.RecordGameCreated()
	s.logger.Info(ctx, "game created",
		logger.String("game_id", g.ID),
		logger.String("season_id", g.SeasonID),
		logger.String("title", g.Title),
	)
	return g, nil
}

// GetGame returns one normalized game aggregate.
func (s *Service) GetGame(ctx context.Context, id string) (game.Game, error) {
	if err := s.ready(); err != nil {
		return game.Game{}, err
	}
	return s.store.GetGame(ctx, id)
}

// ListGames returns games matching the filter, most recently played first.
func (s *Service) ListGames(ctx context.Context, seasonID string, status game.Status) ([]game.Game, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	switch status {
	case "", game.StatusUpcoming, game.StatusLive, game.StatusArchived:
	default:
		return nil, fmt.Errorf("%w: unknown game status %q", ErrValidation, status)
	}
	return s.store.ListGames(ctx, repository.GameFilter{SeasonID: seasonID, Status: status})
}

// StartGame transitions a game to live. The participating roster resets on
// the first start only.
func (s *Service) StartGame(ctx context.Context, id string) (game.Game, error) {
	g, err := s.mutateGame(ctx, id, func(g *game.Game) error {
		return g.Start()
	})
	if err != nil {
		return game.Game{}, err
	}
	metrics.RecordGameStarted()
	s.logger.Info(ctx, "game started", logger.String("game_id", id))
	return g, nil
}

// SetTeams replaces a game's participating roster after checking every team
// exists.
func (s *Service) SetTeams(ctx context.Context, id string, teamIDs []string) (game.Game, error) {
	for _, teamID := range teamIDs {
		if _, err := s.store.GetTeam(ctx, teamID); err != nil {
			return game.Game{}, err
		}
	}
	return s.mutateGame(ctx, id, func(g *game.Game) error {
		return g.SetTeams(teamIDs)
	})
}

// SetCategory stores the display configuration of one category slot.
func (s *Service) SetCategory(ctx context.Context, id string, set, category int, cfg game.CategoryConfig) (game.Game, error) {
	if cfg.Name == "" {
		return game.Game{}, fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}
	switch cfg.Kind {
	case game.CategoryText, game.CategoryImage, game.CategoryAudio, game.CategoryVideo:
	case "":
		cfg.Kind = game.CategoryText
	default:
		return game.Game{}, fmt.Errorf("%w: unknown category kind %q", ErrValidation, cfg.Kind)
	}
	if category < 0 || category >= stage.CategoriesPerSet {
		return game.Game{}, fmt.Errorf("%w: category index out of range", ErrValidation)
	}
	return s.mutateGame(ctx, id, func(g *game.Game) error {
		if set < 0 || set >= stage.SetCount(g.HasBonusRound) {
			return fmt.Errorf("%w: set index out of range", ErrValidation)
		}
		return g.SetCategory(set, category, cfg)
	})
}

// AdvanceStage moves a live game to the next question.
func (s *Service) AdvanceStage(ctx context.Context, id string) (StageUpdate, error) {
	var update StageUpdate
	g, err := s.mutateGame(ctx, id, func(g *game.Game) error {
		next, crossed, err := g.AdvanceStage()
		if err != nil {
			return err
		}
		update = StageUpdate{
			Stage:              next,
			CrossedSetBoundary: crossed,
			GameOver:           next.GameOver(g.HasBonusRound),
		}
		return nil
	})
	if err != nil {
		return StageUpdate{}, err
	}
	metrics.RecordStageAdvance()
	s.logger.Debug(ctx, "stage advanced",
		logger.String("game_id", g.ID),
		logger.String("stage", update.Stage.Key()),
		logger.Bool("crossed_set_boundary", update.CrossedSetBoundary),
	)
	return update, nil
}

// RetreatStage moves a live game back one question, clamping at the start.
func (s *Service) RetreatStage(ctx context.Context, id string) (StageUpdate, error) {
	var update StageUpdate
	_, err := s.mutateGame(ctx, id, func(g *game.Game) error {
		next, err := g.RetreatStage()
		if err != nil {
			return err
		}
		update = StageUpdate{Stage: next, GameOver: next.GameOver(g.HasBonusRound)}
		return nil
	})
	if err != nil {
		return StageUpdate{}, err
	}
	metrics.RecordStageRetreat()
	return update, nil
}

// RecordResult writes one question outcome into a live game's ledger. The
// coordinate defaults to the game's current stage, and every credited team
// must be on the participating roster.
func (s *Service) RecordResult(ctx context.Context, id string, p RecordResultParams) (game.QuestionResult, error) {
	if p.Points != nil && *p.Points < 1 {
		return game.QuestionResult{}, fmt.Errorf("%w: points must be at least 1", ErrValidation)
	}
	var entry game.QuestionResult
	var revised bool
	_, err := s.mutateGame(ctx, id, func(g *game.Game) error {
		at := g.Stage
		if p.Stage != nil {
			at = *p.Stage
		}
		if !at.Valid(g.HasBonusRound) {
			return fmt.Errorf("%w: stage %s outside the question grid", ErrValidation, at.Key())
		}
		for _, teamID := range p.TeamIDs {
			if !g.HasTeam(teamID) {
				return fmt.Errorf("%w: team %s is not participating", ErrValidation, teamID)
			}
		}
		_, revised = g.ResultAt(at)
		var err error
		entry, err = g.RecordResult(at, p.TeamIDs, p.Points)
		return err
	})
	if err != nil {
		return game.QuestionResult{}, err
	}
	if revised {
		metrics.RecordResultRevised()
	} else {
		metrics.RecordResultRecorded()
	}
	s.logger.Debug(ctx, "result recorded",
		logger.String("game_id", id),
		logger.String("stage", entry.Stage.Key()),
		logger.Int("points", entry.Points),
		logger.Int("teams", len(entry.TeamIDs)),
	)
	return entry, nil
}

// AddAdjustment appends a manual point correction to a live game.
func (s *Service) AddAdjustment(ctx context.Context, id string, p AdjustmentParams) (game.ManualAdjustment, error) {
	if p.Points == 0 {
		return game.ManualAdjustment{}, fmt.Errorf("%w: adjustment must not be zero", ErrValidation)
	}
	adj := game.ManualAdjustment{
		ID:        s.newID(),
		TeamID:    p.TeamID,
		Points:    p.Points,
		SetIndex:  p.SetIndex,
		Reason:    p.Reason,
		CreatedAt: s.now(),
	}
	_, err := s.mutateGame(ctx, id, func(g *game.Game) error {
		if !g.HasTeam(p.TeamID) {
			return fmt.Errorf("%w: team %s is not participating", ErrValidation, p.TeamID)
		}
		if p.SetIndex < 0 || p.SetIndex >= stage.SetCount(g.HasBonusRound) {
			return fmt.Errorf("%w: set index out of range", ErrValidation)
		}
		return g.AddAdjustment(adj)
	})
	if err != nil {
		return game.ManualAdjustment{}, err
	}
	metrics.RecordAdjustmentApplied()
	s.logger.Info(ctx, "adjustment applied",
		logger.String("game_id", id),
		logger.String("team_id", adj.TeamID),
		logger.Int("points", adj.Points),
		logger.Int("set", adj.SetIndex),
	)
	return adj, nil
}

// SetBonusRound enables or disables the bonus set. Disabling is rejected
// once the stage has reached the bonus set.
func (s *Service) SetBonusRound(ctx context.Context, id string, enabled bool) (game.Game, error) {
	return s.mutateGame(ctx, id, func(g *game.Game) error {
		if enabled {
			return g.EnableBonusRound()
		}
		return g.DisableBonusRound()
	})
}

// ArchiveGame closes a live game exactly once, attaches feedback, and hands
// the final scoreboard to the export pipeline. Export is best effort: a
// full queue is logged and counted, never surfaced to the caller.
func (s *Service) ArchiveGame(ctx context.Context, id string, feedback []game.Feedback) (game.Game, error) {
	for _, fb := range feedback {
		if fb.Rating < minRating || fb.Rating > maxRating {
			return game.Game{}, fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, minRating, maxRating)
		}
	}
	g, err := s.mutateGame(ctx, id, func(g *game.Game) error {
		return g.Archive(feedback)
	})
	if err != nil {
		return game.Game{}, err
	}
	metrics.RecordGameArchived()
	s.logger.Info(ctx, "game archived", logger.String("game_id", id))

	board, err := s.Scoreboard(ctx, id)
	if err != nil {
		s.logger.Warn(ctx, "scoreboard for export failed", logger.String("game_id", id), logger.Error(err))
		return g, nil
	}
	rows := make([]queue.Row, 0, len(board.Rows))
	for _, row := range board.Rows {
		rows = append(rows, queue.Row{
			TeamID:   row.TeamID,
			TeamName: row.TeamName,
			Score:    row.Score,
			Rank:     row.Rank,
		})
	}
	job := queue.Job{Game: g, Rows: rows, EnqueuedAt: s.now()}
	if !s.queue.Enqueue(ctx, job) {
		s.logger.Warn(ctx, "export queue full, dropping export", logger.String("game_id", id))
	}
	return g, nil
}
