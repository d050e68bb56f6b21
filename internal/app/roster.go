package service

import (
	"context"
	"fmt"

	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/pkg/logger"
)

// CreateTeam stores a new team.
func (s *Service) CreateTeam(ctx context.Context, name string, members []string) (game.Team, error) {
	if err := s.ready(); err != nil {
		return game.Team{}, err
	}
	if name == "" {
		return game.Team{}, fmt.Errorf("%w: team name must not be empty", ErrValidation)
	}
	if members == nil {
		members = []string{}
	}
	t := game.Team{ID: s.newID(), Name: name, Members: members}
	if err := s.store.PutTeam(ctx, t); err != nil {
		return game.Team{}, err
	}
	s.logger.Info(ctx, "team created", logger.String("team_id", t.ID), logger.String("name", t.Name))
	return t, nil
}

// ListTeams returns all teams, archived ones included.
func (s *Service) ListTeams(ctx context.Context) ([]game.Team, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.ListTeams(ctx)
}

// ArchiveTeam flags a team as archived. The team drops out of active
// selection pools but keeps every historical score and standing.
func (s *Service) ArchiveTeam(ctx context.Context, id string) (game.Team, error) {
	if err := s.ready(); err != nil {
		return game.Team{}, err
	}
	t, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return game.Team{}, err
	}
	t.Archived = true
	if err := s.store.PutTeam(ctx, t); err != nil {
		return game.Team{}, err
	}
	s.logger.Info(ctx, "team archived", logger.String("team_id", id))
	return t, nil
}

// CreateHost stores a new host, optionally affiliated with a team.
func (s *Service) CreateHost(ctx context.Context, name, teamID string) (game.Host, error) {
	if err := s.ready(); err != nil {
		return game.Host{}, err
	}
	if name == "" {
		return game.Host{}, fmt.Errorf("%w: host name must not be empty", ErrValidation)
	}
	if teamID != "" {
		if _, err := s.store.GetTeam(ctx, teamID); err != nil {
			return game.Host{}, err
		}
	}
	h := game.Host{ID: s.newID(), Name: name, TeamID: teamID}
	if err := s.store.PutHost(ctx, h); err != nil {
		return game.Host{}, err
	}
	s.logger.Info(ctx, "host created", logger.String("host_id", h.ID), logger.String("name", h.Name))
	return h, nil
}

// ListHosts returns all hosts.
func (s *Service) ListHosts(ctx context.Context) ([]game.Host, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.ListHosts(ctx)
}

// CreateSeason stores a new season. The store keeps at most one season
// active: creating an active one deactivates the previous.
func (s *Service) CreateSeason(ctx context.Context, name string, active bool) (game.Season, error) {
	if err := s.ready(); err != nil {
		return game.Season{}, err
	}
	if name == "" {
		return game.Season{}, fmt.Errorf("%w: season name must not be empty", ErrValidation)
	}
	season := game.Season{ID: s.newID(), Name: name, Active: active}
	if err := s.store.CreateSeason(ctx, season); err != nil {
		return game.Season{}, err
	}
	s.logger.Info(ctx, "season created",
		logger.String("season_id", season.ID),
		logger.String("name", season.Name),
		logger.Bool("active", season.Active),
	)
	return season, nil
}

// ListSeasons returns all seasons.
func (s *Service) ListSeasons(ctx context.Context) ([]game.Season, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.ListSeasons(ctx)
}
