// Package repository defines the aggregate store interface and its
// in-memory and SQLite implementations. Games, teams, hosts, and seasons are
// stored and replaced as whole values; no implementation merges concurrent
// edits.
package repository

import (
	"context"
	"errors"

	"github.com/quizroyalty/scorekeep/internal/domain/game"
)

// GameFilter narrows ListGames. Zero fields match everything.
type GameFilter struct {
	SeasonID string
	Status   game.Status
}

// Store provides read/write access to the persisted aggregates. Reads return
// normalized, caller-owned copies; writes replace the stored value as a
// whole.
type Store interface {
	// PutGame stores or replaces a game by its identifier.
	PutGame(ctx context.Context, g game.Game) error
	// GetGame returns a game by identifier.
	// Returns ErrGameNotFound if the game is unknown.
	GetGame(ctx context.Context, id string) (game.Game, error)
	// ListGames returns games matching the filter, most recently played
	// first.
	ListGames(ctx context.Context, f GameFilter) ([]game.Game, error)

	// PutTeam stores or replaces a team.
	PutTeam(ctx context.Context, t game.Team) error
	// GetTeam returns a team by identifier.
	// Returns ErrTeamNotFound if the team is unknown.
	GetTeam(ctx context.Context, id string) (game.Team, error)
	// ListTeams returns all teams ordered by name, archived ones included.
	ListTeams(ctx context.Context) ([]game.Team, error)

	// PutHost stores or replaces a host.
	PutHost(ctx context.Context, h game.Host) error
	// GetHost returns a host by identifier.
	// Returns ErrHostNotFound if the host is unknown.
	GetHost(ctx context.Context, id string) (game.Host, error)
	// ListHosts returns all hosts ordered by name.
	ListHosts(ctx context.Context) ([]game.Host, error)

	// CreateSeason stores a new season. Creating an active season
	// deactivates any previously active one, keeping at most one season
	// active at a time.
	CreateSeason(ctx context.Context, s game.Season) error
	// GetSeason returns a season by identifier.
	// Returns ErrSeasonNotFound if the season is unknown.
	GetSeason(ctx context.Context, id string) (game.Season, error)
	// ListSeasons returns all seasons ordered by name.
	ListSeasons(ctx context.Context) ([]game.Season, error)

	// Close releases the store's resources.
	Close() error
}

// IsNotFound reports whether an error is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrHostNotFound) ||
		errors.Is(err, ErrSeasonNotFound)
}
