package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quizroyalty/scorekeep/internal/domain/game"
	"github.com/quizroyalty/scorekeep/pkg/metrics"
)

// MemStore is the default, in-memory Store. Every read hands out a deep copy
// so no caller can reach into stored state; every write replaces the stored
// value as a whole.
type MemStore struct {
	mu      sync.RWMutex
	games   map[string]game.Game
	teams   map[string]game.Team
	hosts   map[string]game.Host
	seasons map[string]game.Season
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		games:   make(map[string]game.Game),
		teams:   make(map[string]game.Team),
		hosts:   make(map[string]game.Host),
		seasons: make(map[string]game.Season),
	}
}

// PutGame stores or replaces a game by its identifier.
func (s *MemStore) PutGame(_ context.Context, g game.Game) error {
	start := time.Now()
	s.mu.Lock()
	s.games[g.ID] = cloneGame(g)
	total := len(s.games)
	s.mu.Unlock()
	metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateStoreGamesTotal(total)
	return nil
}

// GetGame returns a normalized copy of a game.
func (s *MemStore) GetGame(_ context.Context, id string) (game.Game, error) {
	start := time.Now()
	s.mu.RLock()
	g, ok := s.games[id]
	s.mu.RUnlock()
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	if !ok {
		metrics.RecordErrorByComponent("store", "game_not_found")
		return game.Game{}, ErrGameNotFound
	}
	return game.Normalize(cloneGame(g)), nil
}

// ListGames returns games matching the filter, most recently played first.
func (s *MemStore) ListGames(_ context.Context, f GameFilter) ([]game.Game, error) {
	start := time.Now()
	s.mu.RLock()
	out := make([]game.Game, 0, len(s.games))
	for _, g := range s.games {
		if f.SeasonID != "" && g.SeasonID != f.SeasonID {
			continue
		}
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		out = append(out, game.Normalize(cloneGame(g)))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		}
		return out[i].ID < out[j].ID
	})
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return out, nil
}

// PutTeam stores or replaces a team.
func (s *MemStore) PutTeam(_ context.Context, t game.Team) error {
	s.mu.Lock()
	s.teams[t.ID] = cloneTeam(t)
	total := len(s.teams)
	s.mu.Unlock()
	metrics.UpdateStoreTeamsTotal(total)
	return nil
}

// GetTeam returns a copy of a team.
func (s *MemStore) GetTeam(_ context.Context, id string) (game.Team, error) {
	s.mu.RLock()
	t, ok := s.teams[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("store", "team_not_found")
		return game.Team{}, ErrTeamNotFound
	}
	return cloneTeam(t), nil
}

// ListTeams returns all teams ordered by name, archived ones included.
func (s *MemStore) ListTeams(_ context.Context) ([]game.Team, error) {
	s.mu.RLock()
	out := make([]game.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, cloneTeam(t))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// PutHost stores or replaces a host.
func (s *MemStore) PutHost(_ context.Context, h game.Host) error {
	s.mu.Lock()
	s.hosts[h.ID] = h
	s.mu.Unlock()
	return nil
}

// GetHost returns a host by identifier.
func (s *MemStore) GetHost(_ context.Context, id string) (game.Host, error) {
	s.mu.RLock()
	h, ok := s.hosts[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("store", "host_not_found")
		return game.Host{}, ErrHostNotFound
	}
	return h, nil
}

// ListHosts returns all hosts ordered by name.
func (s *MemStore) ListHosts(_ context.Context) ([]game.Host, error) {
	s.mu.RLock()
	out := make([]game.Host, 0, len(s.hosts))
	for _, h := range s.hosts {
		out = append(out, h)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateSeason stores a new season, deactivating any previously active one
// when the new season is active.
func (s *MemStore) CreateSeason(_ context.Context, season game.Season) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if season.Active {
		for id, existing := range s.seasons {
			if existing.Active {
				existing.Active = false
				s.seasons[id] = existing
			}
		}
	}
	s.seasons[season.ID] = season
	return nil
}

// GetSeason returns a season by identifier.
func (s *MemStore) GetSeason(_ context.Context, id string) (game.Season, error) {
	s.mu.RLock()
	season, ok := s.seasons[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("store", "season_not_found")
		return game.Season{}, ErrSeasonNotFound
	}
	return season, nil
}

// ListSeasons returns all seasons ordered by name.
func (s *MemStore) ListSeasons(_ context.Context) ([]game.Season, error) {
	s.mu.RLock()
	out := make([]game.Season, 0, len(s.seasons))
	for _, season := range s.seasons {
		out = append(out, season)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemStore) Close() error { return nil }

// cloneGame deep-copies a game so stored state never aliases caller state.
func cloneGame(g game.Game) game.Game {
	g.HostIDs = append([]string(nil), g.HostIDs...)
	g.TeamIDs = append([]string(nil), g.TeamIDs...)
	if g.Categories != nil {
		categories := make(map[string]game.CategoryConfig, len(g.Categories))
		for k, v := range g.Categories {
			categories[k] = v
		}
		g.Categories = categories
	}
	if g.Results != nil {
		results := make([]game.QuestionResult, len(g.Results))
		for i, r := range g.Results {
			r.TeamIDs = append([]string(nil), r.TeamIDs...)
			results[i] = r
		}
		g.Results = results
	}
	g.Adjustments = append([]game.ManualAdjustment(nil), g.Adjustments...)
	g.Feedback = append([]game.Feedback(nil), g.Feedback...)
	if g.CountInRoyalty != nil {
		v := *g.CountInRoyalty
		g.CountInRoyalty = &v
	}
	return g
}

func cloneTeam(t game.Team) game.Team {
	t.Members = append([]string(nil), t.Members...)
	return t
}
