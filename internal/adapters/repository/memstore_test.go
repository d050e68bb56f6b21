package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/quizroyalty/scorekeep/internal/domain/game"
)

func TestMemStore_GameRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if _, err := store.GetGame(ctx, "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}

	g := game.New("game-1", "season-1", "Pub Quiz #12")
	g.HostIDs = []string{"host-1"}
	if err := store.PutGame(ctx, g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Pub Quiz #12" || got.SeasonID != "season-1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Results == nil || got.TeamIDs == nil {
		t.Error("expected normalized collections on read")
	}
}

func TestMemStore_GameNormalizedOnRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	legacy := game.Game{ID: "game-1", LegacyHostID: "host-7"}
	if err := store.PutGame(ctx, legacy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.HostIDs) != 1 || got.HostIDs[0] != "host-7" {
		t.Errorf("expected legacy host migrated, got %v", got.HostIDs)
	}
	if got.Status != game.StatusUpcoming {
		t.Errorf("expected default status, got %q", got.Status)
	}
}

func TestMemStore_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	g := game.New("game-1", "season-1", "Pub Quiz #12")
	if err := g.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.SetTeams([]string{"team-a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.PutGame(ctx, g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := store.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.TeamIDs[0] = "mutated"
	first.Title = "mutated"

	second, err := store.GetGame(ctx, "game-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.TeamIDs[0] != "team-a" || second.Title != "Pub Quiz #12" {
		t.Error("stored game aliased caller state")
	}

	// Mutating the value put in must not leak either.
	g.Title = "changed after put"
	third, _ := store.GetGame(ctx, "game-1")
	if third.Title != "Pub Quiz #12" {
		t.Error("put game aliased caller state")
	}
}

func TestMemStore_ListGamesFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	base := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		g := game.New(fmt.Sprintf("game-%d", i), "season-1", fmt.Sprintf("night %d", i))
		g.PlayedAt = base.AddDate(0, 0, i)
		if err := store.PutGame(ctx, g); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	other := game.New("game-x", "season-2", "other season")
	other.PlayedAt = base.AddDate(0, 1, 0)
	if err := store.PutGame(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := store.ListGames(ctx, GameFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 games, got %d", len(all))
	}
	if all[0].ID != "game-x" || all[1].ID != "game-2" {
		t.Errorf("expected most recent first, got %s then %s", all[0].ID, all[1].ID)
	}

	inSeason, err := store.ListGames(ctx, GameFilter{SeasonID: "season-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inSeason) != 3 {
		t.Errorf("expected 3 games in season-1, got %d", len(inSeason))
	}

	live, err := store.ListGames(ctx, GameFilter{Status: game.StatusLive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(live) != 0 {
		t.Errorf("expected no live games, got %d", len(live))
	}
}

func TestMemStore_Teams(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if _, err := store.GetTeam(ctx, "missing"); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}

	teams := []game.Team{
		{ID: "t-2", Name: "Bravos", Members: []string{"pat", "drew"}},
		{ID: "t-1", Name: "Alphas"},
		{ID: "t-3", Name: "Alphas", Archived: true},
	}
	for _, team := range teams {
		if err := store.PutTeam(ctx, team); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := store.ListTeams(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(list))
	}
	if list[0].ID != "t-1" || list[1].ID != "t-3" || list[2].ID != "t-2" {
		t.Errorf("expected name order with id tie-break, got %v", []string{list[0].ID, list[1].ID, list[2].ID})
	}
	if !list[1].Archived {
		t.Error("expected archived team to stay listed")
	}
}

func TestMemStore_Hosts(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if _, err := store.GetHost(ctx, "missing"); !errors.Is(err, ErrHostNotFound) {
		t.Fatalf("expected ErrHostNotFound, got %v", err)
	}

	if err := store.PutHost(ctx, game.Host{ID: "h-1", Name: "Sam", TeamID: "t-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h, err := store.GetHost(ctx, "h-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Name != "Sam" || h.TeamID != "t-1" {
		t.Errorf("round trip mismatch: %+v", h)
	}
}

func TestMemStore_SeasonsSingleActive(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	if _, err := store.GetSeason(ctx, "missing"); !errors.Is(err, ErrSeasonNotFound) {
		t.Fatalf("expected ErrSeasonNotFound, got %v", err)
	}

	if err := store.CreateSeason(ctx, game.Season{ID: "s-1", Name: "Winter", Active: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.CreateSeason(ctx, game.Season{ID: "s-2", Name: "Spring", Active: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seasons, err := store.ListSeasons(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	activeCount := 0
	for _, s := range seasons {
		if s.Active {
			activeCount++
			if s.ID != "s-2" {
				t.Errorf("expected s-2 active, got %s", s.ID)
			}
		}
	}
	if activeCount != 1 {
		t.Errorf("expected exactly one active season, got %d", activeCount)
	}

	// An inactive season leaves the current active one alone.
	if err := store.CreateSeason(ctx, game.Season{ID: "s-3", Name: "Summer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := store.GetSeason(ctx, "s-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s2.Active {
		t.Error("expected s-2 to stay active")
	}
}

func TestMemStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := fmt.Sprintf("game-%d-%d", n, j)
				g := game.New(id, "season-1", id)
				if err := store.PutGame(ctx, g); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if _, err := store.GetGame(ctx, id); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if _, err := store.ListGames(ctx, GameFilter{}); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	all, err := store.ListGames(ctx, GameFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 8*50 {
		t.Errorf("expected %d games, got %d", 8*50, len(all))
	}
}
