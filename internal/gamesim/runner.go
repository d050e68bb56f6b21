package gamesim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quizroyalty/scorekeep/pkg/logger"
)

// Run plays a complete simulated season against a running server and
// verifies the results it serves back.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.NumGames < 1 {
		return fmt.Errorf("at least one game required, got %d", cfg.NumGames)
	}
	if cfg.NumTeams < minTeamsPerGame {
		return fmt.Errorf("at least %d teams required, got %d", minTeamsPerGame, cfg.NumTeams)
	}

	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("gamesim")

	log.Info(ctx, "starting season simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("games", cfg.NumGames),
		logger.Int("teams", cfg.NumTeams),
		logger.Bool("bonus", cfg.Bonus),
		logger.Int("seed", int(cfg.Seed)),
		logger.String("timeout", cfg.Timeout.String()))

	api := newClient(cfg.BaseURL, cfg.Timeout)

	if err := api.health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Season fixtures.
	season, err := api.createSeason(ctx, fmt.Sprintf("Simulated Season %d", time.Now().Unix()))
	if err != nil {
		return fmt.Errorf("create season: %w", err)
	}
	host, err := api.createHost(ctx, "Sim Host")
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	pool := make([]Team, cfg.NumTeams)
	for i := range pool {
		team, err := api.createTeam(ctx, fmt.Sprintf("Sim Team %02d", i+1))
		if err != nil {
			return fmt.Errorf("create team %d: %w", i+1, err)
		}
		pool[i] = team
	}

	// Pre-roll every game so the seed fully determines the season.
	rng := rand.New(rand.NewSource(cfg.Seed))
	scripts := buildScripts(rng, pool, cfg)

	// One goroutine per game. Games never share a writer, so this also
	// exercises the server's per-game serialization under load.
	group, groupCtx := errgroup.WithContext(ctx)
	for _, script := range scripts {
		group.Go(func() error {
			return playGame(groupCtx, api, season.ID, host.ID, script, stats, cfg.Verbose)
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("season playback failed: %w", err)
	}

	// Season-level verification across all archived games.
	table, err := api.standings(ctx, season.ID)
	if err != nil {
		return fmt.Errorf("fetch standings: %w", err)
	}
	if err := verifyStandings(scripts, table); err != nil {
		stats.Mismatches.Add(1)
		return fmt.Errorf("standings verification failed: %w", err)
	}
	log.Info(ctx, "standings verified", logger.Int("teams", len(table)))

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return nil
}

// playGame plays one scripted game end to end: create, start, roster,
// every question through the grid, adjustments, archive, and a
// scoreboard check against the script's expected totals.
func playGame(ctx context.Context, api *client, seasonID, hostID string, s gameScript, stats *Stats, verbose bool) error {
	log := logger.Get().Named("gamesim")

	g, err := api.createGame(ctx, seasonID, hostID, s.title)
	if err != nil {
		return fmt.Errorf("%s: create: %w", s.title, err)
	}
	if err := api.startGame(ctx, g.ID); err != nil {
		return fmt.Errorf("%s: start: %w", s.title, err)
	}
	if err := api.setTeams(ctx, g.ID, s.teamIDs); err != nil {
		return fmt.Errorf("%s: set teams: %w", s.title, err)
	}
	if s.bonus {
		if err := api.setBonusRound(ctx, g.ID, true); err != nil {
			return fmt.Errorf("%s: enable bonus round: %w", s.title, err)
		}
	}

	// Walk the whole grid: record at the current coordinate, advance.
	var last StageUpdate
	for i, q := range s.questions {
		if err := api.recordResult(ctx, g.ID, q.winners, q.points); err != nil {
			return fmt.Errorf("%s: record question %d: %w", s.title, i+1, err)
		}
		stats.ResultsRecorded.Add(1)

		last, err = api.advance(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("%s: advance after question %d: %w", s.title, i+1, err)
		}
	}
	if !last.GameOver {
		return fmt.Errorf("%s: played %d questions but stage %d-%d-%d is not past the grid",
			s.title, len(s.questions), last.Stage.Set, last.Stage.Category, last.Stage.Question)
	}

	for _, adj := range s.adjustments {
		if err := api.addAdjustment(ctx, g.ID, adj.teamID, adj.points, adj.setIndex, adj.reason); err != nil {
			return fmt.Errorf("%s: adjustment: %w", s.title, err)
		}
		stats.AdjustmentsApplied.Add(1)
	}

	if err := api.archiveGame(ctx, g.ID); err != nil {
		return fmt.Errorf("%s: archive: %w", s.title, err)
	}
	stats.GamesPlayed.Add(1)

	board, err := api.scoreboard(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("%s: fetch scoreboard: %w", s.title, err)
	}
	if err := verifyScoreboard(s, board); err != nil {
		stats.Mismatches.Add(1)
		return fmt.Errorf("%s: scoreboard verification failed: %w", s.title, err)
	}
	stats.GamesVerified.Add(1)

	if verbose {
		log.Info(ctx, "game verified",
			logger.String("game", s.title),
			logger.Int("teams", len(s.teamIDs)),
			logger.Int("questions", len(s.questions)),
			logger.Bool("bonus", s.bonus))
	}
	return nil
}

// displayFinalStats logs the run summary.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var gamesPerSecond float64
	if stats.Duration > 0 {
		gamesPerSecond = float64(stats.GamesPlayed.Load()) / stats.Duration.Seconds()
	}

	logger.Get().Named("gamesim").Info(ctx, "simulation completed",
		logger.Int("gamesPlayed", int(stats.GamesPlayed.Load())),
		logger.Int("resultsRecorded", int(stats.ResultsRecorded.Load())),
		logger.Int("adjustmentsApplied", int(stats.AdjustmentsApplied.Load())),
		logger.Int("gamesVerified", int(stats.GamesVerified.Load())),
		logger.Int("mismatches", int(stats.Mismatches.Load())),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("gamesPerSecond", gamesPerSecond))
}
