package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/quizroyalty/scorekeep/internal/gamesim"
)

// Default configuration constants.
const (
	defaultNumGames   = 10
	defaultNumTeams   = 8
	defaultSeed       = 1
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numGames = flag.Int("games", defaultNumGames, "Number of games to play")
		numTeams = flag.Int("teams", defaultNumTeams, "Size of the team pool")
		bonus    = flag.Bool("bonus", false, "Enable the bonus round on played games")
		seed     = flag.Int64("seed", defaultSeed, "Seed for deterministic playback")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile  = flag.String("log", "", "Log file for simulation output (default: gamesim_TIMESTAMP.log)")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		gamesim.ShowHelp()
		return
	}

	if err := gamesim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &gamesim.Config{
		BaseURL:  *baseURL,
		NumGames: *numGames,
		NumTeams: *numTeams,
		Bonus:    *bonus,
		Seed:     *seed,
		Timeout:  *timeout,
		LogFile:  *logFile,
		Verbose:  *verbose,
	}

	if err := gamesim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
