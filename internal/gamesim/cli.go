package gamesim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/quizroyalty/scorekeep/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "gamesim_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Scorekeep Season Simulator
==========================

Plays complete trivia games against a running scorekeep server and
verifies the served scoreboards and standings against a local
recomputation of the scoring rules.

Usage:
  go run cmd/gamesim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -games int
        Number of games to play (default 10)
  -teams int
        Size of the team pool (default 8)
  -bonus
        Enable the bonus round on played games
  -seed int
        Seed for deterministic playback (default 1)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for simulation output (default: gamesim_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate a short season with default settings
  go run cmd/gamesim/main.go

  # A longer season with bonus rounds against a remote server
  go run cmd/gamesim/main.go -games 50 -teams 12 -bonus -url http://localhost:8080

  # Replay the exact same season
  go run cmd/gamesim/main.go -seed 42
`)
}
