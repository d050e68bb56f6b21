// Package gamesim drives a running scorekeep server through complete
// seasons: it creates teams and games, plays every question in the
// stage grid with randomized results, archives, and then verifies the
// served scoreboards and standings against a local recomputation.
package gamesim

import (
	"sync/atomic"
	"time"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL  string        // Base URL of the service
	NumGames int           // Number of games to play
	NumTeams int           // Size of the team pool
	Bonus    bool          // Enable the bonus round on played games
	Seed     int64         // Seed for deterministic playback
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for simulation output
	Verbose  bool          // Enable verbose logging
}

// Team mirrors the server's team resource.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Season mirrors the server's season resource.
type Season struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Host mirrors the server's host resource.
type Host struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Game carries the fields of the game resource the simulator reads.
type Game struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// StageView is a coordinate in the question grid.
type StageView struct {
	Set      int `json:"set"`
	Category int `json:"category"`
	Question int `json:"question"`
}

// StageUpdate is the server's response to an advance or retreat.
type StageUpdate struct {
	Stage              StageView `json:"stage"`
	CrossedSetBoundary bool      `json:"crossedSetBoundary"`
	GameOver           bool      `json:"gameOver"`
}

// ScoreboardRow is one served scoreboard line.
type ScoreboardRow struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
	PerSet   []int  `json:"perSet"`
}

// Scoreboard is the served scoreboard for one game.
type Scoreboard struct {
	GameID   string          `json:"gameId"`
	Title    string          `json:"title"`
	Status   string          `json:"status"`
	GameOver bool            `json:"gameOver"`
	Sets     int             `json:"sets"`
	Rows     []ScoreboardRow `json:"rows"`
}

// Standing is one served season standings row.
type Standing struct {
	TeamID      string `json:"teamId"`
	TeamName    string `json:"teamName"`
	Points      int    `json:"points"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
}

// Stats holds simulation statistics. Counter fields are updated from
// concurrent game runners.
type Stats struct {
	GamesPlayed        atomic.Int64
	ResultsRecorded    atomic.Int64
	AdjustmentsApplied atomic.Int64
	GamesVerified      atomic.Int64
	Mismatches         atomic.Int64

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
