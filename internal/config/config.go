// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath points at the SQLite database file. Empty selects the
	// in-memory store.
	DBPath string `koanf:"db_path"`

	// SyncURL is the spreadsheet sync backend endpoint. Empty disables
	// the export pipeline.
	SyncURL string `koanf:"sync_url"`

	// SyncQueueSize bounds the in-memory export queue.
	SyncQueueSize int `koanf:"sync_queue_size"`

	// SyncWorkers sets the number of export workers.
	SyncWorkers int `koanf:"sync_workers"`

	// SyncTimeoutMS caps each export request in milliseconds.
	SyncTimeoutMS int `koanf:"sync_timeout_ms"`

	// MaxScoreboardHistory caps GET /teams/{id}/history rows.
	MaxScoreboardHistory int `koanf:"max_scoreboard_history"`

	// CORSOrigins lists allowed cross-origin hosts, comma-separated.
	CORSOrigins string `koanf:"cors_origins"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		DBPath:               "",
		SyncURL:              "",
		SyncQueueSize:        1024,
		SyncWorkers:          2,
		SyncTimeoutMS:        10_000,
		MaxScoreboardHistory: 50,
		CORSOrigins:          "*",
	}
}
