package repository

import (
	"time"

	"github.com/quizroyalty/scorekeep/pkg/logger"
)

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) SQLiteOption {
	return func(s *SQLiteStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database before
// failing a statement.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(s *SQLiteStore) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithSQLiteLogger sets the store's logger.
func WithSQLiteLogger(log logger.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if log != nil {
			s.log = log
		}
	}
}
