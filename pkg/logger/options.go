package logger

import (
	"io"
	"log/slog"
)

// settings holds Init-time configuration.
type settings struct {
	level  slog.Level
	output io.Writer
}

// Option configures the global logger at Init time.
type Option func(*settings)

// WithLevel sets the initial logging level by name
// (debug, info, warn/warning, error). Unknown names keep the default.
func WithLevel(name string) Option {
	return func(s *settings) {
		if lvl, err := parseLevel(name); err == nil {
			s.level = lvl
		}
	}
}

// WithOutput redirects log output. Tests use this to capture entries.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}
