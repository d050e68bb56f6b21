package worker

import (
	"github.com/quizroyalty/scorekeep/pkg/logger"
)

// Option applies a configuration option to the ExportWorker.
type Option func(*ExportWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ExportWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *ExportWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
