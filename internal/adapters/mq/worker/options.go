package worker

import (
	"time"

	"github.com/okian/evergreen/pkg/logger"
)

// Option applies a configuration option to the DetectionWorker.
type Option func(*DetectionWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *DetectionWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *DetectionWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithInterval sets the polling period.
func WithInterval(d time.Duration) Option {
	return func(w *DetectionWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}
