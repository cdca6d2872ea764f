package service

import (
	"time"

	"github.com/okian/evergreen/internal/adapters/detector"
	"github.com/okian/evergreen/internal/adapters/repository"
	"github.com/okian/evergreen/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithLogger sets a custom logger for the session.
func WithLogger(log logger.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithSource replaces the detector chosen by configuration.
func WithSource(src detector.Source) Option {
	return func(s *Session) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock sets the time source for frame deltas and clock-derived seeds.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLoops controls whether Start runs the frame loop. Without it frames
// advance only through Advance.
func WithLoops(enabled bool) Option {
	return func(s *Session) {
		s.loops = enabled
	}
}
