package tui

import (
	"time"

	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/handsim"
)

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithTickInterval sets how often the preview samples the hand and redraws.
func WithTickInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithScript sets the hand path used for pushed samples.
func WithScript(s *handsim.Script) Option {
	return func(m *Model) {
		if s != nil {
			m.script = s
		}
	}
}

// WithFOV sets the vertical field of view in degrees.
func WithFOV(degrees float32) Option {
	return func(m *Model) {
		if degrees > 0 && degrees < 180 {
			m.fov = math32.DegToRad(degrees)
		}
	}
}
