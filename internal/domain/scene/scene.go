// Package scene combines the motion engine and the view controller into one
// simulation step driven by an external frame loop.
package scene

import (
	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/motion"
	"github.com/okian/evergreen/internal/domain/view"
)

// DefaultMaxDelta caps one step, in seconds.
const DefaultMaxDelta = 0.1

// Frame is the full simulation state between steps.
type Frame struct {
	Mode     model.Mode
	Signal   model.GestureSignal
	View     model.ViewState
	Elements []model.Element
}

// Camera returns the world position of the frame's viewpoint.
func (f Frame) Camera() math32.Vector3 { return view.Position(f.View) }

// Option applies a configuration option to the Stepper.
type Option func(*Stepper)

// WithMaxDelta caps the time a single step may simulate.
func WithMaxDelta(seconds float32) Option {
	return func(s *Stepper) {
		if seconds > 0 {
			s.maxDelta = seconds
		}
	}
}

// Stepper advances frames. It holds no simulation state of its own.
type Stepper struct {
	engine   *motion.Engine
	view     *view.Controller
	maxDelta float32
}

// NewStepper creates a stepper. Nil collaborators get defaults.
func NewStepper(engine *motion.Engine, vc *view.Controller, opts ...Option) *Stepper {
	if engine == nil {
		engine = motion.NewEngine()
	}
	if vc == nil {
		vc = view.NewController()
	}
	s := &Stepper{engine: engine, view: vc, maxDelta: DefaultMaxDelta}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start returns the first frame for a freshly generated element set.
func (s *Stepper) Start(elements []model.Element) Frame {
	return Frame{Mode: model.ModeAssembled, View: s.view.Initial(), Elements: elements}
}

// Step advances f by dt seconds under sig. The mode follows sig.Open while a
// hand is detected and holds otherwise. Element live fields are updated in
// place; everything else is returned in the new frame.
func (s *Stepper) Step(dt float32, sig model.GestureSignal, f Frame) Frame {
	dt = math32.Clamp(dt, 0, s.maxDelta)

	f.Signal = sig
	f.Mode = model.ModeFor(sig, f.Mode)
	f.View = s.view.Step(f.View, sig, f.Mode, dt)
	s.engine.Step(dt, f.Mode, f.Camera(), f.Elements)
	return f
}

// Orbit applies a user rotation to the frame's view.
func (s *Stepper) Orbit(f Frame, dAzimuth, dPolar float32) Frame {
	f.View = s.view.Orbit(f.View, dAzimuth, dPolar)
	return f
}
