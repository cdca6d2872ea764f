package handsim

import (
	"math/rand"
	"time"

	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
)

// Script defaults.
const (
	defaultOpenPeriod  = 3 * time.Second
	defaultSweepPeriod = 8 * time.Second
	defaultRadius      = 0.25
	defaultJitter      = 0.004
)

// Hand proportions in normalized image units.
const (
	segment     = 0.035 // finger segment length when extended
	palmDepth   = 0.12  // wrist below the middle knuckle
	thumbReach  = 0.12  // open thumb tip offset from the middle knuckle
	closedSpan  = 0.02  // thumb to index tip when pinched
	knuckleStep = 0.035 // horizontal spacing of knuckles
)

// ScriptOption applies a configuration option to a Script.
type ScriptOption func(*Script)

// WithOpenPeriod sets how long the hand stays open or closed.
func WithOpenPeriod(d time.Duration) ScriptOption {
	return func(s *Script) {
		if d > 0 {
			s.openPeriod = d
		}
	}
}

// WithSweep sets the period and radius of the circle the hand traces.
func WithSweep(period time.Duration, radius float32) ScriptOption {
	return func(s *Script) {
		if period > 0 {
			s.sweepPeriod = period
		}
		if radius >= 0 && radius <= 0.4 {
			s.radius = radius
		}
	}
}

// WithJitter sets the per-keypoint noise amplitude.
func WithJitter(j float32) ScriptOption {
	return func(s *Script) {
		if j >= 0 {
			s.jitter = j
		}
	}
}

// WithAbsence removes the hand for gap out of every period.
func WithAbsence(period, gap time.Duration) ScriptOption {
	return func(s *Script) {
		if period > 0 && gap >= 0 && gap < period {
			s.absentPeriod = period
			s.absentGap = gap
		}
	}
}

// WithSeed sets the jitter seed.
func WithSeed(seed int64) ScriptOption {
	return func(s *Script) {
		s.seed = seed
	}
}

// Script is a scripted hand: it traces a circle and alternates between a
// closed pinch and an open spread. Output is a pure function of time.
type Script struct {
	openPeriod   time.Duration
	sweepPeriod  time.Duration
	radius       float32
	jitter       float32
	absentPeriod time.Duration
	absentGap    time.Duration
	seed         int64
}

// NewScript creates a script with configuration options.
func NewScript(opts ...ScriptOption) *Script {
	s := &Script{
		openPeriod:  defaultOpenPeriod,
		sweepPeriod: defaultSweepPeriod,
		radius:      defaultRadius,
		jitter:      defaultJitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open reports whether the hand is spread at t. The script starts closed.
func (s *Script) Open(t time.Duration) bool {
	return (t/s.openPeriod)%2 == 1
}

// Present reports whether the hand is in view at t.
func (s *Script) Present(t time.Duration) bool {
	if s.absentPeriod == 0 {
		return true
	}
	return t%s.absentPeriod >= s.absentGap
}

// Center returns the middle knuckle position at t in image space.
func (s *Script) Center(t time.Duration) (x, y float32) {
	angle := 2 * math32.Pi * float32(t%s.sweepPeriod) / float32(s.sweepPeriod)
	return 0.5 + s.radius*math32.Cos(angle), 0.5 + 0.6*s.radius*math32.Sin(angle)
}

// Hands returns the hands visible at t: one, or none during an absence.
func (s *Script) Hands(t time.Duration) []model.Hand {
	if !s.Present(t) {
		return []model.Hand{}
	}
	cx, cy := s.Center(t)
	return []model.Hand{s.hand(t, cx, cy, s.Open(t))}
}

// Pose returns one hand at the scripted position for t with the given
// openness, ignoring the open cycle and absences.
func (s *Script) Pose(t time.Duration, open bool) []model.Hand {
	cx, cy := s.Center(t)
	return []model.Hand{s.hand(t, cx, cy, open)}
}

// hand lays out 21 keypoints: wrist, then thumb, index, middle, ring and
// pinky from base to tip.
func (s *Script) hand(t time.Duration, cx, cy float32, open bool) model.Hand {
	rng := rand.New(rand.NewSource(s.seed ^ int64(t))) //nolint:gosec // noise only
	h := make(model.Hand, 21)

	h[0] = model.Landmark{X: cx, Y: cy + palmDepth}

	// Index, middle, ring, pinky: knuckle then three joints.
	for f := range 4 {
		base := model.Landmark{X: cx + float32(f-1)*knuckleStep, Y: cy + float32(f)*0.006}
		first := 5 + 4*f
		h[first] = base
		for j := 1; j <= 3; j++ {
			if open {
				h[first+j] = model.Landmark{X: base.X, Y: base.Y - float32(j)*segment}
			} else {
				// Curled toward the palm.
				h[first+j] = model.Landmark{X: base.X + 0.005*float32(j), Y: base.Y + 0.01*float32(j)}
			}
		}
	}

	// Thumb: from the wrist side toward its tip.
	var tip model.Landmark
	if open {
		tip = model.Landmark{X: cx - thumbReach, Y: cy + 0.02}
	} else {
		index := h[8]
		tip = model.Landmark{X: index.X - closedSpan*0.6, Y: index.Y + closedSpan*0.8}
	}
	root := model.Landmark{X: cx - 0.05, Y: cy + 0.09}
	for j := 1; j <= 4; j++ {
		f := float32(j) / 4
		h[j] = model.Landmark{X: root.X + (tip.X-root.X)*f, Y: root.Y + (tip.Y-root.Y)*f}
	}

	for i := range h {
		h[i].X += (rng.Float32()*2 - 1) * s.jitter
		h[i].Y += (rng.Float32()*2 - 1) * s.jitter
	}
	return h
}
