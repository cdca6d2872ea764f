package detector

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/handsim"
)

// Synthetic defaults.
const (
	defaultVideoFPS  = 24
	defaultInitDelay = 50 * time.Millisecond
)

// SyntheticOption applies a configuration option to Synthetic.
type SyntheticOption func(*Synthetic)

// WithVideoFPS sets the frame rate the clock is quantized to.
func WithVideoFPS(fps int) SyntheticOption {
	return func(s *Synthetic) {
		if fps > 0 {
			s.frame = time.Second / time.Duration(fps)
		}
	}
}

// WithInitDelay sets how long Init pretends to load the model.
func WithInitDelay(d time.Duration) SyntheticOption {
	return func(s *Synthetic) {
		if d >= 0 {
			s.initDelay = d
		}
	}
}

// WithScript sets the hand script.
func WithScript(script *handsim.Script) SyntheticOption {
	return func(s *Synthetic) {
		if script != nil {
			s.script = script
		}
	}
}

// WithClock sets the wall clock. Tests use it to control time.
func WithClock(now func() time.Time) SyntheticOption {
	return func(s *Synthetic) {
		if now != nil {
			s.now = now
		}
	}
}

// Synthetic plays a scripted hand against a simulated video stream.
// Its clock advances in whole video frames, so polling faster than the
// video rate sees repeated timestamps.
type Synthetic struct {
	script    *handsim.Script
	frame     time.Duration
	initDelay time.Duration
	now       func() time.Time
	start     time.Time
}

// NewSynthetic creates a synthetic source with configuration options.
func NewSynthetic(opts ...SyntheticOption) *Synthetic {
	s := &Synthetic{
		script:    handsim.NewScript(),
		frame:     time.Second / defaultVideoFPS,
		initDelay: defaultInitDelay,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init implements Source. The video stream starts when Init completes.
func (s *Synthetic) Init(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrDetectorUnavailable, ctx.Err())
	case <-time.After(s.initDelay):
	}
	s.start = s.now()
	return nil
}

// Name implements Source.
func (s *Synthetic) Name() string { return NameSynthetic }

// Frame implements Source.
func (s *Synthetic) Frame(context.Context) (time.Duration, bool) {
	if s.start.IsZero() {
		return 0, false
	}
	elapsed := s.now().Sub(s.start)
	return elapsed - elapsed%s.frame, true
}

// Detect implements Source.
func (s *Synthetic) Detect(_ context.Context, ts time.Duration) (model.Detection, error) {
	return model.Detection{Fresh: true, Timestamp: ts, Hands: s.script.Hands(ts)}, nil
}
