// Package detector provides hand detector sources for the detection loop.
// A Source is both the video clock and the detector for that clock.
package detector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/evergreen/internal/domain/model"
)

// Sentinel errors for detector sources.
var (
	ErrDetectorUnavailable = errors.New("detector unavailable")
	ErrUnknownDetector     = errors.New("unknown detector")
)

// Names accepted by New.
const (
	NameSynthetic = "synthetic"
	NamePush      = "push"
	NameNone      = "none"
)

// Source is a hand detector together with the video frames it runs on.
type Source interface {
	// Init prepares the detector. It must complete before the first Detect.
	Init(ctx context.Context) error
	// Frame returns the current video frame timestamp.
	Frame(ctx context.Context) (time.Duration, bool)
	// Detect runs detection on the frame at ts.
	Detect(ctx context.Context, ts time.Duration) (model.Detection, error)
	// Name identifies the source in logs and stats.
	Name() string
}

// New builds a source by name.
func New(name string, opts ...SyntheticOption) (Source, error) {
	switch name {
	case NameSynthetic:
		return NewSynthetic(opts...), nil
	case NamePush:
		return NewPush(), nil
	case NameNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, name)
	}
}

// None never initializes. Sessions using it stay in idle mode.
type None struct{}

// Init implements Source.
func (None) Init(context.Context) error {
	return fmt.Errorf("%w: detection disabled", ErrDetectorUnavailable)
}

// Frame implements Source.
func (None) Frame(context.Context) (time.Duration, bool) { return 0, false }

// Detect implements Source.
func (None) Detect(_ context.Context, ts time.Duration) (model.Detection, error) {
	return model.NoResult(ts), nil
}

// Name implements Source.
func (None) Name() string { return NameNone }
