package model

import (
	"time"

	"cogentcore.org/core/math32"
)

// Mode is the global layout mode every element approaches.
type Mode uint8

const (
	ModeAssembled Mode = iota
	ModeUnleashed
)

func (m Mode) String() string {
	if m == ModeUnleashed {
		return "unleashed"
	}
	return "assembled"
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ModeFor selects the mode for a signal. Without a detected hand the
// previous mode holds.
func ModeFor(sig GestureSignal, prev Mode) Mode {
	if !sig.Detected {
		return prev
	}
	if sig.Open {
		return ModeUnleashed
	}
	return ModeAssembled
}

// GestureSignal is the classified state of the tracked hand.
// Open and Position are only current while Detected is true.
type GestureSignal struct {
	Detected bool
	Open     bool
	Position math32.Vector2 // each axis in [-1, 1]
}

// Landmark is one normalized hand keypoint. X and Y are in [0, 1] image space.
type Landmark struct {
	X, Y, Z float32
}

// Hand is the ordered keypoint list of one detected hand.
type Hand []Landmark

// Detection is one detector result for a video frame.
type Detection struct {
	// Fresh is false when the detector produced no new result for the frame.
	Fresh bool
	// Timestamp is the video frame time the result belongs to.
	Timestamp time.Duration
	Hands     []Hand
}

// NoResult is the detection for a skipped video frame.
func NoResult(ts time.Duration) Detection {
	return Detection{Timestamp: ts}
}

// ViewState is the camera orbit owned by the view controller.
type ViewState struct {
	Azimuth  float32
	Polar    float32
	Distance float32
}
