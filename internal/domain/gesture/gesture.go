// Package gesture classifies hand landmarks into a GestureSignal.
package gesture

import (
	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
)

// Hand keypoint indices.
const (
	ThumbTip  = 4
	IndexTip  = 8
	MiddleMCP = 9

	// MinLandmarks is the keypoint count of a complete hand.
	MinLandmarks = 21
)

// DefaultOpenThreshold is the thumb-to-index distance, in normalized image
// units, above which a hand is open.
const DefaultOpenThreshold = 0.08

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithOpenThreshold sets the open/closed distance threshold.
func WithOpenThreshold(d float32) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.openThreshold = d
		}
	}
}

// Classifier turns the first hand of a detection into a signal.
type Classifier struct {
	openThreshold float32
}

// NewClassifier creates a classifier with configuration options.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{openThreshold: DefaultOpenThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify maps hands to a signal. Only the first hand is consulted; a hand
// with fewer than MinLandmarks keypoints counts as no hand.
func (c *Classifier) Classify(hands []model.Hand) model.GestureSignal {
	if len(hands) == 0 || len(hands[0]) < MinLandmarks {
		return model.GestureSignal{}
	}
	h := hands[0]

	thumb, index := h[ThumbTip], h[IndexTip]
	spread := math32.Hypot(thumb.X-index.X, thumb.Y-index.Y)

	mid := h[MiddleMCP]
	return model.GestureSignal{
		Detected: true,
		Open:     spread > c.openThreshold,
		Position: math32.Vec2(normalize(mid.X), normalize(mid.Y)),
	}
}

// normalize maps [0, 1] image space to [-1, 1].
func normalize(v float32) float32 {
	return (v - 0.5) * 2
}

// Tracker holds the last emitted signal across detections.
type Tracker struct {
	classifier *Classifier
	current    model.GestureSignal
}

// NewTracker creates a tracker that starts with no hand detected.
func NewTracker(c *Classifier) *Tracker {
	if c == nil {
		c = NewClassifier()
	}
	return &Tracker{classifier: c}
}

// Update applies one detection. A detection without a new result leaves the
// signal untouched; a fresh result with zero hands clears Detected.
func (t *Tracker) Update(d model.Detection) model.GestureSignal {
	if !d.Fresh {
		return t.current
	}
	t.current = t.classifier.Classify(d.Hands)
	return t.current
}

// Signal returns the retained signal.
func (t *Tracker) Signal() model.GestureSignal { return t.current }

// Reset drops the retained signal.
func (t *Tracker) Reset() {
	t.current = model.GestureSignal{}
}
