package handsim

import (
	"time"

	"github.com/okian/evergreen/internal/domain/model"
)

// NewSample encodes hands at ts for the wire.
func NewSample(ts time.Duration, hands []model.Hand) Sample {
	s := Sample{TimestampMS: ts.Milliseconds(), Hands: make([][]Landmark, len(hands))}
	for i, h := range hands {
		s.Hands[i] = make([]Landmark, len(h))
		for j, l := range h {
			s.Hands[i][j] = Landmark{X: l.X, Y: l.Y, Z: l.Z}
		}
	}
	return s
}

// Decode turns a wire sample back into domain hands.
func (s Sample) Decode() (time.Duration, []model.Hand) {
	hands := make([]model.Hand, len(s.Hands))
	for i, h := range s.Hands {
		hands[i] = make(model.Hand, len(h))
		for j, l := range h {
			hands[i][j] = model.Landmark{X: l.X, Y: l.Y, Z: l.Z}
		}
	}
	return time.Duration(s.TimestampMS) * time.Millisecond, hands
}
