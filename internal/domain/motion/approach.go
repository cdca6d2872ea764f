// Package motion advances element live fields toward their mode targets.
package motion

import (
	"cogentcore.org/core/math32"
)

// Smoothing selects how a rate and a time step become an approach fraction.
type Smoothing uint8

const (
	// SmoothClamped moves clamp(rate*dt, 0, 1) of the remaining distance.
	SmoothClamped Smoothing = iota
	// SmoothExponential moves 1-e^(-rate*dt) of the remaining distance.
	SmoothExponential
)

func (s Smoothing) String() string {
	if s == SmoothExponential {
		return "exponential"
	}
	return "clamped"
}

// ParseSmoothing maps a config name to a policy. Unknown names are clamped.
func ParseSmoothing(name string) Smoothing {
	if name == "exponential" {
		return SmoothExponential
	}
	return SmoothClamped
}

// Fraction is the share of the remaining distance covered in dt.
// It is always in [0, 1].
func (s Smoothing) Fraction(rate, dt float32) float32 {
	if s == SmoothExponential {
		if rate*dt <= 0 {
			return 0
		}
		return 1 - math32.Exp(-rate*dt)
	}
	return math32.Clamp(rate*dt, 0, 1)
}

// Approach moves a toward b by clamp(rate*dt, 0, 1) of the gap.
func Approach(a, b, rate, dt float32) float32 {
	return a + (b-a)*SmoothClamped.Fraction(rate, dt)
}

// ApproachExp moves a toward b by 1-e^(-rate*dt) of the gap.
func ApproachExp(a, b, rate, dt float32) float32 {
	return a + (b-a)*SmoothExponential.Fraction(rate, dt)
}

// ApproachVec3 moves a toward b by fraction f.
func ApproachVec3(a, b math32.Vector3, f float32) math32.Vector3 {
	return a.Add(b.Sub(a).MulScalar(f))
}
