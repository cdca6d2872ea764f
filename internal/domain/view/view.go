// Package view steps the camera orbit from the gesture signal.
package view

import (
	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/motion"
)

// Default camera parameters.
const (
	DefaultAzimuthRange      = math32.Pi / 2
	DefaultPolarRange        = 0.6
	DefaultMinPolar          = 0.35
	DefaultMaxPolar          = 2.6
	DefaultOrbitRate         = 2
	DefaultAutoRotateSpeed   = 0.3
	DefaultDistanceRate      = 2
	DefaultDistanceAssembled = 30
	DefaultDistanceUnleashed = 46
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithRanges sets how far a hand at the image edge swings the camera.
func WithRanges(azimuth, polar float32) Option {
	return func(c *Controller) {
		c.azimuthRange = azimuth
		c.polarRange = polar
	}
}

// WithPolarLimits bounds the polar angle, measured from +Y.
func WithPolarLimits(minPolar, maxPolar float32) Option {
	return func(c *Controller) {
		if minPolar > 0 && maxPolar < math32.Pi && minPolar < maxPolar {
			c.minPolar = minPolar
			c.maxPolar = maxPolar
		}
	}
}

// WithRates sets the orbit approach rate, the idle spin in rad/s and the
// distance approach rate.
func WithRates(orbit, autoRotate, distance float32) Option {
	return func(c *Controller) {
		if orbit > 0 {
			c.orbitRate = orbit
		}
		c.autoRotate = autoRotate
		if distance > 0 {
			c.distanceRate = distance
		}
	}
}

// WithDistances sets the camera distance for each mode.
func WithDistances(assembled, unleashed float32) Option {
	return func(c *Controller) {
		if assembled > 0 && unleashed > 0 {
			c.distance[model.ModeAssembled] = assembled
			c.distance[model.ModeUnleashed] = unleashed
		}
	}
}

// WithSmoothing sets the approach law.
func WithSmoothing(s motion.Smoothing) Option {
	return func(c *Controller) {
		c.smoothing = s
	}
}

// Controller computes the next ViewState. It holds configuration only.
type Controller struct {
	azimuthRange float32
	polarRange   float32
	minPolar     float32
	maxPolar     float32
	orbitRate    float32
	autoRotate   float32
	distanceRate float32
	distance     [2]float32
	smoothing    motion.Smoothing
}

// NewController creates a controller with configuration options.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		azimuthRange: DefaultAzimuthRange,
		polarRange:   DefaultPolarRange,
		minPolar:     DefaultMinPolar,
		maxPolar:     DefaultMaxPolar,
		orbitRate:    DefaultOrbitRate,
		autoRotate:   DefaultAutoRotateSpeed,
		distanceRate: DefaultDistanceRate,
		distance:     [2]float32{DefaultDistanceAssembled, DefaultDistanceUnleashed},
		smoothing:    motion.SmoothClamped,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initial is the session start view: level, facing +Z, at the assembled distance.
func (c *Controller) Initial() model.ViewState {
	return model.ViewState{Polar: math32.Pi / 2, Distance: c.distance[model.ModeAssembled]}
}

// Target returns the orbit angles a detected hand asks for.
func (c *Controller) Target(sig model.GestureSignal) (azimuth, polar float32) {
	azimuth = -sig.Position.X * c.azimuthRange
	polar = math32.Clamp(math32.Pi/2+sig.Position.Y*c.polarRange, c.minPolar, c.maxPolar)
	return azimuth, polar
}

// Step advances v by dt seconds.
func (c *Controller) Step(v model.ViewState, sig model.GestureSignal, mode model.Mode, dt float32) model.ViewState {
	if dt <= 0 {
		return v
	}

	if sig.Detected {
		az, polar := c.Target(sig)
		f := c.smoothing.Fraction(c.orbitRate, dt)
		// Take the short way round from wherever idle spin left the azimuth.
		v.Azimuth += wrapAngle(az-v.Azimuth) * f
		v.Polar += (polar - v.Polar) * f
	} else {
		v.Azimuth += c.autoRotate * dt
	}

	v.Distance += (c.distance[mode] - v.Distance) * c.smoothing.Fraction(c.distanceRate, dt)
	return v
}

// Orbit applies a user rotation. Distance is left alone.
func (c *Controller) Orbit(v model.ViewState, dAzimuth, dPolar float32) model.ViewState {
	v.Azimuth += dAzimuth
	v.Polar = math32.Clamp(v.Polar+dPolar, c.minPolar, c.maxPolar)
	return v
}

// Position returns the camera's world position orbiting the origin.
func Position(v model.ViewState) math32.Vector3 {
	sinPolar := math32.Sin(v.Polar)
	return math32.Vec3(
		v.Distance*sinPolar*math32.Sin(v.Azimuth),
		v.Distance*math32.Cos(v.Polar),
		v.Distance*sinPolar*math32.Cos(v.Azimuth),
	)
}

// wrapAngle maps a to [-π, π).
func wrapAngle(a float32) float32 {
	a = math32.Mod(a+math32.Pi, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a - math32.Pi
}
