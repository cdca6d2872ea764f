package motion

import (
	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
)

// Default rates, per second.
const (
	DefaultPositionRate = 3
	DefaultRotationRate = 4
	DefaultTumbleRate   = 1.2
)

var (
	axisX    = math32.Vec3(1, 0, 0)
	axisY    = math32.Vec3(0, 1, 0)
	identity = math32.NewQuat(0, 0, 0, 1)
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRates sets the position, rotation and tumble rates.
func WithRates(position, rotation, tumble float32) Option {
	return func(e *Engine) {
		if position > 0 {
			e.positionRate = position
		}
		if rotation > 0 {
			e.rotationRate = rotation
		}
		if tumble >= 0 {
			e.tumbleRate = tumble
		}
	}
}

// WithSmoothing sets the approach law.
func WithSmoothing(s Smoothing) Option {
	return func(e *Engine) {
		e.smoothing = s
	}
}

// frame is what a rotation rule sees of the current step.
type frame struct {
	dt     float32
	camera math32.Vector3
	// rot is the rotation approach fraction for dt.
	rot float32
}

type rotationRule func(e *Engine, el *model.Element, f frame)

// rules is indexed by mode then kind; every cell is set.
var rules = [2][3]rotationRule{
	model.ModeAssembled: {
		model.KindOrnament: settle,
		model.KindLight:    settle,
		model.KindPhoto:    faceOutward,
	},
	model.ModeUnleashed: {
		model.KindOrnament: tumble,
		model.KindLight:    tumble,
		model.KindPhoto:    billboard,
	},
}

// Engine moves every element toward the target of the global mode.
// It keeps no per-element state beyond the live fields themselves.
type Engine struct {
	positionRate float32
	rotationRate float32
	tumbleRate   float32
	smoothing    Smoothing
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		positionRate: DefaultPositionRate,
		rotationRate: DefaultRotationRate,
		tumbleRate:   DefaultTumbleRate,
		smoothing:    SmoothClamped,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Smoothing reports the approach law in use.
func (e *Engine) Smoothing() Smoothing { return e.smoothing }

// Step advances all elements by dt seconds. camera is the world position of
// the viewpoint, used by billboarding photos.
func (e *Engine) Step(dt float32, mode model.Mode, camera math32.Vector3, elements []model.Element) {
	if dt <= 0 {
		return
	}
	pos := e.smoothing.Fraction(e.positionRate, dt)
	f := frame{dt: dt, camera: camera, rot: e.smoothing.Fraction(e.rotationRate, dt)}
	row := &rules[mode]

	for i := range elements {
		el := &elements[i]
		el.LivePosition = ApproachVec3(el.LivePosition, el.Target(mode), pos)
		row[el.Kind](e, el, f)
	}
}

// settle eases the orientation back to identity.
func settle(_ *Engine, el *model.Element, f frame) {
	el.LiveRotation.Slerp(identity, f.rot)
}

// faceOutward eases a photo back to its precomputed outward orientation.
func faceOutward(_ *Engine, el *model.Element, f frame) {
	el.LiveRotation.Slerp(el.AssembledRotation, f.rot)
}

// tumble spins about the element's hint axis; the angle accumulates.
func tumble(e *Engine, el *model.Element, f frame) {
	axis := el.UnleashedRotation
	if axis.Length() == 0 {
		axis = axisY
	}
	spin := math32.NewQuatAxisAngle(axis.Normal(), e.tumbleRate*f.dt)
	el.LiveRotation.SetMul(spin)
	el.LiveRotation.Normalize()
}

// billboard eases a photo toward facing the camera from its live position.
func billboard(_ *Engine, el *model.Element, f frame) {
	el.LiveRotation.Slerp(FacingQuat(el.LivePosition, f.camera), f.rot)
}

// FacingQuat returns the orientation that turns +Z at from toward to:
// yaw atan2(dx, dz) about Y, then pitch -atan2(dy, horizontal) about X.
func FacingQuat(from, to math32.Vector3) math32.Quat {
	d := to.Sub(from)
	yaw := math32.Atan2(d.X, d.Z)
	pitch := -math32.Atan2(d.Y, math32.Hypot(d.X, d.Z))
	q := math32.NewQuatAxisAngle(axisY, yaw)
	return q.Mul(math32.NewQuatAxisAngle(axisX, pitch))
}
