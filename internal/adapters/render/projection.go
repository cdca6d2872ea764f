package render

import (
	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/view"
)

const nearPlane = 0.1

// Projector maps world points to screen pixels for a camera orbiting the
// origin and looking at it.
type Projector struct {
	eye     math32.Vector3
	forward math32.Vector3
	right   math32.Vector3
	up      math32.Vector3
	focal   float32
	cx, cy  float32
}

// NewProjector builds a projector for v on a width x height screen with a
// vertical field of view of fov radians.
func NewProjector(v model.ViewState, width, height int, fov float32) Projector {
	eye := view.Position(v)
	forward := eye.Negate().Normal()
	right := forward.Cross(math32.Vec3(0, 1, 0))
	if right.Length() < 1e-6 {
		right = math32.Vec3(1, 0, 0)
	}
	right = right.Normal()

	return Projector{
		eye:     eye,
		forward: forward,
		right:   right,
		up:      right.Cross(forward),
		focal:   float32(height) / 2 / math32.Tan(fov/2),
		cx:      float32(width) / 2,
		cy:      float32(height) / 2,
	}
}

// Project returns the screen position of p, its depth along the view axis,
// and whether it lies in front of the camera.
func (p Projector) Project(pt math32.Vector3) (x, y, depth float32, ok bool) {
	d := pt.Sub(p.eye)
	depth = d.Dot(p.forward)
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	x = p.cx + p.focal*d.Dot(p.right)/depth
	y = p.cy - p.focal*d.Dot(p.up)/depth
	return x, y, depth, true
}

// Size returns the on-screen size of a world length at depth.
func (p Projector) Size(length, depth float32) float32 {
	if depth < nearPlane {
		return 0
	}
	return p.focal * length / depth
}
