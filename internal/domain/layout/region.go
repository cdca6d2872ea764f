package layout

import (
	"fmt"
	"math/rand"

	"cogentcore.org/core/math32"
)

// Region is a volume unleashed targets are drawn from.
type Region interface {
	Sample(rng *rand.Rand) math32.Vector3
}

// Shell draws uniformly over directions with a radius linear in [Inner, Outer].
type Shell struct {
	Inner, Outer float32
}

// Sample returns a point on the shell. The polar angle comes from acos(2u-1)
// so mass is not biased toward the poles.
func (s Shell) Sample(rng *rand.Rand) math32.Vector3 {
	theta := rng.Float32() * 2 * math32.Pi
	phi := math32.Acos(2*rng.Float32() - 1)
	r := s.Inner + rng.Float32()*(s.Outer-s.Inner)
	sinPhi := math32.Sin(phi)
	return math32.Vec3(
		r*sinPhi*math32.Cos(theta),
		r*math32.Cos(phi),
		r*sinPhi*math32.Sin(theta),
	)
}

// Ring draws around the vertical axis between two radii, within a band of
// Height centered on y=0.
type Ring struct {
	Inner, Outer, Height float32
}

// Sample returns a point in the ring band.
func (r Ring) Sample(rng *rand.Rand) math32.Vector3 {
	angle := rng.Float32() * 2 * math32.Pi
	radius := r.Inner + rng.Float32()*(r.Outer-r.Inner)
	y := (rng.Float32() - 0.5) * r.Height
	return math32.Vec3(radius*math32.Cos(angle), y, radius*math32.Sin(angle))
}

// Scatter draws over a flat disk facing the viewer (the XY plane) with a
// shallow Depth along Z.
type Scatter struct {
	Radius, Depth float32
}

// Sample returns a point in the slab. The sqrt keeps density uniform over the disk.
func (s Scatter) Sample(rng *rand.Rand) math32.Vector3 {
	angle := rng.Float32() * 2 * math32.Pi
	radius := s.Radius * math32.Sqrt(rng.Float32())
	z := (rng.Float32() - 0.5) * s.Depth
	return math32.Vec3(radius*math32.Cos(angle), radius*math32.Sin(angle), z)
}

// Region policy names.
const (
	RegionRing    = "ring"
	RegionShell   = "shell"
	RegionScatter = "scatter"
)

// RegionByName builds a region policy from its name and extents. Ring uses
// height as its band; scatter uses outer as its radius and height as depth.
func RegionByName(name string, inner, outer, height float32) (Region, error) {
	switch name {
	case RegionRing:
		return Ring{Inner: inner, Outer: outer, Height: height}, nil
	case RegionShell:
		return Shell{Inner: inner, Outer: outer}, nil
	case RegionScatter:
		return Scatter{Radius: outer, Depth: height}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}
}
