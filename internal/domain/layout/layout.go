// Package layout generates the fixed element set of a session: a golden-angle
// spiral over a cone for the assembled pose and kind-specific random targets
// for the unleashed pose.
package layout

import (
	"math/rand"

	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
)

// Default generation parameters.
const (
	defaultCount            = 900
	defaultHeight           = 14
	defaultRadius           = 5.5
	defaultMaxLights        = 40
	defaultMinPhotoDistance = 3
	defaultPhotoAttempts    = 50
	defaultFallbackRadius   = 18
)

// Kind assignment rules.
const (
	photoEdgeMargin = 40   // no photos within this many indices of apex or base
	photoMinGap     = 22   // indices between consecutive photos
	photoChance     = 0.07 // draw probability once eligible
	photoNudge      = 0.35 // outward offset so photos sit on the surface

	primaryBand   = 0.4
	secondaryBand = 0.8
)

// goldenAngle is π(3-√5), about 137.5 degrees.
var goldenAngle = math32.Pi * (3 - math32.Sqrt(5))

// Report summarizes one generation.
type Report struct {
	Seed   int64
	Counts map[model.Kind]int
	// Fallbacks lists ids of photos placed on the fallback ring.
	Fallbacks []int
}

// Generator produces element sets. It holds configuration only; every
// Generate call owns its random source.
type Generator struct {
	count            int
	height           float32
	radius           float32
	maxLights        int
	minPhotoDistance float32
	photoAttempts    int
	photos           []string
	fallbackRadius   float32

	photoRegion    Region
	lightRegion    Region
	ornamentRegion Region
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		count:            defaultCount,
		height:           defaultHeight,
		radius:           defaultRadius,
		maxLights:        defaultMaxLights,
		minPhotoDistance: defaultMinPhotoDistance,
		photoAttempts:    defaultPhotoAttempts,
		fallbackRadius:   defaultFallbackRadius,
		photoRegion:      Ring{Inner: 14, Outer: 22, Height: 10},
		lightRegion:      Shell{Inner: 10, Outer: 26},
		ornamentRegion:   Shell{Inner: 8, Outer: 18},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Count returns the number of elements each generation produces.
func (g *Generator) Count() int { return g.count }

// Generate builds the full ordered element list from seed. Equal seeds give
// equal layouts. Live fields start at the assembled pose.
func (g *Generator) Generate(seed int64) ([]model.Element, Report) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // layout needs reproducibility, not secrecy

	elements := make([]model.Element, g.count)
	report := Report{Seed: seed, Counts: make(map[model.Kind]int, len(model.Kinds))}

	var (
		lastPhoto   = -photoMinGap
		photoCount  int
		lightsCount int
		placed      []math32.Vector3
	)

	for i := range elements {
		e := &elements[i]
		e.ID = i
		e.AssembledRotation = math32.NewQuat(0, 0, 0, 1)

		theta := float32(i) * goldenAngle
		e.AssembledPosition = g.conePoint(i, theta)

		switch {
		case g.photoEligible(i, lastPhoto) && rng.Float32() < photoChance:
			lastPhoto = i
			g.assignPhoto(e, theta, photoCount)
			photoCount++

			target, ok := g.samplePhoto(rng, placed)
			e.UnleashedPosition = target
			e.Fallback = !ok
			placed = append(placed, target)
			if !ok {
				report.Fallbacks = append(report.Fallbacks, i)
			}

		case rng.Float32() < g.lightChance(i, lightsCount):
			lightsCount++
			e.Kind = model.KindLight
			e.Scale = 0.12 + 0.06*rng.Float32()
			e.UnleashedPosition = g.lightRegion.Sample(rng)
			e.UnleashedRotation = randomEuler(rng)

		default:
			e.Kind = model.KindOrnament
			e.Scale = 0.22 + 0.14*rng.Float32()
			switch u := rng.Float32(); {
			case u < primaryBand:
				e.Color = model.ColorPrimary
			case u < secondaryBand:
				e.Color = model.ColorSecondary
				e.Scale *= 1.25
			default:
				e.Color = model.ColorTertiary
			}
			e.UnleashedPosition = g.ornamentRegion.Sample(rng)
			e.UnleashedRotation = randomEuler(rng)
		}

		report.Counts[e.Kind]++
		e.Reset()
	}

	return elements, report
}

// conePoint places index i on the cone. h = 1-sqrt(1-t) spreads points with
// uniform density over the lateral surface.
func (g *Generator) conePoint(i int, theta float32) math32.Vector3 {
	var t float32
	if g.count > 1 {
		t = float32(i) / float32(g.count-1)
	}
	h := 1 - math32.Sqrt(1-t)
	y := h*g.height - g.height/2
	r := g.radius * (1 - h)
	return math32.Vec3(r*math32.Cos(theta), y, r*math32.Sin(theta))
}

func (g *Generator) photoEligible(i, lastPhoto int) bool {
	return i > photoEdgeMargin && i < g.count-photoEdgeMargin && i-lastPhoto >= photoMinGap
}

// lightChance spreads the remaining light budget over the remaining elements.
func (g *Generator) lightChance(i, placed int) float32 {
	remaining := g.maxLights - placed
	if remaining <= 0 {
		return 0
	}
	return float32(remaining) / float32(g.count-i)
}

func (g *Generator) assignPhoto(e *model.Element, theta float32, n int) {
	e.Kind = model.KindPhoto
	e.Scale = 1.2

	outward := math32.Vec3(math32.Cos(theta), 0, math32.Sin(theta))
	e.AssembledPosition = e.AssembledPosition.Add(outward.MulScalar(photoNudge))
	// +Z is the photo face; rotating about Y by atan2(x, z) turns it outward.
	e.AssembledRotation = math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0),
		math32.Atan2(e.AssembledPosition.X, e.AssembledPosition.Z))

	if len(g.photos) > 0 {
		e.PhotoRef = g.photos[n%len(g.photos)]
	}
}

// samplePhoto draws at most photoAttempts candidates and keeps the first one
// strictly farther than minPhotoDistance from every placed photo. On
// exhaustion it returns a point on the fallback ring and false.
func (g *Generator) samplePhoto(rng *rand.Rand, placed []math32.Vector3) (math32.Vector3, bool) {
	for range g.photoAttempts {
		c := g.photoRegion.Sample(rng)
		if separated(c, placed, g.minPhotoDistance) {
			return c, true
		}
	}
	angle := rng.Float32() * 2 * math32.Pi
	return math32.Vec3(g.fallbackRadius*math32.Cos(angle), 0, g.fallbackRadius*math32.Sin(angle)), false
}

func separated(c math32.Vector3, placed []math32.Vector3, minDist float32) bool {
	for _, p := range placed {
		if c.Sub(p).Length() <= minDist {
			return false
		}
	}
	return true
}

func randomEuler(rng *rand.Rand) math32.Vector3 {
	return math32.Vec3(
		rng.Float32()*2*math32.Pi,
		rng.Float32()*2*math32.Pi,
		rng.Float32()*2*math32.Pi,
	)
}
