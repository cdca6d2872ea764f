package layout

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithCount sets the number of elements N.
func WithCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.count = n
		}
	}
}

// WithTreeSize sets the cone height H and base radius R.
func WithTreeSize(height, radius float32) Option {
	return func(g *Generator) {
		if height > 0 && radius > 0 {
			g.height = height
			g.radius = radius
		}
	}
}

// WithMaxLights sets the hard ceiling on light elements. Zero disables lights.
func WithMaxLights(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.maxLights = n
		}
	}
}

// WithMinPhotoDistance sets the separation unleashed photos keep from each other.
func WithMinPhotoDistance(d float32) Option {
	return func(g *Generator) {
		if d >= 0 {
			g.minPhotoDistance = d
		}
	}
}

// WithPhotoAttempts bounds rejection sampling per photo.
func WithPhotoAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.photoAttempts = n
		}
	}
}

// WithPhotos sets the photo resource references assigned round-robin.
func WithPhotos(refs []string) Option {
	return func(g *Generator) {
		g.photos = append([]string(nil), refs...)
	}
}

// WithPhotoRegion sets the region unleashed photos are drawn from.
func WithPhotoRegion(r Region) Option {
	return func(g *Generator) {
		if r != nil {
			g.photoRegion = r
		}
	}
}

// WithLightRegion sets the region unleashed lights are drawn from.
func WithLightRegion(r Region) Option {
	return func(g *Generator) {
		if r != nil {
			g.lightRegion = r
		}
	}
}

// WithOrnamentRegion sets the region unleashed ornaments are drawn from.
func WithOrnamentRegion(r Region) Option {
	return func(g *Generator) {
		if r != nil {
			g.ornamentRegion = r
		}
	}
}

// WithFallbackRadius sets the ring radius used when photo sampling gives up.
func WithFallbackRadius(r float32) Option {
	return func(g *Generator) {
		if r > 0 {
			g.fallbackRadius = r
		}
	}
}
