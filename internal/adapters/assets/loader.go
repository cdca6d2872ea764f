// Package assets loads photo textures for the scene. A photo that cannot be
// loaded is replaced by a flat placeholder; loading never fails a session.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"github.com/okian/evergreen/pkg/logger"
	"github.com/okian/evergreen/pkg/metrics"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder
	"golang.org/x/sync/errgroup"
)

// Default loader settings.
const (
	defaultTextureSize = 256
	defaultConcurrency = 4
)

// Texture is a decoded photo resized to a square texture.
type Texture struct {
	Ref         string
	Image       *image.RGBA
	Average     color.RGBA
	Format      string
	Placeholder bool
}

// Loader resolves, decodes and resizes photo references.
type Loader struct {
	dir         string
	size        int
	concurrency int
	placeholder color.Color
	read        func(path string) ([]byte, error)
	logger      logger.Logger
}

// NewLoader creates a loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		size:        defaultTextureSize,
		concurrency: defaultConcurrency,
		placeholder: color.RGBA{R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff},
		read:        os.ReadFile,
		logger:      logger.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads one reference and returns its texture.
func (l *Loader) Load(ctx context.Context, ref string) (Texture, error) {
	if ref == "" {
		return Texture{}, ErrEmptyRef
	}
	if err := ctx.Err(); err != nil {
		return Texture{}, err
	}

	start := time.Now()
	tex, err := l.load(ref)
	metrics.RecordAssetLoad(err == nil, float64(time.Since(start).Nanoseconds())/1e6)
	return tex, err
}

func (l *Loader) load(ref string) (Texture, error) {
	path := ref
	if l.dir != "" && !filepath.IsAbs(ref) {
		path = filepath.Join(l.dir, ref)
	}

	data, err := l.read(path)
	if err != nil {
		return Texture{}, fmt.Errorf("read %s: %w", ref, err)
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return Texture{}, fmt.Errorf("%w: %s is not an image", ErrInvalidImage, ref)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Texture{}, fmt.Errorf("%w: %s (%s): %w", ErrInvalidImage, ref, kind.MIME.Value, err)
	}

	rgba := transform.Resize(img, l.size, l.size, transform.Linear)
	return Texture{Ref: ref, Image: rgba, Average: average(rgba), Format: format}, nil
}

// Placeholder returns the texture used in place of ref.
func (l *Loader) Placeholder(ref string) Texture {
	img := image.NewRGBA(image.Rect(0, 0, l.size, l.size))
	draw.Draw(img, img.Bounds(), image.NewUniform(l.placeholder), image.Point{}, draw.Src)
	return Texture{Ref: ref, Image: img, Average: average(img), Placeholder: true}
}

// Preload loads every distinct reference with bounded concurrency. Failed
// references get a placeholder and are logged. The only error returned is
// the context's.
func (l *Loader) Preload(ctx context.Context, refs []string) (*Set, error) {
	set := &Set{textures: make(map[string]Texture, len(refs))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		g.Go(func() error {
			tex, err := l.Load(gctx, ref)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				l.logger.Warn(gctx, "photo unavailable, using placeholder",
					logger.String("ref", ref), logger.Error(err))
				metrics.RecordErrorByComponent("assets", "load")
				tex = l.Placeholder(ref)
			}
			set.put(tex)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

// Set is a preloaded group of textures keyed by reference.
type Set struct {
	mu       sync.RWMutex
	textures map[string]Texture
}

func (s *Set) put(t Texture) {
	s.mu.Lock()
	s.textures[t.Ref] = t
	s.mu.Unlock()
}

// Get returns the texture for ref.
func (s *Set) Get(ref string) (Texture, bool) {
	if s == nil {
		return Texture{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.textures[ref]
	return t, ok
}

// Len is the number of textures held.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.textures)
}

// Placeholders counts textures that failed to load.
func (s *Set) Placeholders() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.textures {
		if t.Placeholder {
			n++
		}
	}
	return n
}

func average(img *image.RGBA) color.RGBA {
	var r, g, b, n uint64
	for i := 0; i+3 < len(img.Pix); i += 4 {
		r += uint64(img.Pix[i])
		g += uint64(img.Pix[i+1])
		b += uint64(img.Pix[i+2])
		n++
	}
	if n == 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 0xff} //nolint:gosec // mean of bytes fits a byte
}
