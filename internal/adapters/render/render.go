// Package render rasterizes scene frames to images for snapshots and
// debugging.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"slices"

	"cogentcore.org/core/math32"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/okian/evergreen/internal/adapters/assets"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/scene"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Default renderer settings.
const (
	defaultWidth  = 640
	defaultHeight = 480
	defaultFOV    = 45
	hudFontSize   = 13
	maxShade      = 0.6
)

// Renderer draws frames with a perspective camera.
type Renderer struct {
	width, height int
	fov           float32
	palette       assets.Palette
	textures      *assets.Set
	background    color.Color
	hud           bool
	face          font.Face
}

// NewRenderer creates a renderer for palette with configuration options.
func NewRenderer(palette assets.Palette, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		width:      defaultWidth,
		height:     defaultHeight,
		fov:        math32.DegToRad(defaultFOV),
		palette:    palette,
		background: color.RGBA{R: 0x05, G: 0x0b, B: 0x14, A: 0xff},
		hud:        true,
	}
	for _, opt := range opts {
		opt(r)
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	r.face = truetype.NewFace(ttf, &truetype.Options{
		Size:    hudFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return r, nil
}

type sprite struct {
	el    *model.Element
	x, y  float32
	depth float32
}

// Render draws f, far elements first.
func (r *Renderer) Render(f scene.Frame) image.Image {
	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(r.background)
	dc.Clear()

	proj := NewProjector(f.View, r.width, r.height, r.fov)

	sprites := make([]sprite, 0, len(f.Elements))
	nearest, farthest := float32(math32.Infinity), float32(0)
	for i := range f.Elements {
		e := &f.Elements[i]
		x, y, depth, ok := proj.Project(e.LivePosition)
		if !ok {
			continue
		}
		sprites = append(sprites, sprite{el: e, x: x, y: y, depth: depth})
		nearest = math32.Min(nearest, depth)
		farthest = math32.Max(farthest, depth)
	}
	slices.SortFunc(sprites, func(a, b sprite) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return a.el.ID - b.el.ID
	})

	span := farthest - nearest
	for _, s := range sprites {
		var shade float64
		if span > 0 {
			shade = float64((s.depth-nearest)/span) * maxShade
		}
		r.drawSprite(dc, proj, s, shade)
	}

	if r.hud {
		r.drawHUD(dc, f)
	}
	return dc.Image()
}

// EncodePNG renders f and writes it as PNG.
func (r *Renderer) EncodePNG(w io.Writer, f scene.Frame) error {
	dc := gg.NewContextForImage(r.Render(f))
	return dc.EncodePNG(w)
}

func (r *Renderer) drawSprite(dc *gg.Context, proj Projector, s sprite, shade float64) {
	e := s.el
	size := float64(proj.Size(e.Scale, s.depth))
	x, y := float64(s.x), float64(s.y)

	switch e.Kind {
	case model.KindLight:
		dc.SetColor(assets.Glow(r.palette.Light, 0.5))
		dc.DrawCircle(x, y, max(size*1.8, 1))
		dc.Fill()
		dc.SetColor(assets.Shade(r.palette.Light, shade/2))
		dc.DrawCircle(x, y, max(size, 1))
		dc.Fill()

	case model.KindPhoto:
		edge := max(size, 2)
		tex, ok := r.textures.Get(e.PhotoRef)
		if !ok || tex.Image == nil {
			dc.SetColor(assets.Shade(r.palette.Placeholder, shade))
			dc.DrawRectangle(x-edge/2, y-edge/2, edge, edge)
			dc.Fill()
			return
		}
		scale := edge / float64(tex.Image.Bounds().Dx())
		dc.Push()
		dc.ScaleAbout(scale, scale, x, y)
		dc.DrawImageAnchored(tex.Image, int(x), int(y), 0.5, 0.5)
		dc.Pop()

	default:
		dc.SetColor(assets.Shade(r.palette.Of(e), shade))
		dc.DrawCircle(x, y, max(size/2, 1))
		dc.Fill()
	}
}

func (r *Renderer) drawHUD(dc *gg.Context, f scene.Frame) {
	dc.SetFontFace(r.face)
	dc.SetColor(color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff})

	hand := "no hand"
	if f.Signal.Detected {
		state := "closed"
		if f.Signal.Open {
			state = "open"
		}
		hand = fmt.Sprintf("hand %s (%+.2f, %+.2f)", state, f.Signal.Position.X, f.Signal.Position.Y)
	}
	lines := []string{
		fmt.Sprintf("mode %s  elements %d", f.Mode, len(f.Elements)),
		hand,
		fmt.Sprintf("azimuth %+.2f  polar %.2f  distance %.1f", f.View.Azimuth, f.View.Polar, f.View.Distance),
	}
	for i, line := range lines {
		dc.DrawString(line, 10, float64(20+i*(hudFontSize+4)))
	}
}
