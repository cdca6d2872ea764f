package assets

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/okian/evergreen/internal/domain/model"
)

// Palette maps element kinds and colors to display colors.
type Palette struct {
	Primary     colorful.Color
	Secondary   colorful.Color
	Tertiary    colorful.Color
	Light       colorful.Color
	Placeholder colorful.Color
}

// ParsePalette parses hex colors in primary, secondary, tertiary, light,
// placeholder order.
func ParsePalette(primary, secondary, tertiary, light, placeholder string) (Palette, error) {
	var p Palette
	for _, c := range []struct {
		dst *colorful.Color
		hex string
	}{
		{&p.Primary, primary},
		{&p.Secondary, secondary},
		{&p.Tertiary, tertiary},
		{&p.Light, light},
		{&p.Placeholder, placeholder},
	} {
		parsed, err := colorful.Hex(c.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %q: %w", c.hex, err)
		}
		*c.dst = parsed
	}
	return p, nil
}

// Of returns the base color of e.
func (p Palette) Of(e *model.Element) colorful.Color {
	switch e.Kind {
	case model.KindLight:
		return p.Light
	case model.KindPhoto:
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	switch e.Color {
	case model.ColorSecondary:
		return p.Secondary
	case model.ColorTertiary:
		return p.Tertiary
	default:
		return p.Primary
	}
}

// Shade darkens c toward black by depth in [0, 1], blending in Lab space.
func Shade(c colorful.Color, depth float64) color.RGBA {
	black := colorful.Color{}
	r, g, b := c.BlendLab(black, clamp01(depth)).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Glow blends a light color toward white by t in [0, 1].
func Glow(c colorful.Color, t float64) color.RGBA {
	white := colorful.Color{R: 1, G: 1, B: 1}
	r, g, b := c.BlendLab(white, clamp01(t)).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
