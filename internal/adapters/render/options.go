package render

import (
	"image/color"

	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/adapters/assets"
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the output image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithFOV sets the vertical field of view in degrees.
func WithFOV(degrees float32) Option {
	return func(r *Renderer) {
		if degrees > 0 && degrees < 180 {
			r.fov = math32.DegToRad(degrees)
		}
	}
}

// WithTextures sets the photo textures drawn on photo elements.
func WithTextures(set *assets.Set) Option {
	return func(r *Renderer) {
		r.textures = set
	}
}

// WithBackground sets the clear color.
func WithBackground(c color.Color) Option {
	return func(r *Renderer) {
		if c != nil {
			r.background = c
		}
	}
}

// WithHUD toggles the status text overlay.
func WithHUD(enabled bool) Option {
	return func(r *Renderer) {
		r.hud = enabled
	}
}
