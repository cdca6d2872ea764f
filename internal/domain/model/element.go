// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Kind is the fixed category of an element.
type Kind uint8

const (
	KindOrnament Kind = iota
	KindLight
	KindPhoto
)

// Kinds lists every kind in declaration order.
var Kinds = [...]Kind{KindOrnament, KindLight, KindPhoto}

func (k Kind) String() string {
	switch k {
	case KindOrnament:
		return "ornament"
	case KindLight:
		return "light"
	case KindPhoto:
		return "photo"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Color is the categorical color band of an ornament.
type Color uint8

const (
	ColorNone Color = iota // lights and photos
	ColorPrimary
	ColorSecondary
	ColorTertiary
)

func (c Color) String() string {
	switch c {
	case ColorNone:
		return "none"
	case ColorPrimary:
		return "primary"
	case ColorSecondary:
		return "secondary"
	case ColorTertiary:
		return "tertiary"
	default:
		return fmt.Sprintf("color(%d)", uint8(c))
	}
}

// MarshalText renders the color by name.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Element is one visual unit with a fixed identity and two target layouts.
// Everything except LivePosition and LiveRotation is set once by the layout
// generator; the live fields belong to the motion engine.
type Element struct {
	ID   int
	Kind Kind

	AssembledPosition math32.Vector3
	UnleashedPosition math32.Vector3
	// UnleashedRotation is an Euler hint; its direction is the tumble axis.
	UnleashedRotation math32.Vector3
	// AssembledRotation faces outward from the vertical axis for photos and
	// is the identity for other kinds.
	AssembledRotation math32.Quat

	Scale    float32
	Color    Color
	PhotoRef string // empty when no photo resources are configured
	// Fallback marks a photo whose unleashed target came from the ring fallback.
	Fallback bool

	LivePosition math32.Vector3
	LiveRotation math32.Quat
}

// Target returns the position the element rests at in mode m.
func (e *Element) Target(m Mode) math32.Vector3 {
	if m == ModeUnleashed {
		return e.UnleashedPosition
	}
	return e.AssembledPosition
}

// Reset puts the live fields back on the assembled pose.
func (e *Element) Reset() {
	e.LivePosition = e.AssembledPosition
	e.LiveRotation = e.AssembledRotation
}
