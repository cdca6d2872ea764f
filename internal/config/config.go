// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and environment on top.
// - Keys are flat snake_case and map 1:1 to koanf tags.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Region policy names accepted by the *_region keys.
const (
	RegionRing    = "ring"
	RegionShell   = "shell"
	RegionScatter = "scatter"
)

// Detector names accepted by the detector key.
const (
	DetectorSynthetic = "synthetic"
	DetectorPush      = "push"
	DetectorNone      = "none"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Layout shape.
	ElementCount     int      `koanf:"element_count"`
	TreeHeight       float64  `koanf:"tree_height"`
	TreeRadius       float64  `koanf:"tree_radius"`
	MaxLights        int      `koanf:"max_lights"`
	MinPhotoDistance float64  `koanf:"min_photo_distance"`
	PhotoAttempts    int      `koanf:"photo_attempts"`
	Photos           []string `koanf:"photos"`
	PhotoDir         string   `koanf:"photo_dir"`
	// Seed makes layout reproducible; 0 derives one from the clock.
	Seed int64 `koanf:"seed"`

	// Unleashed target regions.
	PhotoRegion         string  `koanf:"photo_region"`
	LightRegion         string  `koanf:"light_region"`
	OrnamentRegion      string  `koanf:"ornament_region"`
	OrnamentShellInner  float64 `koanf:"ornament_shell_inner"`
	OrnamentShellOuter  float64 `koanf:"ornament_shell_outer"`
	LightShellInner     float64 `koanf:"light_shell_inner"`
	LightShellOuter     float64 `koanf:"light_shell_outer"`
	PhotoRingInner      float64 `koanf:"photo_ring_inner"`
	PhotoRingOuter      float64 `koanf:"photo_ring_outer"`
	PhotoRingHeight     float64 `koanf:"photo_ring_height"`
	PhotoFallbackRadius float64 `koanf:"photo_fallback_radius"`

	// Interpolation rates, per second.
	PositionRate float64 `koanf:"position_rate"`
	RotationRate float64 `koanf:"rotation_rate"`
	TumbleRate   float64 `koanf:"tumble_rate"`
	// Smoothing selects "clamped" (a+(b-a)*clamp(rate*dt)) or "exponential".
	Smoothing string `koanf:"smoothing"`

	// Gesture.
	OpenThreshold float64 `koanf:"open_threshold"`

	// Camera.
	AzimuthRange      float64 `koanf:"azimuth_range"`
	PolarRange        float64 `koanf:"polar_range"`
	MinPolar          float64 `koanf:"min_polar"`
	MaxPolar          float64 `koanf:"max_polar"`
	OrbitRate         float64 `koanf:"orbit_rate"`
	AutoRotateSpeed   float64 `koanf:"auto_rotate_speed"`
	DistanceRate      float64 `koanf:"distance_rate"`
	DistanceAssembled float64 `koanf:"distance_assembled"`
	DistanceUnleashed float64 `koanf:"distance_unleashed"`

	// Loops.
	FrameRate          int    `koanf:"frame_rate"`
	DetectionRate      int    `koanf:"detection_rate"`
	MaxFrameDeltaMS    int    `koanf:"max_frame_delta_ms"`
	Detector           string `koanf:"detector"`
	DetectionQueueSize int    `koanf:"detection_queue_size"`

	// Palette, hex colors consumed by renderers.
	PalettePrimary     string `koanf:"palette_primary"`
	PaletteSecondary   string `koanf:"palette_secondary"`
	PaletteTertiary    string `koanf:"palette_tertiary"`
	PaletteLight       string `koanf:"palette_light"`
	PalettePlaceholder string `koanf:"palette_placeholder"`

	// TextureSize is the edge length photos are resized to.
	TextureSize int `koanf:"texture_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Addr:     ":9080",

		ElementCount:     900,
		TreeHeight:       14,
		TreeRadius:       5.5,
		MaxLights:        40,
		MinPhotoDistance: 3,
		PhotoAttempts:    50,
		Photos:           []string{},

		PhotoRegion:         RegionRing,
		LightRegion:         RegionShell,
		OrnamentRegion:      RegionShell,
		OrnamentShellInner:  8,
		OrnamentShellOuter:  18,
		LightShellInner:     10,
		LightShellOuter:     26,
		PhotoRingInner:      14,
		PhotoRingOuter:      22,
		PhotoRingHeight:     10,
		PhotoFallbackRadius: 18,

		PositionRate: 3,
		RotationRate: 4,
		TumbleRate:   1.2,
		Smoothing:    "clamped",

		OpenThreshold: 0.08,

		AzimuthRange:      math.Pi / 2,
		PolarRange:        0.6,
		MinPolar:          0.35,
		MaxPolar:          2.6,
		OrbitRate:         2,
		AutoRotateSpeed:   0.3,
		DistanceRate:      2,
		DistanceAssembled: 30,
		DistanceUnleashed: 46,

		FrameRate:          60,
		DetectionRate:      30,
		MaxFrameDeltaMS:    100,
		Detector:           DetectorSynthetic,
		DetectionQueueSize: 8,

		PalettePrimary:     "#b3122e",
		PaletteSecondary:   "#d9a520",
		PaletteTertiary:    "#1f6b45",
		PaletteLight:       "#fff1c9",
		PalettePlaceholder: "#8a8a8a",

		TextureSize: 256,
	}
}

// FrameInterval is the frame loop period.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// DetectionInterval is the detection loop period.
func (c *Config) DetectionInterval() time.Duration {
	return time.Second / time.Duration(c.DetectionRate)
}

// MaxFrameDelta caps the simulated time step of one frame.
func (c *Config) MaxFrameDelta() time.Duration {
	return time.Duration(c.MaxFrameDeltaMS) * time.Millisecond
}

// Validate checks ranges and names. It returns the first problem found.
func (c *Config) Validate() error { //nolint:gocyclo // flat list of independent checks
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return invalid("addr must not be empty")
	case c.ElementCount < 1:
		return invalid("element_count must be at least 1")
	case c.TreeHeight <= 0 || c.TreeRadius <= 0:
		return invalid("tree_height and tree_radius must be positive")
	case c.MaxLights < 0:
		return invalid("max_lights must not be negative")
	case c.MinPhotoDistance < 0:
		return invalid("min_photo_distance must not be negative")
	case c.PhotoAttempts < 1:
		return invalid("photo_attempts must be at least 1")
	case c.OrnamentShellInner < 0 || c.OrnamentShellOuter < c.OrnamentShellInner:
		return invalid("ornament shell radii must satisfy 0 <= inner <= outer")
	case c.LightShellInner < 0 || c.LightShellOuter < c.LightShellInner:
		return invalid("light shell radii must satisfy 0 <= inner <= outer")
	case c.PhotoRingInner < 0 || c.PhotoRingOuter < c.PhotoRingInner:
		return invalid("photo ring radii must satisfy 0 <= inner <= outer")
	case c.PositionRate <= 0 || c.RotationRate <= 0 || c.OrbitRate <= 0 || c.DistanceRate <= 0:
		return invalid("approach rates must be positive")
	case c.OpenThreshold <= 0 || c.OpenThreshold >= 1:
		return invalid("open_threshold must be in (0, 1)")
	case c.MinPolar <= 0 || c.MaxPolar >= math.Pi || c.MinPolar >= c.MaxPolar:
		return invalid("polar limits must satisfy 0 < min_polar < max_polar < pi")
	case c.DistanceAssembled <= 0 || c.DistanceUnleashed <= 0:
		return invalid("camera distances must be positive")
	case c.FrameRate < 1 || c.DetectionRate < 1:
		return invalid("frame_rate and detection_rate must be at least 1")
	case c.MaxFrameDeltaMS < 1:
		return invalid("max_frame_delta_ms must be at least 1")
	case c.DetectionQueueSize < 1:
		return invalid("detection_queue_size must be at least 1")
	case c.TextureSize < 1:
		return invalid("texture_size must be at least 1")
	}

	for key, name := range map[string]string{
		"photo_region":    c.PhotoRegion,
		"light_region":    c.LightRegion,
		"ornament_region": c.OrnamentRegion,
	} {
		switch name {
		case RegionRing, RegionShell, RegionScatter:
		default:
			return invalid(fmt.Sprintf("%s: unknown region %q", key, name))
		}
	}

	switch c.Detector {
	case DetectorSynthetic, DetectorPush, DetectorNone:
	default:
		return invalid(fmt.Sprintf("detector: unknown detector %q", c.Detector))
	}

	switch c.Smoothing {
	case "clamped", "exponential":
	default:
		return invalid(fmt.Sprintf("smoothing: unknown policy %q", c.Smoothing))
	}

	for key, hex := range map[string]string{
		"palette_primary":     c.PalettePrimary,
		"palette_secondary":   c.PaletteSecondary,
		"palette_tertiary":    c.PaletteTertiary,
		"palette_light":       c.PaletteLight,
		"palette_placeholder": c.PalettePlaceholder,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return invalid(fmt.Sprintf("%s: %v", key, err))
		}
	}
	return nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, msg)
}
