package backdrop

import (
	"image/color"
	"slices"
	"sort"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/noise"
	"github.com/matzehuels/ridgeline/pkg/surface"
	"github.com/matzehuels/ridgeline/pkg/terrain"
)

// Size is a width and height in pixels.
type Size struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// Motion controls per-frame animation.
//
// Each executed frame adds TimeStep to the time accumulator, spins layer i
// about its Z axis by BaseSpin + i·SpinStep, and sets its Y rotation to
// sin(SwayFreq·time + i)·SwayAmp.
type Motion struct {
	TimeStep float64 `toml:"time_step" json:"time_step"`
	BaseSpin float64 `toml:"base_spin" json:"base_spin"`
	SpinStep float64 `toml:"spin_step" json:"spin_step"`
	SwayFreq float64 `toml:"sway_freq" json:"sway_freq"`
	SwayAmp  float64 `toml:"sway_amp" json:"sway_amp"`
}

// DefaultMotion returns the slow drift and sway of the mountain range.
func DefaultMotion() Motion {
	return Motion{
		TimeStep: 0.01,
		BaseSpin: 0.001,
		SpinStep: 0.0005,
		SwayFreq: 0.5,
		SwayAmp:  0.05,
	}
}

// DefaultFrameInterval caps the loop at 60 executed frames per second.
const DefaultFrameInterval = time.Second / 60

// Config parameterises a [Backdrop].
type Config struct {
	LayerCount     int    `toml:"layer_count" json:"layer_count"`
	BaseGridSize   int    `toml:"base_grid_size" json:"base_grid_size"`
	GridSizeStep   int    `toml:"grid_size_step" json:"grid_size_step"`
	CameraPosition r3.Vec `toml:"-" json:"camera_position"`
	// MinSurfaceSize floors the surface size on mount and resize. A zero
	// size disables the floor.
	MinSurfaceSize Size `toml:"min_surface_size" json:"min_surface_size"`

	FrameInterval time.Duration `toml:"-" json:"frame_interval"`
	FOV           float64       `toml:"fov" json:"fov"`
	Near          float64       `toml:"near" json:"near"`
	Far           float64       `toml:"far" json:"far"`

	Noise     noise.Kind          `toml:"noise" json:"noise"`
	Shape     terrain.ShapeParams `toml:"shape" json:"shape"`
	Placement terrain.Placement   `toml:"placement" json:"placement"`
	Motion    Motion              `toml:"motion" json:"motion"`

	Palette    []color.RGBA `toml:"-" json:"-"`
	Background color.RGBA   `toml:"-" json:"-"`
}

// Preset names.
const (
	PresetRange = "range"
	PresetHero  = "hero"
)

// DefaultPreset is used when no preset is named.
const DefaultPreset = PresetRange

var presets = map[string]func() Config{
	// Two wide layers seen from high and far back.
	PresetRange: func() Config {
		cfg := base()
		cfg.LayerCount = 2
		cfg.BaseGridSize = 100
		cfg.GridSizeStep = 30
		cfg.CameraPosition = r3.Vec{X: 50, Y: 120, Z: 350}
		return cfg
	},
	// Closer camera and smaller grids, rendered into at least a full-HD
	// surface so the wireframe stays sharp when the viewport is small.
	PresetHero: func() Config {
		cfg := base()
		cfg.LayerCount = 2
		cfg.BaseGridSize = 80
		cfg.GridSizeStep = 20
		cfg.CameraPosition = r3.Vec{X: 0, Y: 80, Z: 220}
		cfg.MinSurfaceSize = Size{Width: 1920, Height: 1080}
		return cfg
	},
}

func base() Config {
	return Config{
		FrameInterval: DefaultFrameInterval,
		FOV:           75,
		Near:          0.1,
		Far:           1000,
		Noise:         noise.DefaultKind,
		Shape:         terrain.DefaultShape(),
		Placement:     terrain.DefaultPlacement(),
		Motion:        DefaultMotion(),
		Palette:       slices.Clone(terrain.DefaultPalette[:2]),
		Background:    color.RGBA{A: 0xff},
	}
}

// Presets lists the preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a named configuration.
func Preset(name string) (Config, error) {
	if name == "" {
		name = DefaultPreset
	}
	fn, ok := presets[name]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeInvalidPreset, "unknown preset %q (available: %v)", name, Presets())
	}
	return fn(), nil
}

// DefaultConfig returns the default preset.
func DefaultConfig() Config {
	return presets[DefaultPreset]()
}

// Validate checks that the configuration can be mounted.
func (c Config) Validate() error {
	v := errors.NewValidation(errors.ErrCodeInvalidConfig)
	v.Check(c.LayerCount >= 1, "layer_count", "must be at least 1, got %d", c.LayerCount)
	v.Check(c.BaseGridSize >= 2, "base_grid_size", "must be at least 2, got %d", c.BaseGridSize)
	v.Check(c.BaseGridSize+(c.LayerCount-1)*c.GridSizeStep >= 2, "grid_size_step",
		"shrinks the deepest layer below 2 vertices")
	v.Check(c.MinSurfaceSize.Width >= 0 && c.MinSurfaceSize.Height >= 0, "min_surface_size", "must not be negative")
	v.Check(c.FrameInterval >= 0, "frame_interval", "must not be negative")
	v.Check(c.FOV > 0 && c.FOV < 180, "fov", "must be in (0, 180), got %g", c.FOV)
	v.Check(c.Near > 0 && c.Far > c.Near, "near", "need 0 < near < far, got near=%g far=%g", c.Near, c.Far)
	if _, err := noise.ParseKind(string(c.Noise)); err != nil {
		v.Add("noise", "unknown kind %q", c.Noise)
	}
	return v.Err()
}

// LayerColor returns the wireframe colour for layer i. Layers beyond the
// palette reuse its last colour, fading toward the background with depth.
func (c Config) LayerColor(i int) color.RGBA {
	palette := c.Palette
	if len(palette) == 0 {
		palette = terrain.DefaultPalette
	}
	if i < len(palette) {
		return palette[i]
	}
	extra := i - len(palette) + 1
	return surface.Fade(palette[len(palette)-1], c.Background, 0.2*float64(extra))
}

func (c Config) buildOptions() terrain.BuildOptions {
	palette := make([]color.RGBA, c.LayerCount)
	for i := range palette {
		palette[i] = c.LayerColor(i)
	}
	return terrain.BuildOptions{
		Count:        c.LayerCount,
		BaseGridSize: c.BaseGridSize,
		GridSizeStep: c.GridSizeStep,
		Noise:        c.Noise,
		Shape:        c.Shape,
		Placement:    c.Placement,
		Palette:      palette,
	}
}
