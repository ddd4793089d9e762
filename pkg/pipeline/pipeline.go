// Package pipeline renders the terrain backdrop offline.
//
// The same [backdrop.Backdrop] that animates a live surface is mounted on an
// offscreen surface, driven by a [backdrop.ManualScheduler] and a simulated
// clock, and captured after a fixed number of executed frames. Because the
// terrain is seeded, the same [Options] always produce the same artifact,
// which makes artifacts safe to cache.
//
// # Formats
//
//   - svg: one path per layer colour, via surface/vector
//   - png: antialiased raster, via surface/raster
//   - txt: braille cell art, via surface/cells
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, pipeline.Options{
//	    Seed:    42,
//	    Preset:  "range",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ridgeline/pkg/backdrop"
	"github.com/matzehuels/ridgeline/pkg/cache"
	"github.com/matzehuels/ridgeline/pkg/errors"
	"github.com/matzehuels/ridgeline/pkg/noise"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP server
// =============================================================================

const (
	// DefaultWidth is the default artifact width in pixels.
	DefaultWidth = 1280

	// DefaultHeight is the default artifact height in pixels.
	DefaultHeight = 720

	// DefaultFrames is how many frames are executed before capture. One frame
	// shows the terrain at rest.
	DefaultFrames = 1

	// DefaultSeed is the default terrain seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScale is the default device pixel ratio for raster output.
	DefaultScale = 1.0

	// MaxDimension bounds width and height after scaling.
	MaxDimension = 8192

	// MaxFrames bounds the simulated session length.
	MaxFrames = 36000
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatTXT = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatTXT: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG: "image/svg+xml",
	FormatPNG: "image/png",
	FormatTXT: "text/plain; charset=utf-8",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options describes one offline render. It supports JSON for API requests.
type Options struct {
	Seed    uint64   `json:"seed,omitempty"`
	Preset  string   `json:"preset,omitempty"`
	Noise   string   `json:"noise,omitempty"` // Overrides the preset's noise kind
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Frames  int      `json:"frames,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"` // Pixel ratio for png output
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and draw information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers     int
	Edges      int // Edges considered in the captured frame
	Drawn      int // Segments that reached the surface
	Frames     int
	BuildTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Preset == "" {
		o.Preset = backdrop.DefaultPreset
	}
	if _, err := backdrop.Preset(o.Preset); err != nil {
		return err
	}
	if o.Noise != "" {
		if _, err := noise.ParseKind(o.Noise); err != nil {
			return err
		}
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	v := errors.NewValidation(errors.ErrCodeInvalidInput)
	v.Check(o.Width > 0 && o.Width <= MaxDimension, "width", "must be in [1, %d], got %d", MaxDimension, o.Width)
	v.Check(o.Height > 0 && o.Height <= MaxDimension, "height", "must be in [1, %d], got %d", MaxDimension, o.Height)
	v.Check(o.Frames > 0 && o.Frames <= MaxFrames, "frames", "must be in [1, %d], got %d", MaxFrames, o.Frames)
	v.Check(o.Scale > 0 && o.Scale <= 4, "scale", "must be in (0, 4], got %g", o.Scale)
	v.Check(float64(o.Width)*o.Scale <= MaxDimension && float64(o.Height)*o.Scale <= MaxDimension,
		"scale", "scaled size exceeds %d", MaxDimension)
	if err := v.Err(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Clone returns an unvalidated copy, so that fields changed on the copy
// are checked again by ValidateAndSetDefaults.
func (o Options) Clone() Options {
	o.Formats = slices.Clone(o.Formats)
	o.validated = false
	return o
}

// Config resolves the backdrop configuration for these options.
func (o *Options) Config() (backdrop.Config, error) {
	cfg, err := backdrop.Preset(o.Preset)
	if err != nil {
		return backdrop.Config{}, err
	}
	if o.Noise != "" {
		k, err := noise.ParseKind(o.Noise)
		if err != nil {
			return backdrop.Config{}, err
		}
		cfg.Noise = k
	}
	return cfg, nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Preset: o.Preset,
		Noise:  o.Noise,
		Seed:   o.Seed,
		Width:  o.Width,
		Height: o.Height,
		Frames: o.Frames,
		Scale:  o.Scale,
		Format: format,
	}
}
