// Package surface defines the drawing target the backdrop renders into.
//
// A [Surface] is a resizable line canvas with an explicit present step.
// Implementations live in subpackages:
//
//   - raster: antialiased RGBA frames via github.com/fogleman/gg
//   - vector: SVG documents
//   - cells: braille terminal cells, shown through tcell or as styled text
//
// Surfaces are not safe for concurrent use; the backdrop serialises all
// calls under its own lock.
package surface

import (
	"errors"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrReleased is returned by Present on a surface that has been released.
var ErrReleased = errors.New("surface released")

// Surface is a 2D line canvas.
type Surface interface {
	// Size returns the drawable area in pixels.
	Size() (width, height int)

	// Resize changes the drawable area. Contents are discarded.
	Resize(width, height int)

	// Clear fills the whole area with c.
	Clear(c color.RGBA)

	// DrawLine strokes a segment in pixel coordinates. Segments may extend
	// past the edges; implementations clip.
	DrawLine(x0, y0, x1, y1 float64, c color.RGBA)

	// Present publishes the current frame.
	Present() error

	// Release frees the surface's resources. Further use is invalid.
	Release() error
}

// ClampSize raises width and height to at least minW and minH.
// Zero minimums leave the size unchanged.
func ClampSize(width, height, minW, minH int) (int, int) {
	return max(width, minW), max(height, minH)
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	cc, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	return cc.Hex()
}

// ParseHex parses "#rrggbb" into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	cc, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := cc.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Fade blends c toward bg by t in [0, 1], in linear RGB.
func Fade(c, bg color.RGBA, t float64) color.RGBA {
	from, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	to, _ := colorful.MakeColor(color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 0xff})
	r, g, b := from.BlendLinearRgb(to, min(max(t, 0), 1)).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
