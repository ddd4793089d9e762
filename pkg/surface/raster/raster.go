// Package raster implements an antialiased RGBA surface on top of
// github.com/fogleman/gg.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

// Option configures a [Surface].
type Option func(*Surface)

// WithLineWidth sets the stroke width in pixels (default 1).
func WithLineWidth(w float64) Option {
	return func(s *Surface) { s.lineWidth = w }
}

// WithOnPresent registers fn to receive each presented frame. The image is
// only valid until the next draw call.
func WithOnPresent(fn func(image.Image) error) Option {
	return func(s *Surface) { s.onPresent = fn }
}

// Surface draws into an in-memory RGBA image.
//
// Consecutive lines of the same colour are batched into a single path and
// stroked together when the colour changes or the frame is presented.
type Surface struct {
	dc        *gg.Context
	lineWidth float64
	onPresent func(image.Image) error

	pending    bool
	pendingCol color.RGBA
	frames     int
}

// New creates a surface of the given size.
func New(width, height int, opts ...Option) *Surface {
	s := &Surface{lineWidth: 1}
	for _, opt := range opts {
		opt(s)
	}
	s.Resize(width, height)
	return s
}

// Size returns the image dimensions.
func (s *Surface) Size() (int, int) {
	if s.dc == nil {
		return 0, 0
	}
	return s.dc.Width(), s.dc.Height()
}

// Resize replaces the backing image.
func (s *Surface) Resize(width, height int) {
	s.dc = gg.NewContext(max(width, 1), max(height, 1))
	s.dc.SetLineWidth(s.lineWidth)
	s.pending = false
}

// Clear fills the image with c.
func (s *Surface) Clear(c color.RGBA) {
	if s.dc == nil {
		return
	}
	s.dc.ClearPath()
	s.pending = false
	s.dc.SetColor(c)
	s.dc.Clear()
}

// DrawLine adds a segment to the current path.
func (s *Surface) DrawLine(x0, y0, x1, y1 float64, c color.RGBA) {
	if s.dc == nil {
		return
	}
	if s.pending && c != s.pendingCol {
		s.flush()
	}
	s.pendingCol = c
	s.pending = true
	s.dc.DrawLine(x0, y0, x1, y1)
}

func (s *Surface) flush() {
	if !s.pending {
		return
	}
	s.dc.SetColor(s.pendingCol)
	s.dc.SetLineWidth(s.lineWidth)
	s.dc.Stroke()
	s.pending = false
}

// Present strokes any pending lines and hands the frame to the
// [WithOnPresent] callback, if any.
func (s *Surface) Present() error {
	if s.dc == nil {
		return surface.ErrReleased
	}
	s.flush()
	s.frames++
	if s.onPresent != nil {
		return s.onPresent(s.dc.Image())
	}
	return nil
}

// Frames returns how many frames have been presented.
func (s *Surface) Frames() int { return s.frames }

// Image returns the current frame. It returns nil after Release.
func (s *Surface) Image() image.Image {
	if s.dc == nil {
		return nil
	}
	return s.dc.Image()
}

// EncodePNG writes the current frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if s.dc == nil {
		return surface.ErrReleased
	}
	return s.dc.EncodePNG(w)
}

// PNG returns the current frame as PNG bytes.
func (s *Surface) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Release drops the backing image.
func (s *Surface) Release() error {
	s.dc = nil
	return nil
}

var _ surface.Surface = (*Surface)(nil)
