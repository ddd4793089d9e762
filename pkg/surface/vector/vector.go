// Package vector implements a surface that records each frame as an SVG
// document.
package vector

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

// Option configures a [Surface].
type Option func(*Surface)

// WithStrokeWidth sets the stroke width (default 1).
func WithStrokeWidth(w float64) Option {
	return func(s *Surface) { s.strokeWidth = w }
}

// WithOpacity sets the stroke opacity for every line (default 1).
func WithOpacity(o float64) Option {
	return func(s *Surface) { s.opacity = o }
}

// Surface accumulates line segments and renders them as SVG on Present.
// Lines are grouped by colour into one <path> each.
type Surface struct {
	width, height int
	strokeWidth   float64
	opacity       float64

	background color.RGBA
	paths      map[color.RGBA]*bytes.Buffer
	order      []color.RGBA
	last       []byte
	released   bool
}

// New creates a surface of the given size.
func New(width, height int, opts ...Option) *Surface {
	s := &Surface{width: width, height: height, strokeWidth: 1, opacity: 1}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Surface) reset() {
	s.paths = make(map[color.RGBA]*bytes.Buffer)
	s.order = s.order[:0]
}

// Size returns the document size.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// Resize changes the document size and drops the frame in progress.
func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
	s.reset()
}

// Clear starts a new frame with background c.
func (s *Surface) Clear(c color.RGBA) {
	if s.released {
		return
	}
	s.background = c
	s.reset()
}

// DrawLine appends a segment to the path for c.
func (s *Surface) DrawLine(x0, y0, x1, y1 float64, c color.RGBA) {
	if s.released {
		return
	}
	buf, ok := s.paths[c]
	if !ok {
		buf = &bytes.Buffer{}
		s.paths[c] = buf
		s.order = append(s.order, c)
	}
	fmt.Fprintf(buf, "M%.1f %.1fL%.1f %.1f", x0, y0, x1, y1)
}

// Present renders the frame into an SVG document, retrievable with Bytes.
func (s *Surface) Present() error {
	if s.released {
		return surface.ErrReleased
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.width, s.height, s.width, s.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", surface.Hex(s.background))
	fmt.Fprintf(&buf, `  <g fill="none" stroke-width="%.2g" stroke-opacity="%.2g" stroke-linecap="round">`+"\n",
		s.strokeWidth, s.opacity)
	for _, c := range s.order {
		fmt.Fprintf(&buf, `    <path stroke="%s" d="%s"/>`+"\n", surface.Hex(c), s.paths[c].String())
	}
	buf.WriteString("  </g>\n</svg>\n")
	s.last = buf.Bytes()
	return nil
}

// Bytes returns the most recently presented document, or nil before the
// first Present.
func (s *Surface) Bytes() []byte { return s.last }

// WriteTo writes the most recently presented document to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.last)
	return int64(n), err
}

// Release drops all buffered data.
func (s *Surface) Release() error {
	s.released = true
	s.paths = nil
	s.order = nil
	return nil
}

var _ surface.Surface = (*Surface)(nil)
