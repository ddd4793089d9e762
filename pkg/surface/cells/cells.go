package cells

import (
	"image/color"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

// Presenter publishes a finished grid, for example to a terminal screen.
type Presenter interface {
	Present(g *Grid) error
}

// PresenterFunc adapts a function to [Presenter].
type PresenterFunc func(g *Grid) error

// Present calls f(g).
func (f PresenterFunc) Present(g *Grid) error { return f(g) }

// Option configures a [Surface].
type Option func(*Surface)

// WithPresenter sets where frames go on Present. Without one, frames stay in
// the grid for the caller to read.
func WithPresenter(p Presenter) Option {
	return func(s *Surface) { s.presenter = p }
}

// WithReleaser registers fn to run once on Release, typically to restore
// the terminal.
func WithReleaser(fn func()) Option {
	return func(s *Surface) { s.releaser = fn }
}

// Surface adapts a [Grid] to [surface.Surface]. Its pixel size is twice the
// column count by four times the row count.
type Surface struct {
	grid      *Grid
	presenter Presenter
	releaser  func()
	released  bool
}

// New creates a surface of cols×rows cells.
func New(cols, rows int, opts ...Option) *Surface {
	s := &Surface{grid: NewGrid(cols, rows)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PixelsToCells converts a pixel size to the cell grid that covers it.
func PixelsToCells(width, height int) (cols, rows int) {
	return (width + 1) / 2, (height + 3) / 4
}

// Grid returns the underlying grid.
func (s *Surface) Grid() *Grid { return s.grid }

// Size returns the drawable area in braille dots.
func (s *Surface) Size() (int, int) {
	return s.grid.cols * 2, s.grid.rows * 4
}

// Resize sets the pixel size, rounding up to whole cells.
func (s *Surface) Resize(width, height int) {
	s.grid.resize(PixelsToCells(width, height))
}

// Clear empties every cell.
func (s *Surface) Clear(c color.RGBA) { s.grid.wipe(c) }

// DrawLine plots a segment in dot coordinates.
func (s *Surface) DrawLine(x0, y0, x1, y1 float64, c color.RGBA) {
	s.grid.line(x0, y0, x1, y1, c)
}

// Present passes the grid to the presenter.
func (s *Surface) Present() error {
	if s.released {
		return surface.ErrReleased
	}
	if s.presenter == nil {
		return nil
	}
	return s.presenter.Present(s.grid)
}

// Release runs the releaser once.
func (s *Surface) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	if s.releaser != nil {
		s.releaser()
	}
	return nil
}

var _ surface.Surface = (*Surface)(nil)
