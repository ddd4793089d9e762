package cells

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

var (
	black = color.RGBA{A: 0xff}
	cyan  = color.RGBA{G: 0xff, B: 0xff, A: 0xff}
	azure = color.RGBA{G: 0x80, B: 0xff, A: 0xff}
)

func TestSurfaceSize(t *testing.T) {
	s := New(40, 10)
	if w, h := s.Size(); w != 80 || h != 40 {
		t.Errorf("Size() = %dx%d, want 80x40", w, h)
	}
	s.Resize(81, 41)
	if s.Grid().Cols() != 41 || s.Grid().Rows() != 11 {
		t.Errorf("grid after Resize(81, 41) = %dx%d cells, want 41x11", s.Grid().Cols(), s.Grid().Rows())
	}
}

func TestPixelsToCells(t *testing.T) {
	tests := []struct{ w, h, cols, rows int }{
		{0, 0, 0, 0},
		{2, 4, 1, 1},
		{3, 5, 2, 2},
		{160, 96, 80, 24},
	}
	for _, tt := range tests {
		c, r := PixelsToCells(tt.w, tt.h)
		if c != tt.cols || r != tt.rows {
			t.Errorf("PixelsToCells(%d, %d) = (%d, %d), want (%d, %d)", tt.w, tt.h, c, r, tt.cols, tt.rows)
		}
	}
}

func TestDotEncoding(t *testing.T) {
	s := New(1, 1)
	s.Clear(black)
	// a single dot in the top-left is U+2801
	s.DrawLine(0, 0, 0, 0, cyan)
	if r, fg, ok := s.Grid().Cell(0, 0); !ok || r != '⠁' || fg != cyan {
		t.Errorf("Cell(0, 0) = (%q, %v, %v), want ('⠁', cyan, true)", r, fg, ok)
	}
	// filling the left column adds dots 2, 3 and 7
	s.DrawLine(0, 0, 0, 3, cyan)
	if r, _, _ := s.Grid().Cell(0, 0); r != '⡇' {
		t.Errorf("left column = %q, want '⡇'", r)
	}
}

func TestHorizontalLine(t *testing.T) {
	s := New(10, 2)
	s.Clear(black)
	s.DrawLine(0, 1, 19, 1, cyan)

	if got := s.Grid().Lit(); got != 10 {
		t.Errorf("Lit() = %d, want the whole first row (10)", got)
	}
	first := strings.Split(s.Grid().String(), "\n")[0]
	if strings.Contains(first, " ") {
		t.Errorf("first row has gaps: %q", first)
	}
}

func TestClipping(t *testing.T) {
	s := New(4, 4)
	s.Clear(black)
	// far outside the grid, must neither panic nor hang
	s.DrawLine(-1e9, -1e9, 1e9, 1e9, cyan)
	s.DrawLine(-50, 2, -10, 2, cyan)
	if s.Grid().Lit() == 0 {
		t.Error("diagonal through the grid should light some cells")
	}
}

func TestClearEmpties(t *testing.T) {
	s := New(4, 4)
	s.DrawLine(0, 0, 7, 15, cyan)
	s.Clear(black)
	if got := s.Grid().Lit(); got != 0 {
		t.Errorf("Lit() after Clear = %d, want 0", got)
	}
}

func TestRender(t *testing.T) {
	s := New(6, 1)
	s.Clear(black)
	s.DrawLine(0, 0, 5, 0, cyan)
	s.DrawLine(8, 0, 11, 0, azure)

	plain := s.Grid().String()
	if len([]rune(plain)) != 6 {
		t.Errorf("String() = %q, want 6 runes", plain)
	}
	styled := s.Grid().Render()
	if !strings.Contains(styled, "⠉") {
		t.Errorf("Render() lost the braille runes: %q", styled)
	}
}

// recordScreen is a minimal tcell.Screen that records SetContent calls.
type recordScreen struct {
	tcell.Screen
	cells map[[2]int]rune
	shows int
}

func (m *recordScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	m.cells[[2]int{x, y}] = mainc
}

func (m *recordScreen) Show() { m.shows++ }

func TestTerminalPresenter(t *testing.T) {
	scr := &recordScreen{cells: make(map[[2]int]rune)}
	p := NewTerminalPresenter(scr)
	p.Offset = 1

	s := New(3, 2, WithPresenter(p))
	s.Clear(black)
	s.DrawLine(0, 0, 5, 0, cyan)
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	if scr.shows != 1 {
		t.Errorf("Show called %d times, want 1", scr.shows)
	}
	if len(scr.cells) != 6 {
		t.Errorf("SetContent wrote %d cells, want 6", len(scr.cells))
	}
	if r := scr.cells[[2]int{0, 1}]; r != '⠉' {
		t.Errorf("cell (0, 1) = %q, want '⠉' (offset row)", r)
	}
	if r := scr.cells[[2]int{0, 2}]; r != ' ' {
		t.Errorf("cell (0, 2) = %q, want blank", r)
	}
}

func TestPresenterError(t *testing.T) {
	boom := errors.New("tty gone")
	s := New(1, 1, WithPresenter(PresenterFunc(func(*Grid) error { return boom })))
	if err := s.Present(); !errors.Is(err, boom) {
		t.Errorf("Present() = %v, want %v", err, boom)
	}
}

func TestReleaseOnce(t *testing.T) {
	calls := 0
	s := New(1, 1, WithReleaser(func() { calls++ }))
	_ = s.Release()
	_ = s.Release()
	if calls != 1 {
		t.Errorf("releaser ran %d times, want 1", calls)
	}
	if err := s.Present(); !errors.Is(err, surface.ErrReleased) {
		t.Errorf("Present after Release = %v, want ErrReleased", err)
	}
}
