// Package cells implements a surface backed by a grid of braille terminal
// cells. Each cell holds a 2×4 block of dots, so a terminal of C×R cells
// gives a drawable area of 2C×4R pixels.
package cells

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ridgeline/pkg/surface"
)

// brailleBase is the empty braille pattern, U+2800.
const brailleBase = 0x2800

// dotBits maps a dot at (x, y) inside a cell to its braille bit.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Grid is a braille canvas.
type Grid struct {
	cols, rows int
	bits       []uint8
	fg         []color.RGBA
	bg         color.RGBA
}

// NewGrid creates an empty grid of cols×rows cells.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{}
	g.resize(cols, rows)
	return g
}

func (g *Grid) resize(cols, rows int) {
	g.cols, g.rows = max(cols, 0), max(rows, 0)
	g.bits = make([]uint8, g.cols*g.rows)
	g.fg = make([]color.RGBA, g.cols*g.rows)
}

// Cols returns the grid width in cells.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *Grid) Rows() int { return g.rows }

// Background returns the colour set by the last clear.
func (g *Grid) Background() color.RGBA { return g.bg }

// Cell returns the braille rune and colour at (col, row). ok is false for an
// empty cell.
func (g *Grid) Cell(col, row int) (r rune, fg color.RGBA, ok bool) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return ' ', g.bg, false
	}
	i := row*g.cols + col
	if g.bits[i] == 0 {
		return ' ', g.bg, false
	}
	return rune(brailleBase + int(g.bits[i])), g.fg[i], true
}

// Lit returns how many cells have at least one dot set.
func (g *Grid) Lit() int {
	n := 0
	for _, b := range g.bits {
		if b != 0 {
			n++
		}
	}
	return n
}

func (g *Grid) wipe(bg color.RGBA) {
	g.bg = bg
	clear(g.bits)
}

// set lights the dot at pixel (x, y).
func (g *Grid) set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= g.cols || row >= g.rows {
		return
	}
	i := row*g.cols + col
	g.bits[i] |= dotBits[y%4][x%2]
	g.fg[i] = c
}

// line plots a segment with a DDA walk, one dot per step along the major
// axis. Steps are capped so a wildly out-of-range segment cannot stall a
// frame.
func (g *Grid) line(x0, y0, x1, y1 float64, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)))
	limit := float64(4 * (g.cols*2 + g.rows*4))
	if steps > limit {
		steps = limit
	}
	if steps < 1 {
		g.set(int(math.Floor(x0)), int(math.Floor(y0)), c)
		return
	}
	for i := 0.0; i <= steps; i++ {
		g.set(int(math.Floor(x0+dx*i/steps)), int(math.Floor(y0+dy*i/steps)), c)
	}
}

// String renders the grid as plain text, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols*3 + 1))
	for row := range g.rows {
		for col := range g.cols {
			r, _, _ := g.Cell(col, row)
			b.WriteRune(r)
		}
		if row < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render renders the grid with lipgloss foreground colours. Runs of cells
// sharing a colour are styled together.
func (g *Grid) Render() string {
	var b strings.Builder
	var run strings.Builder
	var runCol color.RGBA
	runLit := false

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runLit {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(surface.Hex(runCol))).Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}

	for row := range g.rows {
		for col := range g.cols {
			r, fg, ok := g.Cell(col, row)
			if ok != runLit || (ok && fg != runCol) {
				flush()
				runLit, runCol = ok, fg
			}
			run.WriteRune(r)
		}
		flush()
		if row < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
