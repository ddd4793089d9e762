package cells

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// TerminalPresenter draws grids onto a tcell screen.
type TerminalPresenter struct {
	screen tcell.Screen
	// Offset shifts the grid down, leaving rows free for a status line.
	Offset int
}

// NewTerminalPresenter returns a presenter for screen.
func NewTerminalPresenter(screen tcell.Screen) *TerminalPresenter {
	return &TerminalPresenter{screen: screen}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Present writes every cell and shows the screen.
func (p *TerminalPresenter) Present(g *Grid) error {
	bg := rgb(g.Background())
	blank := tcell.StyleDefault.Background(bg)
	for row := range g.Rows() {
		for col := range g.Cols() {
			r, fg, ok := g.Cell(col, row)
			style := blank
			if ok {
				style = blank.Foreground(rgb(fg))
			}
			p.screen.SetContent(col, row+p.Offset, r, nil, style)
		}
	}
	p.screen.Show()
	return nil
}
