package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ridgeline/pkg/pipeline"
	"github.com/matzehuels/ridgeline/pkg/surface"
	"github.com/matzehuels/ridgeline/pkg/terrain"
)

// The accent colours are the first two wireframe layers, so terminal output
// matches what the backdrop draws.
var (
	colorRidge = lipgloss.Color(surface.Hex(terrain.DefaultPalette[0]))
	colorFar   = lipgloss.Color(surface.Hex(terrain.DefaultPalette[1]))
	colorOK    = lipgloss.Color("35")
	colorWarn  = lipgloss.Color("220")
	colorFail  = lipgloss.Color("167")
	colorText  = lipgloss.Color("255")
	colorMuted = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Shared text styles.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorRidge)
	StyleLink    = lipgloss.NewStyle().Foreground(colorFar).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorRidge)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// status lines share one shape: a coloured marker, then the message.
type marker struct {
	icon  string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (m marker) println(msg string) {
	fmt.Println(m.style.Render(m.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { markSuccess.println(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { markError.println(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { markInfo.println(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	markWarning.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a render: "2 layers · 812/960 segments · 3 frames · fresh".
func printStats(st pipeline.Stats, cached bool) {
	var parts []string
	if st.Layers > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d layers", st.Layers)))
	}
	if st.Drawn > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d/%d segments", st.Drawn, st.Edges)))
	}
	if st.Frames > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d frames", st.Frames)))
	}
	if cached {
		parts = append(parts, markSuccess.style.Render("cached"))
	} else {
		parts = append(parts, markInfo.style.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// renderTable lays out rows under headers with a rounded border; the first
// column is highlighted in the ridge colour.
func renderTable(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	first := lipgloss.NewStyle().Foreground(colorRidge)
	rest := lipgloss.NewStyle().Foreground(colorText)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return first
			default:
				return rest
			}
		}).
		Render()
}
