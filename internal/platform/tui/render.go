package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/riannelimje/git-streak/internal/core"
)

// colorStyles maps core.Color to lipgloss styles. The level greens follow the
// contribution calendar's palette.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorLevel0:      lipgloss.NewStyle().Foreground(lipgloss.Color("#161b22")),
	core.ColorLevel1:      lipgloss.NewStyle().Foreground(lipgloss.Color("#0e4429")),
	core.ColorLevel2:      lipgloss.NewStyle().Foreground(lipgloss.Color("#006d32")),
	core.ColorLevel3:      lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641")),
	core.ColorLevel4:      lipgloss.NewStyle().Foreground(lipgloss.Color("#39d353")),
	core.ColorCollected:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorSnakeHead:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	core.ColorSnakeBody:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
