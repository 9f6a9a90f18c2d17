package core

// Color represents a foreground color for a screen cell.
// The platform layer maps each value to a terminal color.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorGray
	ColorBrightWhite

	// Contribution intensity, lightest to strongest.
	ColorLevel0
	ColorLevel1
	ColorLevel2
	ColorLevel3
	ColorLevel4

	ColorCollected
	ColorSnakeHead
	ColorSnakeBody
)

// LevelColor returns the color for contribution level 0-4.
func LevelColor(level int) Color {
	switch {
	case level <= 0:
		return ColorLevel0
	case level == 1:
		return ColorLevel1
	case level == 2:
		return ColorLevel2
	case level == 3:
		return ColorLevel3
	default:
		return ColorLevel4
	}
}
