package game

import (
	"fmt"

	"github.com/riannelimje/git-streak/internal/core"
)

// Board layout in screen cells.
const (
	hudHeight   = 2
	labelWidth  = 4
	boardWidth  = labelWidth + WeeksInGrid + 2
	boardHeight = DaysPerWeek + 2
)

// MinScreenSize is the smallest screen Render can draw the board on.
func MinScreenSize() (w, h int) {
	return boardWidth, hudHeight + boardHeight + 1
}

var dayLabels = [DaysPerWeek]string{"", "Mon", "", "Wed", "", "Fri", ""}

// Render draws s into dst: a HUD line, the calendar board with the snake on
// top, and an overlay once the game has ended.
func Render(s State, dst *core.Screen) {
	dst.Clear()

	stats := GetStats(s)
	hud := fmt.Sprintf(" git-streak  Score: %d/%d  Tiles: %d/%d  Length: %d",
		stats.Score, stats.MaxScore, stats.TilesCollected,
		stats.TilesCollected+stats.TilesRemaining, stats.SnakeLength)
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')

	minW, minH := MinScreenSize()
	if dst.Width() < minW || dst.Height() < minH {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		return
	}

	originX := (dst.Width() - boardWidth) / 2
	originY := hudHeight
	dst.DrawBox(core.NewRect(originX+labelWidth, originY, WeeksInGrid+2, boardHeight))

	for row, label := range dayLabels {
		dst.DrawTextColored(originX, originY+1+row, label, core.ColorGray)
	}

	cellX := func(col int) int { return originX + labelWidth + 1 + col }
	cellY := func(row int) int { return originY + 1 + row }

	for col, week := range s.Grid {
		if col >= WeeksInGrid {
			break
		}
		for row, t := range week {
			r, c := tileGlyph(t)
			dst.SetColored(cellX(col), cellY(row), r, c)
		}
	}

	for i := len(s.Snake.Body) - 1; i >= 0; i-- {
		seg := s.Snake.Body[i]
		if !s.Grid.InBounds(seg) || seg.Col >= WeeksInGrid {
			continue
		}
		if i == 0 {
			dst.SetColored(cellX(seg.Col), cellY(seg.Row), '@', core.ColorSnakeHead)
		} else {
			dst.SetColored(cellX(seg.Col), cellY(seg.Row), 'o', core.ColorSnakeBody)
		}
	}

	switch s.Type() {
	case StateWin:
		renderOverlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", s.Score))
	case StateGameOver:
		renderOverlay(dst, "Game Over", fmt.Sprintf("Score: %d  R: restart  N: new", s.Score))
	}
}

func tileGlyph(t Tile) (rune, core.Color) {
	switch {
	case t.Date == "":
		return ' ', core.ColorDefault
	case t.IsCollected:
		return '□', core.ColorCollected
	default:
		return '■', core.LevelColor(ContributionLevel(t.Commits))
	}
}

// renderOverlay draws a centered two-line message box.
func renderOverlay(dst *core.Screen, line1, line2 string) {
	w := max(len(line1), len(line2)) + 4
	box := core.NewRect(0, 0, dst.Width(), dst.Height()).Centered(w, 5)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextColored(box.X+(w-len(line1))/2, box.Y+1, line1, core.ColorBrightWhite)
	dst.DrawText(box.X+(w-len(line2))/2, box.Y+3, line2)
}
