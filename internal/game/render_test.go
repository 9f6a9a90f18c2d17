package game

import (
	"strings"
	"testing"

	"github.com/riannelimje/git-streak/internal/core"
)

func TestRenderDrawsBoardAndSnake(t *testing.T) {
	g := gridWith(map[Position]int{{Row: 0, Col: 0}: 1, {Row: 2, Col: 4}: 12})
	s := Initialize(g)

	w, h := MinScreenSize()
	scr := core.NewScreen(w, h)
	Render(s, scr)

	out := scr.String()
	if !strings.Contains(out, "Score: 0/13") {
		t.Errorf("HUD missing score, got:\n%s", out)
	}
	if !strings.Contains(out, "@") {
		t.Errorf("Snake head not drawn:\n%s", out)
	}
	if !strings.Contains(out, "■") {
		t.Errorf("Contribution tiles not drawn:\n%s", out)
	}
}

func TestRenderTileColors(t *testing.T) {
	g := gridWith(map[Position]int{{Row: 3, Col: 10}: 12})
	g[11][3] = Tile{Date: "2026-05-05", Commits: 2, IsCollected: true}
	s := playing(g, DirRight, Position{Row: 0, Col: 0})

	w, h := MinScreenSize()
	scr := core.NewScreen(w, h)
	Render(s, scr)

	originX := (w - boardWidth) / 2
	x := originX + labelWidth + 1
	y := hudHeight + 1

	if c := scr.GetCell(x+10, y+3); c.Rune != '■' || c.Color != core.LevelColor(4) {
		t.Errorf("Expected level 4 tile, got %q color %v", c.Rune, c.Color)
	}
	if c := scr.GetCell(x+11, y+3); c.Rune != '□' || c.Color != core.ColorCollected {
		t.Errorf("Expected collected tile, got %q color %v", c.Rune, c.Color)
	}
	if c := scr.GetCell(x, y); c.Rune != '@' {
		t.Errorf("Expected head at board origin, got %q", c.Rune)
	}
}

func TestRenderOverlay(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"win", State{Grid: NewGrid(), Snake: CreateSnake(Position{}, DirRight), IsGameOver: true, IsWin: true}, "You Win!"},
		{"loss", State{Grid: NewGrid(), Snake: CreateSnake(Position{}, DirRight), IsGameOver: true}, "Game Over"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, h := MinScreenSize()
			scr := core.NewScreen(w, h)
			Render(tc.state, scr)
			if !strings.Contains(scr.String(), tc.want) {
				t.Errorf("Expected overlay %q, got:\n%s", tc.want, scr.String())
			}
		})
	}
}

func TestRenderSmallScreen(t *testing.T) {
	scr := core.NewScreen(30, 6)
	Render(Initialize(NewGrid()), scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Errorf("Expected size warning, got:\n%s", scr.String())
	}
}
