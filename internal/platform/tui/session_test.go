package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/riannelimje/git-streak/internal/registry"
)

func TestMenuHidesUnusableSources(t *testing.T) {
	m := NewMenuModel(registry.Options{}, "", testConfig())
	for _, item := range m.Items() {
		if item.ID == "file" || item.ID == "github" {
			t.Errorf("Expected %s to be hidden without options", item.ID)
		}
	}

	m = NewMenuModel(registry.Options{Token: "t", Path: "days.yaml"}, "medium", testConfig())
	seen := map[string]bool{}
	for _, item := range m.Items() {
		seen[item.ID] = true
	}
	if !seen["file"] || !seen["github"] || !seen["medium"] {
		t.Errorf("Expected file, github and medium in menu, got %v", seen)
	}
	if m.Items()[m.cursor].ID != "medium" {
		t.Errorf("Expected cursor on medium, got %s", m.Items()[m.cursor].ID)
	}
}

func TestSessionStartsGameFromMenu(t *testing.T) {
	s := NewSessionModel(Services{}, testConfig(), "tester")

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.screen != screenGame || s.gameModel == nil {
		t.Fatalf("Expected game screen after enter, got screen %d", s.screen)
	}
	if cmd == nil {
		t.Error("Expected the game to start loading")
	}

	// The first grid has not arrived, so esc leaves straight away.
	next, _ = s.Update(runeKey("p"))
	s = next.(SessionModel)
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.screen != screenMenu {
		t.Errorf("Expected esc before the first grid to return to menu, got screen %d", s.screen)
	}
}

func TestSessionOpensDatasets(t *testing.T) {
	s := NewSessionModel(Services{}, testConfig(), "tester")

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.screen != screenDatasets {
		t.Fatalf("Expected datasets screen, got %d", s.screen)
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.screen != screenMenu {
		t.Errorf("Expected esc to return to menu, got %d", s.screen)
	}
}

func TestSavedDatasetNeedsStore(t *testing.T) {
	if _, err := (Services{}).NewLoader(Selection{ID: "mine", Dataset: true}); err == nil {
		t.Error("Expected an error for a saved dataset without a database")
	}
}
