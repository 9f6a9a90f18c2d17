package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riannelimje/git-streak/internal/core"
	"github.com/riannelimje/git-streak/internal/registry"
)

// MenuItem represents a selectable contribution source in the menu.
type MenuItem struct {
	Selection
	Description string
}

// MenuModel is the Bubble Tea model for the source picker.
type MenuModel struct {
	items        []MenuItem
	cursor       int
	width        int
	height       int
	config       core.RuntimeConfig
	keyMapper    *KeyMapper
	quitting     bool
	selected     *MenuItem // Set when user selects a source
	openDatasets bool      // True if user pressed Tab for saved datasets
}

// NewMenuModel creates a menu over the registered sources that opts can
// actually build: the file source needs a path and GitHub needs a token.
// The cursor starts on preferred when it is listed.
func NewMenuModel(opts registry.Options, preferred string, cfg core.RuntimeConfig) MenuModel {
	sources := registry.List()
	items := make([]MenuItem, 0, len(sources))

	for _, s := range sources {
		if s.ID == "file" && opts.Path == "" {
			continue
		}
		if s.ID == "github" && opts.Token == "" {
			continue
		}
		items = append(items, MenuItem{
			Selection:   Selection{ID: s.ID, Title: s.Title},
			Description: s.Description,
		})
	}

	cursor := 0
	for i, item := range items {
		if item.ID == preferred {
			cursor = i
		}
	}

	return MenuModel{
		items:     items,
		cursor:    cursor,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionDatasets:
		m.openDatasets = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  G I T   S T R E A K  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Eat a year of commits", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, item.Title, dim.Render(item.Description))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Saved  |  Q: Quit"
	b.WriteString(centerText(dim.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Items returns the menu entries in display order.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsDatasets returns true if user asked for the saved dataset browser.
func (m MenuModel) WantsDatasets() bool {
	return m.openDatasets
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
