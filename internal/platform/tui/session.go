package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/riannelimje/git-streak/internal/core"
	"github.com/riannelimje/git-streak/internal/game"
)

type screenKind int

const (
	screenMenu screenKind = iota
	screenDatasets
	screenGame
)

// SessionModel manages the full flow: menu -> game -> menu, with the saved
// dataset browser one Tab away. It is the top-level model for SSH sessions
// and for local play without a preselected source.
type SessionModel struct {
	services  Services
	config    core.RuntimeConfig
	username  string
	screen    screenKind
	menu      MenuModel
	datasets  DatasetsModel
	gameModel *Model
	notice    string
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(services Services, cfg core.RuntimeConfig, username string) SessionModel {
	if services.Logger == nil {
		services.Logger = log.Default()
	}
	return SessionModel{
		services: services,
		config:   cfg,
		username: username,
		menu:     NewMenuModel(services.Sources, services.DefaultSource, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenDatasets:
		return m.updateDatasets(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}
	if _, ok := msg.(tea.KeyMsg); ok {
		m.notice = ""
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsDatasets():
		m.menu = NewMenuModel(m.services.Sources, m.services.DefaultSource, m.config)
		m.datasets = NewDatasetsModel(m.services.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenDatasets
		return m, m.datasets.Init()

	case m.menu.Selected() != nil:
		sel := m.menu.Selected().Selection
		m.menu = NewMenuModel(m.services.Sources, m.services.DefaultSource, m.config)
		return m.startGame(sel)
	}

	return m, cmd
}

func (m SessionModel) updateDatasets(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.datasets.Update(msg)
	if d, ok := newModel.(DatasetsModel); ok {
		m.datasets = d
	}

	switch {
	case m.datasets.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.datasets.IsGoingBack():
		m.screen = screenMenu
		return m, nil

	case m.datasets.Selected() != nil:
		name := m.datasets.Selected().Name
		m.datasets = NewDatasetsModel(m.services.Store, m.config.ScreenW, m.config.ScreenH)
		return m.startGame(Selection{ID: name, Title: name, Dataset: true})
	}

	return m, cmd
}

func (m SessionModel) startGame(sel Selection) (tea.Model, tea.Cmd) {
	load, err := m.services.NewLoader(sel)
	if err != nil {
		m.services.Logger.Warn("Cannot start game", "user", m.username, "source", sel.ID, "error", err)
		m.notice = err.Error()
		m.screen = screenMenu
		return m, nil
	}

	m.services.Logger.Info("Game started", "user", m.username, "source", sel.ID, "saved", sel.Dataset)
	gm := NewModel(sel.Title, load, m.services.Growth, m.config)
	m.gameModel = &gm
	m.screen = screenGame
	return m, gm.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gm, ok := newModel.(Model); ok {
		m.gameModel = &gm
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		st := m.gameModel.State()
		stats := game.GetStats(st)
		m.services.Logger.Info("Game finished", "user", m.username,
			"state", st.Type(), "score", stats.Score, "max", stats.MaxScore)
		m.gameModel = nil
		m.screen = screenMenu
		return m, nil
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.gameModel.View()
	case screenDatasets:
		return m.datasets.View()
	}

	view := m.menu.View()
	if m.notice != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		view += "\n" + centerText(errStyle.Render(m.notice), m.config.ScreenW)
	}
	return view
}

// RunSession runs the menu driven flow in the local terminal.
func RunSession(services Services, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(services, cfg, "local"),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
