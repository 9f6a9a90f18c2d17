package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riannelimje/git-streak/internal/core"
	"github.com/riannelimje/git-streak/internal/game"
)

// gridMsg carries the result of an asynchronous dataset fetch.
type gridMsg struct {
	grid game.Grid
	err  error
}

// Model is the Bubble Tea model for one game of snake on a contribution grid.
// All game changes go through game.Reduce.
type Model struct {
	title     string
	load      GridLoader
	growth    game.GrowthPolicy
	state     game.State
	started   bool
	loading   bool
	paused    bool
	err       error
	screen    *core.Screen
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	keys      GameKeyMap
	help      help.Model
	loop      uint64

	quitting   bool
	backToMenu bool
}

// NewModel creates a game model. The first grid is fetched by Init.
func NewModel(title string, load GridLoader, growth game.GrowthPolicy, cfg core.RuntimeConfig) Model {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = core.DefaultTickInterval
	}
	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		title:     title,
		load:      load,
		growth:    growth,
		loading:   true,
		screen:    core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 0)),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		keys:      DefaultGameKeyMap(),
		help:      h,
		loop:      nextLoop(),
	}
}

// Init fetches the first grid and starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tickCmd(m.config.TickInterval, m.loop))
}

func (m Model) fetchCmd() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		grid, err := load(ctx)
		return gridMsg{grid: grid, err: err}
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 0))
		m.help.Width = msg.Width
		return m, nil

	case gridMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if m.started {
			m.state = game.Reduce(m.state, game.NewGameAction(msg.grid))
		} else {
			m.state = game.Initialize(msg.grid, game.WithGrowthPolicy(m.growth))
			m.started = true
		}
		m.paused = false
		return m, nil

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	if action == core.ActionBack && (!m.started || m.paused || m.state.IsGameOver || m.err != nil) {
		m.backToMenu = true
		return m, nil
	}

	if action == core.ActionNewGame && !m.loading {
		m.loading = true
		return m, m.fetchCmd()
	}

	if !m.started || m.loading {
		return m, nil
	}

	if dir, ok := DirectionFor(action); ok {
		if !m.paused {
			m.state = game.Reduce(m.state, game.ChangeDirectionAction(dir))
		}
		return m, nil
	}

	switch action {
	case core.ActionPause:
		if !m.state.IsGameOver {
			m.paused = !m.paused
		}
	case core.ActionRestart:
		m.state = game.Reduce(m.state, game.RestartAction())
		m.paused = false
	}

	return m, nil
}

// handleTick advances the game unless it is paused, loading or finished.
// The tick loop itself keeps running so resuming needs no restart.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.started && !m.loading && !m.paused && !m.state.IsGameOver {
		m.state = game.Reduce(m.state, game.TickAction())
	}
	return m, tickCmd(m.config.TickInterval, m.loop)
}

// saveScreenshot saves the current board as plain text.
func (m *Model) saveScreenshot() {
	if !m.started {
		return
	}
	game.Render(m.state, m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".gitstreak", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("board_%s.txt", time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	switch {
	case m.err != nil:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
		return "\n" + centerText(errStyle.Render("Could not load "+m.title), m.config.ScreenW) +
			"\n\n" + centerText(m.err.Error(), m.config.ScreenW) +
			"\n\n" + centerText(dim.Render("n: retry  esc: menu  q: quit"), m.config.ScreenW)
	case !m.started:
		return "\n" + centerText("Loading "+m.title+"...", m.config.ScreenW)
	}

	game.Render(m.state, m.screen)
	if m.paused {
		m.screen.DrawTextCentered(m.screen.Height()/2, " PAUSED ")
	}
	if m.loading {
		m.screen.DrawTextCentered(m.screen.Height()-1, " loading a new year... ")
	}

	return RenderScreen(m.screen) + "\n" + dim.Render(m.help.View(m.keys))
}

// State returns the current game state.
func (m Model) State() game.State {
	return m.state
}

// Paused reports whether ticking is suspended.
func (m Model) Paused() bool {
	return m.paused
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays one selection in the local terminal.
func Run(title string, load GridLoader, growth game.GrowthPolicy, cfg core.RuntimeConfig) error {
	model := NewModel(title, load, growth, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
