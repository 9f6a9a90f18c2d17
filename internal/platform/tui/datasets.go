package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/riannelimje/git-streak/internal/core"
	"github.com/riannelimje/git-streak/internal/storage"
)

// DatasetsKeyMap defines the key bindings for the saved dataset browser.
type DatasetsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Play   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k DatasetsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Play, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k DatasetsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Play, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultDatasetsKeyMap returns default key bindings.
func DefaultDatasetsKeyMap() DatasetsKeyMap {
	return DatasetsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "tab"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DatasetsModel lists the datasets saved in the SQLite cache.
type DatasetsModel struct {
	store     *storage.Store
	datasets  []storage.DatasetInfo
	err       error
	table     table.Model
	help      help.Model
	keys      DatasetsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
	selected  *storage.DatasetInfo
}

// NewDatasetsModel creates the browser and loads the dataset list.
func NewDatasetsModel(store *storage.Store, width, height int) DatasetsModel {
	m := DatasetsModel{
		store:  store,
		keys:   DefaultDatasetsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a new table sized to the window.
func (m *DatasetsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 14},
		{Title: "Source", Width: 8},
		{Title: "Days", Width: 5},
		{Title: "Active", Width: 6},
		{Title: "Commits", Width: 8},
		{Title: "Fetched", Width: 13},
	}

	// Give the name column whatever the others leave over.
	if extra := m.width - 4 - 58; extra > 0 {
		columns[0].Width += min(extra, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("28")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload reads the dataset list from the store.
func (m *DatasetsModel) reload() {
	m.datasets, m.err = nil, nil
	if m.store != nil {
		m.datasets, m.err = m.store.ListDatasets(context.Background())
	}
	m.updateTableRows()
}

func (m *DatasetsModel) updateTableRows() {
	rows := make([]table.Row, len(m.datasets))
	for i, d := range m.datasets {
		rows[i] = table.Row{
			d.Name,
			d.Source,
			fmt.Sprintf("%d", d.Days),
			fmt.Sprintf("%d", d.ActiveDays),
			fmt.Sprintf("%d", d.TotalCommits),
			d.FetchedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(core.Clamp(m.table.Cursor(), 0, max(len(rows)-1, 0)))
	}
}

// Init initializes the browser.
func (m DatasetsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m DatasetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Play):
			if d, ok := m.current(); ok {
				m.selected = &d
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if d, ok := m.current(); ok && m.store != nil {
				m.err = m.store.DeleteDataset(context.Background(), d.Name)
				if m.err == nil {
					m.reload()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DatasetsModel) current() (storage.DatasetInfo, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.datasets) {
		return storage.DatasetInfo{}, false
	}
	return m.datasets[i], true
}

// View renders the browser.
func (m DatasetsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("SAVED DATASETS", m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(boxStyle.Render(m.renderTableContent()), m.width))
	b.WriteString("\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		b.WriteString(centerText(errStyle.Render(m.err.Error()), m.width))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m DatasetsModel) renderTableContent() string {
	if len(m.datasets) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if m.store == nil {
			return emptyStyle.Render("No dataset database is configured.")
		}
		return emptyStyle.Render("No datasets saved yet.\nRun `gitstreak fetch` to save one!")
	}

	return m.table.View()
}

// Selected returns the dataset chosen for play, or nil.
func (m DatasetsModel) Selected() *storage.DatasetInfo {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m DatasetsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m DatasetsModel) IsQuitting() bool {
	return m.quitting
}
