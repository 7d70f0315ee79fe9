package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-cabinet/internal/storage"
)

// Journal browser layout constants
const (
	runsHeightShare = 2 // The runs table gets 1/runsHeightShare of the height
	minTableHeight  = 3
	messageMinWidth = 20
)

// JournalSource is what the browser reads. *storage.Store implements it.
type JournalSource interface {
	RecentRuns(limit int) ([]storage.Run, error)
	RunErrors(runID string) ([]storage.ScriptError, error)
}

// JournalKeyMap defines the key bindings for the journal browser.
type JournalKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k JournalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k JournalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Refresh, k.Quit},
	}
}

// DefaultJournalKeyMap returns default key bindings.
func DefaultJournalKeyMap() JournalKeyMap {
	return JournalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "prev run"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next run"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// JournalModel lists recent runs and the script errors of the selected one.
type JournalModel struct {
	source JournalSource
	limit  int
	runs   []storage.Run
	errs   []storage.ScriptError
	err    error

	runTable table.Model
	errTable table.Model
	help     help.Model
	keys     JournalKeyMap
	width    int
	height   int
	quitting bool
}

// NewJournalModel creates a browser over source showing up to limit runs.
func NewJournalModel(source JournalSource, limit, width, height int) JournalModel {
	h := help.New()
	h.ShowAll = false

	m := JournalModel{
		source: source,
		limit:  limit,
		help:   h,
		keys:   DefaultJournalKeyMap(),
		width:  width,
		height: height,
	}
	m.buildTables()
	m.loadRuns()
	return m
}

// buildTables creates both tables sized to the window.
func (m *JournalModel) buildTables() {
	avail := max(m.height-8, 2*minTableHeight) // Title, headers, help
	runsH := max(avail/runsHeightShare, minTableHeight)
	errsH := max(avail-runsH, minTableHeight)
	msgW := max(m.width-40, messageMinWidth)

	m.runTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "Started", Width: 16},
			{Title: "Entry", Width: 12},
			{Title: "Exit", Width: 6},
			{Title: "Errors", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(runsH),
	)
	m.errTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "Time", Width: 8},
			{Title: "Where", Width: 16},
			{Title: "Message", Width: msgW},
		}),
		table.WithHeight(errsH),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.runTable.SetStyles(s)

	plain := s
	plain.Selected = lipgloss.NewStyle()
	m.errTable.SetStyles(plain)
}

// loadRuns reloads the run list and the errors of the selected run.
func (m *JournalModel) loadRuns() {
	runs, err := m.source.RecentRuns(m.limit)
	m.err = err
	m.runs = runs
	m.setRunRows()
	m.loadErrors()
}

func (m *JournalModel) setRunRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		exit := "-"
		if r.Ended {
			exit = fmt.Sprintf("%d", r.ExitCode)
		}
		rows[i] = table.Row{
			r.StartedAt.Local().Format("Jan 02 15:04:05"),
			r.Entry,
			exit,
			fmt.Sprintf("%d", r.Errors),
		}
	}
	m.runTable.SetRows(rows)
	if m.runTable.Cursor() >= len(rows) {
		m.runTable.GotoTop()
	}
}

// loadErrors loads the errors of the run under the cursor.
func (m *JournalModel) loadErrors() {
	m.errs = nil
	if run, ok := m.Selected(); ok {
		errs, err := m.source.RunErrors(run.ID)
		if err != nil {
			m.err = err
		}
		m.errs = errs
	}

	rows := make([]table.Row, len(m.errs))
	for i, e := range m.errs {
		rows[i] = table.Row{
			e.CreatedAt.Local().Format("15:04:05"),
			fmt.Sprintf("%s:%d", e.File, e.Line),
			e.Message,
		}
	}
	m.errTable.SetRows(rows)
}

// Selected returns the run under the cursor.
func (m JournalModel) Selected() (storage.Run, bool) {
	i := m.runTable.Cursor()
	if i < 0 || i >= len(m.runs) {
		return storage.Run{}, false
	}
	return m.runs[i], true
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal browser.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Refresh):
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.runTable, cmd = m.runTable.Update(msg)
			m.loadErrors()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		cursor := m.runTable.Cursor()
		m.width = msg.Width
		m.height = msg.Height
		m.buildTables()
		m.setRunRows()
		m.runTable.SetCursor(cursor)
		m.loadErrors()
		m.help.Width = msg.Width
		return m, nil
	}

	m.runTable, cmd = m.runTable.Update(msg)
	return m, cmd
}

// View renders the journal browser.
func (m JournalModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(titleStyle.Render("RUNS"))
	b.WriteString("\n")
	if len(m.runs) == 0 {
		b.WriteString(boxStyle.Render(dimStyle.Italic(true).Render("No runs recorded yet.")))
	} else {
		b.WriteString(boxStyle.Render(m.runTable.View()))
	}
	b.WriteString("\n")

	title := "SCRIPT ERRORS"
	if run, ok := m.Selected(); ok {
		title = fmt.Sprintf("SCRIPT ERRORS - %s", shortID(run.ID))
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if len(m.errs) == 0 {
		b.WriteString(boxStyle.Render(dimStyle.Italic(true).Render("No script errors in this run.")))
	} else {
		b.WriteString(boxStyle.Render(m.errTable.View()))
	}
	b.WriteString("\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errStyle.Render("journal: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// shortID keeps the random tail of a UUIDv7, which is what tells runs apart.
func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

// RunJournal runs the journal browser on the terminal.
func RunJournal(source JournalSource, limit, width, height int) error {
	p := tea.NewProgram(
		NewJournalModel(source, limit, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
