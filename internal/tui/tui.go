// Package tui provides a terminal user interface for the task list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoapp/internal/store"
	"todoapp/internal/utils"
	"todoapp/internal/views"
)

// Mode indicates the current input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
	ModeEdit
	ModeHelp
)

// Model represents the TUI state
type Model struct {
	store *store.Store
	ctx   context.Context

	filter views.Filter
	cursor int // index into the visible rows

	mode      Mode
	textInput textinput.Model
	keys      keyMap
	help      help.Model

	status    string
	statusErr bool

	// UI dimensions
	width  int
	height int

	// Styles
	titleStyle        lipgloss.Style
	selectedStyle     lipgloss.Style
	completedStyle    lipgloss.Style
	activeFilterStyle lipgloss.Style
	helpStyle         lipgloss.Style
	errorStyle        lipgloss.Style
	dialogStyle       lipgloss.Style
	statusBarStyle    lipgloss.Style
}

// New creates a new TUI model over a loaded store
func New(s *store.Store, filter views.Filter) *Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 0
	ti.Prompt = ""

	return &Model{
		store:     s,
		ctx:       context.Background(),
		filter:    views.ParseFilter(string(filter)),
		mode:      ModeNormal,
		textInput: ti,
		keys:      defaultKeyMap(),
		help:      help.New(),
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		completedStyle: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		activeFilterStyle: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("212")),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		dialogStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		statusBarStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
	}
}

// Run starts the TUI in the alternate screen and blocks until it exits
func Run(ctx context.Context, m *Model) error {
	m.ctx = ctx
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// Filter returns the active filter mode
func (m *Model) Filter() views.Filter {
	return m.filter
}

// Mode returns the current input mode
func (m *Model) Mode() Mode {
	return m.mode
}

// Status returns the status line message, if any
func (m *Model) Status() string {
	return m.status
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles a message
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		switch m.mode {
		case ModeAdd:
			return m.handleAddMode(msg)
		case ModeEdit:
			return m.handleEditMode(msg)
		case ModeHelp:
			return m.handleHelpMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.page().Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Add):
		m.clearStatus()
		m.mode = ModeAdd
		m.textInput.Reset()
		m.textInput.Placeholder = "What needs to be done?"
		m.textInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.clearStatus()
		m.store.BeginEdit(row.Task.ID, row.Task.Text)
		m.mode = ModeEdit
		m.textInput.Reset()
		m.textInput.SetValue(row.Task.Text)
		m.textInput.CursorEnd()
		m.textInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.selected(); ok {
			m.clearStatus()
			_, err := m.store.Toggle(m.ctx, row.Task.ID)
			m.reportErr("toggle", err)
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.selected(); ok {
			m.clearStatus()
			_, err := m.store.Delete(m.ctx, row.Task.ID)
			m.reportErr("delete", err)
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.All):
		m.setFilter(views.FilterAll)
	case key.Matches(msg, m.keys.Active):
		m.setFilter(views.FilterActive)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(views.FilterCompleted)
	case key.Matches(msg, m.keys.NextFilter):
		m.setFilter(m.filter.Next())

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
	}

	return m, nil
}

func (m *Model) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		m.mode = ModeNormal
		m.textInput.Blur()
		task, added, err := m.store.Add(m.ctx, m.textInput.Value())
		m.textInput.Reset()
		if err != nil {
			m.reportErr("add", err)
		}
		if added {
			m.selectTask(task.ID)
		}
		return m, nil

	case tea.KeyEsc:
		m.mode = ModeNormal
		m.textInput.Blur()
		m.textInput.Reset()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		m.mode = ModeNormal
		m.textInput.Blur()
		if edit, ok := m.store.Editing(); ok {
			_, err := m.store.CommitEdit(m.ctx, edit.ID, edit.Text)
			m.reportErr("save", err)
		}
		m.textInput.Reset()
		return m, nil

	case tea.KeyEsc:
		m.mode = ModeNormal
		m.textInput.Blur()
		m.store.CancelEdit()
		m.textInput.Reset()
		return m, nil
	}

	// The input sanitizes what it displays (tabs, line breaks), so the
	// scratch text only follows it once a key actually changes the value.
	before := m.textInput.Value()
	m.textInput, cmd = m.textInput.Update(msg)
	if value := m.textInput.Value(); value != before {
		m.store.SetEditText(value)
	}
	return m, cmd
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.mode = ModeNormal
		return m, nil
	}

	if key.Matches(msg, m.keys.Help) || msg.String() == "q" {
		m.mode = ModeNormal
	}
	return m, nil
}

// page builds the current render model
func (m *Model) page() views.Page {
	var edit *store.Edit
	if e, ok := m.store.Editing(); ok {
		edit = &e
	}
	return views.Build(m.store.Tasks(), m.filter, edit)
}

func (m *Model) selected() (views.Row, bool) {
	rows := m.page().Rows
	if m.cursor < 0 || m.cursor >= len(rows) {
		return views.Row{}, false
	}
	return rows[m.cursor], true
}

// selectTask moves the cursor to the task with id if it is visible
func (m *Model) selectTask(id int64) {
	for i, row := range m.page().Rows {
		if row.Task.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.page().Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setFilter(f views.Filter) {
	m.filter = f
	m.cursor = 0
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// reportErr shows a failed persistence write in the status bar
func (m *Model) reportErr(action string, err error) {
	if err == nil {
		return
	}
	utils.Errorf("%s failed: %v", action, err)
	m.status = fmt.Sprintf("%s failed: %v", action, err)
	m.statusErr = true
}

// View renders the TUI
func (m *Model) View() string {
	if m.mode == ModeHelp {
		return m.renderHelpDialog()
	}

	page := m.page()

	var b strings.Builder
	b.WriteString(m.titleStyle.Render("todos"))
	b.WriteString("\n\n")
	b.WriteString(m.renderAddLine())
	b.WriteString("\n\n")
	b.WriteString(m.renderFilterBar(page.Filter))
	b.WriteString("\n\n")
	b.WriteString(m.renderRows(page))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(page))

	return b.String()
}

func (m *Model) renderAddLine() string {
	if m.mode == ModeAdd {
		return "> " + m.textInput.View()
	}
	return m.helpStyle.Render("a: add a task")
}

func (m *Model) renderFilterBar(active views.Filter) string {
	parts := make([]string, 0, 3)
	for i, f := range views.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == active {
			parts = append(parts, m.activeFilterStyle.Render(label))
		} else {
			parts = append(parts, m.helpStyle.Render(label))
		}
	}
	return strings.Join(parts, "   ")
}

func (m *Model) renderRows(page views.Page) string {
	if len(page.Rows) == 0 {
		return m.helpStyle.Render("  No tasks") + "\n"
	}

	var b strings.Builder
	for i, row := range page.Rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		var label string
		switch {
		case row.Editing && m.mode == ModeEdit:
			label = m.textInput.View()
		case row.Task.Completed:
			label = m.completedStyle.Render(row.Text)
		case i == m.cursor:
			label = m.selectedStyle.Render(row.Text)
		default:
			label = row.Text
		}

		b.WriteString(cursor)
		b.WriteString(views.Checkbox(row.Task.Completed))
		b.WriteString(" ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderStatusBar(page views.Page) string {
	left := fmt.Sprintf("%d of %d remaining", page.Remaining, page.Total)
	if m.status != "" {
		left = m.status
		if m.statusErr {
			left = m.errorStyle.Render(m.status)
		}
	}

	right := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.mode == ModeAdd || m.mode == ModeEdit {
		right = "enter: save  esc: cancel"
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return m.statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) renderHelpDialog() string {
	dialog := m.dialogStyle.Render(
		"Help - Key Bindings\n\n" +
			m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
			m.helpStyle.Render("Press ? or esc to close"),
	)
	return m.centerDialog(dialog)
}

func (m *Model) centerDialog(dialog string) string {
	if m.width <= 0 || m.height <= 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}
