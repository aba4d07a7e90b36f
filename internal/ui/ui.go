package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"todolist/internal/config"
	"todolist/internal/tasks"
)

// Focus positions: the input, the Add button, then one Remove per row.
const (
	focusInput = iota
	focusAdd
	focusFirstRow
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Padding(0, 1)

	focusedButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EE6FF8")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1).
				Bold(true)

	taskStyle = lipgloss.NewStyle().PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

// Model is the terminal front end. It is both the renderer and the input
// field the task handler works against, so it is used by pointer.
type Model struct {
	cfg     config.Config
	logger  *log.Logger
	handler *tasks.Handler
	input   textinput.Model
	rows    []tasks.Row
	focus   int
	status  string
	failed  bool
}

func New(store *tasks.Store, cfg config.Config, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{
		cfg:    cfg,
		logger: logger,
		input:  ti,
		focus:  focusInput,
		status: fmt.Sprintf("%s to move, %s to press a button.", cfg.Keys.Next, cfg.Keys.Activate),
	}
	m.handler = tasks.NewHandler(store, m, m)
	m.handler.Start()
	return m
}

func Run(store *tasks.Store, cfg config.Config, logger *log.Logger) error {
	program := tea.NewProgram(New(store, cfg, logger))
	_, err := program.Run()
	return err
}

// Replace implements tasks.Renderer.
func (m *Model) Replace(rows []tasks.Row) {
	m.rows = rows
	m.focus = clampFocus(m.focus, len(rows))
}

// Value implements tasks.Input.
func (m *Model) Value() string {
	return m.input.Value()
}

// Clear implements tasks.Input.
func (m *Model) Clear() {
	m.input.SetValue("")
}

// Rows returns what is currently displayed.
func (m *Model) Rows() []tasks.Row {
	return m.rows
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.input.Width = msg.Width - 10
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Next, "down":
		return m, m.moveFocus(1)
	case m.cfg.Keys.Prev, "up":
		return m, m.moveFocus(-1)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Activate, " ":
		m.activate()
	}
	return m, nil
}

func (m *Model) activate() {
	switch {
	case m.focus == focusAdd:
		text := strings.TrimSpace(m.input.Value())
		if err := m.handler.OnAdd(); err != nil {
			m.fail("save failed", err)
			return
		}
		if text == "" {
			m.setStatus("Nothing to add")
			return
		}
		m.setStatus(fmt.Sprintf("Added %q", text))
	case m.focus >= focusFirstRow:
		row := m.rows[m.focus-focusFirstRow]
		if err := m.handler.OnRemove(strconv.Itoa(row.Index)); err != nil {
			m.fail("remove failed", err)
			return
		}
		m.setStatus(fmt.Sprintf("Removed %q", row.Text))
	}
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	n := focusFirstRow + len(m.rows)
	m.focus = ((m.focus+delta)%n + n) % n
	if m.focus == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) fail(what string, err error) {
	m.logger.Error(what, "err", err)
	m.status = fmt.Sprintf("%s: %v", what, err)
	m.failed = true
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Todo"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString(" ")
	b.WriteString(m.button("Add", m.focus == focusAdd))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(taskStyle.Render("No tasks yet."))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		b.WriteString(taskStyle.Render(r.Text))
		b.WriteString(" ")
		b.WriteString(m.button("Remove", m.focus == focusFirstRow+i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.failed {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m *Model) button(label string, focused bool) string {
	if focused {
		return focusedButtonStyle.Render("[" + label + "]")
	}
	return buttonStyle.Render("[" + label + "]")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s press • %s quit (outside the input) • ctrl+c quit",
		k.Next, k.Prev, k.Activate, k.Quit)
}

func clampFocus(cur, rows int) int {
	last := focusFirstRow + rows - 1
	if cur < 0 {
		return focusInput
	}
	if cur > last {
		return last
	}
	return cur
}
