// Package tui is the interactive input form: mailbox address, masked app
// password and an inclusive date range. Submitting runs the extraction and
// shows its report.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"po-extractor/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DateLayout is the date format of the form fields
const DateLayout = "2006-01-02"

// RunFunc performs one extraction and returns the rendered report
type RunFunc func(in models.RunInput) (string, error)

type field int

const (
	fieldEmail field = iota
	fieldPassword
	fieldFrom
	fieldTo
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Email address",
	"App password",
	"From (YYYY-MM-DD)",
	"To (YYYY-MM-DD)",
}

type state int

const (
	stateForm state = iota
	stateRunning
	stateDone
)

// runDoneMsg carries the outcome of the background run
type runDoneMsg struct {
	output string
	err    error
}

var (
	appStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7aa2f7"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a9b1d6")).
			Width(20)

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))
)

// Model is the bubbletea model of the form
type Model struct {
	inputs    [fieldCount]string
	focus     field
	state     state
	warning   string
	output    string
	run       RunFunc
	cancelled bool
}

// New returns a form whose dates are prefilled with the last thirty days
func New(run RunFunc, now time.Time) Model {
	r := models.DefaultDateRange(now)
	m := Model{run: run}
	m.inputs[fieldFrom] = r.From.Format(DateLayout)
	m.inputs[fieldTo] = r.To.Format(DateLayout)
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runDoneMsg:
		m.state = stateDone
		if msg.err != nil {
			m.output = msg.err.Error()
		} else {
			m.output = msg.output
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = m.state != stateDone
			return m, tea.Quit
		}

		switch m.state {
		case stateRunning:
			return m, nil
		case stateDone:
			return m, tea.Quit
		}

		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % fieldCount
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + fieldCount - 1) % fieldCount
	case tea.KeyEnter:
		if m.focus < fieldCount-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	case tea.KeyBackspace:
		r := []rune(m.inputs[m.focus])
		if len(r) > 0 {
			m.inputs[m.focus] = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.inputs[m.focus] += " "
	case tea.KeyRunes:
		m.inputs[m.focus] += string(msg.Runes)
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	in, err := m.Input()
	if err != nil {
		m.warning = err.Error()
		return m, nil
	}

	m.warning = ""
	m.state = stateRunning
	run := m.run
	return m, func() tea.Msg {
		out, err := run(in)
		return runDoneMsg{output: out, err: err}
	}
}

// Input validates the form and returns the run input
func (m Model) Input() (models.RunInput, error) {
	in := models.RunInput{
		Address:    strings.TrimSpace(m.inputs[fieldEmail]),
		Credential: models.Secret(m.inputs[fieldPassword]),
	}
	if in.Address == "" || in.Credential == "" {
		return in, errors.New("please enter both email address and app password")
	}

	from, err := time.ParseInLocation(DateLayout, strings.TrimSpace(m.inputs[fieldFrom]), time.Local)
	if err != nil {
		return in, fmt.Errorf("invalid start date %q", m.inputs[fieldFrom])
	}
	to, err := time.ParseInLocation(DateLayout, strings.TrimSpace(m.inputs[fieldTo]), time.Local)
	if err != nil {
		return in, fmt.Errorf("invalid end date %q", m.inputs[fieldTo])
	}

	in.Range = models.NewDateRange(from, to)
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

// Cancelled reports whether the user left the form without a completed run
func (m Model) Cancelled() bool {
	return m.cancelled
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Purchase Order Extractor"))
	b.WriteString("\n\n")

	switch m.state {
	case stateRunning:
		b.WriteString(focusedStyle.Render("⏳ Searching mailbox and reading attachments..."))
		return appStyle.Render(b.String()) + "\n"
	case stateDone:
		b.WriteString(m.output)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("press any key to exit"))
		return appStyle.Render(b.String()) + "\n"
	}

	for i := field(0); i < fieldCount; i++ {
		value := m.inputs[i]
		if i == fieldPassword {
			value = strings.Repeat("•", len([]rune(value)))
		}

		label := labelStyle.Render(fieldLabels[i])
		if i == m.focus {
			b.WriteString(focusedStyle.Render("> ") + label + focusedStyle.Render(value+"▏"))
		} else {
			b.WriteString("  " + label + value)
		}
		b.WriteString("\n")
	}

	if m.warning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/↓ next • shift+tab/↑ previous • enter on last field to extract • esc quit"))

	return appStyle.Render(b.String()) + "\n"
}

// Run shows the form until the user quits. It returns false when the user
// cancelled before a run completed.
func Run(run RunFunc, now time.Time) (bool, error) {
	p := tea.NewProgram(New(run, now))
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return !m.Cancelled(), nil
}
