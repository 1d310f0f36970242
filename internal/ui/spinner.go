package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type errMsg error

type taskResultMsg struct {
	data any
	err  error
}

type spinnerModel struct {
	spinner  spinner.Model
	text     string
	task     func() (any, error)
	result   any
	err      error
	quitting bool
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			res, err := m.task()
			return taskResultMsg{data: res, err: err}
		},
	)
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.err = fmt.Errorf("cancelled by user")
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case taskResultMsg:
		m.result = msg.data
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case errMsg:
		m.err = msg
		m.quitting = true
		return m, tea.Quit

	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), textStyle.Render(m.text))
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return s
}

// Spin runs a blocking task with a spinner on stderr and returns its result.
func Spin[T any](text string, task func() (T, error)) (T, error) {
	var zero T

	m := spinnerModel{
		spinner: newSpinner(),
		text:    text,
		task:    func() (any, error) { return task() },
	}

	// Use stderr to avoid polluting stdout
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return zero, err
	}

	fm, ok := finalModel.(spinnerModel)
	if !ok {
		return zero, fmt.Errorf("internal error: invalid model type")
	}
	if fm.err != nil {
		return zero, fm.err
	}
	res, ok := fm.result.(T)
	if !ok {
		return zero, fmt.Errorf("internal error: unexpected result type %T", fm.result)
	}
	return res, nil
}
