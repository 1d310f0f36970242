package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chukul/sagectl/internal"
)

type endpointItem struct {
	name   string
	status string
	arn    string
}

func (i endpointItem) Title() string       { return i.name }
func (i endpointItem) Description() string { return fmt.Sprintf("%s · %s", i.status, i.arn) }
func (i endpointItem) FilterValue() string { return i.name }

type selectModel struct {
	list     list.Model
	choice   string
	quitting bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil
	case tea.KeyMsg:
		// Let the filter input own keys while the user is typing.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(endpointItem); ok {
				m.choice = it.name
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.choice != "" || m.quitting {
		return ""
	}
	return m.list.View()
}

// SelectEndpoint shows an interactive picker over the listing and returns
// the chosen endpoint name.
func SelectEndpoint(title string, l *internal.Listing) (string, error) {
	if len(l.Endpoints) == 0 {
		return "", fmt.Errorf("no endpoints to choose from")
	}

	items := make([]list.Item, 0, len(l.Endpoints))
	for _, e := range l.Endpoints {
		items = append(items, endpointItem{name: e.Name, status: string(e.Status), arn: e.Arn})
	}

	lst := list.New(items, list.NewDefaultDelegate(), 80, 20)
	lst.Title = title
	lst.Styles.Title = titleStyle

	p := tea.NewProgram(selectModel{list: lst}, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	if m, ok := finalModel.(selectModel); ok && m.choice != "" {
		return m.choice, nil
	}
	return "", fmt.Errorf("cancelled")
}
