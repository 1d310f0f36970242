package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/chukul/sagectl/internal"
)

const (
	DashboardTitle = "AWS SageMaker Endpoints"
	EmptyMessage   = "There are currently no endpoints deployed"

	maxColumnWidth = 72
)

// Source is what the dashboard renders from. *internal.EndpointCache satisfies it.
type Source interface {
	View(ctx context.Context) (*internal.View, error)
	InvalidateAll()
}

type viewMsg struct {
	view *internal.View
	err  error
}

type tickMsg time.Time

type keyMap struct {
	Reload key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Reload, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var defaultKeys = keyMap{
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload endpoints")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Dashboard is a bubbletea model showing the endpoint table. It re-renders
// through the cache every interval and drops the cache on "r".
type Dashboard struct {
	ctx      context.Context
	src      Source
	interval time.Duration

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	loading bool
	view    *internal.View
	err     error
}

func NewDashboard(ctx context.Context, src Source, interval time.Duration) Dashboard {
	t := table.New(table.WithFocused(true), table.WithHeight(15))
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
	t.SetStyles(s)

	return Dashboard{
		ctx:      ctx,
		src:      src,
		interval: interval,
		table:    t,
		spinner:  newSpinner(),
		help:     help.New(),
		keys:     defaultKeys,
		loading:  true,
	}
}

func (m Dashboard) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.tick())
}

func (m Dashboard) load() tea.Cmd {
	return func() tea.Msg {
		v, err := m.src.View(m.ctx)
		return viewMsg{view: v, err: err}
	}
}

func (m Dashboard) tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.src.InvalidateAll()
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.load())
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		if h := msg.Height - 8; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case viewMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.view = msg.view
			m.setTable(msg.view)
		}
		return m, nil

	case tickMsg:
		if m.loading {
			return m, m.tick()
		}
		return m, tea.Batch(m.load(), m.tick())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Dashboard) setTable(v *internal.View) {
	if v == nil || v.Empty || v.Table == nil {
		m.table.SetRows(nil)
		return
	}
	t := v.Table

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = lipgloss.Width(c)
	}
	rows := make([]table.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		cells := t.Cells(r)
		for i, c := range cells {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = min(w, maxColumnWidth)
			}
		}
		rows = append(rows, table.Row(cells))
	}

	cols := make([]table.Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = table.Column{Title: c, Width: widths[i]}
	}

	// Rows must shrink before columns change or the table indexes stale cells.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
}

func (m Dashboard) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(DashboardTitle))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("❌ " + m.err.Error()))
		b.WriteString("\n\n")
	case m.view == nil:
		// first load still running
	case m.view.Empty:
		b.WriteString(infoStyle.Render("ℹ️  " + EmptyMessage))
		b.WriteString("\n\n")
	default:
		b.WriteString(baseStyle.Render(m.table.View()))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), textStyle.Render("Loading endpoints...")))
	} else if m.view != nil && m.view.Listing != nil && !m.view.Listing.FetchedAt.IsZero() {
		fetched := m.view.Listing.FetchedAt
		b.WriteString(footerStyle.Render(fmt.Sprintf("Last fetched %s (%s)", humanize.Time(fetched), internal.FormatClock(fetched))))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
