package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chukul/sagectl/internal"
)

type fakeSource struct {
	view        *internal.View
	err         error
	views       int
	invalidated int
}

func (f *fakeSource) View(context.Context) (*internal.View, error) {
	f.views++
	return f.view, f.err
}

func (f *fakeSource) InvalidateAll() { f.invalidated++ }

func tableView() *internal.View {
	l := &internal.Listing{
		Endpoints: []internal.Endpoint{{
			Name:             "clf-v1",
			Arn:              "arn:aws:sagemaker:us-east-1:123:endpoint/clf-v1",
			Status:           "InService",
			LastModifiedTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		}},
		FetchedAt: time.Now(),
	}
	return &internal.View{Listing: l, Table: internal.ToTable(l, time.UTC)}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Dashboard, msg tea.Msg) (Dashboard, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	d, ok := next.(Dashboard)
	require.True(t, ok)
	return d, cmd
}

func TestDashboardRendersTable(t *testing.T) {
	src := &fakeSource{view: tableView()}
	m := NewDashboard(context.Background(), src, 0)

	msg := m.load()()
	m, _ = update(t, m, msg)

	out := m.View()
	assert.Contains(t, out, DashboardTitle)
	assert.Contains(t, out, "clf-v1")
	assert.Contains(t, out, "Endpoint Status")
	assert.Contains(t, out, "Last fetched")
	assert.NotContains(t, out, EmptyMessage)
	assert.Equal(t, 1, src.views)
}

func TestDashboardEmptyState(t *testing.T) {
	src := &fakeSource{view: &internal.View{Listing: &internal.Listing{}, Empty: true}}
	m := NewDashboard(context.Background(), src, 0)

	m, _ = update(t, m, m.load()())

	out := m.View()
	assert.Contains(t, out, EmptyMessage)
	assert.NotContains(t, out, "Endpoint Name")
}

func TestDashboardShowsError(t *testing.T) {
	src := &fakeSource{err: errors.New("authorization error: assume role denied")}
	m := NewDashboard(context.Background(), src, 0)

	m, _ = update(t, m, m.load()())

	assert.Contains(t, m.View(), "assume role denied")
}

func TestDashboardReloadInvalidates(t *testing.T) {
	src := &fakeSource{view: tableView()}
	m := NewDashboard(context.Background(), src, 0)
	m, _ = update(t, m, m.load()())
	require.False(t, m.loading)

	m, cmd := update(t, m, keyPress("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, src.invalidated)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Loading endpoints")
}

func TestDashboardTickReloadsThroughSource(t *testing.T) {
	src := &fakeSource{view: tableView()}
	m := NewDashboard(context.Background(), src, time.Minute)
	m, _ = update(t, m, m.load()())

	_, cmd := update(t, m, tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.Zero(t, src.invalidated)
}

func TestDashboardQuit(t *testing.T) {
	m := NewDashboard(context.Background(), &fakeSource{}, 0)

	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
