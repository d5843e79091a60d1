package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"moviesearch/internal/domain"
)

var (
	matrix = domain.Movie{Title: "The Matrix", RatingSummary: "8.7", PosterURL: "https://img/matrix.jpg"}
	heat   = domain.Movie{Title: "Heat", RatingSummary: "8.3"}
)

func newTestModel() (Model, chan domain.Event) {
	events := make(chan domain.Event, 4)
	return NewModel(events, make(chan domain.ViewState)), events
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func requireEvent(t *testing.T, events chan domain.Event, want domain.Event) {
	t.Helper()
	select {
	case got := <-events:
		require.Equal(t, want, got)
	default:
		t.Fatalf("expected %T to be sent", want)
	}
}

func TestEnterSendsTrimmedSearch(t *testing.T) {
	m, events := newTestModel()
	m = press(t, m, typed("  Heat "), tea.KeyMsg{Type: tea.KeyEnter})
	requireEvent(t, events, domain.SearchMovie{Query: "Heat"})
}

func TestBlankSearchIsNotSent(t *testing.T) {
	m, events := newTestModel()
	m = press(t, m, typed("   "), tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, events)
	require.NotEmpty(t, m.notice)
}

func TestAddRequiresSearchedMovie(t *testing.T) {
	m, events := newTestModel()
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlA})
	require.Empty(t, events)
	require.NotEmpty(t, m.notice)

	m = press(t, m, stateMsg{state: domain.DefaultViewState().WithSearchedMovie(matrix)}, tea.KeyMsg{Type: tea.KeyCtrlA})
	requireEvent(t, events, domain.AddToHistory{})
	require.Empty(t, m.notice)
}

func TestHistoryNavigationRestores(t *testing.T) {
	m, events := newTestModel()
	st := domain.DefaultViewState().WithHistory(matrix).WithHistory(heat)
	m = press(t, m,
		stateMsg{state: st},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	requireEvent(t, events, domain.RestoreFromHistory{Movie: heat})
	require.Equal(t, focusHistory, m.focus)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	requireEvent(t, events, domain.RestoreFromHistory{Movie: matrix})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusInput, m.focus)
}

func TestTabStaysOnInputWithEmptyHistory(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusInput, m.focus)
}

func TestStateUpdatesInputAndView(t *testing.T) {
	m, _ := newTestModel()
	m = press(t, m, typed("Matrix"))
	require.Equal(t, "Matrix", m.input.Value())

	m = press(t, m, stateMsg{state: domain.DefaultViewState().WithSearchBoxText("")})
	require.Equal(t, "", m.input.Value())

	m = press(t, m, stateMsg{state: domain.DefaultViewState().WithSearchedMovie(matrix).WithHistory(heat)})
	view := m.View()
	require.Contains(t, view, "The Matrix")
	require.Contains(t, view, "8.7")
	require.Contains(t, view, "Heat")
}

func TestFullBufferReportsBusy(t *testing.T) {
	events := make(chan domain.Event)
	m := NewModel(events, make(chan domain.ViewState))
	m = press(t, m, typed("Heat"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "Busy, try again", m.notice)
}

func TestQuitAndClose(t *testing.T) {
	m, _ := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
	require.Empty(t, next.(Model).View())

	next, cmd = m.Update(closedMsg{})
	require.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
}
