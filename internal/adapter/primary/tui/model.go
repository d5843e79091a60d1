package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"moviesearch/internal/domain"
)

type focus int

const (
	focusInput focus = iota
	focusHistory
)

// stateMsg carries a view state emitted by the pipeline.
type stateMsg struct {
	state domain.ViewState
}

// closedMsg reports that the pipeline output has closed.
type closedMsg struct{}

// Model is the Bubble Tea model. It renders pipeline view states and turns
// key presses into events.
type Model struct {
	input  textinput.Model
	events chan<- domain.Event
	states <-chan domain.ViewState

	state    domain.ViewState
	focus    focus
	cursor   int
	notice   string
	quitting bool
}

// NewModel creates a model that sends events on events and renders states.
// events should be buffered: sends never block the UI, a full buffer is reported instead.
func NewModel(events chan<- domain.Event, states <-chan domain.ViewState) Model {
	input := textinput.New()
	input.Placeholder = "Movie title"
	input.CharLimit = 120
	input.Focus()
	return Model{
		input:  input,
		events: events,
		states: states,
		state:  domain.DefaultViewState(),
	}
}

func waitForState(states <-chan domain.ViewState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return closedMsg{}
		}
		return stateMsg{state: st}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForState(m.states))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = msg.state
		if box := m.state.SearchBoxText; box != nil {
			m.input.SetValue(*box)
		}
		if m.cursor >= len(m.state.AdapterList) {
			m.cursor = max(len(m.state.AdapterList)-1, 0)
		}
		return m, waitForState(m.states)

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Focus):
			return m.toggleFocus(), nil
		case key.Matches(msg, keys.Add):
			if m.state.SearchedMovieReference == nil {
				m.notice = "Search for a movie first"
				return m, nil
			}
			return m.emit(domain.AddToHistory{}), nil
		}
		if m.focus == focusHistory {
			return m.updateHistory(msg), nil
		}
		if key.Matches(msg, keys.Submit) {
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				m.notice = "Type a title to search"
				return m, nil
			}
			return m.emit(domain.SearchMovie{Query: query}), nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateHistory(msg tea.KeyMsg) Model {
	list := m.state.AdapterList
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(list)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Submit):
		if m.cursor < len(list) {
			return m.emit(domain.RestoreFromHistory{Movie: list[m.cursor]})
		}
	}
	return m
}

func (m Model) toggleFocus() Model {
	if m.focus == focusInput && len(m.state.AdapterList) > 0 {
		m.focus = focusHistory
		m.input.Blur()
		return m
	}
	m.focus = focusInput
	m.input.Focus()
	return m
}

func (m Model) emit(ev domain.Event) Model {
	select {
	case m.events <- ev:
		m.notice = ""
	default:
		m.notice = "Busy, try again"
	}
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Movie Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.renderMovie()))
	b.WriteString("\n")

	history := m.renderHistory()
	if m.focus == focusHistory {
		b.WriteString(focusedBoxStyle.Render(history))
	} else {
		b.WriteString(boxStyle.Render(history))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m Model) renderMovie() string {
	st := m.state
	if st.SearchedMovieTitle == "" {
		return mutedStyle.Render("No movie searched yet")
	}
	if st.SearchedMovieReference == nil && st.SearchedMovieTitle != domain.LoadingTitle {
		return errorStyle.Render(st.SearchedMovieTitle)
	}

	var b strings.Builder
	b.WriteString(movieTitleStyle.Render(st.SearchedMovieTitle))
	if st.SearchedMovieRating != "" {
		b.WriteString("\n")
		b.WriteString(ratingStyle.Render(st.SearchedMovieRating))
	}
	if st.SearchedMoviePoster != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(st.SearchedMoviePoster))
	}
	return b.String()
}

func (m Model) renderHistory() string {
	list := m.state.AdapterList
	if len(list) == 0 {
		return mutedStyle.Render("History is empty")
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("History (%d)\n", len(list)))
	for i, movie := range list {
		line := fmt.Sprintf("  %s", movie.Title)
		if m.focus == focusHistory && i == m.cursor {
			line = selectedStyle.Render("> " + movie.Title)
		}
		b.WriteString(line)
		if i < len(list)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

const helpText = "enter search/restore • ctrl+a add to history • tab switch focus • esc quit"

type keyMap struct {
	Submit key.Binding
	Add    key.Binding
	Focus  key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search / restore"),
	),
	Add: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("ctrl+a", "add to history"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch focus"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}
