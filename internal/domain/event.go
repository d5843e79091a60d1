package domain

// EventType names an event kind for logs and wire formats.
type EventType string

const (
	EventScreenLoad         EventType = "ScreenLoad"
	EventSearchMovie        EventType = "SearchMovie"
	EventAddToHistory       EventType = "AddToHistory"
	EventRestoreFromHistory EventType = "RestoreFromHistory"
)

// Event is an input produced by the UI boundary.
// The set of implementations is closed to this package.
type Event interface {
	Type() EventType
	isEvent()
}

// ScreenLoad is sent once when the screen becomes visible.
type ScreenLoad struct{}

// SearchMovie asks for a movie by title.
type SearchMovie struct {
	Query string
}

// AddToHistory asks to remember the currently displayed movie.
type AddToHistory struct{}

// RestoreFromHistory re-displays a movie picked from the history list.
type RestoreFromHistory struct {
	Movie Movie
}

func (ScreenLoad) Type() EventType         { return EventScreenLoad }
func (SearchMovie) Type() EventType        { return EventSearchMovie }
func (AddToHistory) Type() EventType       { return EventAddToHistory }
func (RestoreFromHistory) Type() EventType { return EventRestoreFromHistory }

func (ScreenLoad) isEvent()         {}
func (SearchMovie) isEvent()        {}
func (AddToHistory) isEvent()       {}
func (RestoreFromHistory) isEvent() {}
