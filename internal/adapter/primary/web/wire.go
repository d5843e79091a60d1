package web

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"moviesearch/internal/domain"
)

// Client message types.
const (
	msgSearch  = "search"
	msgAdd     = "add"
	msgRestore = "restore"
)

// Server message types.
const (
	msgState = "state"
	msgError = "error"
)

var (
	errUnknownMessage = errors.New("unknown message type")
	errBadIndex       = errors.New("history index out of range")
)

// clientMessage is what the browser sends over the websocket.
type clientMessage struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// serverMessage is what the server pushes to the browser.
type serverMessage struct {
	Type    string     `json:"type"`
	State   *stateView `json:"state,omitempty"`
	Message string     `json:"message,omitempty"`
}

type movieView struct {
	Title  string `json:"title"`
	Rating string `json:"rating"`
	Poster string `json:"poster"`
}

type stateView struct {
	SearchBoxText *string     `json:"searchBoxText"`
	Title         string      `json:"title"`
	Rating        string      `json:"rating"`
	Poster        string      `json:"poster"`
	Reference     *movieView  `json:"reference"`
	History       []movieView `json:"history"`
}

func toMovieView(m domain.Movie) movieView {
	return movieView{Title: m.Title, Rating: m.RatingSummary, Poster: m.PosterURL}
}

func toStateView(vs domain.ViewState) *stateView {
	view := &stateView{
		SearchBoxText: vs.SearchBoxText,
		Title:         vs.SearchedMovieTitle,
		Rating:        vs.SearchedMovieRating,
		Poster:        vs.SearchedMoviePoster,
		History:       make([]movieView, 0, len(vs.AdapterList)),
	}
	if vs.SearchedMovieReference != nil {
		ref := toMovieView(*vs.SearchedMovieReference)
		view.Reference = &ref
	}
	for _, m := range vs.AdapterList {
		view.History = append(view.History, toMovieView(m))
	}
	return view
}

func encodeState(vs domain.ViewState) ([]byte, error) {
	return json.Marshal(serverMessage{Type: msgState, State: toStateView(vs)})
}

func encodeError(msg string) ([]byte, error) {
	return json.Marshal(serverMessage{Type: msgError, Message: msg})
}

// decodeEvent turns a client message into a pipeline event, checking it against
// the current state so that no event violates a use-case precondition.
func decodeEvent(data []byte, current domain.ViewState) (domain.Event, error) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	switch msg.Type {
	case msgSearch:
		query := strings.TrimSpace(msg.Query)
		if query == "" {
			return nil, domain.ErrEmptyQuery
		}
		return domain.SearchMovie{Query: query}, nil
	case msgAdd:
		if current.SearchedMovieReference == nil {
			return nil, domain.ErrNoSearchedMovie
		}
		return domain.AddToHistory{}, nil
	case msgRestore:
		if msg.Index == nil || *msg.Index < 0 || *msg.Index >= len(current.AdapterList) {
			return nil, errBadIndex
		}
		return domain.RestoreFromHistory{Movie: current.AdapterList[*msg.Index]}, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownMessage, msg.Type)
	}
}
