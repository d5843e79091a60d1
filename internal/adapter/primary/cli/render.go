package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"moviesearch/internal/domain"
)

type movieJSON struct {
	Title  string `json:"title"`
	Rating string `json:"rating,omitempty"`
	Poster string `json:"poster,omitempty"`
}

type stateJSON struct {
	SearchBoxText *string     `json:"searchBoxText"`
	Title         string      `json:"title"`
	Rating        string      `json:"rating"`
	Poster        string      `json:"poster"`
	Reference     *movieJSON  `json:"reference"`
	History       []movieJSON `json:"history"`
}

func toMovieJSON(m domain.Movie) movieJSON {
	return movieJSON{Title: m.Title, Rating: m.RatingSummary, Poster: m.PosterURL}
}

func toStateJSON(st domain.ViewState) stateJSON {
	out := stateJSON{
		SearchBoxText: st.SearchBoxText,
		Title:         st.SearchedMovieTitle,
		Rating:        st.SearchedMovieRating,
		Poster:        st.SearchedMoviePoster,
		History:       make([]movieJSON, 0, len(st.AdapterList)),
	}
	if st.SearchedMovieReference != nil {
		ref := toMovieJSON(*st.SearchedMovieReference)
		out.Reference = &ref
	}
	for _, m := range st.AdapterList {
		out.History = append(out.History, toMovieJSON(m))
	}
	return out
}

// writeStateJSON writes st as one JSON line.
func writeStateJSON(w io.Writer, st domain.ViewState) error {
	data, err := json.Marshal(toStateJSON(st))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeMovie prints the movie area of st. Blank states print nothing.
func writeMovie(w io.Writer, st domain.ViewState) {
	switch {
	case st.SearchedMovieTitle == "":
	case st.SearchedMovieTitle == domain.LoadingTitle:
		fmt.Fprintln(w, domain.LoadingTitle)
	case st.SearchedMovieReference == nil:
		fmt.Fprintf(w, "error: %s\n", st.SearchedMovieTitle)
	default:
		fmt.Fprintln(w, st.SearchedMovieTitle)
		for _, line := range strings.Split(st.SearchedMovieRating, "\n") {
			if line != "" {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
		if st.SearchedMoviePoster != "" {
			fmt.Fprintf(w, "  poster: %s\n", st.SearchedMoviePoster)
		}
	}
}

// writeHistory prints the history list with 1-based indices.
func writeHistory(w io.Writer, st domain.ViewState) {
	if len(st.AdapterList) == 0 {
		fmt.Fprintln(w, "history is empty")
		return
	}
	for i, m := range st.AdapterList {
		fmt.Fprintf(w, "%2d. %s\n", i+1, m.Title)
	}
}

// movieChanged reports whether the movie area differs between two states.
func movieChanged(prev, next domain.ViewState) bool {
	if prev.SearchedMovieTitle != next.SearchedMovieTitle ||
		prev.SearchedMovieRating != next.SearchedMovieRating ||
		prev.SearchedMoviePoster != next.SearchedMoviePoster {
		return true
	}
	return (prev.SearchedMovieReference == nil) != (next.SearchedMovieReference == nil)
}
