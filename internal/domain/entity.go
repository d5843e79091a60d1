package domain

import "strings"

// LoadingTitle is shown in place of the movie title while a search is in flight.
const LoadingTitle = "Searching Movie..."

// Movie is the value returned by a MovieRepository lookup.
// Movies are comparable with == and that identity is what history containment uses.
type Movie struct {
	Title         string
	RatingSummary string
	PosterURL     string
	// ErrorMessage is non-blank when the lookup failed at the domain level.
	ErrorMessage string
}

// Failed reports whether the repository signalled a domain-level failure.
func (m Movie) Failed() bool {
	return strings.TrimSpace(m.ErrorMessage) != ""
}

// ViewState is an immutable snapshot of everything the screen shows.
// A new ViewState is produced for every reduction step; fields are never mutated in place.
type ViewState struct {
	SearchBoxText          *string
	SearchedMovieTitle     string
	SearchedMovieRating    string
	SearchedMoviePoster    string
	SearchedMovieReference *Movie
	// AdapterList is the search history in insertion order.
	AdapterList []Movie
}

// DefaultViewState returns the seed state of a pipeline.
func DefaultViewState() ViewState {
	return ViewState{
		AdapterList: []Movie{},
	}
}

// Equal compares two snapshots by value.
func (v ViewState) Equal(other ViewState) bool {
	if !equalPtr(v.SearchBoxText, other.SearchBoxText) {
		return false
	}
	if v.SearchedMovieTitle != other.SearchedMovieTitle ||
		v.SearchedMovieRating != other.SearchedMovieRating ||
		v.SearchedMoviePoster != other.SearchedMoviePoster {
		return false
	}
	if !equalPtr(v.SearchedMovieReference, other.SearchedMovieReference) {
		return false
	}
	if len(v.AdapterList) != len(other.AdapterList) {
		return false
	}
	for i := range v.AdapterList {
		if v.AdapterList[i] != other.AdapterList[i] {
			return false
		}
	}
	return true
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
