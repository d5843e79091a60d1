package usecase

import (
	"fmt"

	"moviesearch/internal/domain"
)

// AddToHistory remembers the displayed movie unless history already holds it.
type AddToHistory struct{}

// Apply implements Sync.
//
// It panics with domain.ErrNoSearchedMovie when no movie is displayed: callers
// must only dispatch AddToHistory after a search produced a movie.
func (AddToHistory) Apply(_ domain.AddToHistory, state domain.ViewState) domain.ResultLce {
	if state.SearchedMovieReference == nil {
		panic(fmt.Errorf("%w (title %q)", domain.ErrNoSearchedMovie, state.SearchedMovieTitle))
	}
	movie := *state.SearchedMovieReference
	if state.HistoryContains(movie) {
		return domain.Content[domain.Result](domain.SearchHistoryResult{})
	}
	return domain.Content[domain.Result](domain.SearchHistoryResult{Movie: &movie})
}
