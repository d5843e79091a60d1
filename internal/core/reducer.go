package core

import (
	"fmt"

	"moviesearch/internal/domain"
)

// Reduce is a pure function that folds one result into the prior state and
// returns the next snapshot. state is never modified.
//
// Reduce panics when handed an Error envelope that cannot occur: an Error
// around anything but a SearchMovieResult, or one without an error message.
// Those indicate a broken use case, not a condition to recover from.
func Reduce(state domain.ViewState, result domain.ResultLce) domain.ViewState {
	switch result.Phase() {
	case domain.PhaseContent:
		return reduceContent(state, result.Packet())
	case domain.PhaseLoading:
		return state.Searching()
	case domain.PhaseError:
		return reduceError(state, result.Packet())
	default:
		panic(fmt.Errorf("%w: phase %v", domain.ErrUnexpectedLce, result.Phase()))
	}
}

func reduceContent(state domain.ViewState, packet domain.Result) domain.ViewState {
	switch r := packet.(type) {
	case domain.ScreenLoadResult:
		return state.WithSearchBoxText("")
	case domain.SearchMovieResult:
		return state.WithSearchedMovie(r.Movie)
	case domain.SearchHistoryResult:
		if r.Movie == nil {
			return state
		}
		return state.WithHistory(*r.Movie)
	default:
		panic(fmt.Errorf("%w: content %T", domain.ErrUnexpectedLce, packet))
	}
}

func reduceError(state domain.ViewState, packet domain.Result) domain.ViewState {
	r, ok := packet.(domain.SearchMovieResult)
	if !ok {
		panic(fmt.Errorf("%w: error %T", domain.ErrUnexpectedLce, packet))
	}
	if !r.Movie.Failed() {
		panic(fmt.Errorf("%w: %+v", domain.ErrMissingErrorMessage, r.Movie))
	}
	next := state
	next.SearchedMovieTitle = r.Movie.ErrorMessage
	return next
}
