// Package usecase holds the transformers that turn each kind of event into
// Lce-wrapped results. Each use case owns its concurrency policy:
// ScreenLoad, AddToHistory and RestoreFromHistory answer synchronously from the
// snapshot they are handed, SearchMovie runs off the caller's goroutine and
// lets a newer search supersede an older one.
package usecase

import "moviesearch/internal/domain"

// Sync is a use case that answers one event with exactly one result.
// state is the last completed snapshot at the time the event is handled.
type Sync[E domain.Event] interface {
	Apply(event E, state domain.ViewState) domain.ResultLce
}

// ScreenLoad answers the screen-load event.
type ScreenLoad struct{}

// Apply implements Sync.
func (ScreenLoad) Apply(domain.ScreenLoad, domain.ViewState) domain.ResultLce {
	return domain.Content[domain.Result](domain.ScreenLoadResult{})
}

// RestoreFromHistory re-displays a movie from history without querying the repository.
type RestoreFromHistory struct{}

// Apply implements Sync.
func (RestoreFromHistory) Apply(ev domain.RestoreFromHistory, _ domain.ViewState) domain.ResultLce {
	return domain.Content[domain.Result](domain.SearchMovieResult{Movie: ev.Movie})
}
