package domain

import "errors"

var (
	// ErrNoSearchedMovie indicates AddToHistory was dispatched while no movie is displayed.
	ErrNoSearchedMovie = errors.New("add to history requires a searched movie")

	// ErrUnexpectedLce indicates an Error envelope around a result that cannot fail.
	ErrUnexpectedLce = errors.New("unexpected result LCE state")

	// ErrMissingErrorMessage indicates an Error envelope whose movie carries no message.
	ErrMissingErrorMessage = errors.New("error result without error message")

	// ErrEmptyQuery indicates a search was requested for a blank title.
	ErrEmptyQuery = errors.New("search query must not be empty")
)
