package domain

import "context"

// MovieRepository is a secondary port that looks movies up by title.
// This interface is defined in the domain layer and implemented by adapters.
//
// A lookup that fails at the domain level (nothing found, rejected key) is
// reported through Movie.ErrorMessage with a nil error. A non-nil error means
// the lookup itself could not be carried out.
type MovieRepository interface {
	SearchMovie(ctx context.Context, title string) (Movie, error)
}

// MovieRepositoryFunc adapts a function to MovieRepository.
type MovieRepositoryFunc func(ctx context.Context, title string) (Movie, error)

// SearchMovie calls f.
func (f MovieRepositoryFunc) SearchMovie(ctx context.Context, title string) (Movie, error) {
	return f(ctx, title)
}
