package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"moviesearch/internal/domain"
	"moviesearch/internal/stream"
)

// SearchMovie looks movies up through the repository.
type SearchMovie struct {
	repo domain.MovieRepository
	log  *zap.Logger
}

// NewSearchMovie creates the search use case.
func NewSearchMovie(repo domain.MovieRepository, log *zap.Logger) *SearchMovie {
	if log == nil {
		log = zap.NewNop()
	}
	return &SearchMovie{repo: repo, log: log}
}

// Started is the result folded as soon as ev is accepted, before its lookup runs.
func (s *SearchMovie) Started(ev domain.SearchMovie) domain.ResultLce {
	s.log.Debug("search started", zap.String("query", ev.Query))
	return domain.Loading[domain.Result]()
}

// Transform turns search events into their final results: one Content or Error
// per lookup. A newer search cancels the lookup in flight and nothing from the
// older search is emitted afterwards.
func (s *SearchMovie) Transform(ctx context.Context, in <-chan domain.SearchMovie) <-chan domain.ResultLce {
	return stream.SwitchMap(ctx, in, s.search)
}

func (s *SearchMovie) search(ctx context.Context, ev domain.SearchMovie) <-chan domain.ResultLce {
	out := make(chan domain.ResultLce)
	go func() {
		defer close(out)
		movie, err := s.repo.SearchMovie(ctx, ev.Query)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Debug("search superseded", zap.String("query", ev.Query))
				return
			}
			s.log.Warn("movie lookup failed", zap.String("query", ev.Query), zap.Error(err))
			movie = domain.Movie{ErrorMessage: lookupMessage(err)}
		}

		stream.Send(ctx, out, toLce(movie))
	}()
	return out
}

func toLce(movie domain.Movie) domain.ResultLce {
	result := domain.SearchMovieResult{Movie: movie}
	if movie.Failed() {
		return domain.Error[domain.Result](result)
	}
	return domain.Content[domain.Result](result)
}

func lookupMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Search timed out"
	}
	return "Search failed: " + err.Error()
}
