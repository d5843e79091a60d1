package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moviesearch/internal/domain"
	"moviesearch/internal/usecase"
)

var matrix = domain.Movie{Title: "The Matrix", RatingSummary: "8.7", PosterURL: "x"}

func content(r domain.Result) domain.ResultLce { return domain.Content[domain.Result](r) }

func drain(t *testing.T, in <-chan domain.ResultLce) []domain.ResultLce {
	t.Helper()
	var out []domain.ResultLce
	timeout := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-in:
			if !ok {
				return out
			}
			out = append(out, v)
		case <-timeout:
			t.Fatalf("results did not close, got %v", out)
		}
	}
}

func TestScreenLoad(t *testing.T) {
	got := usecase.ScreenLoad{}.Apply(domain.ScreenLoad{}, domain.DefaultViewState())
	require.Equal(t, content(domain.ScreenLoadResult{}), got)
}

func TestRestoreFromHistory(t *testing.T) {
	got := usecase.RestoreFromHistory{}.Apply(domain.RestoreFromHistory{Movie: matrix}, domain.DefaultViewState())
	require.Equal(t, content(domain.SearchMovieResult{Movie: matrix}), got)
}

func TestAddToHistory(t *testing.T) {
	state := domain.DefaultViewState().WithSearchedMovie(matrix)

	got := usecase.AddToHistory{}.Apply(domain.AddToHistory{}, state)
	require.Equal(t, domain.PhaseContent, got.Phase())
	result, ok := got.Packet().(domain.SearchHistoryResult)
	require.True(t, ok)
	require.NotNil(t, result.Movie)
	require.Equal(t, matrix, *result.Movie)
}

func TestAddToHistoryAlreadyPresent(t *testing.T) {
	state := domain.DefaultViewState().WithSearchedMovie(matrix).WithHistory(matrix)

	got := usecase.AddToHistory{}.Apply(domain.AddToHistory{}, state)
	require.Equal(t, content(domain.SearchHistoryResult{}), got)
}

func TestAddToHistoryWithoutMoviePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, domain.ErrNoSearchedMovie)
	}()
	usecase.AddToHistory{}.Apply(domain.AddToHistory{}, domain.DefaultViewState())
}

type fakeRepo struct {
	mu     sync.Mutex
	calls  atomic.Int32
	movies map[string]domain.Movie
	gates  map[string]chan struct{}
	err    error
}

func (f *fakeRepo) SearchMovie(ctx context.Context, title string) (domain.Movie, error) {
	f.calls.Add(1)
	f.mu.Lock()
	gate := f.gates[title]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.Movie{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.Movie{}, f.err
	}
	return f.movies[title], nil
}

func TestSearchMovieStartedIsLoading(t *testing.T) {
	repo := &fakeRepo{}
	got := usecase.NewSearchMovie(repo, nil).Started(domain.SearchMovie{Query: "Matrix"})
	require.Equal(t, domain.PhaseLoading, got.Phase())
	require.Zero(t, repo.calls.Load())
}

func TestSearchMovieEmitsContent(t *testing.T) {
	repo := &fakeRepo{movies: map[string]domain.Movie{"Matrix": matrix}}
	in := make(chan domain.SearchMovie, 1)
	in <- domain.SearchMovie{Query: "Matrix"}
	close(in)

	got := drain(t, usecase.NewSearchMovie(repo, nil).Transform(t.Context(), in))

	require.Equal(t, []domain.ResultLce{content(domain.SearchMovieResult{Movie: matrix})}, got)
}

func TestSearchMovieEmitsErrorForFailedMovie(t *testing.T) {
	missing := domain.Movie{ErrorMessage: "Not found"}
	repo := &fakeRepo{movies: map[string]domain.Movie{"zzz": missing}}
	in := make(chan domain.SearchMovie, 1)
	in <- domain.SearchMovie{Query: "zzz"}
	close(in)

	got := drain(t, usecase.NewSearchMovie(repo, nil).Transform(t.Context(), in))

	require.Equal(t, []domain.ResultLce{domain.Error[domain.Result](domain.SearchMovieResult{Movie: missing})}, got)
}

func TestSearchMovieMapsRepositoryErrorToErrorResult(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	in := make(chan domain.SearchMovie, 1)
	in <- domain.SearchMovie{Query: "Matrix"}
	close(in)

	got := drain(t, usecase.NewSearchMovie(repo, nil).Transform(t.Context(), in))

	require.Len(t, got, 1)
	require.Equal(t, domain.PhaseError, got[0].Phase())
	result := got[0].Packet().(domain.SearchMovieResult)
	require.Equal(t, "Search failed: connection refused", result.Movie.ErrorMessage)
}

func TestSearchMovieSwitchesToLatest(t *testing.T) {
	heat := domain.Movie{Title: "Heat"}
	repo := &fakeRepo{
		movies: map[string]domain.Movie{"Matrix": matrix, "Heat": heat},
		gates:  map[string]chan struct{}{"Matrix": make(chan struct{}), "Heat": make(chan struct{})},
	}
	in := make(chan domain.SearchMovie)
	out := usecase.NewSearchMovie(repo, nil).Transform(t.Context(), in)

	in <- domain.SearchMovie{Query: "Matrix"}
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	in <- domain.SearchMovie{Query: "Heat"}
	require.Eventually(t, func() bool { return repo.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	close(repo.gates["Heat"])
	close(repo.gates["Matrix"])
	close(in)

	rest := drain(t, out)
	require.Equal(t, []domain.ResultLce{content(domain.SearchMovieResult{Movie: heat})}, rest)
}
