package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"moviesearch/internal/domain"
	"moviesearch/internal/stream"
	"moviesearch/internal/usecase"
)

// Store runs the presentation pipeline: it merges event streams, routes each
// event to its use case, folds the results into ViewState snapshots and emits
// every snapshot that differs from the previous one.
//
// The reduction loop is the only writer of the current snapshot. Snapshot may be
// called from any goroutine and always returns the last completed snapshot.
type Store struct {
	screenLoad usecase.Sync[domain.ScreenLoad]
	addHistory usecase.Sync[domain.AddToHistory]
	restore    usecase.Sync[domain.RestoreFromHistory]
	search     *usecase.SearchMovie

	log     *zap.Logger
	onFault func(error)
	guard   Guard

	mu    sync.RWMutex
	state domain.ViewState
}

// Option configures a Store.
type Option func(*Store)

// WithInitialState seeds the pipeline with state instead of DefaultViewState.
func WithInitialState(state domain.ViewState) Option {
	return func(s *Store) {
		s.state = state
	}
}

// WithLogger sets the logger used for event, result and state tracing.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFaultHandler makes a precondition violation end only this pipeline: the
// output stream closes and fn receives the fault. Without it the violation
// panics through the pipeline goroutine.
func WithFaultHandler(fn func(error)) Option {
	return func(s *Store) {
		s.onFault = fn
	}
}

// Guard decides against the current snapshot whether ev may be dispatched.
// A non-nil error drops the event.
type Guard func(ev domain.Event, state domain.ViewState) error

// WithGuard runs g inside the reduction loop before each event is routed, so
// it sees exactly the snapshot the use case would see.
func WithGuard(g Guard) Option {
	return func(s *Store) {
		s.guard = g
	}
}

// Preconditions is a Guard that drops blank searches and AddToHistory events
// arriving while no movie is displayed.
func Preconditions(ev domain.Event, state domain.ViewState) error {
	switch e := ev.(type) {
	case domain.SearchMovie:
		if strings.TrimSpace(e.Query) == "" {
			return domain.ErrEmptyQuery
		}
	case domain.AddToHistory:
		if state.SearchedMovieReference == nil {
			return domain.ErrNoSearchedMovie
		}
	}
	return nil
}

// NewStore creates a Store whose searches go through repo.
func NewStore(repo domain.MovieRepository, opts ...Option) *Store {
	s := &Store{
		screenLoad: usecase.ScreenLoad{},
		addHistory: usecase.AddToHistory{},
		restore:    usecase.RestoreFromHistory{},
		log:        zap.NewNop(),
		state:      domain.DefaultViewState(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.search = usecase.NewSearchMovie(repo, s.log)
	return s
}

// Snapshot returns the last completed snapshot.
func (s *Store) Snapshot() domain.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) set(state domain.ViewState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Render starts the pipeline over producers and returns the snapshot stream.
// The first value is the seed snapshot. The stream closes after every producer
// has closed and the last search has completed, or when ctx is done. After
// that, anything still sent on producers is discarded until they close.
// Render is meant to be called once per Store.
func (s *Store) Render(ctx context.Context, producers ...<-chan domain.Event) <-chan domain.ViewState {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan domain.ViewState)
	events := stream.Merge(ctx, producers...)
	go func() {
		s.run(ctx, events, out)
		cancel()
		stream.Drain(producers...)
	}()
	return out
}

func (s *Store) run(ctx context.Context, events <-chan domain.Event, out chan<- domain.ViewState) {
	defer close(out)
	if s.onFault != nil {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				s.log.Error("pipeline fault", zap.Error(err))
				s.onFault(err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Loading is folded when a search arrives. Results read while a newer
	// search is still queued belong to a superseded lookup and are dropped.
	searches := make(chan domain.SearchMovie)
	results := s.search.Transform(ctx, searches)

	p := pipeline{store: s, ctx: ctx, out: out, last: s.Snapshot()}
	if !p.emit(p.last) {
		return
	}

	var queued []domain.SearchMovie
	for events != nil || results != nil {
		var (
			forward chan<- domain.SearchMovie
			next    domain.SearchMovie
		)
		if len(queued) > 0 {
			forward, next = searches, queued[0]
		}

		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				if len(queued) == 0 {
					close(searches)
				}
				continue
			}
			s.log.Debug("event", zap.String("type", string(ev.Type())), zap.Any("event", ev))
			if s.guard != nil {
				if err := s.guard(ev, s.Snapshot()); err != nil {
					s.log.Info("event dropped", zap.String("type", string(ev.Type())), zap.Error(err))
					continue
				}
			}
			if search, isSearch := ev.(domain.SearchMovie); isSearch {
				if !p.fold(s.search.Started(search)) {
					return
				}
				queued = append(queued, search)
				continue
			}
			if !p.fold(s.dispatch(ev)) {
				return
			}
		case forward <- next:
			queued = queued[1:]
			if events == nil && len(queued) == 0 {
				close(searches)
			}
		case lce, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			if len(queued) > 0 {
				s.log.Debug("superseded result dropped", zap.Stringer("lce", lce))
				continue
			}
			if !p.fold(lce) {
				return
			}
		}
	}
}

// dispatch answers a synchronous event against the current snapshot.
func (s *Store) dispatch(ev domain.Event) domain.ResultLce {
	state := s.Snapshot()
	switch e := ev.(type) {
	case domain.ScreenLoad:
		return s.screenLoad.Apply(e, state)
	case domain.AddToHistory:
		return s.addHistory.Apply(e, state)
	case domain.RestoreFromHistory:
		return s.restore.Apply(e, state)
	default:
		panic(fmt.Errorf("no synchronous use case for %T", ev))
	}
}

type pipeline struct {
	store *Store
	ctx   context.Context
	out   chan<- domain.ViewState
	last  domain.ViewState
}

// fold reduces lce into the current snapshot, publishes it and emits it when it
// differs from the last emitted snapshot. It reports false once ctx is done.
func (p *pipeline) fold(lce domain.ResultLce) bool {
	p.store.log.Debug("result", zap.Stringer("lce", lce))
	next := Reduce(p.store.Snapshot(), lce)
	p.store.set(next)
	if next.Equal(p.last) {
		return true
	}
	p.last = next
	return p.emit(next)
}

func (p *pipeline) emit(state domain.ViewState) bool {
	p.store.log.Debug("viewState", zap.Any("state", state))
	return stream.Send(p.ctx, p.out, state)
}
