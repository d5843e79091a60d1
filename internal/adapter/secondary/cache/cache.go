// Package cache wraps a movie repository with a lookup cache persisted to disk.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"moviesearch/internal/domain"
)

// Repository is a secondary adapter decorating another domain.MovieRepository.
// Only successful lookups are cached; failures and errors always reach the inner repository.
type Repository struct {
	inner domain.MovieRepository
	path  string
	log   *zap.Logger

	mu      sync.Mutex
	entries map[string]entry
}

var _ domain.MovieRepository = (*Repository)(nil)

type entry struct {
	Title         string `msgpack:"title"`
	RatingSummary string `msgpack:"rating"`
	PosterURL     string `msgpack:"poster"`
	StoredAt      string `msgpack:"stored_at"`
}

// persistedData represents the msgpack structure on disk.
type persistedData struct {
	Version int              `msgpack:"version"`
	Entries map[string]entry `msgpack:"entries"`
}

const formatVersion = 1

// New wraps inner. If path is non-empty the cache is loaded from and saved to that file.
func New(inner domain.MovieRepository, path string, log *zap.Logger) (*Repository, error) {
	if inner == nil {
		return nil, errors.New("inner repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Repository{inner: inner, path: path, log: log.Named("cache"), entries: map[string]entry{}}
	if path == "" {
		return r, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Len reports the number of cached movies.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// SearchMovie serves title from the cache or delegates to the inner repository.
func (r *Repository) SearchMovie(ctx context.Context, title string) (domain.Movie, error) {
	key := cacheKey(title)
	r.mu.Lock()
	e, ok := r.entries[key]
	r.mu.Unlock()
	if ok {
		return domain.Movie{Title: e.Title, RatingSummary: e.RatingSummary, PosterURL: e.PosterURL}, nil
	}

	movie, err := r.inner.SearchMovie(ctx, title)
	if err != nil || movie.Failed() {
		return movie, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry{
		Title:         movie.Title,
		RatingSummary: movie.RatingSummary,
		PosterURL:     movie.PosterURL,
		StoredAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.save(); err != nil {
		r.log.Warn("persist cache", zap.String("path", r.path), zap.Error(err))
	}
	return movie, nil
}

func cacheKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func (r *Repository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache: %w", err)
	}

	var persisted persistedData
	if err := msgpack.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("unmarshal cache: %w", err)
	}
	if persisted.Version != formatVersion {
		return nil
	}
	for k, e := range persisted.Entries {
		r.entries[k] = e
	}
	return nil
}

// save must be called with r.mu held.
func (r *Repository) save() error {
	if r.path == "" {
		return nil
	}
	data, err := msgpack.Marshal(persistedData{Version: formatVersion, Entries: r.entries})
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	// Atomic write
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
