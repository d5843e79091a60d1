// Package catalog serves movie lookups from a local YAML catalog, for offline use and demos.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"moviesearch/internal/domain"
)

// NotFoundMessage is reported when no catalog entry matches a query.
const NotFoundMessage = "Movie not found!"

// Entry is one movie as written in the catalog file.
type Entry struct {
	Title   string   `yaml:"title"`
	Poster  string   `yaml:"poster"`
	Ratings []string `yaml:"ratings"`
}

type file struct {
	Movies []Entry `yaml:"movies"`
}

// Catalog implements domain.MovieRepository over an in-memory movie list.
type Catalog struct {
	movies  []domain.Movie
	latency time.Duration
}

var _ domain.MovieRepository = (*Catalog)(nil)

// New returns a catalog over movies. A positive latency delays every lookup.
func New(movies []domain.Movie, latency time.Duration) *Catalog {
	return &Catalog{movies: append([]domain.Movie(nil), movies...), latency: latency}
}

// Load reads a catalog file.
func Load(path string, latency time.Duration) (*Catalog, error) {
	if path == "" {
		return nil, errors.New("catalog path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	movies := make([]domain.Movie, 0, len(f.Movies))
	for i, e := range f.Movies {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			return nil, fmt.Errorf("catalog entry %d: title is required", i)
		}
		movies = append(movies, domain.Movie{
			Title:         title,
			RatingSummary: strings.Join(e.Ratings, "\n"),
			PosterURL:     e.Poster,
		})
	}
	return New(movies, latency), nil
}

// Len reports the number of movies in the catalog.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// SearchMovie matches title case-insensitively, preferring an exact title over a substring hit.
func (c *Catalog) SearchMovie(ctx context.Context, title string) (domain.Movie, error) {
	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Movie{}, ctx.Err()
		case <-timer.C:
		}
	}

	query := strings.ToLower(strings.TrimSpace(title))
	if query == "" {
		return domain.Movie{ErrorMessage: NotFoundMessage}, nil
	}
	var partial *domain.Movie
	for i := range c.movies {
		name := strings.ToLower(c.movies[i].Title)
		if name == query {
			return c.movies[i], nil
		}
		if partial == nil && strings.Contains(name, query) {
			partial = &c.movies[i]
		}
	}
	if partial != nil {
		return *partial, nil
	}
	return domain.Movie{ErrorMessage: NotFoundMessage}, nil
}
