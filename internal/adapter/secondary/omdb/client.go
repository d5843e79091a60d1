// Package omdb implements domain.MovieRepository against an OMDb-style HTTP API.
package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"moviesearch/internal/domain"
)

const (
	defaultTimeout   = 10 * time.Second
	maxRetryInterval = 2 * time.Second
	maxResponseBytes = 1 << 20
	notFoundFallback = "Movie not found!"
)

var errDecode = errors.New("decode response")

// Options configures a Client.
type Options struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond float64
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client is a secondary adapter that looks movies up over HTTP.
type Client struct {
	base       *url.URL
	apiKey     string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	log        *zap.Logger
}

var _ domain.MovieRepository = (*Client)(nil)

// New builds a Client from opts.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("omdb: invalid base url %q", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:       base,
		apiKey:     opts.APIKey,
		client:     client,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: max(opts.MaxRetries, 0),
		log:        log.Named("omdb"),
	}, nil
}

// movieResponse mirrors the subset of the API payload the UI needs.
type movieResponse struct {
	Response   string   `json:"Response"`
	Error      string   `json:"Error"`
	Title      string   `json:"Title"`
	Poster     string   `json:"Poster"`
	IMDBRating string   `json:"imdbRating"`
	Ratings    []rating `json:"Ratings"`
}

type rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// statusError marks a response status worth retrying.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// SearchMovie fetches the movie titled title. API-level misses come back as a
// Movie carrying ErrorMessage; transport failures come back as errors.
func (c *Client) SearchMovie(ctx context.Context, title string) (domain.Movie, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = maxRetryInterval

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.Movie{}, err
		}
		resp, err := c.fetch(ctx, title)
		if err == nil {
			return resp.toMovie(), nil
		}
		if !retryable(ctx, err) || attempt >= c.maxRetries {
			return domain.Movie{}, fmt.Errorf("omdb lookup %q: %w", title, err)
		}
		sleep := bo.NextBackOff()
		if sleep == backoff.Stop {
			sleep = maxRetryInterval
		}
		c.log.Debug("retrying lookup",
			zap.String("title", title),
			zap.Int("attempt", attempt+1),
			zap.Duration("sleep", sleep),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return domain.Movie{}, ctx.Err()
		case <-time.After(sleep):
		}
	}
}

func (c *Client) fetch(ctx context.Context, title string) (movieResponse, error) {
	u := *c.base
	q := u.Query()
	q.Set("t", title)
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return movieResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return movieResponse{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes))
		return movieResponse{}, &statusError{code: res.StatusCode}
	}

	var payload movieResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return movieResponse{}, fmt.Errorf("%w: %v", errDecode, err)
	}
	return payload, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, errDecode)
}

func (r movieResponse) toMovie() domain.Movie {
	if strings.EqualFold(r.Response, "False") {
		msg := strings.TrimSpace(r.Error)
		if msg == "" {
			msg = notFoundFallback
		}
		return domain.Movie{ErrorMessage: msg}
	}
	return domain.Movie{
		Title:         r.Title,
		RatingSummary: r.ratingSummary(),
		PosterURL:     posterURL(r.Poster),
	}
}

func (r movieResponse) ratingSummary() string {
	lines := make([]string, 0, len(r.Ratings))
	for _, rt := range r.Ratings {
		if rt.Source == "" || rt.Value == "" {
			continue
		}
		lines = append(lines, rt.Source+": "+rt.Value)
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n")
	}
	if r.IMDBRating != "" && r.IMDBRating != "N/A" {
		return r.IMDBRating
	}
	return ""
}

func posterURL(p string) string {
	if p == "N/A" {
		return ""
	}
	return p
}
