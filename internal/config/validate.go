package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Normalize validates cfg and fills in blank settings; it returns a safe copy.
func Normalize(cfg Config) (Config, error) {
	cfg.Repository.Backend = strings.ToLower(strings.TrimSpace(cfg.Repository.Backend))
	if cfg.Repository.Backend == "" {
		cfg.Repository.Backend = BackendOMDb
	}
	switch cfg.Repository.Backend {
	case BackendOMDb:
		if cfg.OMDb.BaseURL == "" {
			cfg.OMDb.BaseURL = DefaultBaseURL
		}
		if _, err := url.ParseRequestURI(cfg.OMDb.BaseURL); err != nil {
			return cfg, fmt.Errorf("omdb.base_url is invalid: %w", err)
		}
	case BackendCatalog:
		if cfg.Catalog.Path == "" {
			return cfg, fmt.Errorf("catalog.path is required for the catalog backend")
		}
	default:
		return cfg, fmt.Errorf("repository.backend must be %q or %q, got %q", BackendOMDb, BackendCatalog, cfg.Repository.Backend)
	}

	if cfg.OMDb.Timeout.Duration <= 0 {
		cfg.OMDb.Timeout.Duration = DefaultTimeout
	}
	if cfg.OMDb.MaxRetries < 0 {
		return cfg, fmt.Errorf("omdb.max_retries must be >= 0")
	}
	if cfg.OMDb.RatePerSecond <= 0 {
		return cfg, fmt.Errorf("omdb.rate_per_second must be > 0")
	}
	if cfg.Catalog.Latency.Duration < 0 {
		return cfg, fmt.Errorf("catalog.latency must be >= 0")
	}
	if cfg.Cache.Enabled && cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath()
	}
	if strings.TrimSpace(cfg.Web.Addr) == "" {
		cfg.Web.Addr = DefaultAddr
	}
	return cfg, nil
}
