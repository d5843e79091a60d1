package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sub", "config.yaml"))
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Repository.Backend = BackendCatalog
	cfg.Catalog.Path = "/tmp/movies.yaml"
	cfg.Catalog.Latency = Duration{250 * time.Millisecond}
	cfg.Web.Addr = "0.0.0.0:9000"
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("omdb:\n  timeout: 3s\nlog:\n  level: debug\n"), 0o600))
	store, err := NewFileStore(path)
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.OMDb.Timeout.Duration)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, DefaultBaseURL, cfg.OMDb.BaseURL)
	require.Equal(t, DefaultAddr, cfg.Web.Addr)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("omdb:\n  timeout: soon\n"), 0o600))
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Load()
	require.ErrorContains(t, err, "invalid duration")
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("MOVIESEARCH_KEY", "abc123")

	tests := []struct {
		in   string
		want string
	}{
		{"${MOVIESEARCH_KEY}", "abc123"},
		{"key=${MOVIESEARCH_KEY}!", "key=abc123!"},
		{"${MOVIESEARCH_UNSET_VAR}", ""},
		{"${MOVIESEARCH_UNSET_VAR:-fallback}", "fallback"},
		{"${MOVIESEARCH_KEY:-fallback}", "abc123"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ExpandEnv(tt.in), tt.in)
	}
}

func TestExpandAppliesToStringSettings(t *testing.T) {
	t.Setenv("OMDB_API_KEY", "k")
	t.Setenv("MOVIESEARCH_ADDR", "127.0.0.1:9999")

	cfg := DefaultConfig()
	cfg.Web.Addr = "${MOVIESEARCH_ADDR}"
	cfg = Expand(cfg)
	require.Equal(t, "k", cfg.OMDb.APIKey)
	require.Equal(t, "127.0.0.1:9999", cfg.Web.Addr)
}

func TestNormalize(t *testing.T) {
	cfg, err := Normalize(Config{OMDb: OMDbConfig{RatePerSecond: 1}})
	require.NoError(t, err)
	require.Equal(t, BackendOMDb, cfg.Repository.Backend)
	require.Equal(t, DefaultBaseURL, cfg.OMDb.BaseURL)
	require.Equal(t, DefaultTimeout, cfg.OMDb.Timeout.Duration)
	require.Equal(t, DefaultAddr, cfg.Web.Addr)

	cfg, err = Normalize(Config{
		Repository: RepositoryConfig{Backend: " Catalog "},
		Catalog:    CatalogConfig{Path: "movies.yaml"},
		OMDb:       OMDbConfig{RatePerSecond: 1},
	})
	require.NoError(t, err)
	require.Equal(t, BackendCatalog, cfg.Repository.Backend)
}

func TestNormalizeRejects(t *testing.T) {
	base := DefaultConfig()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown backend", func(c *Config) { c.Repository.Backend = "sql" }, "repository.backend"},
		{"catalog without path", func(c *Config) { c.Repository.Backend = BackendCatalog }, "catalog.path"},
		{"bad url", func(c *Config) { c.OMDb.BaseURL = "::nope" }, "omdb.base_url"},
		{"negative retries", func(c *Config) { c.OMDb.MaxRetries = -1 }, "omdb.max_retries"},
		{"zero rate", func(c *Config) { c.OMDb.RatePerSecond = 0 }, "omdb.rate_per_second"},
		{"negative latency", func(c *Config) { c.Catalog.Latency = Duration{-time.Second} }, "catalog.latency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := Normalize(cfg)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	require.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
	require.Equal(t, "moviesearch", filepath.Base(filepath.Dir(DefaultPath())))
}
