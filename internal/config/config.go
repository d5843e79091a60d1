package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Repository backends.
const (
	BackendOMDb    = "omdb"
	BackendCatalog = "catalog"
)

// Config holds the settings shared by every command.
type Config struct {
	Repository RepositoryConfig `yaml:"repository"`
	OMDb       OMDbConfig       `yaml:"omdb"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Cache      CacheConfig      `yaml:"cache"`
	Web        WebConfig        `yaml:"web"`
	Log        LogConfig        `yaml:"log"`
}

// RepositoryConfig selects where movies come from.
type RepositoryConfig struct {
	Backend string `yaml:"backend"`
}

// OMDbConfig configures the HTTP movie API client.
type OMDbConfig struct {
	BaseURL       string   `yaml:"base_url"`
	APIKey        string   `yaml:"api_key"`
	Timeout       Duration `yaml:"timeout"`
	MaxRetries    int      `yaml:"max_retries"`
	RatePerSecond float64  `yaml:"rate_per_second"`
}

// CatalogConfig configures the offline catalog backend.
type CatalogConfig struct {
	Path    string   `yaml:"path"`
	Latency Duration `yaml:"latency"`
}

// CacheConfig configures the lookup cache wrapped around the backend.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WebConfig configures the HTTP UI server.
type WebConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig sets the default log level; -v flags override it.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	if d.Duration == 0 {
		return "", nil
	}
	return d.Duration.String(), nil
}

var (
	// DefaultBaseURL is the movie API endpoint used when none is configured.
	DefaultBaseURL = "https://www.omdbapi.com/"
	// DefaultTimeout bounds a single lookup request.
	DefaultTimeout = 10 * time.Second
	// DefaultAddr is where the web UI listens.
	DefaultAddr = "127.0.0.1:7070"
)

// DefaultConfig returns the initial configuration.
func DefaultConfig() Config {
	return Config{
		Repository: RepositoryConfig{Backend: BackendOMDb},
		OMDb: OMDbConfig{
			BaseURL:       DefaultBaseURL,
			APIKey:        "${OMDB_API_KEY}",
			Timeout:       Duration{DefaultTimeout},
			MaxRetries:    3,
			RatePerSecond: 5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    DefaultCachePath(),
		},
		Web: WebConfig{Addr: DefaultAddr},
		Log: LogConfig{Level: "warn"},
	}
}

// Store persists configuration to disk so every command shares it.
type Store interface {
	Load() (Config, error)
	Save(Config) error
}

// FileStore implements Store using a YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store under the supplied path. Parent directories are created automatically.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the configuration file or returns defaults if it does not exist.
// ${VAR} references are left unexpanded; call Expand before use.
func (s *FileStore) Load() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid YAML in %s: %w", s.path, err)
	}
	return cfg, nil
}

// Save writes the configuration to disk atomically.
func (s *FileStore) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// Expand returns a copy of cfg with ${VAR} and ${VAR:-default} references in
// string settings replaced from the environment.
func Expand(cfg Config) Config {
	cfg.Repository.Backend = ExpandEnv(cfg.Repository.Backend)
	cfg.OMDb.BaseURL = ExpandEnv(cfg.OMDb.BaseURL)
	cfg.OMDb.APIKey = ExpandEnv(cfg.OMDb.APIKey)
	cfg.Catalog.Path = ExpandEnv(cfg.Catalog.Path)
	cfg.Cache.Path = ExpandEnv(cfg.Cache.Path)
	cfg.Web.Addr = ExpandEnv(cfg.Web.Addr)
	cfg.Log.Level = ExpandEnv(cfg.Log.Level)
	return cfg
}
