package cli

import (
	"fmt"

	"go.uber.org/zap"

	"moviesearch/internal/adapter/secondary/cache"
	"moviesearch/internal/adapter/secondary/catalog"
	"moviesearch/internal/adapter/secondary/omdb"
	"moviesearch/internal/config"
	"moviesearch/internal/domain"
)

func openConfigStore() (*config.FileStore, error) {
	return config.NewFileStore(cfgPath)
}

// loadConfig reads the config file with environment references expanded and
// defaults applied.
func loadConfig() (config.Config, error) {
	store, err := openConfigStore()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := store.Load()
	if err != nil {
		return config.Config{}, err
	}
	return config.Normalize(config.Expand(cfg))
}

// buildRepository wires the configured backend, wrapped by the cache when enabled.
func buildRepository(cfg config.Config, log *zap.Logger) (domain.MovieRepository, error) {
	var repo domain.MovieRepository
	switch cfg.Repository.Backend {
	case config.BackendCatalog:
		c, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.Latency.Duration)
		if err != nil {
			return nil, err
		}
		log.Info("using catalog backend", zap.String("path", cfg.Catalog.Path), zap.Int("movies", c.Len()))
		repo = c
	case config.BackendOMDb:
		if cfg.OMDb.APIKey == "" {
			log.Warn("omdb.api_key is empty; set OMDB_API_KEY or run 'config set --api-key'")
		}
		c, err := omdb.New(omdb.Options{
			BaseURL:       cfg.OMDb.BaseURL,
			APIKey:        cfg.OMDb.APIKey,
			Timeout:       cfg.OMDb.Timeout.Duration,
			MaxRetries:    cfg.OMDb.MaxRetries,
			RatePerSecond: cfg.OMDb.RatePerSecond,
			Logger:        log,
		})
		if err != nil {
			return nil, err
		}
		repo = c
	default:
		return nil, fmt.Errorf("unknown repository backend %q", cfg.Repository.Backend)
	}

	if !cfg.Cache.Enabled {
		return repo, nil
	}
	cached, err := cache.New(repo, cfg.Cache.Path, log)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

// openRepository loads the config and builds its repository.
func openRepository(log *zap.Logger) (domain.MovieRepository, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	repo, err := buildRepository(cfg, log)
	if err != nil {
		return nil, config.Config{}, err
	}
	return repo, cfg, nil
}
