package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"moviesearch/internal/config"
	"moviesearch/internal/logging"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the config file",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the config file as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfigStore()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", store.Path(), out)
			return nil
		},
	}
}

type configFlags struct {
	backend   string
	baseURL   string
	apiKey    string
	timeout   time.Duration
	retries   int
	rate      float64
	catalog   string
	latency   time.Duration
	cache     string
	cachePath string
	addr      string
	logLevel  string
}

func newConfigSetCmd() *cobra.Command {
	var f configFlags
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update selected config keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfigStore()
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &cfg); err != nil {
				return err
			}
			if _, err := config.Normalize(config.Expand(cfg)); err != nil {
				return err
			}
			if err := store.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s: backend=%s addr=%s cache=%t\n",
				store.Path(), cfg.Repository.Backend, cfg.Web.Addr, cfg.Cache.Enabled)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.backend, "backend", "", "repository backend (omdb|catalog)")
	cmd.Flags().StringVar(&f.baseURL, "omdb-url", "", "movie API base URL")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "movie API key (may reference ${VAR})")
	cmd.Flags().DurationVar(&f.timeout, "timeout", config.DefaultTimeout, "per-request timeout, e.g. 5s")
	cmd.Flags().IntVar(&f.retries, "retries", 3, "retries for transient API failures")
	cmd.Flags().Float64Var(&f.rate, "rate", 5, "maximum API requests per second")
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "catalog YAML file for the catalog backend")
	cmd.Flags().DurationVar(&f.latency, "latency", 0, "artificial catalog lookup latency")
	cmd.Flags().StringVar(&f.cache, "cache", "", "true/false to enable or disable the lookup cache")
	cmd.Flags().StringVar(&f.cachePath, "cache-path", "", "lookup cache file")
	cmd.Flags().StringVar(&f.addr, "addr", "", "web UI listen address")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "default log level (error|warn|info|debug|trace)")
	return cmd
}

// apply copies every flag the user set onto cfg.
func (f configFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("backend") {
		cfg.Repository.Backend = f.backend
	}
	if changed("omdb-url") {
		cfg.OMDb.BaseURL = f.baseURL
	}
	if changed("api-key") {
		cfg.OMDb.APIKey = f.apiKey
	}
	if changed("timeout") {
		cfg.OMDb.Timeout = config.Duration{Duration: f.timeout}
	}
	if changed("retries") {
		cfg.OMDb.MaxRetries = f.retries
	}
	if changed("rate") {
		cfg.OMDb.RatePerSecond = f.rate
	}
	if changed("catalog") {
		cfg.Catalog.Path = f.catalog
	}
	if changed("latency") {
		cfg.Catalog.Latency = config.Duration{Duration: f.latency}
	}
	if changed("cache") {
		switch f.cache {
		case "true":
			cfg.Cache.Enabled = true
		case "false":
			cfg.Cache.Enabled = false
		default:
			return errors.New("--cache must be true or false")
		}
	}
	if changed("cache-path") {
		cfg.Cache.Path = f.cachePath
	}
	if changed("addr") {
		cfg.Web.Addr = f.addr
	}
	if changed("log-level") {
		if _, _, err := logging.ParseLevel(f.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = f.logLevel
	}
	return nil
}
