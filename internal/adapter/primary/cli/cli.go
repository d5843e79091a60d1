package cli

import (
	"github.com/spf13/cobra"

	"moviesearch/internal/config"
	"moviesearch/internal/logging"
)

var (
	cfgPath   string
	verbosity int
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs into pipeline events.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "moviesearch",
		Short:         "Search movies and keep a search history",
		Long:          "Movie search with history, available as a one-shot command, an interactive shell, a terminal UI and a web UI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to the config file")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase logging verbosity (-v, -vv, ... up to 4 times)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return applyLogLevel()
	}

	cmd.AddCommand(
		newSearchCmd(),
		newShellCmd(),
		newServeCmd(),
		newTUICmd(),
		newConfigCmd(),
	)

	return cmd
}

// applyLogLevel lets -v flags win over the configured log.level.
func applyLogLevel() error {
	if verbosity > 0 {
		logging.SetVerbosity(verbosity)
		return nil
	}
	cfg, err := loadConfig()
	if err != nil || cfg.Log.Level == "" {
		logging.SetVerbosity(0)
		return nil
	}
	return logging.SetLevel(cfg.Log.Level)
}
