package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"moviesearch/internal/adapter/primary/tui"
	"moviesearch/internal/adapter/primary/web"
	"moviesearch/internal/core"
	"moviesearch/internal/domain"
	"moviesearch/internal/logging"
	"moviesearch/internal/stream"
)

func newSearchCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search a movie once and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return domain.ErrEmptyQuery
			}
			repo, _, err := openRepository(logging.L())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runSearch(ctx, cmd.OutOrStdout(), repo, title, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print every view state as a JSON line")
	return cmd
}

// runSearch renders a one-shot pipeline: screen load, then a single search.
func runSearch(ctx context.Context, w io.Writer, repo domain.MovieRepository, title string, asJSON bool) error {
	store := core.NewStore(repo, core.WithLogger(logging.L()))
	events := stream.Just[domain.Event](domain.ScreenLoad{}, domain.SearchMovie{Query: title})

	var last domain.ViewState
	for st := range store.Render(ctx, events) {
		if asJSON {
			if err := writeStateJSON(w, st); err != nil {
				return err
			}
		} else {
			writeMovie(w, st)
		}
		last = st
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if last.SearchedMovieReference == nil {
		return errors.New(last.SearchedMovieTitle)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, cfg, err := openRepository(logging.L())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Web.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			srv := web.NewServer(repo, addr, logging.L())
			fmt.Fprintf(cmd.OutOrStdout(), "Movie search UI running at http://%s\n", addr)
			logging.Infof("Web UI: http://%s", addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (defaults to web.addr)")
	return cmd
}

func newTUICmd() *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			logging.SetOutput(f)

			repo, _, err := openRepository(logging.L())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return tui.Run(ctx, repo, logging.L())
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "moviesearch-tui.log"), "file receiving logs while the UI owns the terminal")
	return cmd
}
