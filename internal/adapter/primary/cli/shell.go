package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"moviesearch/internal/core"
	"moviesearch/internal/domain"
	"moviesearch/internal/logging"
	"moviesearch/internal/stream"
)

var errQuit = errors.New("quit")

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell backed by a live search session",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, err := openRepository(logging.L())
			if err != nil {
				return err
			}
			return runInteractiveShell(cmd.Context(), prompt, repo)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "movie> ", "shell prompt")
	return cmd
}

func runInteractiveShell(ctx context.Context, prompt string, repo domain.MovieRepository) error {
	historyFile := filepath.Join(os.TempDir(), "moviesearch-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sh := newShell(ctx, repo, rl.Stdout())
	defer sh.close()

	sessionVerbosity := verbosity
	fmt.Fprintln(sh.out, "Interactive shell started. Type 'help' for commands, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(sh.out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(sh.out)
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(sh.out, "Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(sh.out, tokens[1:], &sessionVerbosity); err != nil {
				fmt.Fprintf(sh.out, "log: %v\n", err)
			}
			continue
		}
		err = sh.execute(tokens)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(sh.out, "Bye!")
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "%s: %v\n", tokens[0], err)
		}
	}
}

// shell owns one pipeline for the whole interactive session. Commands become
// events; a printer goroutine reports movie changes as they arrive.
type shell struct {
	ctx    context.Context
	store  *core.Store
	events chan domain.Event
	out    io.Writer
	done   chan struct{}
	cancel context.CancelFunc
}

func newShell(ctx context.Context, repo domain.MovieRepository, w io.Writer) *shell {
	ctx, cancel := context.WithCancel(ctx)
	sh := &shell{
		ctx:   ctx,
		store: core.NewStore(repo,
			core.WithLogger(logging.L()),
			core.WithGuard(core.Preconditions),
		),
		events: make(chan domain.Event),
		out:    &lockedWriter{w: w},
		done:   make(chan struct{}),
		cancel: cancel,
	}
	states := sh.store.Render(ctx, sh.events)
	go sh.print(states)
	sh.send(domain.ScreenLoad{})
	return sh
}

func (s *shell) print(states <-chan domain.ViewState) {
	defer close(s.done)
	var prev domain.ViewState
	for st := range states {
		if movieChanged(prev, st) {
			writeMovie(s.out, st)
		}
		if len(st.AdapterList) > len(prev.AdapterList) {
			fmt.Fprintf(s.out, "added to history (%d)\n", len(st.AdapterList))
		}
		prev = st
	}
}

// close ends the session and waits for pending output.
func (s *shell) close() {
	close(s.events)
	<-s.done
	s.cancel()
}

func (s *shell) send(ev domain.Event) {
	stream.Send[domain.Event](s.ctx, s.events, ev)
}

func (s *shell) execute(tokens []string) error {
	switch tokens[0] {
	case "exit", "quit":
		return errQuit
	case "help":
		printShellHelp(s.out)
	case "search":
		query := strings.TrimSpace(strings.Join(tokens[1:], " "))
		if query == "" {
			return domain.ErrEmptyQuery
		}
		s.send(domain.SearchMovie{Query: query})
	case "add":
		if s.store.Snapshot().SearchedMovieReference == nil {
			return domain.ErrNoSearchedMovie
		}
		s.send(domain.AddToHistory{})
	case "history":
		writeHistory(s.out, s.store.Snapshot())
	case "restore":
		if len(tokens) != 2 {
			return errors.New("usage: restore <n>")
		}
		list := s.store.Snapshot().AdapterList
		n, err := strconv.Atoi(tokens[1])
		if err != nil || n < 1 || n > len(list) {
			return fmt.Errorf("pick an entry between 1 and %d", len(list))
		}
		s.send(domain.RestoreFromHistory{Movie: list[n-1]})
	case "state":
		return writeStateJSON(s.out, s.store.Snapshot())
	default:
		return errors.New("unknown command, type 'help'")
	}
	return nil
}

func handleShellLog(w io.Writer, args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level name (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(w, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Fprintf(w, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Fprintf(w, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(w io.Writer) {
	fmt.Fprintln(w, `Commands:
  search <title>      # look a movie up
  add                 # add the displayed movie to the history
  history             # list the history
  restore <n>         # show history entry n again
  state               # print the current view state as JSON
  log -vv             # raise log verbosity
  log --show          # show the current log level
  exit / quit         # leave the shell`)
}

// lockedWriter serialises writes from the prompt loop and the printer goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
