package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"moviesearch/internal/adapter/secondary/catalog"
	"moviesearch/internal/config"
	"moviesearch/internal/domain"
	"moviesearch/internal/logging"
)

var matrix = domain.Movie{Title: "The Matrix", RatingSummary: "IMDb: 8.7/10\nRT: 83%", PosterURL: "https://img/matrix.jpg"}

func testCatalog() *catalog.Catalog {
	return catalog.New([]domain.Movie{matrix, {Title: "Heat", RatingSummary: "8.3"}}, 0)
}

func TestRunSearchPrintsMovie(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSearch(t.Context(), &out, testCatalog(), "matrix", false))
	require.Equal(t, "Searching Movie...\nThe Matrix\n  IMDb: 8.7/10\n  RT: 83%\n  poster: https://img/matrix.jpg\n", out.String())
}

func TestRunSearchJSONLines(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSearch(t.Context(), &out, testCatalog(), "heat", true))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	var last stateJSON
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &last))
	require.Equal(t, "Heat", last.Title)
	require.NotNil(t, last.Reference)
}

func TestRunSearchMissIsAnError(t *testing.T) {
	var out bytes.Buffer
	err := runSearch(t.Context(), &out, testCatalog(), "zzz", false)
	require.EqualError(t, err, catalog.NotFoundMessage)
	require.Contains(t, out.String(), "error: "+catalog.NotFoundMessage)
}

func TestShellSession(t *testing.T) {
	var out bytes.Buffer
	sh := newShell(t.Context(), testCatalog(), &out)

	require.ErrorIs(t, sh.execute([]string{"add"}), domain.ErrNoSearchedMovie)
	require.ErrorIs(t, sh.execute([]string{"search"}), domain.ErrEmptyQuery)

	require.NoError(t, sh.execute([]string{"search", "the", "matrix"}))
	require.Eventually(t, func() bool {
		return sh.store.Snapshot().SearchedMovieTitle == "The Matrix"
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, sh.execute([]string{"add"}))
	require.Eventually(t, func() bool {
		return len(sh.store.Snapshot().AdapterList) == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, sh.execute([]string{"search", "Heat"}))
	require.Eventually(t, func() bool {
		return sh.store.Snapshot().SearchedMovieTitle == "Heat"
	}, 2*time.Second, 5*time.Millisecond)

	require.Error(t, sh.execute([]string{"restore", "2"}))
	require.Error(t, sh.execute([]string{"restore"}))
	require.NoError(t, sh.execute([]string{"restore", "1"}))
	require.Eventually(t, func() bool {
		return sh.store.Snapshot().SearchedMovieTitle == "The Matrix"
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, sh.execute([]string{"history"}))
	require.Error(t, sh.execute([]string{"dance"}))
	require.ErrorIs(t, sh.execute([]string{"exit"}), errQuit)
	sh.close()

	text := out.String()
	require.Contains(t, text, "added to history (1)")
	require.Contains(t, text, " 1. The Matrix")
	require.Equal(t, 2, strings.Count(text, "The Matrix\n  IMDb"))
}

func TestHandleShellLog(t *testing.T) {
	t.Cleanup(func() {
		verbosity = 0
		logging.SetVerbosity(0)
	})
	var out bytes.Buffer
	session := 0

	require.NoError(t, handleShellLog(&out, []string{"--level", "debug"}, &session))
	require.Equal(t, 2, session)
	require.Contains(t, out.String(), "log level set to debug")

	require.NoError(t, handleShellLog(&out, []string{"-v"}, &session))
	require.Equal(t, 1, session)

	require.Error(t, handleShellLog(&out, []string{"--level", "loud"}, &session))
	require.Error(t, handleShellLog(&out, []string{"--nope"}, &session))
}

func TestConfigSetAndGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	catalogPath := filepath.Join(t.TempDir(), "movies.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("movies:\n  - title: Heat\n"), 0o600))

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config", "set",
		"--backend", "catalog", "--catalog", catalogPath, "--cache", "false", "--addr", "127.0.0.1:9999"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "backend=catalog")

	store, err := config.NewFileStore(path)
	require.NoError(t, err)
	cfg, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, config.BackendCatalog, cfg.Repository.Backend)
	require.False(t, cfg.Cache.Enabled)
	require.Equal(t, "127.0.0.1:9999", cfg.Web.Addr)

	out.Reset()
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config", "get"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "backend: catalog")

	out.Reset()
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "search", "heat"})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "Heat")
}

func TestConfigSetRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	for _, args := range [][]string{
		{"--backend", "sql"},
		{"--cache", "maybe"},
		{"--rate", "0"},
		{"--log-level", "loud"},
	} {
		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append([]string{"--config", path, "config", "set"}, args...))
		require.Error(t, root.Execute(), args)
	}
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestMovieChanged(t *testing.T) {
	base := domain.DefaultViewState()
	shown := base.WithSearchedMovie(matrix)
	require.True(t, movieChanged(base, shown))
	require.False(t, movieChanged(shown, shown.WithHistory(matrix)))
	require.True(t, movieChanged(shown, shown.Searching()))
}
