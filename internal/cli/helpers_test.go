package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/store"
)

// bundledGames is the games directory of the repository.
var bundledGames = filepath.Join("..", "..", "games")

// testRootOptions returns options with a fresh database and the bundled
// games, independent of the caller's environment.
func testRootOptions(t *testing.T) *RootOptions {
	t.Helper()
	t.Setenv("PATIENCE_PROFILE", "")
	t.Setenv("PATIENCE_LOG_FILE", "")
	t.Setenv("PATIENCE_LOG_LEVEL", "info")
	return &RootOptions{
		Format: "text",
		DB:     filepath.Join(t.TempDir(), "patience.db"),
		Games:  bundledGames,
	}
}

// gamesDir copies the bundled games into a temporary directory together
// with one unsupported variant.
func gamesDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"klondike.lua", "freecell.lua"} {
		src, err := os.ReadFile(filepath.Join(bundledGames, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), src, 0644))
	}
	src, err := os.ReadFile(filepath.Join(bundledGames, "klondike.lua"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "forty-thieves.lua"), src, 0644))
	return dir
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordPlay adds a play to the database of opts.
func recordPlay(t *testing.T, opts *RootOptions, p store.Play) {
	t.Helper()
	st, err := store.Open(opts.DB)
	require.NoError(t, err)
	defer st.Close()
	if p.StartedAt.IsZero() {
		p.StartedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	if p.State == ir.UninitializedState {
		p.State = ir.RunningState
	}
	require.NoError(t, st.RecordPlay(context.Background(), p, 0))
}
