package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/patience/internal/ir"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPlay creates a running play of game with a fixed start time.
func createTestPlay(id, game string) Play {
	return Play{
		ID:        id,
		Game:      game,
		Seed:      42,
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		State:     ir.RunningState,
	}
}
