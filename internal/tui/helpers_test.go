package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patience/internal/engine"
	"github.com/roach88/patience/internal/logging"
	"github.com/roach88/patience/internal/script"
	"github.com/roach88/patience/internal/testutil"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func gamePath(name string) string {
	return filepath.Join("..", "..", "games", name)
}

// newTestApp runs the named game on an 80x25 simulation screen.
func newTestApp(t *testing.T, game string) (*App, tcell.SimulationScreen, *engine.Session) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	session := engine.New(script.New(script.WithLogger(logging.Discard())),
		engine.WithIDGenerator(engine.NewFixedGenerator("game-1", "game-2", "game-3")),
		engine.WithSeedSource(testutil.NewSeedSequence(7, 8, 9).Next),
		engine.WithLogger(logging.Discard()),
	)
	app := New(screen, session,
		WithLogger(logging.Discard()),
		WithNow(func() time.Time { return testTime }),
	)
	require.NoError(t, app.Init())
	t.Cleanup(app.Close)
	t.Cleanup(func() { _ = session.Close() })

	require.NoError(t, session.LoadGame(gamePath(game)))
	require.NoError(t, session.StartNewGame())
	app.Draw()
	return app, screen, session
}

// screenLines returns the screen contents row by row.
func screenLines(screen tcell.SimulationScreen) []string {
	cells, w, h := screen.GetContents()
	lines := make([]string, h)
	for y := range h {
		var b strings.Builder
		for x := range w {
			c := cells[y*w+x]
			if len(c.Runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(c.Runes[0])
		}
		lines[y] = b.String()
	}
	return lines
}

// slotCell returns the cell at the centre of a slot.
func slotCell(t *testing.T, app *App, id int) (x, y int) {
	t.Helper()
	s, ok := app.Table().Slot(id)
	require.True(t, ok, "slot %d", id)
	c := s.Rect().Center()
	return int(c.X), int(c.Y / PixelsPerRow)
}

func click(app *App, x, y int) {
	app.HandleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
	app.HandleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
	app.redraw()
}

func key(app *App, r rune) {
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	app.redraw()
}
