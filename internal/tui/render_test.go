package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/table"
)

func TestTableSize(t *testing.T) {
	w, h := TableSize(80, 25)
	assert.Equal(t, 80.0, w)
	assert.Equal(t, 48.0, h)

	w, h = TableSize(10, 0)
	assert.Equal(t, 10.0, w)
	assert.Zero(t, h)
}

func TestCellPoint(t *testing.T) {
	assert.Equal(t, table.Point{X: 0.5, Y: 1}, CellPoint(0, 0))
	assert.Equal(t, table.Point{X: 3.5, Y: 9}, CellPoint(3, 4))
}

func TestCellRect(t *testing.T) {
	x, y, w, h := cellRect(table.Rect{X: 7.9, Y: 13.8, W: 6, H: 9})
	assert.Equal(t, []int{7, 6, 6, 4}, []int{x, y, w, h})
}

func newTestScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

func TestRenderer_EmptySlotOutline(t *testing.T) {
	screen := newTestScreen(t, 12, 6)
	r := NewRenderer(screen, DefaultTheme(tcell.ColorGreen))

	r.Draw(table.Scene{
		Slots: []table.SlotView{{ID: 0, Type: ir.FoundationSlot, Rect: table.Rect{X: 1, Y: 2, W: 4, H: 6}, Empty: true}},
	}, "hello")

	lines := screenLines(screen)
	assert.Equal(t, " ┌──┐       ", lines[1])
	assert.Equal(t, " │  │       ", lines[2])
	assert.Equal(t, " └──┘       ", lines[3])
	assert.Equal(t, " hello      ", lines[5])
}

func TestRenderer_HighlightedSlot(t *testing.T) {
	theme := DefaultTheme(tcell.ColorYellow)
	screen := newTestScreen(t, 12, 6)
	r := NewRenderer(screen, theme)

	r.Draw(table.Scene{
		Slots: []table.SlotView{{ID: 0, Rect: table.Rect{X: 1, Y: 2, W: 4, H: 6}, Empty: true, Highlighted: true}},
	}, "")

	_, _, style, _ := screen.GetContent(2, 2)
	assert.Equal(t, theme.Highlight, style)
}

func TestRenderer_CardsClippedToScreen(t *testing.T) {
	screen := newTestScreen(t, 8, 4)
	r := NewRenderer(screen, DefaultTheme(tcell.ColorGreen))

	card := ir.CardData{Suit: ir.SuitHearts, Rank: ir.RankKing, Show: true}
	r.Draw(table.Scene{
		Cards: []table.CardView{{Data: card, Rect: table.Rect{X: 5, Y: 2, W: 5, H: 8}}},
	}, "")

	lines := screenLines(screen)
	assert.Equal(t, "     ┌──", lines[1])
	assert.Equal(t, "     │K♥", lines[2])
}

func TestRenderer_PreparingDrawsNoCards(t *testing.T) {
	screen := newTestScreen(t, 8, 4)
	r := NewRenderer(screen, DefaultTheme(tcell.ColorGreen))

	card := ir.CardData{Suit: ir.SuitHearts, Rank: ir.RankKing, Show: true}
	r.Draw(table.Scene{
		Preparing: true,
		Cards:     []table.CardView{{Data: card, Rect: table.Rect{X: 0, Y: 0, W: 5, H: 6}}},
	}, "")

	for _, line := range screenLines(screen)[:3] {
		assert.Equal(t, "        ", line)
	}
	assert.Zero(t, r.Atlas().Builds())
}
