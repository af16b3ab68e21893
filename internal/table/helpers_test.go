package table

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/roach88/patience/internal/ir"
)

var t0 = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

type moveRequest struct {
	from       int
	cards      []ir.CardData
	candidates []int
}

// recordingController records every request. Moves are accepted by the
// first candidate listed in accept, and applied to the table the way the
// session would.
type recordingController struct {
	table        *Table
	canDrag      bool
	accept       map[int]bool
	dragChecks   int
	moves        []moveRequest
	clicks       []int
	doubleClicks []int
}

func (c *recordingController) CanDrag(int, []ir.CardData) bool {
	c.dragChecks++
	return c.canDrag
}

func (c *recordingController) Move(from int, cards []ir.CardData, candidates []int) bool {
	c.moves = append(c.moves, moveRequest{from: from, cards: cards, candidates: candidates})
	for _, to := range candidates {
		if to == from || !c.accept[to] {
			continue
		}
		src, _ := c.table.Slot(from)
		start := src.Len() - len(cards)
		for range cards {
			c.table.Apply(ir.Notification{Kind: ir.KindRemoveCard, Slot: from, Index: start})
		}
		for _, card := range cards {
			c.table.Apply(ir.Notification{Kind: ir.KindAppendCard, Slot: to, Card: card})
		}
		return true
	}
	return false
}

func (c *recordingController) Click(slot int)       { c.clicks = append(c.clicks, slot) }
func (c *recordingController) DoubleClick(slot int) { c.doubleClicks = append(c.doubleClicks, slot) }

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testOptions() Options {
	o := DefaultOptions()
	o.Margin = Size{W: 10, H: 10}
	return o
}

// newTestTable returns a started 4x2 board on an 800x600 area. With a
// margin of 10 the cards are 183x285, columns start at x = 12.375 and
// advance by 197.75, rows start at y = 10 and advance by 295.
func newTestTable(t *testing.T, ctrl *recordingController, logs *bytes.Buffer) *Table {
	t.Helper()
	if logs == nil {
		logs = &bytes.Buffer{}
	}
	var c Controller = NopController{}
	if ctrl != nil {
		c = ctrl
	}
	tb := New(c, WithOptions(testOptions()), WithLogger(bufferLogger(logs)))
	if ctrl != nil {
		ctrl.table = tb
	}
	tb.SetSize(800, 600)
	tb.Apply(ir.Notification{Kind: ir.KindClearData})
	tb.Apply(ir.Notification{Kind: ir.KindWidthChanged, Value: 4})
	tb.Apply(ir.Notification{Kind: ir.KindHeightChanged, Value: 2})
	return tb
}

func addSlot(tb *Table, spec ir.SlotSpec, cards ...ir.CardData) *Slot {
	tb.Apply(ir.Notification{Kind: ir.KindNewSlot, Spec: spec, Cards: cards})
	s, _ := tb.Slot(spec.ID)
	return s
}

func start(tb *Table) {
	tb.Apply(ir.Notification{Kind: ir.KindGameStarted})
}

func card(suit ir.Suit, rank ir.Rank) ir.CardData {
	return ir.CardData{Suit: suit, Rank: rank, Show: true}
}
