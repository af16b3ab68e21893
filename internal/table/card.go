package table

import (
	"fmt"
	"math"
	"time"

	"github.com/roach88/patience/internal/ir"
)

// Card is the on-table representation of one playing card. It belongs to
// exactly one slot; the slot pointer is a lookup association only.
type Card struct {
	data  ir.CardData
	table *Table
	slot  *Slot
	home  Rect
	rect  Rect
	drag  *Drag

	lastPress time.Time
}

func newCard(data ir.CardData, t *Table, s *Slot) *Card {
	return &Card{data: data, table: t, slot: s}
}

func (c *Card) Data() ir.CardData { return c.data }
func (c *Card) Suit() ir.Suit     { return c.data.Suit }
func (c *Card) Rank() ir.Rank     { return c.data.Rank }
func (c *Card) Show() bool        { return c.data.Show }
func (c *Card) IsBlack() bool     { return c.data.IsBlack() }
func (c *Card) Slot() *Slot       { return c.slot }
func (c *Card) Rect() Rect        { return c.rect }
func (c *Card) Home() Rect        { return c.home }
func (c *Card) Dragged() bool     { return c.drag != nil }

func (c *Card) String() string {
	return fmt.Sprintf("Card(rank=%d, suit=%s, show=%t)", c.data.Rank, c.data.Suit, c.data.Show)
}

// Press starts a drag for this card. A drag that is still active is
// cancelled first.
func (c *Card) Press(p Point, now time.Time) {
	c.table.mouse.Debug("card press", "card", c.String(), "x", p.X, "y", p.Y)

	if c.drag != nil {
		c.drag.Cancel()
	}
	newDrag(c.table, c.slot, c, p, now, c.sinceLastPress(now))
}

// Move forwards pointer movement to the active drag.
func (c *Card) Move(p Point) {
	c.table.mouse.Debug("card move", "card", c.String(), "x", p.X, "y", p.Y)

	if c.drag == nil {
		c.table.log.Error("can not handle mouse move: there is no drag ongoing", "card", c.String())
		return
	}
	c.drag.Update(p)
}

// Release finishes the active drag.
func (c *Card) Release(p Point, now time.Time) {
	c.table.mouse.Debug("card release", "card", c.String(), "x", p.X, "y", p.Y)

	if c.drag == nil {
		c.table.log.Error("can not handle mouse release: there is no drag ongoing", "card", c.String())
		return
	}
	c.drag.Finish(p, now)
}

// sinceLastPress returns the time since the previous press on this card,
// or the maximum duration for the first press.
func (c *Card) sinceLastPress(now time.Time) time.Duration {
	defer func() { c.lastPress = now }()
	if c.lastPress.IsZero() {
		return time.Duration(math.MaxInt64)
	}
	return now.Sub(c.lastPress)
}

// moveBy displaces the card from its home position.
func (c *Card) moveBy(d Point) {
	c.rect = c.home.Translate(d)
}

// restore puts the card back at its home position.
func (c *Card) restore() {
	c.rect = c.home
}
