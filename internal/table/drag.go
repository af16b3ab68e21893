package table

import (
	"time"

	"github.com/roach88/patience/internal/ir"
)

// Drag tracks one press-to-release cycle on a card. The pressed card and
// every card stacked on top of it travel together.
type Drag struct {
	table  *Table
	source *Slot
	card   *Card
	cards  []*Card

	start     Point
	startTime time.Time
	sinceLast time.Duration

	checked  bool
	mayDrag  bool
	moved    bool
	finished bool
}

func newDrag(t *Table, source *Slot, card *Card, p Point, now time.Time, sinceLast time.Duration) *Drag {
	d := &Drag{
		table:     t,
		source:    source,
		card:      card,
		start:     p,
		startTime: now,
		sinceLast: sinceLast,
	}
	if source != nil {
		if i := source.IndexOf(card); i >= 0 {
			d.cards = source.Cards()[i:]
		}
	}
	if len(d.cards) == 0 {
		d.cards = []*Card{card}
	}
	for _, c := range d.cards {
		c.drag = d
	}
	t.grab = card
	return d
}

// Cards returns the cards travelling with the drag, bottom to top.
func (d *Drag) Cards() []*Card { return d.cards }

// Moved reports whether the pointer left the click threshold and the
// engine allowed the cards to be picked up.
func (d *Drag) Moved() bool { return d.moved }

func (d *Drag) data() []ir.CardData {
	out := make([]ir.CardData, len(d.cards))
	for i, c := range d.cards {
		out[i] = c.data
	}
	return out
}

// Update moves the dragged cards with the pointer. Nothing moves until the
// pointer leaves the drag distance and the engine agrees the cards may be
// picked up.
func (d *Drag) Update(p Point) {
	if d.finished || d.source == nil {
		return
	}
	delta := p.Sub(d.start)
	if !d.moved && delta.ManhattanLength() < d.table.opts.DragDistance {
		return
	}
	if !d.checked {
		d.checked = true
		d.mayDrag = d.table.ctrl.CanDrag(d.source.ID(), d.data())
		if !d.mayDrag {
			d.table.log.Debug("engine refused drag", "slot", d.source.ID(), "cards", len(d.cards))
		}
	}
	if !d.mayDrag {
		return
	}
	d.moved = true
	for _, c := range d.cards {
		c.moveBy(delta)
	}

	var target *Slot
	if candidates := d.table.SlotsFor(d.card, d.source); len(candidates) > 0 && candidates[0] != d.source {
		target = candidates[0]
	}
	d.table.Highlight(target)
	d.table.requestUpdate()
}

// Finish ends the drag at p. An unmoved short press is a click, or a
// double click when it follows the previous press closely enough. A moved
// drag offers the ranked candidate slots to the engine and snaps the cards
// back when every candidate is refused.
func (d *Drag) Finish(p Point, now time.Time) {
	if d.finished {
		return
	}
	t := d.table
	defer d.done()
	d.finished = true

	if d.source == nil {
		return
	}

	if !d.moved {
		if now.Sub(d.startTime) >= t.opts.DragTime || p.Sub(d.start).ManhattanLength() >= t.opts.DragDistance {
			return
		}
		if d.sinceLast < t.opts.DoubleClickInterval {
			t.log.Debug("detected double click", "slot", d.source.ID())
			t.ctrl.DoubleClick(d.source.ID())
		} else {
			t.log.Debug("detected click", "slot", d.source.ID())
			t.ctrl.Click(d.source.ID())
		}
		return
	}

	candidates := t.SlotsFor(d.card, d.source)
	ids := make([]int, len(candidates))
	for i, s := range candidates {
		ids[i] = s.ID()
	}
	if !t.ctrl.Move(d.source.ID(), d.data(), ids) {
		t.log.Debug("move rejected, restoring cards", "slot", d.source.ID(), "candidates", ids)
		d.restore()
	}
}

// Cancel abandons the drag and returns the cards to their slot.
func (d *Drag) Cancel() {
	if d.finished {
		return
	}
	d.restore()
	d.done()
}

func (d *Drag) restore() {
	for _, c := range d.cards {
		c.restore()
	}
}

func (d *Drag) done() {
	d.finished = true
	t := d.table
	for _, c := range d.cards {
		if c.drag == d {
			c.drag = nil
		}
	}
	if t.grab == d.card {
		t.grab = nil
	}
	t.Highlight(nil)
	t.requestUpdate()
}
