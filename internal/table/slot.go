package table

import (
	"fmt"
	"math"

	"github.com/roach88/patience/internal/ir"
)

// DefaultExpansionDelta is the fan-out step, as a fraction of the card
// size, used until the engine sets one explicitly.
const DefaultExpansionDelta = 0.2

// Expansion is the set of expansion flags of a slot.
type Expansion uint8

const (
	DoesNotExpand Expansion = 0x00
	ExpandsInX    Expansion = 0x01
	ExpandsInY    Expansion = 0x02
	ExpandedAtX   Expansion = 0x04
	ExpandedAtY   Expansion = 0x08
)

// Has reports whether all bits of f are set.
func (e Expansion) Has(f Expansion) bool {
	return e&f == f && f != 0
}

// Slot is a pile of cards at a fixed board position. The table owns its
// slots; a slot owns its cards.
type Slot struct {
	table     *Table
	spec      ir.SlotSpec
	expansion Expansion
	delta     float64
	cards     []*Card
	rect      Rect
	highlight bool
}

func newSlot(t *Table, spec ir.SlotSpec, cards []ir.CardData) *Slot {
	s := &Slot{table: t, spec: spec}
	if spec.ExpandedDown {
		s.expansion |= ExpandsInY
	}
	if spec.ExpandedRight {
		s.expansion |= ExpandsInX
	}
	for _, c := range cards {
		s.cards = append(s.cards, newCard(c, t, s))
	}
	s.updateDimensions()
	return s
}

func (s *Slot) ID() int              { return s.spec.ID }
func (s *Slot) Type() ir.SlotType    { return s.spec.Type }
func (s *Slot) Spec() ir.SlotSpec    { return s.spec }
func (s *Slot) Expansion() Expansion { return s.expansion }
func (s *Slot) Highlighted() bool    { return s.highlight }
func (s *Slot) Rect() Rect           { return s.rect }
func (s *Slot) Len() int             { return len(s.cards) }
func (s *Slot) Empty() bool          { return len(s.cards) == 0 }
func (s *Slot) ExpandsRight() bool   { return s.expansion.Has(ExpandsInX) }
func (s *Slot) ExpandsDown() bool    { return s.expansion.Has(ExpandsInY) }
func (s *Slot) ExpandedRight() bool  { return s.expansion.Has(ExpandedAtX) }
func (s *Slot) ExpandedDown() bool   { return s.expansion.Has(ExpandedAtY) }
func (s *Slot) String() string       { return fmt.Sprintf("Slot(id=%d, type=%s, cards=%d)", s.spec.ID, s.spec.Type, len(s.cards)) }
func (s *Slot) expands() bool        { return s.ExpandsDown() || s.ExpandsRight() }
func (s *Slot) setHighlight(on bool) { s.highlight = on }

// Cards returns the cards bottom to top. The slice is a copy.
func (s *Slot) Cards() []*Card {
	return append([]*Card(nil), s.cards...)
}

// Data returns the card descriptors bottom to top.
func (s *Slot) Data() []ir.CardData {
	out := make([]ir.CardData, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.data
	}
	return out
}

// Top returns the topmost card, or nil.
func (s *Slot) Top() *Card {
	if len(s.cards) == 0 {
		return nil
	}
	return s.cards[len(s.cards)-1]
}

// IndexOf returns the position of c in the slot, or -1.
func (s *Slot) IndexOf(c *Card) int {
	for i, card := range s.cards {
		if card == c {
			return i
		}
	}
	return -1
}

// Delta is the fan-out step as a fraction of the card size.
func (s *Slot) Delta() float64 {
	if s.ExpandedDown() || s.ExpandedRight() {
		return s.delta
	}
	return DefaultExpansionDelta
}

// setDelta stores an explicit fan-out step for the configured axis.
func (s *Slot) setDelta(delta float64) {
	s.delta = delta
	if s.ExpandsDown() {
		s.expansion |= ExpandedAtY
	}
	if s.ExpandsRight() {
		s.expansion |= ExpandedAtX
	}
	s.layoutCards()
}

// spreadStart is the index of the first card that is fanned out. Cards
// below it are stacked on the slot origin.
func (s *Slot) spreadStart() int {
	if !s.expands() || s.spec.ExpansionDepth <= 0 {
		return 0
	}
	return max(0, len(s.cards)-s.spec.ExpansionDepth)
}

// Exposed is the number of cards with a visible face area.
func (s *Slot) Exposed() int {
	if len(s.cards) == 0 {
		return 0
	}
	if !s.expands() {
		return 1
	}
	return len(s.cards) - s.spreadStart()
}

// step is the per-card offset in pixels along the expansion axis. The
// delta shrinks when the fanned cards would run past the board edge.
func (s *Slot) step() Point {
	if !s.expands() {
		return Point{}
	}
	spread := len(s.cards) - s.spreadStart() - 1
	l := s.table.layout
	if s.ExpandsDown() {
		d := l.CardSize.H * s.Delta()
		room := s.table.params.Area.H - s.table.params.Margin.H - s.rect.Bottom()
		if spread > 0 && d*float64(spread) > room {
			d = math.Max(room/float64(spread), 0)
		}
		return Point{Y: d}
	}
	d := l.CardSize.W * s.Delta()
	room := s.table.params.Area.W - s.table.layout.SideMargin - s.rect.Right()
	if spread > 0 && d*float64(spread) > room {
		d = math.Max(room/float64(spread), 0)
	}
	return Point{X: d}
}

// updateDimensions recomputes the slot rectangle from the table layout and
// repositions every card. Card size must be current before this runs.
func (s *Slot) updateDimensions() {
	l := s.table.layout
	origin := l.SlotOrigin(s.table.params, s.spec.X, s.spec.Y)
	s.rect = Rect{X: origin.X, Y: origin.Y, W: l.CardSize.W, H: l.CardSize.H}
	s.layoutCards()
}

// layoutCards moves every card that is not being dragged to its home
// position.
func (s *Slot) layoutCards() {
	st := s.step()
	start := s.spreadStart()
	for i, c := range s.cards {
		k := float64(max(0, i-start))
		c.home = Rect{X: s.rect.X + st.X*k, Y: s.rect.Y + st.Y*k, W: s.rect.W, H: s.rect.H}
		if c.drag == nil || !c.drag.moved {
			c.rect = c.home
		}
	}
}

// ChildrenRect is the area covered by the cards at their home positions.
func (s *Slot) ChildrenRect() Rect {
	var r Rect
	for _, c := range s.cards {
		r = r.Union(c.home)
	}
	return r
}

// BoundingBox is the slot rectangle united with its cards.
func (s *Slot) BoundingBox() Rect {
	return s.rect.Union(s.ChildrenRect())
}

// Contains reports whether p lies inside the slot or one of its cards.
func (s *Slot) Contains(p Point) bool {
	return s.BoundingBox().Contains(p)
}

func (s *Slot) insertCard(index int, data ir.CardData) *Card {
	c := newCard(data, s.table, s)
	s.cards = append(s.cards, nil)
	copy(s.cards[index+1:], s.cards[index:])
	s.cards[index] = c
	s.layoutCards()
	return c
}

func (s *Slot) appendCard(data ir.CardData) *Card {
	c := newCard(data, s.table, s)
	s.cards = append(s.cards, c)
	s.layoutCards()
	return c
}

func (s *Slot) removeCard(index int) *Card {
	c := s.cards[index]
	s.cards = append(s.cards[:index], s.cards[index+1:]...)
	c.slot = nil
	s.layoutCards()
	return c
}

func (s *Slot) clear() []*Card {
	removed := s.cards
	s.cards = nil
	for _, c := range removed {
		c.slot = nil
	}
	return removed
}
