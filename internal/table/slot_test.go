package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/patience/internal/ir"
)

func TestSlotMutationsPreserveOrder(t *testing.T) {
	tb := newTestTable(t, nil, nil)
	a, two, three, four := card(ir.SuitClubs, ir.RankAce), card(ir.SuitClubs, ir.RankTwo), card(ir.SuitClubs, ir.RankThree), card(ir.SuitClubs, ir.RankFour)
	s := addSlot(tb, ir.SlotSpec{ID: 0, Type: ir.TableauSlot}, a, three)
	start(tb)

	tb.Apply(ir.Notification{Kind: ir.KindInsertCard, Slot: 0, Index: 1, Card: two})
	assert.Equal(t, []ir.CardData{a, two, three}, s.Data())

	tb.Apply(ir.Notification{Kind: ir.KindAppendCard, Slot: 0, Card: four})
	assert.Equal(t, []ir.CardData{a, two, three, four}, s.Data())

	tb.Apply(ir.Notification{Kind: ir.KindInsertCard, Slot: 0, Index: 4, Card: a})
	assert.Equal(t, []ir.CardData{a, two, three, four, a}, s.Data(), "insert at len appends")

	tb.Apply(ir.Notification{Kind: ir.KindRemoveCard, Slot: 0, Index: 0})
	assert.Equal(t, []ir.CardData{two, three, four, a}, s.Data())

	tb.Apply(ir.Notification{Kind: ir.KindRemoveCard, Slot: 0, Index: 3})
	assert.Equal(t, []ir.CardData{two, three, four}, s.Data())

	for _, c := range s.Cards() {
		assert.Same(t, s, c.Slot())
	}

	tb.Apply(ir.Notification{Kind: ir.KindClearSlot, Slot: 0})
	assert.True(t, s.Empty())
	assert.Nil(t, s.Top())
	assert.Zero(t, s.Exposed())
}

func TestRemovedCardLosesSlot(t *testing.T) {
	tb := newTestTable(t, nil, nil)
	s := addSlot(tb, ir.SlotSpec{ID: 0}, card(ir.SuitHearts, ir.RankAce))
	start(tb)

	c := s.Top()
	tb.Apply(ir.Notification{Kind: ir.KindRemoveCard, Slot: 0, Index: 0})
	assert.Nil(t, c.Slot())
	assert.Equal(t, -1, s.IndexOf(c))
}

func TestSlotExpansionFlags(t *testing.T) {
	tb := newTestTable(t, nil, nil)
	down := addSlot(tb, ir.SlotSpec{ID: 0, ExpandedDown: true})
	right := addSlot(tb, ir.SlotSpec{ID: 1, X: 1, ExpandedRight: true})
	flat := addSlot(tb, ir.SlotSpec{ID: 2, X: 2})

	assert.Equal(t, ExpandsInY, down.Expansion())
	assert.Equal(t, ExpandsInX, right.Expansion())
	assert.Equal(t, DoesNotExpand, flat.Expansion())
	assert.False(t, flat.Expansion().Has(DoesNotExpand))

	assert.Equal(t, DefaultExpansionDelta, down.Delta())
	tb.Apply(ir.Notification{Kind: ir.KindSetExpansion, Slot: 1, Axis: ir.AxisRight, Value: 0.3})
	assert.Equal(t, ExpandsInX|ExpandedAtX, right.Expansion())
	assert.True(t, right.ExpandedRight())
	assert.Equal(t, 0.3, right.Delta())
}

func TestSlotExposed(t *testing.T) {
	tb := newTestTable(t, nil, nil)
	cards := []ir.CardData{card(ir.SuitClubs, ir.RankAce), card(ir.SuitClubs, ir.RankTwo), card(ir.SuitClubs, ir.RankThree)}
	flat := addSlot(tb, ir.SlotSpec{ID: 0}, cards...)
	fanned := addSlot(tb, ir.SlotSpec{ID: 1, X: 1, ExpandedDown: true}, cards...)
	start(tb)

	assert.Equal(t, 1, flat.Exposed())
	assert.Equal(t, 3, fanned.Exposed())
	assert.True(t, fanned.Contains(fanned.Top().Rect().Center()))
	assert.Equal(t, Point{X: 5, Y: 5}, Rect{W: 10, H: 10}.Center())
}

func TestRectOperations(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 5, W: 10, H: 10}

	assert.Equal(t, Rect{X: 5, Y: 5, W: 5, H: 5}, a.Intersect(b))
	assert.Equal(t, 25.0, a.Intersect(b).Area())
	assert.True(t, a.Intersect(Rect{X: 10, Y: 0, W: 5, H: 5}).Empty(), "touching edges do not overlap")
	assert.Equal(t, Rect{X: 0, Y: 0, W: 15, H: 15}, a.Union(b))
	assert.Equal(t, a, a.Union(Rect{}))
	assert.True(t, a.Contains(Point{X: 0, Y: 0}))
	assert.False(t, a.Contains(Point{X: 10, Y: 5}))
	assert.Equal(t, 7.0, Point{X: 3, Y: -4}.ManhattanLength())
}
