package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patience/internal/ir"
)

// dragTable has a source slot 0 in column 0 and a target slot 1 in
// column 1. Slot 0 holds the ace of clubs under the two of hearts.
func dragTable(t *testing.T, ctrl *recordingController) (*Table, *Slot, *Slot) {
	t.Helper()
	tb := newTestTable(t, ctrl, nil)
	src := addSlot(tb, ir.SlotSpec{ID: 0, Type: ir.TableauSlot, ExpandedDown: true},
		card(ir.SuitClubs, ir.RankAce), card(ir.SuitHearts, ir.RankTwo))
	dst := addSlot(tb, ir.SlotSpec{ID: 1, Type: ir.TableauSlot, X: 1})
	start(tb)
	return tb, src, dst
}

func TestDragOntoAcceptingSlot(t *testing.T) {
	ctrl := &recordingController{canDrag: true, accept: map[int]bool{1: true}}
	tb, src, dst := dragTable(t, ctrl)
	two := src.Top()

	p := two.Rect().Center()
	tb.Press(p, t0)
	tb.Move(p.Add(Point{X: 75}))
	tb.Move(p.Add(Point{X: 150}))

	require.True(t, two.Dragged())
	assert.Same(t, dst, tb.Highlighted())
	assert.True(t, dst.Highlighted())

	tb.Release(p.Add(Point{X: 150}), t0.Add(time.Second))

	require.Len(t, ctrl.moves, 1)
	assert.Equal(t, 0, ctrl.moves[0].from)
	assert.Equal(t, []ir.CardData{card(ir.SuitHearts, ir.RankTwo)}, ctrl.moves[0].cards)
	assert.Equal(t, []int{1, 0}, ctrl.moves[0].candidates)
	assert.Equal(t, 1, ctrl.dragChecks, "drag permission is asked once")

	assert.Equal(t, []ir.CardData{card(ir.SuitClubs, ir.RankAce)}, src.Data())
	assert.Equal(t, []ir.CardData{card(ir.SuitHearts, ir.RankTwo)}, dst.Data())
	assert.Equal(t, dst.Rect(), dst.Top().Rect())
	assert.Nil(t, tb.Grabbed())
	assert.Nil(t, tb.Highlighted())
	assert.False(t, dst.Highlighted())
}

func TestDragOntoRejectingSlot(t *testing.T) {
	ctrl := &recordingController{canDrag: true}
	tb, src, dst := dragTable(t, ctrl)
	two := src.Top()
	home := two.Rect()

	p := home.Center()
	tb.Press(p, t0)
	tb.Move(p.Add(Point{X: 150}))
	assert.NotEqual(t, home, two.Rect())

	tb.Release(p.Add(Point{X: 150}), t0.Add(time.Second))

	require.Len(t, ctrl.moves, 1)
	assert.Equal(t, home, two.Rect(), "rejected cards return home")
	assert.Len(t, src.Data(), 2)
	assert.True(t, dst.Empty())
	assert.False(t, two.Dragged())
	assert.Nil(t, tb.Grabbed())
}

func TestDragCarriesCardsAbove(t *testing.T) {
	ctrl := &recordingController{canDrag: true, accept: map[int]bool{1: true}}
	tb, src, dst := dragTable(t, ctrl)
	ace := src.Cards()[0]

	// The ace is covered except for its top strip.
	p := Point{X: ace.Rect().X + 10, Y: ace.Rect().Y + 5}
	tb.Press(p, t0)
	tb.Move(p.Add(Point{X: 197.75}))

	for _, c := range src.Cards() {
		assert.True(t, c.Dragged())
	}

	tb.Release(p.Add(Point{X: 197.75}), t0.Add(time.Second))
	assert.True(t, src.Empty())
	assert.Equal(t, []ir.CardData{card(ir.SuitClubs, ir.RankAce), card(ir.SuitHearts, ir.RankTwo)}, dst.Data())
}

func TestDragRefusedByEngine(t *testing.T) {
	ctrl := &recordingController{canDrag: false, accept: map[int]bool{1: true}}
	tb, src, _ := dragTable(t, ctrl)
	two := src.Top()
	home := two.Rect()

	p := home.Center()
	tb.Press(p, t0)
	tb.Move(p.Add(Point{X: 150}))
	tb.Move(p.Add(Point{X: 160}))
	assert.Equal(t, home, two.Rect())
	assert.Equal(t, 1, ctrl.dragChecks)

	tb.Release(p.Add(Point{X: 160}), t0.Add(time.Second))
	assert.Empty(t, ctrl.moves)
	assert.Empty(t, ctrl.clicks)
	assert.Len(t, src.Data(), 2)
}

func TestCardClickAndDoubleClick(t *testing.T) {
	ctrl := &recordingController{canDrag: true}
	tb, src, _ := dragTable(t, ctrl)
	p := src.Top().Rect().Center()

	tb.Press(p, t0)
	tb.Release(p, t0.Add(100*time.Millisecond))
	assert.Equal(t, []int{0}, ctrl.clicks)
	assert.Empty(t, ctrl.doubleClicks)

	tb.Press(p, t0.Add(300*time.Millisecond))
	tb.Release(p, t0.Add(350*time.Millisecond))
	assert.Equal(t, []int{0}, ctrl.doubleClicks)

	// Long after: a plain click again.
	tb.Press(p, t0.Add(5*time.Second))
	tb.Release(p, t0.Add(5*time.Second+50*time.Millisecond))
	assert.Equal(t, []int{0, 0}, ctrl.clicks)

	// Held too long: neither.
	tb.Press(p, t0.Add(10*time.Second))
	tb.Release(p, t0.Add(11*time.Second))
	assert.Equal(t, []int{0, 0}, ctrl.clicks)
	assert.Empty(t, ctrl.moves)
}

func TestPressCancelsActiveDrag(t *testing.T) {
	ctrl := &recordingController{canDrag: true}
	tb, src, _ := dragTable(t, ctrl)
	two := src.Top()
	home := two.Rect()

	p := home.Center()
	tb.Press(p, t0)
	tb.Move(p.Add(Point{X: 150}))
	require.True(t, two.Dragged())

	// The release was lost; the next press starts over.
	tb.Press(p, t0.Add(2*time.Second))
	assert.Equal(t, home, two.Rect())
	tb.Release(p, t0.Add(2*time.Second+10*time.Millisecond))
	assert.Empty(t, ctrl.moves)
	assert.Nil(t, tb.Grabbed())
}

func TestRemovingDraggedCardCancelsDrag(t *testing.T) {
	ctrl := &recordingController{canDrag: true}
	tb, src, _ := dragTable(t, ctrl)
	ace, two := src.Cards()[0], src.Cards()[1]

	p := two.Rect().Center()
	tb.Press(p, t0)
	tb.Move(p.Add(Point{X: 150}))
	require.True(t, two.Dragged())

	tb.Apply(ir.Notification{Kind: ir.KindRemoveCard, Slot: 0, Index: 1})
	assert.False(t, two.Dragged())
	assert.Nil(t, tb.Grabbed())
	assert.Equal(t, ace.Rect(), src.Rect())

	// The release that follows has nothing to finish.
	tb.Release(p.Add(Point{X: 150}), t0.Add(time.Second))
	assert.Empty(t, ctrl.moves)
}

func TestInputIgnoredWhilePreparing(t *testing.T) {
	ctrl := &recordingController{canDrag: true}
	tb := newTestTable(t, ctrl, nil)
	s := addSlot(tb, ir.SlotSpec{ID: 0}, card(ir.SuitClubs, ir.RankAce))

	tb.Press(s.Rect().Center(), t0)
	tb.Release(s.Rect().Center(), t0.Add(10*time.Millisecond))
	assert.Empty(t, ctrl.clicks)
	assert.Nil(t, tb.Grabbed())
}
