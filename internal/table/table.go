package table

import (
	"cmp"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/logging"
)

// Options are the interaction and spacing parameters of a table.
type Options struct {
	// Margin is the gap between neighbouring cards.
	Margin Size
	// MaximumMargin caps the gap between cards; zero disables the cap.
	MaximumMargin Size
	// MinimumSideMargin is kept free left and right of the board.
	MinimumSideMargin float64

	// DragDistance is the manhattan distance the pointer must travel
	// before a press turns into a drag.
	DragDistance float64
	// DragTime is the longest press that still counts as a click.
	DragTime time.Duration
	// DoubleClickInterval is the longest gap between two presses on the
	// same card that counts as a double click.
	DoubleClickInterval time.Duration
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Margin:              Size{W: 2, H: 2},
		DragDistance:        2,
		DragTime:            500 * time.Millisecond,
		DoubleClickInterval: 400 * time.Millisecond,
	}
}

// Option configures a Table.
type Option func(*Table)

// WithOptions replaces the table options.
func WithOptions(o Options) Option {
	return func(t *Table) {
		t.opts = o
	}
}

// WithLogger sets the logger used for table diagnostics. Pointer events
// are logged through the same handler with the mouse category.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		t.log = l.With("category", logging.CategoryPatience)
		t.mouse = l.With("category", logging.CategoryMouse)
	}
}

// WithUpdateHook sets a function called whenever the table requests a
// redraw.
func WithUpdateHook(fn func()) Option {
	return func(t *Table) {
		t.onUpdate = fn
	}
}

// pressState is a press on the table surface outside any card, waiting to
// become a click.
type pressState struct {
	active bool
	point  Point
	time   time.Time
}

// Table is the geometric model of a game board. It owns the slots and
// their cards, applies structural notifications from the session and
// turns pointer input into requests on its Controller.
//
// Table is not safe for concurrent use; all calls must come from the
// goroutine that runs the event loop.
type Table struct {
	ctrl Controller
	opts Options
	log  *slog.Logger

	mouse *slog.Logger

	slots map[int]*Slot
	order []int

	params LayoutParams
	layout Layout

	preparing   bool
	dirty       bool
	updates     int
	highlighted *Slot
	grab        *Card
	press       pressState

	onUpdate func()
}

// New creates an empty table in the preparing state. A nil controller
// accepts nothing.
func New(ctrl Controller, opts ...Option) *Table {
	if ctrl == nil {
		ctrl = NopController{}
	}
	t := &Table{
		ctrl:      ctrl,
		opts:      DefaultOptions(),
		log:       logging.Patience(),
		mouse:     logging.Mouse(),
		slots:     make(map[int]*Slot),
		preparing: true,
		dirty:     true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.params.Margin = t.opts.Margin
	t.params.MaximumMargin = t.opts.MaximumMargin
	t.params.MinimumSideMargin = t.opts.MinimumSideMargin
	return t
}

// SetController replaces the controller that receives gesture requests.
func (t *Table) SetController(ctrl Controller) {
	if ctrl == nil {
		ctrl = NopController{}
	}
	t.ctrl = ctrl
}

// Options returns the current options.
func (t *Table) Options() Options { return t.opts }

// Layout returns the derived geometry of the last layout pass.
func (t *Table) Layout() Layout { return t.layout }

// Params returns the inputs of the last layout pass.
func (t *Table) Params() LayoutParams { return t.params }

// Preparing reports whether the table is being rebuilt for a new game.
func (t *Table) Preparing() bool { return t.preparing }

// Dirty reports whether the table changed since the last ClearDirty.
func (t *Table) Dirty() bool { return t.dirty }

// ClearDirty marks the current state as drawn.
func (t *Table) ClearDirty() { t.dirty = false }

// Updates is the number of redraws requested so far.
func (t *Table) Updates() int { return t.updates }

// Highlighted returns the slot currently marked as drop target, or nil.
func (t *Table) Highlighted() *Slot { return t.highlighted }

// Grabbed returns the card under an active drag, or nil.
func (t *Table) Grabbed() *Card { return t.grab }

// Slot returns the slot with the given ID.
func (t *Table) Slot(id int) (*Slot, bool) {
	s, ok := t.slots[id]
	return s, ok
}

// Slots returns every slot in ascending ID order.
func (t *Table) Slots() []*Slot {
	out := make([]*Slot, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.slots[id])
	}
	return out
}

// SetSize sets the drawable area in pixels.
func (t *Table) SetSize(w, h float64) {
	size := Size{W: w, H: h}
	if size == t.params.Area {
		return
	}
	t.params.Area = size
	t.updateCardSize()
}

// SetMargin sets the gap between neighbouring cards.
func (t *Table) SetMargin(m Size) {
	if m == t.params.Margin {
		return
	}
	t.opts.Margin = m
	t.params.Margin = m
	t.updateCardSize()
}

// SetMaximumMargin sets the cap on the gap between cards.
func (t *Table) SetMaximumMargin(m Size) {
	if m == t.params.MaximumMargin {
		return
	}
	t.opts.MaximumMargin = m
	t.params.MaximumMargin = m
	t.updateCardSize()
}

// SetMinimumSideMargin sets the space kept free left and right of the
// board.
func (t *Table) SetMinimumSideMargin(m float64) {
	if m == t.params.MinimumSideMargin {
		return
	}
	t.opts.MinimumSideMargin = m
	t.params.MinimumSideMargin = m
	t.updateCardSize()
}

// updateCardSize recomputes the card geometry and repositions every slot.
// Nothing happens until the board size is known.
func (t *Table) updateCardSize() {
	if !t.params.Board.Valid() {
		return
	}

	t.log.Debug("drawing to area",
		"width", t.params.Area.W,
		"height", t.params.Area.H,
		"columns", t.params.Board.W,
		"rows", t.params.Board.H)

	l, ok := ComputeLayout(t.params)
	if !ok {
		t.log.Warn("table area too small for board",
			"width", t.params.Area.W,
			"height", t.params.Area.H,
			"columns", t.params.Board.W,
			"rows", t.params.Board.H)
	}
	t.layout = l

	if ok && l.SideMargin < t.params.MinimumSideMargin {
		t.log.Warn("miscalculated side margin",
			"side_margin", l.SideMargin,
			"minimum", t.params.MinimumSideMargin)
	}

	t.log.Debug("set card dimensions",
		"card_width", l.CardSize.W,
		"card_height", l.CardSize.H,
		"side_margin", l.SideMargin)

	for _, s := range t.Slots() {
		s.updateDimensions()
	}
	t.dirty = true
	t.updateIfNotPreparing()
}

// Apply mutates the table according to one structural notification.
// Session property notifications are ignored.
func (t *Table) Apply(n ir.Notification) {
	switch n.Kind {
	case ir.KindNewSlot:
		t.handleNewSlot(n.Spec, n.Cards)
	case ir.KindInsertCard:
		t.handleInsertCard(n.Slot, n.Index, n.Card)
	case ir.KindAppendCard:
		t.handleAppendCard(n.Slot, n.Card)
	case ir.KindRemoveCard:
		t.handleRemoveCard(n.Slot, n.Index)
	case ir.KindClearSlot:
		t.handleClearSlot(n.Slot)
	case ir.KindClearData:
		t.handleClearData()
	case ir.KindSetExpansion:
		t.handleSetExpansion(n.Slot, n.Axis, n.Value)
	case ir.KindGameStarted:
		t.handleGameStarted()
	case ir.KindWidthChanged:
		t.handleWidthChanged(n.Value)
	case ir.KindHeightChanged:
		t.handleHeightChanged(n.Value)
	}
}

func (t *Table) lookup(op string, id int) *Slot {
	s, ok := t.slots[id]
	if !ok {
		t.log.Warn("notification for unknown slot", "op", op, "slot", id)
		return nil
	}
	return s
}

func (t *Table) handleNewSlot(spec ir.SlotSpec, cards []ir.CardData) {
	if _, ok := t.slots[spec.ID]; ok {
		t.log.Warn("replacing existing slot", "slot", spec.ID)
		t.dropSlot(spec.ID)
	}
	s := newSlot(t, spec, cards)
	t.slots[spec.ID] = s
	i, _ := slices.BinarySearch(t.order, spec.ID)
	t.order = slices.Insert(t.order, i, spec.ID)

	t.log.Debug("added slot", "slot", spec.ID, "type", spec.Type, "x", spec.X, "y", spec.Y, "cards", len(cards))
	t.dirty = true
	t.updateIfNotPreparing()
}

func (t *Table) dropSlot(id int) {
	s := t.slots[id]
	t.cancelDrags(s.cards)
	if t.highlighted == s {
		t.highlighted = nil
	}
	delete(t.slots, id)
	if i, ok := slices.BinarySearch(t.order, id); ok {
		t.order = slices.Delete(t.order, i, i+1)
	}
}

func (t *Table) handleInsertCard(id, index int, data ir.CardData) {
	s := t.lookup("insert_card", id)
	if s == nil {
		return
	}
	if index < 0 || index > s.Len() {
		t.log.Warn("insert index out of range", "slot", id, "index", index, "cards", s.Len())
		return
	}
	s.insertCard(index, data)
	t.updateIfNotPreparing()
}

func (t *Table) handleAppendCard(id int, data ir.CardData) {
	s := t.lookup("append_card", id)
	if s == nil {
		return
	}
	s.appendCard(data)
	t.updateIfNotPreparing()
}

func (t *Table) handleRemoveCard(id, index int) {
	s := t.lookup("remove_card", id)
	if s == nil {
		return
	}
	if index < 0 || index >= s.Len() {
		t.log.Warn("remove index out of range", "slot", id, "index", index, "cards", s.Len())
		return
	}
	t.cancelDrags(s.cards[index : index+1])
	s.removeCard(index)
	if s.Empty() {
		t.dirty = true
	}
	t.updateIfNotPreparing()
}

func (t *Table) handleClearSlot(id int) {
	s := t.lookup("clear_slot", id)
	if s == nil {
		return
	}
	t.cancelDrags(s.cards)
	s.clear()
	t.dirty = true
	t.updateIfNotPreparing()
}

// handleClearData drops every slot and enters the preparing state. The
// board size is forgotten until the engine sends it again.
func (t *Table) handleClearData() {
	t.preparing = true
	for _, id := range slices.Clone(t.order) {
		t.dropSlot(id)
	}
	t.highlighted = nil
	t.press = pressState{}
	t.params.Board = Size{}
	t.layout = Layout{}
	t.dirty = true
}

func (t *Table) handleSetExpansion(id int, axis ir.Axis, delta float64) {
	s := t.lookup("set_expansion", id)
	if s == nil {
		return
	}
	switch axis {
	case ir.AxisDown:
		if s.ExpandsRight() {
			t.log.Warn("can not set delta for expansion to down when expansion to right is set", "slot", id)
			return
		}
		if !s.ExpandsDown() {
			t.log.Warn("can not set delta when expansion is not set", "slot", id, "axis", axis)
			return
		}
	case ir.AxisRight:
		if s.ExpandsDown() {
			t.log.Warn("can not set delta for expansion to right when expansion to down is set", "slot", id)
			return
		}
		if !s.ExpandsRight() {
			t.log.Warn("can not set delta when expansion is not set", "slot", id, "axis", axis)
			return
		}
	default:
		t.log.Warn("can not set delta without an axis", "slot", id)
		return
	}
	s.setDelta(delta)
	t.updateIfNotPreparing()
}

func (t *Table) handleGameStarted() {
	t.preparing = false
	t.dirty = true
	t.log.Debug("game started", "slots", len(t.order))
	t.requestUpdate()
}

func (t *Table) handleWidthChanged(w float64) {
	if w == t.params.Board.W {
		return
	}
	t.params.Board.W = w
	t.updateCardSize()
}

func (t *Table) handleHeightChanged(h float64) {
	if h == t.params.Board.H {
		return
	}
	t.params.Board.H = h
	t.updateCardSize()
}

// cancelDrags abandons any drag that involves one of cards. A drag that is
// already finishing is left alone: its move is what removed the cards.
func (t *Table) cancelDrags(cards []*Card) {
	for _, c := range cards {
		if c.drag != nil && !c.drag.finished {
			c.drag.Cancel()
		}
	}
}

func (t *Table) updateIfNotPreparing() {
	if !t.preparing {
		t.requestUpdate()
	}
}

func (t *Table) requestUpdate() {
	t.dirty = true
	t.updates++
	if t.onUpdate != nil {
		t.onUpdate()
	}
}

// SlotsFor returns the slots a card dropped at its current position may
// land on, best first. Slots are ranked by how much of the card they
// overlap, ties by ascending slot ID. Candidates that overlap less than the
// source slot are dropped, and the source is appended when it is not
// overlapped at all, so a rejected move always has its origin to fall
// back to.
func (t *Table) SlotsFor(card *Card, source *Slot) []*Slot {
	type candidate struct {
		slot *Slot
		area float64
	}

	rect := card.Rect()
	var candidates []candidate
	for _, s := range t.Slots() {
		overlap := rect.Intersect(s.BoundingBox())
		if overlap.Empty() {
			continue
		}
		candidates = append(candidates, candidate{slot: s, area: overlap.Area()})
	}
	// Slots with equal overlap all stay candidates, lowest ID first.
	slices.SortFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(b.area, a.area); c != 0 {
			return c
		}
		return cmp.Compare(a.slot.ID(), b.slot.ID())
	})

	out := make([]*Slot, 0, len(candidates)+1)
	for _, c := range candidates {
		out = append(out, c.slot)
		if c.slot == source {
			return out
		}
	}
	if source != nil {
		out = append(out, source)
	}
	return out
}

// Highlight marks s as the current drop target. A nil slot clears the
// highlight.
func (t *Table) Highlight(s *Slot) {
	if s == t.highlighted {
		return
	}
	if t.highlighted != nil {
		t.highlighted.setHighlight(false)
	}
	t.highlighted = s
	if s != nil {
		s.setHighlight(true)
	}
	t.requestUpdate()
}

// CardAt returns the topmost card containing p, or nil.
func (t *Table) CardAt(p Point) *Card {
	for i := len(t.order) - 1; i >= 0; i-- {
		s := t.slots[t.order[i]]
		for j := len(s.cards) - 1; j >= 0; j-- {
			if c := s.cards[j]; c.rect.Contains(p) {
				return c
			}
		}
	}
	return nil
}

// SlotsAt returns every slot whose area contains p, in ID order.
func (t *Table) SlotsAt(p Point) []*Slot {
	var out []*Slot
	for _, s := range t.Slots() {
		if s.Contains(p) {
			out = append(out, s)
		}
	}
	return out
}

// Press handles a pointer press at p. A press on a card starts a drag;
// a press elsewhere may become a click on an empty slot.
func (t *Table) Press(p Point, now time.Time) {
	if t.preparing {
		return
	}
	if t.grab != nil && t.grab.drag != nil {
		t.mouse.Debug("press during drag, cancelling", "card", t.grab.String())
		t.grab.drag.Cancel()
	}
	if c := t.CardAt(p); c != nil {
		c.Press(p, now)
		return
	}
	t.mouse.Debug("table press", "x", p.X, "y", p.Y)
	t.press = pressState{active: true, point: p, time: now}
}

// Move handles pointer movement with the button held.
func (t *Table) Move(p Point) {
	if t.grab != nil {
		t.grab.Move(p)
	}
}

// Release handles the pointer release that ends a press.
func (t *Table) Release(p Point, now time.Time) {
	if t.grab != nil {
		t.grab.Release(p, now)
		return
	}

	press := t.press
	t.press = pressState{}
	if !press.active {
		return
	}
	if now.Sub(press.time) >= t.opts.DragTime || p.Sub(press.point).ManhattanLength() >= t.opts.DragDistance {
		return
	}
	for _, s := range t.SlotsAt(p) {
		t.mouse.Debug("found slot on click position", "slot", s.ID())
		t.ctrl.Click(s.ID())
	}
}

// SlotView is a slot as seen by a renderer.
type SlotView struct {
	ID          int
	Type        ir.SlotType
	Rect        Rect
	Empty       bool
	Highlighted bool
}

// CardView is a card as seen by a renderer.
type CardView struct {
	Slot    int
	Index   int
	Data    ir.CardData
	Rect    Rect
	Dragged bool
}

// Scene is a snapshot of the table in paint order.
type Scene struct {
	Area      Size
	CardSize  Size
	Preparing bool
	Slots     []SlotView
	Cards     []CardView
}

// Scene returns the slots and cards in the order they should be painted:
// slots first, then cards slot by slot bottom to top, with dragged cards
// last so they stay above everything they pass over.
func (t *Table) Scene() Scene {
	sc := Scene{
		Area:      t.params.Area,
		CardSize:  t.layout.CardSize,
		Preparing: t.preparing,
	}
	var dragged []CardView
	for _, s := range t.Slots() {
		sc.Slots = append(sc.Slots, SlotView{
			ID:          s.ID(),
			Type:        s.Type(),
			Rect:        s.rect,
			Empty:       s.Empty(),
			Highlighted: s.highlight,
		})
		for i, c := range s.cards {
			v := CardView{Slot: s.ID(), Index: i, Data: c.data, Rect: c.rect}
			if c.drag != nil && c.drag.moved {
				v.Dragged = true
				dragged = append(dragged, v)
				continue
			}
			sc.Cards = append(sc.Cards, v)
		}
	}
	sc.Cards = append(sc.Cards, dragged...)
	return sc
}
