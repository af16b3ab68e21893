package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/patience/internal/engine"
	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/logging"
	"github.com/roach88/patience/internal/script"
	"github.com/roach88/patience/internal/store"
	"github.com/roach88/patience/internal/table"
	"github.com/roach88/patience/internal/testutil"
)

// Default table area of a scenario.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// startTime is the wall clock of the first gesture. Each gesture advances
// it by a second, well past the double click interval.
var startTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// Harness plays one scenario. The session drives a real table and a real
// script engine; only the clocks, IDs and seeds are fixed.
type Harness struct {
	store    *store.Store
	session  *engine.Session
	table    *table.Table
	recorder *store.Recorder
	clock    *testutil.DeterministicClock
	now      time.Time
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database. Errors are
// returned for scenarios that can not be set up; failed expectations are
// reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	logger := logging.Discard()
	result := NewResult()

	gameID := scenario.GameID
	if gameID == "" {
		gameID = DefaultGameID
	}
	seed := scenario.Seed
	clock := testutil.NewDeterministicClock()
	session := engine.New(script.New(script.WithLogger(logger)),
		engine.WithClock(clock),
		engine.WithIDGenerator(engine.NewFixedGenerator(gameID)),
		engine.WithSeedSource(func() uint64 { return seed }),
		engine.WithLogger(logger),
	)
	defer session.Close()

	h := &Harness{
		store:   st,
		session: session,
		table:   table.New(session, table.WithLogger(logger)),
		clock:   clock,
		now:     startTime,
		logger:  logger,
	}
	h.recorder = store.NewRecorder(ctx, st, session, store.WithNow(func() time.Time { return startTime }))

	session.AddListener(result)
	session.AddListener(engine.ListenerFunc(h.table.Apply))
	session.AddListener(h.recorder)

	width, height := scenario.Width, scenario.Height
	if width == 0 || height == 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	h.table.SetSize(width, height)

	if err := session.LoadGame(scenario.Game); err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	for i, step := range scenario.Flow {
		h.executeStep(i, step, result)
	}
	h.recorder.Flush()

	result.Final = h.finalState()
	if result.TraceHash, err = ir.TraceHash(result.Trace); err != nil {
		return nil, err
	}
	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// executeStep runs one gesture and checks its expect clause.
func (h *Harness) executeStep(i int, step FlowStep, result *Result) {
	moves := h.session.Moves()
	err := h.perform(step)

	h.logger.Info("flow step completed",
		"step", i,
		"action", step.Action,
		"moves", h.session.Moves(),
		"error", err,
	)

	expect := step.Expect
	if expect == nil {
		expect = &ExpectClause{}
	}
	switch {
	case err != nil && !expect.Error:
		result.AddError(fmt.Sprintf("flow[%d] %s: %v", i, step.Action, err))
		return
	case err == nil && expect.Error:
		result.AddError(fmt.Sprintf("flow[%d] %s: expected an error", i, step.Action))
		return
	}

	if expect.Moved != nil {
		moved := h.session.Moves() > moves
		if moved != *expect.Moved {
			result.AddError(fmt.Sprintf("flow[%d] %s: moved = %t, expected %t", i, step.Action, moved, *expect.Moved))
		}
	}
	if expect.State != "" {
		if got := h.session.State().String(); got != expect.State {
			result.AddError(fmt.Sprintf("flow[%d] %s: state = %s, expected %s", i, step.Action, got, expect.State))
		}
	}
	if expect.Score != nil && h.session.Score() != *expect.Score {
		result.AddError(fmt.Sprintf("flow[%d] %s: score = %d, expected %d", i, step.Action, h.session.Score(), *expect.Score))
	}
}

func (h *Harness) perform(step FlowStep) error {
	h.now = h.now.Add(time.Second)

	switch step.Action {
	case ActionNewGame:
		return h.session.StartNewGame()
	case ActionRestart:
		return h.session.RestartGame()
	case ActionUndo:
		return h.session.Undo()
	case ActionRedo:
		return h.session.Redo()
	case ActionClick:
		return h.click(*step.Slot, 1)
	case ActionDoubleClick:
		return h.click(*step.Slot, 2)
	case ActionDrag:
		return h.drag(*step.From, step.Index, *step.To)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

var errPreparing = errors.New("table is not ready: no game dealt")

func (h *Harness) slot(id int) (*table.Slot, error) {
	if h.table.Preparing() {
		return nil, errPreparing
	}
	s, ok := h.table.Slot(id)
	if !ok {
		return nil, fmt.Errorf("unknown slot %d", id)
	}
	return s, nil
}

// grip is the point a gesture presses on a card: just inside its top left
// corner, which stays uncovered in fanned slots.
func grip(r table.Rect) table.Point {
	return table.Point{X: r.X + 1, Y: r.Y + 1}
}

// click presses and releases on the top card of a slot, or on the slot
// itself when it is empty. Two presses at the same instant are a double
// click.
func (h *Harness) click(id, presses int) error {
	s, err := h.slot(id)
	if err != nil {
		return err
	}
	for range presses {
		p := s.Rect().Center()
		if top := s.Top(); top != nil {
			p = grip(top.Rect())
		}
		h.table.Press(p, h.now)
		h.table.Release(p, h.now)
	}
	return nil
}

// drag picks up the card at index in slot from, with every card above it,
// and drops it so that it lands exactly on slot to.
func (h *Harness) drag(from int, index *int, to int) error {
	src, err := h.slot(from)
	if err != nil {
		return err
	}
	dst, err := h.slot(to)
	if err != nil {
		return err
	}
	cards := src.Cards()
	if len(cards) == 0 {
		return fmt.Errorf("slot %d is empty", from)
	}
	i := len(cards) - 1
	if index != nil {
		i = *index
	}
	if i < 0 || i >= len(cards) {
		return fmt.Errorf("slot %d has no card at index %d", from, i)
	}

	card := cards[i].Rect()
	p := grip(card)
	target := p.Add(table.Point{X: dst.Rect().X - card.X, Y: dst.Rect().Y - card.Y})

	h.table.Press(p, h.now)
	h.table.Move(target)
	h.table.Release(target, h.now)
	return nil
}

func (h *Harness) finalState() FinalState {
	f := FinalState{
		State:   h.session.State(),
		GameID:  h.session.GameID(),
		Seed:    h.session.Seed(),
		Score:   h.session.Score(),
		Moves:   h.session.Moves(),
		Message: h.session.Message(),
		CanUndo: h.session.CanUndo(),
		CanRedo: h.session.CanRedo(),
		CanDeal: h.session.CanDeal(),
		Slots:   make(map[int][]ir.CardData),
	}
	for _, spec := range h.session.Slots() {
		f.Slots[spec.ID], _ = h.session.Cards(spec.ID)
	}
	return f
}
