package script

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/Shopify/go-lua"

	"github.com/roach88/patience/internal/engine"
	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/logging"
)

// seedStream selects the PCG stream; with it the shuffle depends on the
// game seed alone.
const seedStream = 0x9e3779b97f4a7c15

// Engine is an engine.RuleEngine that runs a Lua game script.
//
// The script describes the table in new_game and answers the rule hooks.
// The engine keeps the authoritative slot contents, score and message,
// and the undo history. Hooks run against that state directly; the state
// is snapshotted before every request and restored when the hook fails
// or the request is rejected, so the host only ever sees completed
// changes.
type Engine struct {
	file  string
	state *lua.State
	host  engine.Host
	log   *slog.Logger
	rng   *rand.Rand

	slots      map[int]*slot
	order      []int
	boardW     float64
	boardH     float64
	score      int
	message    string
	expansions []expansion
	dealing    bool

	undo []snapshot
	redo []snapshot
}

type slot struct {
	spec  ir.SlotSpec
	cards []ir.CardData
}

type expansion struct {
	slot  int
	axis  ir.Axis
	delta float64
}

// snapshot is a copy of everything a hook may change.
type snapshot struct {
	cards      map[int][]ir.CardData
	boardW     float64
	boardH     float64
	score      int
	message    string
	expansions []expansion
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Script print output goes here too.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l.With("category", logging.CategoryPatience)
	}
}

// New creates an engine with no script loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:   logging.Patience(),
		slots: make(map[int]*slot),
		rng:   rand.New(rand.NewPCG(0, seedStream)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ engine.RuleEngine = (*Engine)(nil)

// Load runs the top level of the script at file and checks that it
// defines new_game. On failure the previously loaded script stays active.
func (e *Engine) Load(file string, host engine.Host) error {
	state := lua.NewState()
	lua.OpenLibraries(state)
	e.register(state)

	if err := lua.LoadFile(state, file, ""); err != nil {
		return &ScriptError{File: file, Err: err}
	}
	if err := state.ProtectedCall(0, 0, 0); err != nil {
		return &ScriptError{File: file, Err: err}
	}
	state.Global("new_game")
	defined := state.TypeOf(-1) == lua.TypeFunction
	state.Pop(1)
	if !defined {
		return &ScriptError{File: file, Hook: "new_game", Err: errors.New("function not defined")}
	}

	e.file = file
	e.state = state
	e.host = host
	e.reset()
	e.log.Debug("script loaded", "file", file)
	return nil
}

// NewGame implements engine.RuleEngine. The script's new_game hook builds
// the slots; they are reported once the hook has finished.
func (e *Engine) NewGame(seed uint64) error {
	if e.state == nil {
		return ErrNotLoaded
	}
	e.reset()
	e.rng = rand.New(rand.NewPCG(seed, seedStream))

	e.dealing = true
	_, err := e.call("new_game", 0, nil)
	e.dealing = false
	if err != nil {
		e.reset()
		return err
	}
	if len(e.order) == 0 {
		e.reset()
		return &ScriptError{File: e.file, Hook: "new_game", Err: errors.New("no slots added")}
	}

	if e.boardW == 0 || e.boardH == 0 {
		e.boardW, e.boardH = e.extent()
	}
	e.host.SetBoardSize(e.boardW, e.boardH)
	for _, id := range e.order {
		s := e.slots[id]
		e.host.NewSlot(s.spec, slices.Clone(s.cards))
	}
	e.report()
	return nil
}

// extent is the smallest board that holds every slot.
func (e *Engine) extent() (width, height float64) {
	for _, id := range e.order {
		spec := e.slots[id].spec
		width = max(width, spec.X+1)
		height = max(height, spec.Y+1)
	}
	return width, height
}

// CanDrag implements engine.RuleEngine. Without a can_drag hook any run
// of face-up cards may be dragged.
func (e *Engine) CanDrag(from int, cards []ir.CardData) (bool, error) {
	s, err := e.slot(from)
	if err != nil {
		return false, err
	}
	if !isTop(s.cards, cards) {
		return false, nil
	}
	ok, defined, err := e.query("can_drag", pushArgs(from, cards))
	if err != nil {
		return false, err
	}
	if !defined {
		ok = allShown(cards)
	}
	return ok, nil
}

// Move implements engine.RuleEngine.
func (e *Engine) Move(from int, cards []ir.CardData, to int) (bool, error) {
	return e.request(func() (bool, error) {
		return e.move(from, cards, to)
	})
}

// move asks can_drop and performs the move, then lets after_move react
// to it. It runs inside a request.
func (e *Engine) move(from int, cards []ir.CardData, to int) (bool, error) {
	src, err := e.slot(from)
	if err != nil {
		return false, err
	}
	dst, err := e.slot(to)
	if err != nil {
		return false, err
	}
	if from == to {
		return false, nil
	}
	if !isTop(src.cards, cards) {
		return false, fmt.Errorf("cards are not the top of slot %d", from)
	}

	ok, _, err := e.callBool("can_drop", pushArgs(from, cards, to))
	if err != nil || !ok {
		return false, err
	}

	src.cards = src.cards[:len(src.cards)-len(cards)]
	dst.cards = append(dst.cards, cards...)
	if _, err := e.call("after_move", 0, pushArgs(from, to, cards)); err != nil {
		return false, err
	}
	return true, nil
}

// Click implements engine.RuleEngine.
func (e *Engine) Click(slot int) (bool, error) {
	if _, err := e.slot(slot); err != nil {
		return false, err
	}
	return e.request(func() (bool, error) {
		changed, _, err := e.callBool("clicked", pushArgs(slot))
		return changed, err
	})
}

// DoubleClick implements engine.RuleEngine. Without a double_clicked hook
// the top card of the slot is sent to the first foundation that takes it.
func (e *Engine) DoubleClick(slot int) (bool, error) {
	s, err := e.slot(slot)
	if err != nil {
		return false, err
	}
	return e.request(func() (bool, error) {
		changed, defined, err := e.callBool("double_clicked", pushArgs(slot))
		if defined || err != nil {
			return changed, err
		}
		if len(s.cards) == 0 {
			return false, nil
		}
		top := s.cards[len(s.cards)-1:]
		for _, id := range e.order {
			if id == slot || e.slots[id].spec.Type != ir.FoundationSlot {
				continue
			}
			moved, err := e.move(slot, slices.Clone(top), id)
			if err != nil || moved {
				return moved, err
			}
		}
		return false, nil
	})
}

// MovesLeft implements engine.RuleEngine. Without a moves_left hook the
// game goes on while any card lies outside the foundations.
func (e *Engine) MovesLeft() (bool, error) {
	if e.state == nil {
		return false, ErrNotLoaded
	}
	left, defined, err := e.query("moves_left", nil)
	if err != nil {
		return true, err
	}
	if defined {
		return left, nil
	}
	for _, id := range e.order {
		s := e.slots[id]
		if s.spec.Type != ir.FoundationSlot && len(s.cards) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Won implements engine.RuleEngine.
func (e *Engine) Won() (won, defined bool, err error) {
	if e.state == nil {
		return false, false, ErrNotLoaded
	}
	return e.query("won", nil)
}

// Undo implements engine.RuleEngine.
func (e *Engine) Undo() error {
	return e.step(&e.undo, &e.redo)
}

// Redo implements engine.RuleEngine.
func (e *Engine) Redo() error {
	return e.step(&e.redo, &e.undo)
}

func (e *Engine) step(from, to *[]snapshot) error {
	if e.state == nil {
		return ErrNotLoaded
	}
	if len(*from) == 0 {
		return ErrNoHistory
	}
	last := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, e.snapshot())
	e.restore(last)
	e.flush()
	return nil
}

// Close implements engine.RuleEngine.
func (e *Engine) Close() error {
	e.state = nil
	e.host = nil
	return nil
}

// Score and Message expose the script-side values, mainly for tests.
func (e *Engine) Score() int      { return e.score }
func (e *Engine) Message() string { return e.message }

// Cards returns the contents of a slot as the script sees them.
func (e *Engine) Cards(id int) []ir.CardData {
	if s, ok := e.slots[id]; ok {
		return slices.Clone(s.cards)
	}
	return nil
}

// request runs fn as one atomic, undoable change. When fn fails or
// reports no change the state is rolled back and nothing is reported.
func (e *Engine) request(fn func() (bool, error)) (bool, error) {
	if e.state == nil {
		return false, ErrNotLoaded
	}
	before := e.snapshot()
	changed, err := fn()
	if err != nil || !changed {
		e.restore(before)
		return false, err
	}
	e.undo = append(e.undo, before)
	e.redo = nil
	e.flush()
	return true, nil
}

// query calls a boolean hook and discards whatever it changed.
func (e *Engine) query(hook string, push func(*lua.State) int) (v, defined bool, err error) {
	before := e.snapshot()
	defer e.restore(before)
	return e.callBool(hook, push)
}

// call invokes a global hook with the arguments push leaves on the stack.
// A missing hook reports defined false. The hook's results are left on
// the stack for the caller.
func (e *Engine) call(hook string, results int, push func(*lua.State) int) (defined bool, err error) {
	l := e.state
	top := l.Top()
	l.Global(hook)
	if l.TypeOf(-1) != lua.TypeFunction {
		l.SetTop(top)
		return false, nil
	}
	args := 0
	if push != nil {
		args = push(l)
	}
	if err := l.ProtectedCall(args, results, 0); err != nil {
		l.SetTop(top)
		e.log.Debug("hook failed", "file", e.file, "hook", hook, "error", err)
		return true, &ScriptError{File: e.file, Hook: hook, Err: err}
	}
	return true, nil
}

func (e *Engine) callBool(hook string, push func(*lua.State) int) (v, defined bool, err error) {
	top := e.state.Top()
	defined, err = e.call(hook, 1, push)
	if err != nil || !defined {
		return false, defined, err
	}
	v = e.state.ToBoolean(-1)
	e.state.SetTop(top)
	return v, true, nil
}

// flush reports the current state to the host. The host drops whatever
// did not change.
func (e *Engine) flush() {
	e.host.SetBoardSize(e.boardW, e.boardH)
	for _, id := range e.order {
		e.host.SetCards(id, slices.Clone(e.slots[id].cards))
	}
	e.report()
}

func (e *Engine) report() {
	for _, x := range e.expansions {
		e.host.SetExpansion(x.slot, x.axis, x.delta)
	}
	e.expansions = nil
	e.host.SetScore(e.score)
	e.host.SetMessage(e.message)
	e.host.SetCanUndo(len(e.undo) > 0)
	e.host.SetCanRedo(len(e.redo) > 0)
	e.host.SetCanDeal(e.dealable())
}

func (e *Engine) dealable() bool {
	can, _, err := e.query("dealable", nil)
	if err != nil {
		e.log.Warn("dealable check failed", "file", e.file, "error", err)
		return false
	}
	return can
}

func (e *Engine) reset() {
	e.slots = make(map[int]*slot)
	e.order = nil
	e.boardW, e.boardH = 0, 0
	e.score = 0
	e.message = ""
	e.expansions = nil
	e.undo = nil
	e.redo = nil
}

func (e *Engine) snapshot() snapshot {
	snap := snapshot{
		cards:      make(map[int][]ir.CardData, len(e.slots)),
		boardW:     e.boardW,
		boardH:     e.boardH,
		score:      e.score,
		message:    e.message,
		expansions: slices.Clone(e.expansions),
	}
	for id, s := range e.slots {
		snap.cards[id] = slices.Clone(s.cards)
	}
	return snap
}

func (e *Engine) restore(snap snapshot) {
	for id, s := range e.slots {
		s.cards = slices.Clone(snap.cards[id])
	}
	e.boardW, e.boardH = snap.boardW, snap.boardH
	e.score = snap.score
	e.message = snap.message
	e.expansions = slices.Clone(snap.expansions)
}

func (e *Engine) slot(id int) (*slot, error) {
	if e.state == nil {
		return nil, ErrNotLoaded
	}
	s, ok := e.slots[id]
	if !ok {
		return nil, fmt.Errorf("unknown slot %d", id)
	}
	return s, nil
}

// isTop reports whether cards is a non-empty run at the top of pile.
func isTop(pile, cards []ir.CardData) bool {
	if len(cards) == 0 || len(cards) > len(pile) {
		return false
	}
	return slices.Equal(pile[len(pile)-len(cards):], cards)
}

func allShown(cards []ir.CardData) bool {
	for _, c := range cards {
		if !c.Show {
			return false
		}
	}
	return true
}

// pushArgs returns a push function for hook arguments. Ints become Lua
// integers and card runs become card tables.
func pushArgs(args ...any) func(*lua.State) int {
	return func(l *lua.State) int {
		for _, a := range args {
			switch v := a.(type) {
			case int:
				l.PushInteger(v)
			case []ir.CardData:
				pushCards(l, v)
			default:
				panic(fmt.Sprintf("script: unsupported hook argument %T", a))
			}
		}
		return len(args)
	}
}
