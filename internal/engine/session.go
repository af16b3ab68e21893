package engine

import (
	"log/slog"
	"math/rand/v2"

	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/logging"
)

// Session runs one game at a time against a RuleEngine and publishes the
// resulting changes as notifications.
//
// Session implements table.Controller for the table's requests and Host
// for the rule engine's callbacks. It keeps a mirror of the slot contents
// so whole-slot updates from the engine can be turned into per-card
// notifications.
//
// Session is not safe for concurrent use. See the package documentation.
type Session struct {
	engine    RuleEngine
	clock     Sequencer
	ids       IDGenerator
	seeds     func() uint64
	log       *slog.Logger
	listeners []Listener

	state    ir.GameState
	gameFile string
	gameID   string
	seed     uint64
	moves    int

	score   int
	message string
	canUndo bool
	canRedo bool
	canDeal bool

	boardW float64
	boardH float64
	specs  map[int]ir.SlotSpec
	slots  map[int][]ir.CardData
	order  []int
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the sequencer that stamps notifications.
func WithClock(c Sequencer) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithIDGenerator sets the game ID generator.
//
// Default: UUIDv7Generator.
// Use NewFixedGenerator in tests and scenarios for stable traces.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		s.ids = g
	}
}

// WithSeedSource sets the function that picks the seed of each new game.
// RestartGame reuses the last seed and does not call it.
func WithSeedSource(fn func() uint64) Option {
	return func(s *Session) {
		s.seeds = fn
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l.With("category", logging.CategoryPatience)
	}
}

// WithListener adds a notification listener.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listeners = append(s.listeners, l)
	}
}

// New creates a session in the Uninitialized state.
func New(engine RuleEngine, opts ...Option) *Session {
	s := &Session{
		engine: engine,
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
		seeds:  rand.Uint64,
		log:    logging.Patience(),
		specs:  make(map[int]ir.SlotSpec),
		slots:  make(map[int][]ir.CardData),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddListener registers l for every notification emitted from now on.
func (s *Session) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) State() ir.GameState { return s.state }
func (s *Session) GameFile() string    { return s.gameFile }
func (s *Session) GameID() string      { return s.gameID }
func (s *Session) Seed() uint64        { return s.seed }
func (s *Session) Moves() int          { return s.moves }
func (s *Session) Score() int          { return s.score }
func (s *Session) Message() string     { return s.message }
func (s *Session) CanUndo() bool       { return s.canUndo }
func (s *Session) CanRedo() bool       { return s.canRedo }
func (s *Session) CanDeal() bool       { return s.canDeal }

// BoardSize is the board size in slot units last reported by the engine.
func (s *Session) BoardSize() (width, height float64) {
	return s.boardW, s.boardH
}

// Slots returns the slot specs of the current game in ID order.
func (s *Session) Slots() []ir.SlotSpec {
	out := make([]ir.SlotSpec, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.specs[id])
	}
	return out
}

// Cards returns the contents of a slot, bottom to top.
func (s *Session) Cards(slot int) ([]ir.CardData, bool) {
	cards, ok := s.slots[slot]
	if !ok {
		return nil, false
	}
	return append([]ir.CardData(nil), cards...), true
}

// LoadGame loads a game definition. Any state except a failed load ends
// in Loaded; the table keeps showing the previous game until a new one is
// dealt.
func (s *Session) LoadGame(file string) error {
	s.leaveGame()
	if err := s.engine.Load(file, s); err != nil {
		return s.engineError(ErrCodeLoadFailed, "load "+file, err)
	}
	s.log.Info("game loaded", "file", file)
	s.gameID = ""
	s.setGameFile(file)
	s.setState(ir.LoadedState)
	return nil
}

// StartNewGame deals a new game of the loaded definition with a fresh
// seed.
func (s *Session) StartNewGame() error {
	if s.state == ir.UninitializedState {
		return s.stateError("start new game")
	}
	return s.deal(s.seeds())
}

// RestartGame deals the current game again with the same seed. Without a
// previous deal it starts a new game.
func (s *Session) RestartGame() error {
	if s.state == ir.UninitializedState {
		return s.stateError("restart game")
	}
	if s.gameID == "" {
		return s.StartNewGame()
	}
	return s.deal(s.seed)
}

func (s *Session) deal(seed uint64) error {
	s.leaveGame()
	s.seed = seed
	s.gameID = s.ids.Generate()
	s.moves = 0
	s.boardW, s.boardH = 0, 0
	s.specs = make(map[int]ir.SlotSpec)
	s.slots = make(map[int][]ir.CardData)
	s.order = nil

	s.emit(ir.Notification{Kind: ir.KindClearData})
	s.SetScore(0)
	s.SetMessage("")
	s.setState(ir.BeginState)

	if err := s.engine.NewGame(seed); err != nil {
		s.setState(ir.LoadedState)
		return s.engineError(ErrCodeDealFailed, "deal", err)
	}

	s.emit(ir.Notification{Kind: ir.KindGameStarted})
	s.setState(ir.RunningState)
	s.log.Info("game started",
		"file", s.gameFile,
		"id", s.gameID,
		"seed", seed,
		"slots", len(s.order))

	s.checkGameOver()
	return nil
}

// Undo takes back the last move. A finished game becomes Running again.
func (s *Session) Undo() error {
	return s.history("undo", s.canUndo, s.engine.Undo)
}

// Redo replays the last undone move.
func (s *Session) Redo() error {
	return s.history("redo", s.canRedo, s.engine.Redo)
}

func (s *Session) history(op string, available bool, fn func() error) error {
	if !s.dealt() {
		return s.stateError(op)
	}
	if !available {
		s.log.Debug("nothing to "+op, "state", s.state)
		return nil
	}
	if err := fn(); err != nil {
		return s.engineError(ErrCodeHistoryFailed, op, err)
	}
	if s.state.Finished() {
		s.setState(ir.RunningState)
	}
	s.checkGameOver()
	return nil
}

// dealt reports whether a game is on the table.
func (s *Session) dealt() bool {
	return s.state == ir.RunningState || s.state.Finished()
}

// CanDrag implements table.Controller.
func (s *Session) CanDrag(from int, cards []ir.CardData) bool {
	if s.state != ir.RunningState {
		return false
	}
	ok, err := s.engine.CanDrag(from, cards)
	if err != nil {
		s.log.Warn("drag check failed", "slot", from, "error", err)
		return false
	}
	return ok
}

// Move implements table.Controller. Candidates are tried in order; the
// source slot itself is never a target.
func (s *Session) Move(from int, cards []ir.CardData, candidates []int) bool {
	if s.state != ir.RunningState {
		return false
	}
	for _, to := range candidates {
		if to == from {
			continue
		}
		ok, err := s.engine.Move(from, cards, to)
		if err != nil {
			s.log.Warn("move failed", "from", from, "to", to, "error", err)
			continue
		}
		if ok {
			s.moves++
			s.log.Debug("moved cards", "from", from, "to", to, "cards", len(cards))
			s.checkGameOver()
			return true
		}
	}
	s.log.Debug("move rejected", "from", from, "candidates", candidates)
	return false
}

// Click implements table.Controller.
func (s *Session) Click(slot int) {
	s.gesture("click", slot, s.engine.Click)
}

// DoubleClick implements table.Controller.
func (s *Session) DoubleClick(slot int) {
	s.gesture("double click", slot, s.engine.DoubleClick)
}

func (s *Session) gesture(name string, slot int, fn func(int) (bool, error)) {
	if s.state != ir.RunningState {
		return
	}
	changed, err := fn(slot)
	if err != nil {
		s.log.Warn(name+" failed", "slot", slot, "error", err)
		return
	}
	if changed {
		s.moves++
		s.checkGameOver()
	}
}

// checkGameOver ends the game when the engine reports no moves left. The
// engine's won hook decides the outcome; without one every card must sit
// on a foundation.
func (s *Session) checkGameOver() {
	left, err := s.engine.MovesLeft()
	if err != nil {
		s.log.Warn("moves left check failed", "error", err)
		return
	}
	if left {
		return
	}

	won, defined, err := s.engine.Won()
	if err != nil {
		s.log.Warn("winning check failed", "error", err)
		defined = false
	}
	if !defined {
		won = s.allOnFoundations()
	}

	if won {
		s.setState(ir.WonState)
	} else {
		s.setState(ir.GameOverState)
	}
	s.log.Info("game finished", "id", s.gameID, "state", s.state, "score", s.score, "moves", s.moves)
}

// allOnFoundations reports whether every card lies on a foundation slot
// and each foundation holds one suit in ascending rank order.
func (s *Session) allOnFoundations() bool {
	total := 0
	for _, id := range s.order {
		cards := s.slots[id]
		if len(cards) == 0 {
			continue
		}
		if s.specs[id].Type != ir.FoundationSlot {
			return false
		}
		for i, c := range cards {
			if c.Suit != cards[0].Suit {
				return false
			}
			if i > 0 && c.Rank != cards[i-1].Rank+1 {
				return false
			}
		}
		total += len(cards)
	}
	return total > 0
}

// Close releases the rule engine.
func (s *Session) Close() error {
	return s.engine.Close()
}

// leaveGame tells every GameLeaver that a dealt game is being replaced.
func (s *Session) leaveGame() {
	if s.gameID == "" || !s.dealt() {
		return
	}
	for _, l := range s.listeners {
		if gl, ok := l.(GameLeaver); ok {
			gl.LeaveGame()
		}
	}
}

func (s *Session) setState(st ir.GameState) {
	if st == s.state {
		return
	}
	s.log.Debug("state changed", "from", s.state, "to", st)
	s.state = st
	s.emit(ir.Notification{Kind: ir.KindState, Int: int(st)})
}

func (s *Session) setGameFile(file string) {
	if file == s.gameFile {
		return
	}
	s.gameFile = file
	s.emit(ir.Notification{Kind: ir.KindGameFile, Text: file})
}

func (s *Session) emit(n ir.Notification) {
	n.Seq = s.clock.Next()
	for _, l := range s.listeners {
		l.Notify(n)
	}
}
