package script

import (
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/roach88/patience/internal/ir"
)

// constants are the globals a script uses to name slot types, suits and
// ranks.
var constants = map[string]int{
	"CHOOSER":    int(ir.ChooserSlot),
	"FOUNDATION": int(ir.FoundationSlot),
	"RESERVE":    int(ir.ReserveSlot),
	"STOCK":      int(ir.StockSlot),
	"TABLEAU":    int(ir.TableauSlot),
	"WASTE":      int(ir.WasteSlot),

	"CLUBS":    int(ir.SuitClubs),
	"DIAMONDS": int(ir.SuitDiamonds),
	"HEARTS":   int(ir.SuitHearts),
	"SPADES":   int(ir.SuitSpades),

	"ACE":   int(ir.RankAce),
	"JACK":  int(ir.RankJack),
	"QUEEN": int(ir.RankQueen),
	"KING":  int(ir.RankKing),
}

// register installs the game API into state.
func (e *Engine) register(state *lua.State) {
	for name, v := range constants {
		state.PushInteger(v)
		state.SetGlobal(name)
	}
	state.PushGlobalTable()
	lua.SetFunctions(state, []lua.RegistryFunction{
		{Name: "add_slot", Function: e.addSlot},
		{Name: "get_cards", Function: e.getCards},
		{Name: "set_cards", Function: e.setCards},
		{Name: "add_cards", Function: e.addCards},
		{Name: "take_cards", Function: e.takeCards},
		{Name: "flip_top", Function: e.flipTop},
		{Name: "slot_type", Function: e.slotType},
		{Name: "make_deck", Function: makeDeck},
		{Name: "shuffle", Function: e.shuffle},
		{Name: "random", Function: e.random},
		{Name: "set_board_size", Function: e.setBoardSize},
		{Name: "set_expansion", Function: e.setExpansion},
		{Name: "set_score", Function: e.setScore},
		{Name: "add_to_score", Function: e.addToScore},
		{Name: "get_score", Function: e.getScore},
		{Name: "set_message", Function: e.setMessage},
		{Name: "print", Function: e.print},
	}, 0)
	state.Pop(1)
}

// checkSlot returns the slot whose ID is argument index.
func (e *Engine) checkSlot(l *lua.State, index int) *slot {
	id := lua.CheckInteger(l, index)
	s, ok := e.slots[id]
	if !ok {
		lua.ArgumentError(l, index, "unknown slot")
	}
	return s
}

// add_slot{type=, x=, y=, expand="down"|"right", depth=, cards={...}}
func (e *Engine) addSlot(l *lua.State) int {
	lua.CheckType(l, 1, lua.TypeTable)
	if !e.dealing {
		lua.Errorf(l, "add_slot is only allowed in new_game")
	}

	typ := ir.SlotType(fieldInt(l, 1, "type", int(ir.UnknownSlot)))
	if typ <= ir.UnknownSlot || typ > ir.WasteSlot {
		lua.Errorf(l, "add_slot: unknown slot type %d", int(typ))
	}
	axis, err := ir.ParseAxis(fieldString(l, 1, "expand", ""))
	if err != nil {
		lua.Errorf(l, "add_slot: %s", err.Error())
	}

	spec := ir.SlotSpec{
		ID:             len(e.order),
		Type:           typ,
		X:              fieldNumber(l, 1, "x", 0),
		Y:              fieldNumber(l, 1, "y", 0),
		ExpansionDepth: fieldInt(l, 1, "depth", 0),
		ExpandedDown:   axis == ir.AxisDown,
		ExpandedRight:  axis == ir.AxisRight,
	}
	if spec.X < 0 || spec.Y < 0 {
		lua.Errorf(l, "add_slot: negative position")
	}

	var cards []ir.CardData
	l.Field(1, "cards")
	if !l.IsNoneOrNil(-1) {
		cards = checkCards(l, -1)
	}
	l.Pop(1)

	e.slots[spec.ID] = &slot{spec: spec, cards: cards}
	e.order = append(e.order, spec.ID)
	l.PushInteger(spec.ID)
	return 1
}

// get_cards(id) returns the slot contents, bottom card first.
func (e *Engine) getCards(l *lua.State) int {
	pushCards(l, e.checkSlot(l, 1).cards)
	return 1
}

// set_cards(id, cards)
func (e *Engine) setCards(l *lua.State) int {
	s := e.checkSlot(l, 1)
	s.cards = checkCards(l, 2)
	return 0
}

// add_cards(id, cards) puts cards on top of the slot.
func (e *Engine) addCards(l *lua.State) int {
	s := e.checkSlot(l, 1)
	s.cards = append(s.cards, checkCards(l, 2)...)
	return 0
}

// take_cards(id [, n]) removes the top n cards (default 1) and returns
// them, bottom card first.
func (e *Engine) takeCards(l *lua.State) int {
	s := e.checkSlot(l, 1)
	n := lua.OptInteger(l, 2, 1)
	if n < 0 || n > len(s.cards) {
		lua.ArgumentError(l, 2, "not that many cards")
	}
	taken := s.cards[len(s.cards)-n:]
	s.cards = s.cards[:len(s.cards)-n]
	pushCards(l, taken)
	return 1
}

// flip_top(id [, show]) turns the top card face up, or face down when
// show is false. It returns the card, or nil for an empty slot.
func (e *Engine) flipTop(l *lua.State) int {
	s := e.checkSlot(l, 1)
	show := true
	if !l.IsNoneOrNil(2) {
		show = l.ToBoolean(2)
	}
	if len(s.cards) == 0 {
		l.PushNil()
		return 1
	}
	top := len(s.cards) - 1
	s.cards[top] = s.cards[top].Flipped(show)
	pushCard(l, s.cards[top])
	return 1
}

// slot_type(id)
func (e *Engine) slotType(l *lua.State) int {
	l.PushInteger(int(e.checkSlot(l, 1).spec.Type))
	return 1
}

// make_deck([show]) returns the 52 cards ordered by suit, then rank.
func makeDeck(l *lua.State) int {
	show := l.ToBoolean(1)
	deck := make([]ir.CardData, 0, 52)
	for suit := ir.SuitClubs; suit <= ir.SuitSpades; suit++ {
		for rank := ir.RankAce; rank <= ir.RankKing; rank++ {
			deck = append(deck, ir.CardData{Suit: suit, Rank: rank, Show: show})
		}
	}
	pushCards(l, deck)
	return 1
}

// shuffle(cards) returns a shuffled copy drawn from the game seed.
func (e *Engine) shuffle(l *lua.State) int {
	cards := checkCards(l, 1)
	e.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	pushCards(l, cards)
	return 1
}

// random(n) returns an integer in [1, n] drawn from the game seed.
func (e *Engine) random(l *lua.State) int {
	n := lua.CheckInteger(l, 1)
	if n < 1 {
		lua.ArgumentError(l, 1, "must be positive")
	}
	l.PushInteger(e.rng.IntN(n) + 1)
	return 1
}

// set_board_size(width, height) in slot units.
func (e *Engine) setBoardSize(l *lua.State) int {
	w, h := lua.CheckNumber(l, 1), lua.CheckNumber(l, 2)
	if w <= 0 || h <= 0 {
		lua.Errorf(l, "set_board_size: dimensions must be positive")
	}
	e.boardW, e.boardH = w, h
	return 0
}

// set_expansion(id, "down"|"right", delta)
func (e *Engine) setExpansion(l *lua.State) int {
	s := e.checkSlot(l, 1)
	axis, err := ir.ParseAxis(lua.CheckString(l, 2))
	if err != nil || axis == ir.AxisNone {
		lua.ArgumentError(l, 2, "down or right expected")
	}
	e.expansions = append(e.expansions, expansion{slot: s.spec.ID, axis: axis, delta: lua.CheckNumber(l, 3)})
	return 0
}

func (e *Engine) setScore(l *lua.State) int {
	e.score = lua.CheckInteger(l, 1)
	return 0
}

// add_to_score(n) returns the new score.
func (e *Engine) addToScore(l *lua.State) int {
	e.score += lua.CheckInteger(l, 1)
	l.PushInteger(e.score)
	return 1
}

func (e *Engine) getScore(l *lua.State) int {
	l.PushInteger(e.score)
	return 1
}

func (e *Engine) setMessage(l *lua.State) int {
	e.message = lua.OptString(l, 1, "")
	return 0
}

// print logs its arguments instead of writing to stdout, which belongs
// to the screen.
func (e *Engine) print(l *lua.State) int {
	parts := make([]string, 0, l.Top())
	for i := 1; i <= l.Top(); i++ {
		s, _ := lua.ToStringMeta(l, i)
		parts = append(parts, s)
		l.Pop(1)
	}
	e.log.Info("script output", "file", e.file, "text", strings.Join(parts, "\t"))
	return 0
}
