package engine

import "github.com/roach88/patience/internal/ir"

// RuleEngine evaluates the rules of one game variant.
//
// A rule engine owns the authoritative game state: slot contents, score
// and undo history. It reports every change through the Host it was
// loaded with. Each request is atomic: when a request is rejected or
// fails, the engine must leave its state untouched and report nothing.
type RuleEngine interface {
	// Load reads a game definition and binds the engine to host.
	Load(file string, host Host) error

	// NewGame clears the history and deals a game from seed. The slots
	// are reported through Host.NewSlot.
	NewGame(seed uint64) error

	// CanDrag reports whether cards, the top of slot from, may be picked up.
	CanDrag(from int, cards []ir.CardData) (bool, error)

	// Move moves cards from slot from onto slot to if the rules allow it.
	Move(from int, cards []ir.CardData, to int) (bool, error)

	// Click and DoubleClick report whether the gesture changed the game.
	Click(slot int) (bool, error)
	DoubleClick(slot int) (bool, error)

	// MovesLeft reports whether the player has any move left.
	MovesLeft() (bool, error)

	// Won reports whether the game is won. defined is false when the game
	// definition has no opinion and the session's own check should decide.
	Won() (won, defined bool, err error)

	// Undo and Redo step through the engine's move history.
	Undo() error
	Redo() error

	// Close releases the engine. It must not be used afterwards.
	Close() error
}

// Host receives the changes a rule engine makes. Session implements it.
//
// Engines report whole slot contents with SetCards; the host works out the
// individual card insertions and removals.
type Host interface {
	SetBoardSize(width, height float64)
	NewSlot(spec ir.SlotSpec, cards []ir.CardData)
	SetCards(slot int, cards []ir.CardData)
	SetExpansion(slot int, axis ir.Axis, delta float64)
	SetScore(score int)
	SetMessage(message string)
	SetCanUndo(can bool)
	SetCanRedo(can bool)
	SetCanDeal(can bool)
}

// Listener receives the notifications a session emits.
type Listener interface {
	Notify(n ir.Notification)
}

// GameLeaver is a Listener told that the current game is about to be
// replaced by a new deal or another game. The session still reports the
// outgoing game's ID, score and moves during the call.
type GameLeaver interface {
	LeaveGame()
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(n ir.Notification)

// Notify calls f(n).
func (f ListenerFunc) Notify(n ir.Notification) {
	f(n)
}
