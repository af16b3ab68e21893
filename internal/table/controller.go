package table

import "github.com/roach88/patience/internal/ir"

// Controller receives the requests a table produces from pointer input.
// Implementations forward them to the rule engine; any resulting changes
// come back to the table as notifications through Apply, possibly before
// the request returns.
type Controller interface {
	// CanDrag reports whether cards, the top of slot from, may be picked
	// up.
	CanDrag(from int, cards []ir.CardData) bool
	// Move asks to move cards from slot from to the first slot in
	// candidates that accepts them. It reports whether any did.
	Move(from int, cards []ir.CardData, candidates []int) bool
	// Click reports a click on a slot.
	Click(slot int)
	// DoubleClick reports a double click on a slot.
	DoubleClick(slot int)
}

// NopController refuses every drag and move and ignores clicks.
type NopController struct{}

func (NopController) CanDrag(int, []ir.CardData) bool     { return false }
func (NopController) Move(int, []ir.CardData, []int) bool { return false }
func (NopController) Click(int) {}
func (NopController) DoubleClick(int) {}
