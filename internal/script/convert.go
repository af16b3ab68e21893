package script

import (
	"strconv"

	"github.com/Shopify/go-lua"

	"github.com/roach88/patience/internal/ir"
)

// pushCard pushes c as a {suit=, rank=, show=} table.
func pushCard(state *lua.State, c ir.CardData) {
	state.CreateTable(0, 3)
	state.PushInteger(int(c.Suit))
	state.SetField(-2, "suit")
	state.PushInteger(int(c.Rank))
	state.SetField(-2, "rank")
	state.PushBoolean(c.Show)
	state.SetField(-2, "show")
}

// pushCards pushes cards as an array table, bottom card first.
func pushCards(state *lua.State, cards []ir.CardData) {
	state.CreateTable(len(cards), 0)
	for i, c := range cards {
		pushCard(state, c)
		state.RawSetInt(-2, i+1)
	}
}

// checkCards reads the array table at index into cards. Malformed cards
// raise a Lua argument error, so it may only be called from functions
// running inside a protected call.
func checkCards(state *lua.State, index int) []ir.CardData {
	lua.CheckType(state, index, lua.TypeTable)
	index = state.AbsIndex(index)
	n := state.RawLength(index)
	cards := make([]ir.CardData, 0, n)
	for i := 1; i <= n; i++ {
		state.RawGetInt(index, i)
		c, ok := toCard(state, -1)
		state.Pop(1)
		if !ok {
			lua.ArgumentError(state, index, "malformed card at position "+strconv.Itoa(i))
		}
		cards = append(cards, c)
	}
	return cards
}

// toCard converts the card table at index.
func toCard(state *lua.State, index int) (ir.CardData, bool) {
	if state.TypeOf(index) != lua.TypeTable {
		return ir.CardData{}, false
	}
	index = state.AbsIndex(index)

	state.Field(index, "suit")
	suit, okSuit := state.ToInteger(-1)
	state.Field(index, "rank")
	rank, okRank := state.ToInteger(-1)
	state.Field(index, "show")
	show := state.ToBoolean(-1)
	state.Pop(3)

	c := ir.CardData{Suit: ir.Suit(suit), Rank: ir.Rank(rank), Show: show}
	if !okSuit || !okRank || c.Suit < ir.SuitClubs || c.Suit > ir.SuitSpades || !c.Rank.Valid() {
		return ir.CardData{}, false
	}
	return c, true
}

// fieldInt reads t[name] from the table at index, or def when absent.
func fieldInt(state *lua.State, index int, name string, def int) int {
	state.Field(index, name)
	defer state.Pop(1)
	if state.IsNoneOrNil(-1) {
		return def
	}
	v, ok := state.ToInteger(-1)
	if !ok {
		lua.Errorf(state, "field %s: integer expected", name)
	}
	return v
}

// fieldNumber reads t[name] from the table at index, or def when absent.
func fieldNumber(state *lua.State, index int, name string, def float64) float64 {
	state.Field(index, name)
	defer state.Pop(1)
	if state.IsNoneOrNil(-1) {
		return def
	}
	v, ok := state.ToNumber(-1)
	if !ok {
		lua.Errorf(state, "field %s: number expected", name)
	}
	return v
}

// fieldString reads t[name] from the table at index, or def when absent.
func fieldString(state *lua.State, index int, name string, def string) string {
	state.Field(index, name)
	defer state.Pop(1)
	if state.IsNoneOrNil(-1) {
		return def
	}
	v, ok := state.ToString(-1)
	if !ok {
		lua.Errorf(state, "field %s: string expected", name)
	}
	return v
}
