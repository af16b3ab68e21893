package harness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/store"
)

var (
	aceHearts = ir.CardData{Suit: ir.SuitHearts, Rank: ir.RankAce, Show: true}
	twoHearts = ir.CardData{Suit: ir.SuitHearts, Rank: ir.RankTwo, Show: true}
)

func sampleTrace() []ir.Notification {
	return []ir.Notification{
		{Seq: 1, Kind: ir.KindState, Int: int(ir.BeginState)},
		{Seq: 2, Kind: ir.KindNewSlot, Spec: ir.SlotSpec{ID: 0, Type: ir.StockSlot}, Cards: []ir.CardData{twoHearts, aceHearts}},
		{Seq: 3, Kind: ir.KindNewSlot, Spec: ir.SlotSpec{ID: 1, Type: ir.FoundationSlot}},
		{Seq: 4, Kind: ir.KindState, Int: int(ir.RunningState)},
		{Seq: 5, Kind: ir.KindRemoveCard, Slot: 0, Index: 1},
		{Seq: 6, Kind: ir.KindAppendCard, Slot: 1, Card: aceHearts},
		{Seq: 7, Kind: ir.KindScore, Int: 10},
	}
}

func TestAssertTraceContains(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   bool
	}{
		{"kind", Assertion{Kind: "append_card"}, false},
		{"kind and slot", Assertion{Kind: "append_card", Slot: intPtr(1)}, false},
		{"new_slot by spec id", Assertion{Kind: "new_slot", Slot: intPtr(1)}, false},
		{"card", Assertion{Kind: "append_card", Card: "A♥(up)"}, false},
		{"state", Assertion{Kind: "state", State: "running"}, false},
		{"wrong slot", Assertion{Kind: "append_card", Slot: intPtr(0)}, true},
		{"wrong card", Assertion{Kind: "append_card", Card: "2♥(up)"}, true},
		{"wrong state", Assertion{Kind: "state", State: "won"}, true},
		{"state filter on other kind", Assertion{Kind: "score", State: "running"}, true},
		{"missing kind", Assertion{Kind: "clear_slot"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertTraceContains
			err := assertTraceContains(sampleTrace(), tt.assertion)
			if tt.wantErr {
				require.Error(t, err)
				var aerr *AssertionError
				require.ErrorAs(t, err, &aerr)
				assert.Equal(t, AssertTraceContains, aerr.Type)
				assert.Len(t, aerr.Trace, len(sampleTrace()))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAssertTraceOrder(t *testing.T) {
	tests := []struct {
		name    string
		kinds   []string
		wantErr string
	}{
		{"in order", []string{"new_slot", "remove_card", "append_card", "score"}, ""},
		{"first occurrence counts", []string{"state", "new_slot"}, ""},
		{"out of order", []string{"append_card", "remove_card"}, "append_card (pos 6) should be before remove_card (pos 5)"},
		{"missing", []string{"new_slot", "clear_slot"}, "missing kind: clear_slot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertTraceOrder(sampleTrace(), Assertion{Type: AssertTraceOrder, Kinds: tt.kinds})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssertTraceCount(t *testing.T) {
	assert.NoError(t, assertTraceCount(sampleTrace(), Assertion{Kind: "new_slot", Count: intPtr(2)}))
	assert.NoError(t, assertTraceCount(sampleTrace(), Assertion{Kind: "state", State: "begin", Count: intPtr(1)}))
	assert.NoError(t, assertTraceCount(sampleTrace(), Assertion{Kind: "clear_data", Count: intPtr(0)}))

	err := assertTraceCount(sampleTrace(), Assertion{Kind: "new_slot", Count: intPtr(3)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 3 occurrences of new_slot")
	assert.Contains(t, err.Error(), "Actual: 2 occurrences")
}

func TestAssertFinalState(t *testing.T) {
	final := FinalState{
		State:   ir.WonState,
		GameID:  "g1",
		Seed:    42,
		Score:   20,
		Moves:   2,
		CanUndo: true,
	}

	err := assertFinalState(final, Assertion{Expect: map[string]any{
		"state":    "won",
		"game_id":  "g1",
		"seed":     42,
		"score":    20,
		"moves":    2,
		"can_undo": true,
		"can_redo": false,
		"message":  "",
	}})
	assert.NoError(t, err)

	err = assertFinalState(final, Assertion{Expect: map[string]any{"score": 10, "moves": 3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "moves" = 3`, "keys are checked in sorted order")

	err = assertFinalState(final, Assertion{Expect: map[string]any{"points": 20}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "points" is not known`)
}

func TestAssertSlotCards(t *testing.T) {
	final := FinalState{Slots: map[int][]ir.CardData{
		0: {twoHearts, aceHearts},
		1: {},
	}}

	assert.NoError(t, assertSlotCards(final, Assertion{Slot: intPtr(0), Count: intPtr(2)}))
	assert.NoError(t, assertSlotCards(final, Assertion{Slot: intPtr(0), Cards: []string{"2♥(up)", "A♥(up)"}}))
	assert.NoError(t, assertSlotCards(final, Assertion{Slot: intPtr(1), Cards: []string{}}))

	err := assertSlotCards(final, Assertion{Slot: intPtr(0), Cards: []string{"A♥(up)", "2♥(up)"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot 0 = [2♥(up) A♥(up)]")

	err = assertSlotCards(final, Assertion{Slot: intPtr(1), Count: intPtr(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 cards")

	err = assertSlotCards(final, Assertion{Slot: intPtr(9), Count: intPtr(0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such slot")
}

func TestAssertRecorded(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	err = assertRecorded(ctx, st, Assertion{Expect: map[string]any{"id": "g1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is empty")

	require.NoError(t, st.RecordPlay(ctx, store.Play{
		ID:        "g1",
		Game:      "ladder.lua",
		Seed:      5,
		StartedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		State:     ir.WonState,
		Score:     20,
		Moves:     2,
	}, 0))

	err = assertRecorded(ctx, st, Assertion{Expect: map[string]any{
		"id":    "g1",
		"game":  "ladder.lua",
		"seed":  5,
		"state": "won",
		"score": 20,
		"moves": 2,
	}})
	assert.NoError(t, err)

	err = assertRecorded(ctx, st, Assertion{Expect: map[string]any{"state": "running"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `field "state" = running`)
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		expected any
		actual   any
		want     bool
	}{
		{1, 1, true},
		{1, int64(1), true},
		{42, uint64(42), true},
		{2, 3, false},
		{1, "1", false},
		{"won", "won", true},
		{true, true, true},
		{true, false, false},
		{"", "", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, valuesEqual(tt.expected, tt.actual), "%v (%T) vs %v (%T)", tt.expected, tt.expected, tt.actual, tt.actual)
	}
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()
	result.Final = FinalState{State: ir.RunningState, Slots: map[int][]ir.CardData{0: {twoHearts}}}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Kind: "score"},
		{Type: AssertFinalState, Expect: map[string]any{"state": "running"}},
		{Type: AssertSlotCards, Slot: intPtr(0), Count: intPtr(1)},
	}, nil)
	assert.Empty(t, errs)

	errs = EvaluateAssertions(result, []Assertion{
		{Type: AssertRecorded, Expect: map[string]any{"id": "g1"}},
		{Type: "eventually"},
	}, nil)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "recorded requires database context")
	assert.Contains(t, errs[1], `unknown assertion type "eventually"`)
}
