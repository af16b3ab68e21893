package harness

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string            // Assertion type for categorization
	Expected string            // Human-readable expected outcome
	Actual   string            // Human-readable actual outcome
	Trace    []ir.Notification // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, n := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", n.Seq, n)
		}
	}

	return buf.String()
}

func parseKind(name string) (ir.Kind, error) {
	return ir.ParseKind(name)
}

func parseState(name string) (ir.GameState, error) {
	return ir.ParseGameState(name)
}

// matches reports whether n satisfies the kind, slot, card and state
// filters of an assertion.
func matches(n ir.Notification, a Assertion) bool {
	if n.Kind.String() != a.Kind {
		return false
	}
	if a.Slot != nil && notificationSlot(n) != *a.Slot {
		return false
	}
	if a.Card != "" && n.Card.String() != a.Card {
		return false
	}
	if a.State != "" && (n.Kind != ir.KindState || ir.GameState(n.Int).String() != a.State) {
		return false
	}
	return true
}

func notificationSlot(n ir.Notification) int {
	if n.Kind == ir.KindNewSlot {
		return n.Spec.ID
	}
	return n.Slot
}

func describe(a Assertion) string {
	parts := []string{a.Kind}
	if a.Slot != nil {
		parts = append(parts, fmt.Sprintf("slot=%d", *a.Slot))
	}
	if a.Card != "" {
		parts = append(parts, "card="+a.Card)
	}
	if a.State != "" {
		parts = append(parts, "state="+a.State)
	}
	return strings.Join(parts, " ")
}

// assertTraceContains checks that a notification matches the assertion.
func assertTraceContains(trace []ir.Notification, assertion Assertion) error {
	for _, n := range trace {
		if matches(n, assertion) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: describe(assertion),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first notification of each kind
// appears in the listed order. Other notifications may come in between.
func assertTraceOrder(trace []ir.Notification, assertion Assertion) error {
	positions := make(map[string]int)
	for i, n := range trace {
		kind := n.Kind.String()
		if _, seen := positions[kind]; !seen {
			positions[kind] = i + 1 // 1-indexed for readability
		}
	}

	for _, kind := range assertion.Kinds {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all kinds present: %v", assertion.Kinds),
				Actual:   fmt.Sprintf("missing kind: %s", kind),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Kinds); i++ {
		prev := assertion.Kinds[i-1]
		curr := assertion.Kinds[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("kinds in order: %v", assertion.Kinds),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks the number of matching notifications.
func assertTraceCount(trace []ir.Notification, assertion Assertion) error {
	count := 0
	for _, n := range trace {
		if matches(n, assertion) {
			count++
		}
	}

	if count != *assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", *assertion.Count, describe(assertion)),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertFinalState compares session properties after the flow. Only the
// fields named in Expect are checked.
func assertFinalState(final FinalState, assertion Assertion) error {
	actual := map[string]any{
		"state":    final.State.String(),
		"game_id":  final.GameID,
		"seed":     final.Seed,
		"score":    final.Score,
		"moves":    final.Moves,
		"message":  final.Message,
		"can_undo": final.CanUndo,
		"can_redo": final.CanRedo,
		"can_deal": final.CanDeal,
	}
	return compareFields(AssertFinalState, actual, assertion.Expect)
}

// assertSlotCards checks the final contents of a slot.
func assertSlotCards(final FinalState, assertion Assertion) error {
	id := *assertion.Slot
	cards, ok := final.Slots[id]
	if !ok {
		return &AssertionError{
			Type:     AssertSlotCards,
			Expected: fmt.Sprintf("slot %d", id),
			Actual:   "no such slot",
		}
	}

	if assertion.Count != nil && len(cards) != *assertion.Count {
		return &AssertionError{
			Type:     AssertSlotCards,
			Expected: fmt.Sprintf("%d cards in slot %d", *assertion.Count, id),
			Actual:   fmt.Sprintf("%d cards", len(cards)),
		}
	}

	if assertion.Cards != nil {
		got := make([]string, len(cards))
		for i, c := range cards {
			got[i] = c.String()
		}
		if !reflect.DeepEqual(got, assertion.Cards) {
			return &AssertionError{
				Type:     AssertSlotCards,
				Expected: fmt.Sprintf("slot %d = %v", id, assertion.Cards),
				Actual:   fmt.Sprintf("slot %d = %v", id, got),
			}
		}
	}
	return nil
}

// assertRecorded checks the newest play in the history store.
func assertRecorded(ctx context.Context, st *store.Store, assertion Assertion) error {
	plays, err := st.Plays(ctx, 1)
	if err != nil {
		return fmt.Errorf("read plays: %w", err)
	}
	if len(plays) == 0 {
		return &AssertionError{
			Type:     AssertRecorded,
			Expected: "a recorded play",
			Actual:   "history is empty",
		}
	}

	p := plays[0]
	actual := map[string]any{
		"id":    p.ID,
		"game":  p.Game,
		"seed":  p.Seed,
		"state": p.State.String(),
		"score": p.Score,
		"moves": p.Moves,
	}
	return compareFields(AssertRecorded, actual, assertion.Expect)
}

// compareFields checks every expected field against actual. Keys are
// visited in sorted order so the first failure is deterministic.
func compareFields(kind string, actual, expect map[string]any) error {
	keys := make([]string, 0, len(expect))
	for k := range expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		got, exists := actual[key]
		if !exists {
			return &AssertionError{
				Type:     kind,
				Expected: fmt.Sprintf("field %q to exist", key),
				Actual:   fmt.Sprintf("field %q is not known", key),
			}
		}
		if !valuesEqual(expect[key], got) {
			return &AssertionError{
				Type:     kind,
				Expected: fmt.Sprintf("field %q = %v (type %T)", key, expect[key], expect[key]),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", key, got, got),
			}
		}
	}
	return nil
}

// valuesEqual compares a YAML-decoded expected value with an actual
// value. Integers compare by value whatever their Go type.
func valuesEqual(expected, actual any) bool {
	if e, ok := toInt64(expected); ok {
		a, ok := toInt64(actual)
		return ok && a == e
	}
	return reflect.DeepEqual(expected, actual)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

// AssertionContext provides context for evaluating assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// The actx parameter provides database access for recorded assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result.Final, assertion)
		case AssertSlotCards:
			err = assertSlotCards(result.Final, assertion)
		case AssertRecorded:
			if actx == nil || actx.Store == nil {
				err = fmt.Errorf("assertion[%d]: recorded requires database context", i)
			} else {
				err = assertRecorded(actx.Ctx, actx.Store, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
