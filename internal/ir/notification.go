package ir

import "fmt"

// Kind distinguishes notification variants.
type Kind int

const (
	// Structural notifications, consumed by the table.
	KindNewSlot Kind = iota + 1
	KindInsertCard
	KindAppendCard
	KindRemoveCard
	KindClearSlot
	KindClearData
	KindSetExpansion
	KindGameStarted
	KindWidthChanged
	KindHeightChanged

	// Session property notifications, consumed by status displays.
	KindState
	KindScore
	KindMessage
	KindCanUndo
	KindCanRedo
	KindCanDeal
	KindGameFile
)

var kindNames = map[Kind]string{
	KindNewSlot:       "new_slot",
	KindInsertCard:    "insert_card",
	KindAppendCard:    "append_card",
	KindRemoveCard:    "remove_card",
	KindClearSlot:     "clear_slot",
	KindClearData:     "clear_data",
	KindSetExpansion:  "set_expansion",
	KindGameStarted:   "game_started",
	KindWidthChanged:  "width_changed",
	KindHeightChanged: "height_changed",
	KindState:         "state",
	KindScore:         "score",
	KindMessage:       "message",
	KindCanUndo:       "can_undo",
	KindCanRedo:       "can_redo",
	KindCanDeal:       "can_deal",
	KindGameFile:      "game_file",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name back to its value.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown notification kind %q", name)
}

// Structural reports whether the notification mutates the table.
func (k Kind) Structural() bool {
	return k >= KindNewSlot && k <= KindHeightChanged
}

// Notification is one event emitted by the session. Only the fields that
// belong to Kind are meaningful:
//
//	new_slot        Spec, Cards
//	insert_card     Slot, Index, Card
//	append_card     Slot, Card
//	remove_card     Slot, Index
//	clear_slot      Slot
//	set_expansion   Slot, Axis, Value
//	width_changed   Value
//	height_changed  Value
//	state           Int (GameState)
//	score           Int
//	message         Text
//	can_undo/redo/deal  Flag
//	game_file       Text
type Notification struct {
	Seq   int64
	Kind  Kind
	Slot  int
	Index int
	Card  CardData
	Cards []CardData
	Spec  SlotSpec
	Axis  Axis
	Value float64
	Int   int
	Text  string
	Flag  bool
}

func (n Notification) String() string {
	switch n.Kind {
	case KindNewSlot:
		return fmt.Sprintf("%s(id=%d, type=%s, cards=%d)", n.Kind, n.Spec.ID, n.Spec.Type, len(n.Cards))
	case KindInsertCard:
		return fmt.Sprintf("%s(slot=%d, index=%d, card=%s)", n.Kind, n.Slot, n.Index, n.Card)
	case KindAppendCard:
		return fmt.Sprintf("%s(slot=%d, card=%s)", n.Kind, n.Slot, n.Card)
	case KindRemoveCard:
		return fmt.Sprintf("%s(slot=%d, index=%d)", n.Kind, n.Slot, n.Index)
	case KindClearSlot:
		return fmt.Sprintf("%s(slot=%d)", n.Kind, n.Slot)
	case KindSetExpansion:
		return fmt.Sprintf("%s(slot=%d, axis=%s, delta=%g)", n.Kind, n.Slot, n.Axis, n.Value)
	case KindWidthChanged, KindHeightChanged:
		return fmt.Sprintf("%s(%g)", n.Kind, n.Value)
	case KindState:
		return fmt.Sprintf("%s(%s)", n.Kind, GameState(n.Int))
	case KindScore:
		return fmt.Sprintf("%s(%d)", n.Kind, n.Int)
	case KindMessage, KindGameFile:
		return fmt.Sprintf("%s(%q)", n.Kind, n.Text)
	case KindCanUndo, KindCanRedo, KindCanDeal:
		return fmt.Sprintf("%s(%t)", n.Kind, n.Flag)
	default:
		return n.Kind.String()
	}
}

// Canonical returns the map form used for traces and golden files. Only
// the fields that belong to the notification's kind are included.
func (n Notification) Canonical() map[string]any {
	m := map[string]any{
		"seq":  n.Seq,
		"kind": n.Kind.String(),
	}
	switch n.Kind {
	case KindNewSlot:
		m["slot"] = n.Spec.ID
		m["type"] = n.Spec.Type.String()
		m["x"] = n.Spec.X
		m["y"] = n.Spec.Y
		if axis := n.Spec.Axis(); axis != AxisNone {
			m["axis"] = axis.String()
			m["depth"] = n.Spec.ExpansionDepth
		}
		m["cards"] = canonicalCards(n.Cards)
	case KindInsertCard:
		m["slot"] = n.Slot
		m["index"] = n.Index
		m["card"] = canonicalCard(n.Card)
	case KindAppendCard:
		m["slot"] = n.Slot
		m["card"] = canonicalCard(n.Card)
	case KindRemoveCard:
		m["slot"] = n.Slot
		m["index"] = n.Index
	case KindClearSlot:
		m["slot"] = n.Slot
	case KindSetExpansion:
		m["slot"] = n.Slot
		m["axis"] = n.Axis.String()
		m["delta"] = n.Value
	case KindWidthChanged, KindHeightChanged:
		m["value"] = n.Value
	case KindState:
		m["state"] = GameState(n.Int).String()
	case KindScore:
		m["score"] = n.Int
	case KindMessage, KindGameFile:
		m["text"] = n.Text
	case KindCanUndo, KindCanRedo, KindCanDeal:
		m["flag"] = n.Flag
	}
	return m
}

func canonicalCard(c CardData) map[string]any {
	return map[string]any{
		"suit": c.Suit.String(),
		"rank": int(c.Rank),
		"show": c.Show,
	}
}

func canonicalCards(cards []CardData) []any {
	out := make([]any, len(cards))
	for i, c := range cards {
		out[i] = canonicalCard(c)
	}
	return out
}
