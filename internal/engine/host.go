package engine

import (
	"slices"

	"github.com/roach88/patience/internal/ir"
)

// SetBoardSize implements Host. Each dimension is only announced when it
// changes.
func (s *Session) SetBoardSize(width, height float64) {
	if width != s.boardW {
		s.boardW = width
		s.emit(ir.Notification{Kind: ir.KindWidthChanged, Value: width})
	}
	if height != s.boardH {
		s.boardH = height
		s.emit(ir.Notification{Kind: ir.KindHeightChanged, Value: height})
	}
}

// NewSlot implements Host.
func (s *Session) NewSlot(spec ir.SlotSpec, cards []ir.CardData) {
	if _, ok := s.specs[spec.ID]; !ok {
		i, _ := slices.BinarySearch(s.order, spec.ID)
		s.order = slices.Insert(s.order, i, spec.ID)
	} else {
		s.log.Warn("slot added twice", "slot", spec.ID)
	}
	s.specs[spec.ID] = spec
	s.slots[spec.ID] = slices.Clone(cards)
	s.emit(ir.Notification{Kind: ir.KindNewSlot, Spec: spec, Cards: slices.Clone(cards)})
}

// SetCards implements Host. The difference to the previous contents is
// announced card by card.
func (s *Session) SetCards(slot int, cards []ir.CardData) {
	old, ok := s.slots[slot]
	if !ok {
		s.log.Warn("cards for unknown slot", "slot", slot)
		return
	}
	for _, n := range cardDiff(slot, old, cards) {
		s.emit(n)
	}
	s.slots[slot] = slices.Clone(cards)
}

// SetExpansion implements Host.
func (s *Session) SetExpansion(slot int, axis ir.Axis, delta float64) {
	s.emit(ir.Notification{Kind: ir.KindSetExpansion, Slot: slot, Axis: axis, Value: delta})
}

// SetScore implements Host.
func (s *Session) SetScore(score int) {
	if score == s.score {
		return
	}
	s.score = score
	s.emit(ir.Notification{Kind: ir.KindScore, Int: score})
}

// SetMessage implements Host.
func (s *Session) SetMessage(message string) {
	if message == s.message {
		return
	}
	s.message = message
	s.emit(ir.Notification{Kind: ir.KindMessage, Text: message})
}

// SetCanUndo implements Host.
func (s *Session) SetCanUndo(can bool) {
	s.setFlag(&s.canUndo, ir.KindCanUndo, can)
}

// SetCanRedo implements Host.
func (s *Session) SetCanRedo(can bool) {
	s.setFlag(&s.canRedo, ir.KindCanRedo, can)
}

// SetCanDeal implements Host.
func (s *Session) SetCanDeal(can bool) {
	s.setFlag(&s.canDeal, ir.KindCanDeal, can)
}

func (s *Session) setFlag(field *bool, kind ir.Kind, v bool) {
	if *field == v {
		return
	}
	*field = v
	s.emit(ir.Notification{Kind: kind, Flag: v})
}

// cardDiff returns the notifications that turn old into cur. Cards shared
// at the bottom and at the top stay; the cards in between are removed top
// down, then the replacements are inserted bottom up. Insertions at the
// top of the slot are appends.
func cardDiff(slot int, old, cur []ir.CardData) []ir.Notification {
	prefix := 0
	for prefix < len(old) && prefix < len(cur) && old[prefix] == cur[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(cur)-prefix &&
		old[len(old)-1-suffix] == cur[len(cur)-1-suffix] {
		suffix++
	}

	var out []ir.Notification
	for i := len(old) - suffix - 1; i >= prefix; i-- {
		out = append(out, ir.Notification{Kind: ir.KindRemoveCard, Slot: slot, Index: i})
	}
	for i, c := range cur[prefix : len(cur)-suffix] {
		if suffix == 0 {
			out = append(out, ir.Notification{Kind: ir.KindAppendCard, Slot: slot, Card: c})
			continue
		}
		out = append(out, ir.Notification{Kind: ir.KindInsertCard, Slot: slot, Index: prefix + i, Card: c})
	}
	return out
}
