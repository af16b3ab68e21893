package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/patience/internal/ir"
)

func TestStatus_Text(t *testing.T) {
	tests := []struct {
		name   string
		events []ir.Notification
		want   string
	}{
		{
			name: "empty",
			want: "Score: 0 | n:new r:restart q:quit",
		},
		{
			name: "running game",
			events: []ir.Notification{
				{Kind: ir.KindGameFile, Text: "/usr/share/patience/games/free-cell.lua"},
				{Kind: ir.KindState, Int: int(ir.RunningState)},
				{Kind: ir.KindScore, Int: 15},
				{Kind: ir.KindCanUndo, Flag: true},
				{Kind: ir.KindCanDeal, Flag: true},
			},
			want: "Free Cell | Score: 15 | n:new r:restart u:undo d:deal q:quit",
		},
		{
			name: "won with message",
			events: []ir.Notification{
				{Kind: ir.KindGameFile, Text: "klondike.lua"},
				{Kind: ir.KindState, Int: int(ir.WonState)},
				{Kind: ir.KindMessage, Text: "Well done"},
				{Kind: ir.KindCanRedo, Flag: true},
			},
			want: "Klondike | Won! | Score: 0 | Well done | n:new r:restart y:redo q:quit",
		},
		{
			name: "game over",
			events: []ir.Notification{
				{Kind: ir.KindState, Int: int(ir.GameOverState)},
			},
			want: "Game over | Score: 0 | n:new r:restart q:quit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Status
			for _, n := range tt.events {
				s.Notify(n)
			}
			assert.Equal(t, tt.want, s.Text())
		})
	}
}

func TestStatus_Changed(t *testing.T) {
	var s Status
	assert.False(t, s.Changed())

	s.Notify(ir.Notification{Kind: ir.KindAppendCard, Slot: 1})
	assert.False(t, s.Changed(), "card changes are not part of the status")

	s.Notify(ir.Notification{Kind: ir.KindScore, Int: 5})
	assert.True(t, s.Changed())

	s.ClearChanged()
	assert.False(t, s.Changed())
	assert.Equal(t, ir.UninitializedState, s.State())
}
