package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roach88/patience/internal/gamelist"
	"github.com/roach88/patience/internal/ir"
)

// Status follows the session notifications that make up the status line.
type Status struct {
	file    string
	state   ir.GameState
	score   int
	message string
	canUndo bool
	canRedo bool
	canDeal bool
	changed bool
}

// Notify implements engine.Listener.
func (s *Status) Notify(n ir.Notification) {
	switch n.Kind {
	case ir.KindGameFile:
		s.file = n.Text
	case ir.KindState:
		s.state = ir.GameState(n.Int)
	case ir.KindScore:
		s.score = n.Int
	case ir.KindMessage:
		s.message = n.Text
	case ir.KindCanUndo:
		s.canUndo = n.Flag
	case ir.KindCanRedo:
		s.canRedo = n.Flag
	case ir.KindCanDeal:
		s.canDeal = n.Flag
	default:
		return
	}
	s.changed = true
}

// Changed reports whether the line changed since the last ClearChanged.
func (s *Status) Changed() bool { return s.changed }
func (s *Status) ClearChanged() { s.changed = false }

// State is the last announced game state.
func (s *Status) State() ir.GameState { return s.state }

// Text renders the status line.
func (s *Status) Text() string {
	parts := make([]string, 0, 5)
	if s.file != "" {
		name := strings.TrimSuffix(filepath.Base(s.file), gamelist.Extension)
		parts = append(parts, gamelist.DisplayName(name))
	}
	if label := stateLabel(s.state); label != "" {
		parts = append(parts, label)
	}
	parts = append(parts, fmt.Sprintf("Score: %d", s.score))
	if s.message != "" {
		parts = append(parts, s.message)
	}

	keys := []string{"n:new", "r:restart"}
	if s.canUndo {
		keys = append(keys, "u:undo")
	}
	if s.canRedo {
		keys = append(keys, "y:redo")
	}
	if s.canDeal {
		keys = append(keys, "d:deal")
	}
	keys = append(keys, "q:quit")
	parts = append(parts, strings.Join(keys, " "))
	return strings.Join(parts, " | ")
}

func stateLabel(st ir.GameState) string {
	switch st {
	case ir.WonState:
		return "Won!"
	case ir.GameOverState:
		return "Game over"
	case ir.BeginState:
		return "Dealing"
	default:
		return ""
	}
}
