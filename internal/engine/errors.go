package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/patience/internal/ir"
)

// SessionError is an error raised by a session command.
//
// Session errors carry the command and the state the session was in, so
// the CLI and the tui can tell a misuse (undo before any game) from a
// broken game file.
type SessionError struct {
	// Code identifies the error category.
	Code SessionErrorCode

	// Op is the session command that failed.
	Op string

	// State is the session state when the command was issued.
	State ir.GameState

	// GameFile is the loaded game file, if any.
	GameFile string

	// Err is the underlying error from the rule engine, if any.
	Err error
}

// SessionErrorCode categorizes session errors.
type SessionErrorCode string

const (
	// ErrCodeInvalidState indicates the command is not allowed in the
	// current state.
	ErrCodeInvalidState SessionErrorCode = "INVALID_STATE"

	// ErrCodeLoadFailed indicates the rule engine could not load a game file.
	ErrCodeLoadFailed SessionErrorCode = "LOAD_FAILED"

	// ErrCodeDealFailed indicates the rule engine failed to deal a game.
	ErrCodeDealFailed SessionErrorCode = "DEAL_FAILED"

	// ErrCodeHistoryFailed indicates an undo or redo failed in the rule
	// engine.
	ErrCodeHistoryFailed SessionErrorCode = "HISTORY_FAILED"
)

// Error implements the error interface.
func (e *SessionError) Error() string {
	msg := fmt.Sprintf("%s: %s (state=%s", e.Code, e.Op, e.State)
	if e.GameFile != "" {
		msg += ", game=" + e.GameFile
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying rule engine error.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// IsStateError reports whether err is a command issued in the wrong state.
// Uses errors.As to handle wrapped errors.
func IsStateError(err error) bool {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Code == ErrCodeInvalidState
	}
	return false
}

func (s *Session) stateError(op string) *SessionError {
	return &SessionError{Code: ErrCodeInvalidState, Op: op, State: s.state, GameFile: s.gameFile}
}

func (s *Session) engineError(code SessionErrorCode, op string, err error) *SessionError {
	return &SessionError{Code: code, Op: op, State: s.state, GameFile: s.gameFile, Err: err}
}
