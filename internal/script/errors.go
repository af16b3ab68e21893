package script

import (
	"errors"
	"fmt"
)

// ScriptError is an error raised while loading or running a game script.
type ScriptError struct {
	// File is the game script.
	File string

	// Hook is the script function that failed, or "" for the top-level
	// chunk.
	Hook string

	// Err is the Lua error or the validation failure.
	Err error
}

func (e *ScriptError) Error() string {
	if e.Hook == "" {
		return fmt.Sprintf("script %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("script %s: %s: %v", e.File, e.Hook, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// IsScriptError reports whether err is or wraps a ScriptError.
func IsScriptError(err error) bool {
	var se *ScriptError
	return errors.As(err, &se)
}

var (
	// ErrNotLoaded is returned by requests made before Load succeeded.
	ErrNotLoaded = errors.New("no game script loaded")

	// ErrNoHistory is returned by Undo and Redo when there is nothing to
	// step to.
	ErrNoHistory = errors.New("no history entry")
)
