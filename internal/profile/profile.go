// Package profile loads the layout and interaction profile of the table
// from a CUE file.
//
// A profile file is a plain CUE struct validated against an embedded
// schema that supplies the defaults:
//
//	margin: {x: 2, y: 1}
//	maximum_margin: {x: 6, y: 2}
//	highlight: "cyan"
//	double_click_interval: "300ms"
//
// Unknown fields are rejected, so a typo does not silently fall back to
// the default.
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/patience/internal/table"
)

//go:embed schema.cue
var schemaSrc string

// Profile holds the tunable layout and interaction parameters.
type Profile struct {
	Margin              table.Size
	MaximumMargin       table.Size
	MinimumSideMargin   float64
	Highlight           string
	DragDistance        float64
	DragTime            time.Duration
	DoubleClickInterval time.Duration
}

type rawSize struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rawProfile struct {
	Margin              rawSize `json:"margin"`
	MaximumMargin       rawSize `json:"maximum_margin"`
	MinimumSideMargin   float64 `json:"minimum_side_margin"`
	Highlight           string  `json:"highlight"`
	DragDistance        float64 `json:"drag_distance"`
	DragTime            string  `json:"drag_time"`
	DoubleClickInterval string  `json:"double_click_interval"`
}

// Default returns the profile of an empty profile file.
func Default() *Profile {
	p, err := Compile("default.cue", nil)
	if err != nil {
		panic(fmt.Sprintf("profile: embedded schema: %v", err))
	}
	return p
}

// Load reads and compiles the profile file at path.
func Load(path string) (*Profile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Compile(path, src)
}

// Compile validates src against the schema and fills in the defaults.
// filename is only used in error positions.
func Compile(filename string, src []byte) (*Profile, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v = schema.LookupPath(cue.ParsePath("#Profile")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var raw rawProfile
	if err := v.Decode(&raw); err != nil {
		return nil, formatCUEError(err)
	}

	dragTime, err := duration(v, "drag_time", raw.DragTime)
	if err != nil {
		return nil, err
	}
	doubleClick, err := duration(v, "double_click_interval", raw.DoubleClickInterval)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Margin:              table.Size{W: raw.Margin.X, H: raw.Margin.Y},
		MaximumMargin:       table.Size{W: raw.MaximumMargin.X, H: raw.MaximumMargin.Y},
		MinimumSideMargin:   raw.MinimumSideMargin,
		Highlight:           raw.Highlight,
		DragDistance:        raw.DragDistance,
		DragTime:            dragTime,
		DoubleClickInterval: doubleClick,
	}, nil
}

func duration(v cue.Value, field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("invalid duration %q", s),
			Pos:     v.LookupPath(cue.ParsePath(field)).Pos(),
		}
	}
	return d, nil
}

// TableOptions converts the profile to table options.
func (p *Profile) TableOptions() table.Options {
	return table.Options{
		Margin:              p.Margin,
		MaximumMargin:       p.MaximumMargin,
		MinimumSideMargin:   p.MinimumSideMargin,
		DragDistance:        p.DragDistance,
		DragTime:            p.DragTime,
		DoubleClickInterval: p.DoubleClickInterval,
	}
}

// CompileError represents a profile error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
