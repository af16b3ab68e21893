package harness

import "github.com/roach88/patience/internal/ir"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every session notification in emission order.
	Trace []ir.Notification `json:"trace"`

	// TraceHash is the ir.TraceHash of Trace. Runs of the same scenario
	// have equal hashes.
	TraceHash string `json:"trace_hash"`

	// Errors describes each failed expectation.
	Errors []string `json:"errors,omitempty"`

	// Final is the session state after the flow.
	Final FinalState `json:"final"`
}

// FinalState is a snapshot of the session after the flow.
type FinalState struct {
	State   ir.GameState          `json:"state"`
	GameID  string                `json:"game_id"`
	Seed    uint64                `json:"seed"`
	Score   int                   `json:"score"`
	Moves   int                   `json:"moves"`
	Message string                `json:"message"`
	CanUndo bool                  `json:"can_undo"`
	CanRedo bool                  `json:"can_redo"`
	CanDeal bool                  `json:"can_deal"`
	Slots   map[int][]ir.CardData `json:"slots"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []ir.Notification{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Notify implements engine.Listener by appending to the trace.
func (r *Result) Notify(n ir.Notification) {
	r.Trace = append(r.Trace, n)
}
