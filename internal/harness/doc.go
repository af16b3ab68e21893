// Package harness replays scripted games against the real rule engine and
// checks the resulting notification trace.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: ladder_win
//	description: "Both hearts reach the foundation"
//	game: ../games/ladder.lua
//	seed: 1
//	flow:
//	  - action: new_game
//	  - action: drag
//	    from: 0
//	    to: 1
//	    expect:
//	      moved: true
//	      score: 10
//	assertions:
//	  - type: trace_contains
//	    kind: append_card
//	    slot: 1
//	  - type: final_state
//	    expect: { state: won, score: 20 }
//
// The game path is resolved relative to the scenario file.
//
// # Flow Actions
//
//   - new_game, restart: deal through the session
//   - click, double_click: press and release on a slot through the table
//   - drag: pick up cards of slot from (top card unless index is given)
//     and drop them on slot to
//   - undo, redo: step through the engine history
//
// # Assertion Types
//
//   - trace_contains: a notification of kind (and slot, card, state) exists
//   - trace_order: the first notifications of the listed kinds are in order
//   - trace_count: exactly count notifications of kind (and slot)
//   - final_state: session properties after the flow
//   - slot_cards: the final contents of a slot
//   - recorded: the play as written to the history store
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory store, a testutil.DeterministicClock for
// notification seqs, a fixed game ID and the scenario's seed, so traces
// are byte-identical across runs and can be compared with golden files.
package harness
