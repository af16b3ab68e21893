// Package engine implements the game session: the bridge between a rule
// engine and the table.
//
// ARCHITECTURE:
//
// Single-Goroutine Session:
// A Session is driven from one goroutine, the one that owns the table and
// the input loop. Requests from the table (drag checks, moves, clicks) and
// commands from the user (new game, restart, undo, redo) run synchronously
// against the rule engine. This keeps notification order identical to the
// order in which the engine changed the game.
//
// Notification Flow:
//  1. A command or table request reaches the Session
//  2. The Session calls the RuleEngine
//  3. The RuleEngine reports changes through the Host callbacks
//  4. The Session stamps each change with a seq from its Clock and hands it
//     to every Listener (the table, status displays, trace recorders)
//  5. After a successful action the Session checks for game over
//
// A request the engine rejects produces no notifications at all. The
// table relies on this to snap dragged cards back without bookkeeping.
//
// State Machine:
//
//	Uninitialized -> Loaded        LoadGame
//	Loaded        -> Begin         StartNewGame, RestartGame (while dealing)
//	Begin         -> Running       deal finished, game_started emitted
//	Running       -> GameOver/Won  no moves left after an action
//	GameOver/Won  -> Running       Undo
//
// Seq values come from a logical clock, never from wall time, so the same
// game with the same seed produces the same trace.
package engine
