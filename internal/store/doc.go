// Package store provides SQLite-backed storage for the player's settings
// and play history.
//
// The store holds two tables:
//   - settings: string key/value pairs such as show-all-games
//   - plays: one row per dealt game, updated as the game progresses
//
// # Ordering
//
// Plays are ordered by seq, an autoincrement column, never by the stored
// start time. Wall-clock time is only displayed, so a clock change cannot
// reorder the history.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Seeds are stored as the signed 64-bit integer with the same bits, since
// SQLite has no unsigned integer type.
package store
