package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/patience/internal/ir"
)

// Play is one dealt game in the play history.
type Play struct {
	ID        string       `json:"id"`
	Game      string       `json:"game"`
	Seed      uint64       `json:"seed"`
	StartedAt time.Time    `json:"started_at"`
	State     ir.GameState `json:"state"`
	Score     int          `json:"score"`
	Moves     int          `json:"moves"`
}

// RecordPlay inserts p, or updates the state, score and move count of the
// play with the same ID. Only the newest keep plays are retained; keep <= 0
// keeps everything.
func (s *Store) RecordPlay(ctx context.Context, p Play, keep int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record play: %w", err)
	}
	defer tx.Rollback()

	// Seeds use the full uint64 range; SQLite integers are signed.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO plays (id, game, seed, started_at, state, score, moves)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			score = excluded.score,
			moves = excluded.moves
	`,
		p.ID,
		p.Game,
		int64(p.Seed),
		p.StartedAt.UTC().Format(time.RFC3339Nano),
		p.State.String(),
		p.Score,
		p.Moves,
	)
	if err != nil {
		return fmt.Errorf("record play: %w", err)
	}

	if keep > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM plays
			WHERE seq NOT IN (SELECT seq FROM plays ORDER BY seq DESC LIMIT ?)
		`, keep)
		if err != nil {
			return fmt.Errorf("trim play history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record play: %w", err)
	}
	return nil
}

// Plays returns up to limit plays, most recent first. limit <= 0 returns
// the whole history.
func (s *Store) Plays(ctx context.Context, limit int) ([]Play, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game, seed, started_at, state, score, moves
		FROM plays
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query plays: %w", err)
	}
	defer rows.Close()

	plays := []Play{}
	for rows.Next() {
		var (
			p       Play
			seed    int64
			started string
			state   string
		)
		if err := rows.Scan(&p.ID, &p.Game, &seed, &started, &state, &p.Score, &p.Moves); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		p.Seed = uint64(seed)
		if p.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("play %s: started_at: %w", p.ID, err)
		}
		if p.State, err = ir.ParseGameState(state); err != nil {
			return nil, fmt.Errorf("play %s: %w", p.ID, err)
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plays: %w", err)
	}
	return plays, nil
}

// RecentGames returns the distinct game files of the newest plays, most
// recent first, at most limit of them.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT game
		FROM plays
		GROUP BY game
		ORDER BY MAX(seq) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent games: %w", err)
	}
	defer rows.Close()

	var games []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan recent game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent games: %w", err)
	}
	return games, nil
}
