package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ShowAllGamesKey is the setting that lists unsupported games too.
const ShowAllGamesKey = "show-all-games"

// Setting returns the value stored under key. ok is false when the key was
// never set.
func (s *Store) Setting(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}

// Bool returns a boolean setting, or def when it was never set.
func (s *Store) Bool(ctx context.Context, key string, def bool) (bool, error) {
	v, ok, err := s.Setting(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("setting %q: %w", key, err)
	}
	return b, nil
}

// SetBool stores a boolean setting.
func (s *Store) SetBool(ctx context.Context, key string, v bool) error {
	return s.SetSetting(ctx, key, strconv.FormatBool(v))
}

// ShowAllGames reports whether unsupported games are listed. It is off
// until the player turns it on.
func (s *Store) ShowAllGames(ctx context.Context) (bool, error) {
	return s.Bool(ctx, ShowAllGamesKey, false)
}

// SetShowAllGames persists the show-all-games toggle.
func (s *Store) SetShowAllGames(ctx context.Context, show bool) error {
	return s.SetBool(ctx, ShowAllGamesKey, show)
}
