// Package gamelist enumerates the game definitions in a directory.
//
// Only the variants on the allow-list are known to play correctly; the
// rest are listed when the player turns on show-all-games. A separate
// recently played section comes from the play history.
package gamelist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/patience/internal/logging"
)

// Extension is the file extension of game definitions.
const Extension = ".lua"

// supported lists the game variants that are tested and whose bugs must
// be addressed.
var supported = map[string]bool{
	"klondike": true,
	"freecell": true,
	"spider":   true,
	"clock":    true,
}

// Game is one game definition file.
type Game struct {
	FileName    string `json:"filename"`
	Name        string `json:"name"`
	DisplayName string `json:"display"`
	Supported   bool   `json:"supported"`
	Recent      bool   `json:"recent,omitempty"`
}

// Settings supplies the persisted show-all-games toggle.
type Settings interface {
	ShowAllGames(ctx context.Context) (bool, error)
}

// History supplies the most recently played game files, newest first.
type History interface {
	RecentGames(ctx context.Context, limit int) ([]string, error)
}

// List reads game definitions from one directory.
type List struct {
	dir         string
	settings    Settings
	history     History
	recentLimit int
	log         *slog.Logger
}

// Option configures a List.
type Option func(*List)

// WithSettings sets where the show-all-games toggle is read from. Without
// settings only supported games are listed.
func WithSettings(s Settings) Option {
	return func(l *List) {
		l.settings = s
	}
}

// WithHistory enables the recently played section with up to limit games.
func WithHistory(h History, limit int) Option {
	return func(l *List) {
		l.history = h
		l.recentLimit = limit
	}
}

// WithLogger sets the list logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *List) {
		l.log = log.With("category", logging.CategoryPatience)
	}
}

// New creates a list of the games in dir.
func New(dir string, opts ...Option) *List {
	l := &List{dir: dir, log: logging.Patience()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dir is the directory the games are read from.
func (l *List) Dir() string {
	return l.dir
}

// Path returns the full path of a game file.
func (l *List) Path(g Game) string {
	return filepath.Join(l.dir, g.FileName)
}

// All returns every game definition in the directory, sorted by file name.
func (l *List) All() ([]Game, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read game directory: %w", err)
	}

	var games []Game
	for _, e := range entries {
		if filepath.Ext(e.Name()) != Extension || !l.isFile(e) {
			continue
		}
		games = append(games, NewGame(e.Name()))
	}
	// os.ReadDir already sorts by file name.
	return games, nil
}

// isFile reports whether e is a regular file or a symlink to one.
func (l *List) isFile(e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(l.dir, e.Name()))
	if err != nil {
		l.log.Debug("skipping game file", "file", e.Name(), "error", err)
		return false
	}
	return info.Mode().IsRegular()
}

// Games returns the games to offer: the supported ones, or all of them
// when show-all-games is on.
func (l *List) Games(ctx context.Context) ([]Game, error) {
	all, err := l.All()
	if err != nil {
		return nil, err
	}
	showAll, err := l.showAll(ctx)
	if err != nil {
		return nil, err
	}
	if showAll {
		return all, nil
	}
	return slices.DeleteFunc(all, func(g Game) bool { return !g.Supported }), nil
}

// Recent returns the recently played games that are still offered, most
// recent first.
func (l *List) Recent(ctx context.Context) ([]Game, error) {
	if l.history == nil || l.recentLimit <= 0 {
		return nil, nil
	}
	files, err := l.history.RecentGames(ctx, l.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("read recent games: %w", err)
	}
	games, err := l.Games(ctx)
	if err != nil {
		return nil, err
	}

	var recent []Game
	for _, f := range files {
		i := slices.IndexFunc(games, func(g Game) bool { return g.FileName == f })
		if i < 0 {
			l.log.Debug("recent game no longer offered", "file", f)
			continue
		}
		g := games[i]
		g.Recent = true
		recent = append(recent, g)
	}
	return recent, nil
}

// Find looks a game up by name or file name among all games, offered or
// not.
func (l *List) Find(name string) (Game, error) {
	all, err := l.All()
	if err != nil {
		return Game{}, err
	}
	name = strings.TrimSuffix(name, Extension)
	for _, g := range all {
		if g.Name == name {
			return g, nil
		}
	}
	return Game{}, fmt.Errorf("no game %q in %s", name, l.dir)
}

func (l *List) showAll(ctx context.Context) (bool, error) {
	if l.settings == nil {
		return false, nil
	}
	show, err := l.settings.ShowAllGames(ctx)
	if err != nil {
		return false, fmt.Errorf("read show-all-games: %w", err)
	}
	return show, nil
}

// NewGame describes the game in fileName.
func NewGame(fileName string) Game {
	name := strings.TrimSuffix(fileName, Extension)
	return Game{
		FileName:    fileName,
		Name:        name,
		DisplayName: DisplayName(name),
		Supported:   IsSupported(name),
	}
}

// IsSupported reports whether the named variant is on the allow-list.
func IsSupported(name string) bool {
	return supported[strings.TrimSuffix(name, Extension)]
}

// DisplayName turns a game name into a title: hyphens become spaces and
// each word starts with a capital letter.
func DisplayName(name string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(name, "-", " "))
}
