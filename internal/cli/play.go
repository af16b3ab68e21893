package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/patience/internal/engine"
	"github.com/roach88/patience/internal/gamelist"
	"github.com/roach88/patience/internal/logging"
	"github.com/roach88/patience/internal/script"
	"github.com/roach88/patience/internal/store"
	"github.com/roach88/patience/internal/tui"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Seed uint64 // seed of the first deal; 0 picks one at random

	// NewScreen creates the terminal screen (for testing).
	// If nil, defaults to tcell.NewScreen.
	NewScreen func() (tcell.Screen, error)
}

// PlayResult summarises a finished session.
type PlayResult struct {
	Game   string `json:"game"`
	GameID string `json:"game_id"`
	Seed   uint64 `json:"seed"`
	State  string `json:"state"`
	Score  int    `json:"score"`
	Moves  int    `json:"moves"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	return newPlayCommand(&PlayOptions{RootOptions: rootOpts})
}

func newPlayCommand(opts *PlayOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [game]",
		Short: "Play a game in the terminal",
		Long: `Deal a game and play it with the mouse.

Without a game name the most recently played game is dealt, or
Klondike when there is no history. Drag cards between piles, click the
stock to deal and double-click a card to send it to a foundation.

Keys:
  n  new game      r  restart
  u  undo          y  redo
  d  deal          q  quit

Logs go to $PATIENCE_LOG_FILE when set, since the terminal is in use.

Examples:
  patience play
  patience play freecell
  patience play klondike --seed 42`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed of the first deal (0 for random)")

	return cmd
}

func runPlay(opts *PlayOptions, args []string, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gl := opts.gameList(st)
	game, err := pickGame(ctx, gl, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "no game to play", err)
	}

	p, err := opts.loadProfile()
	if err != nil {
		return err
	}

	// The screen owns stdout and stderr while the game runs.
	logOut, closeLog, err := opts.playLog()
	if err != nil {
		return err
	}
	defer closeLog()
	log := logging.Setup(logOut, opts.logLevel())

	sessionOpts := []engine.Option{engine.WithLogger(log)}
	if opts.Seed != 0 {
		sessionOpts = append(sessionOpts, engine.WithSeedSource(firstSeed(opts.Seed)))
	}
	session := engine.New(script.New(script.WithLogger(log)), sessionOpts...)
	defer session.Close()

	newScreen := opts.NewScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	screen, err := newScreen()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open terminal", err)
	}

	app := tui.New(screen, session,
		tui.WithTheme(tui.ThemeFor(*p)),
		tui.WithTableOptions(p.TableOptions()),
		tui.WithLogger(log),
	)
	recorder := store.NewRecorder(ctx, st, session, store.WithKeep(opts.cfg.HistoryLimit))
	session.AddListener(recorder)

	if err := app.Init(); err != nil {
		return WrapExitError(ExitCommandError, "failed to initialise terminal", err)
	}

	err = playGame(ctx, app, session, gl.Path(game))
	recorder.Flush()
	app.Close()
	if err != nil {
		return err
	}

	log.Info("session finished",
		"game", game.FileName,
		"state", session.State(),
		"score", session.Score(),
		"moves", session.Moves(),
	)

	result := PlayResult{
		Game:   game.DisplayName,
		GameID: session.GameID(),
		Seed:   session.Seed(),
		State:  session.State().String(),
		Score:  session.Score(),
		Moves:  session.Moves(),
	}
	if opts.Format == "json" {
		return opts.formatter(cmd).Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, score %d in %d moves (seed %d)\n",
		result.Game, result.State, result.Score, result.Moves, result.Seed)
	return nil
}

func playGame(ctx context.Context, app *tui.App, session *engine.Session, path string) error {
	if err := session.LoadGame(path); err != nil {
		return WrapExitError(ExitFailure, "failed to load game", err)
	}
	if err := session.StartNewGame(); err != nil {
		return WrapExitError(ExitFailure, "failed to deal", err)
	}
	if err := app.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "game loop failed", err)
	}
	return nil
}

// pickGame returns the named game, the most recently played one, or
// Klondike.
func pickGame(ctx context.Context, gl *gamelist.List, args []string) (gamelist.Game, error) {
	if len(args) == 1 {
		return gl.Find(args[0])
	}

	recent, err := gl.Recent(ctx)
	if err != nil {
		return gamelist.Game{}, err
	}
	if len(recent) > 0 {
		return recent[0], nil
	}

	games, err := gl.Games(ctx)
	if err != nil {
		return gamelist.Game{}, err
	}
	if len(games) == 0 {
		return gamelist.Game{}, fmt.Errorf("no games in %s", gl.Dir())
	}
	if i := slices.IndexFunc(games, func(g gamelist.Game) bool { return g.Name == "klondike" }); i >= 0 {
		return games[i], nil
	}
	return games[0], nil
}

// firstSeed returns a seed source that deals seed once and random seeds
// afterwards.
func firstSeed(seed uint64) func() uint64 {
	used := false
	return func() uint64 {
		if used {
			return rand.Uint64()
		}
		used = true
		return seed
	}
}

// playLog opens the log file, or discards logs when none is configured.
func (o *PlayOptions) playLog() (io.Writer, func(), error) {
	if o.cfg.LogFile == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(o.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			slog.Error("error closing log file", "error", err)
		}
	}, nil
}
