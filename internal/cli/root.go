package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/patience/internal/config"
	"github.com/roach88/patience/internal/gamelist"
	"github.com/roach88/patience/internal/logging"
	"github.com/roach88/patience/internal/profile"
	"github.com/roach88/patience/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string // overrides PATIENCE_DB
	Games   string // overrides PATIENCE_GAMES_DIR
	Profile string // overrides PATIENCE_PROFILE

	cfg      config.Config
	resolved bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the patience CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "patience",
		Short: "Patience - solitaire card games in the terminal",
		Long: `Patience plays solitaire card games in the terminal.

Games are Lua scripts read from the games directory; the rules of each
variant live in its script. Play history and settings are kept in a
SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := opts.resolve(); err != nil {
				return err
			}
			opts.setupLogging(cmd)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite database (default $PATIENCE_DB or the user config dir)")
	cmd.PersistentFlags().StringVar(&opts.Games, "games", "", "directory of game scripts (default $PATIENCE_GAMES_DIR or ./games)")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "", "CUE layout profile (default $PATIENCE_PROFILE)")

	// Add subcommands
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowAllCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewLayoutCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// Execute runs the CLI with the process arguments and returns the exit
// code. Errors are reported on stderr in the selected format.
func Execute() int {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	format, _ := cmd.PersistentFlags().GetString("format")
	if !isValidFormat(format) {
		format = "text"
	}
	f := &OutputFormatter{Format: format, Writer: cmd.ErrOrStderr()}
	_ = f.Error(ErrorCode(code), err.Error(), nil)
	return code
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// resolve reads the environment once and fills in the flags that were
// not given. Subcommands call it too, so they work without the root
// command in tests.
func (o *RootOptions) resolve() error {
	if o.resolved {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if o.DB == "" {
		o.DB = cfg.DBPath
	}
	if o.Games == "" {
		o.Games = cfg.GamesDir
	}
	if o.Profile == "" {
		o.Profile = cfg.Profile
	}
	o.cfg = cfg
	o.resolved = true
	return nil
}

// logLevel is the configured level, or debug with --verbose.
func (o *RootOptions) logLevel() slog.Level {
	if o.Verbose {
		return slog.LevelDebug
	}
	// Validated by config.Load.
	level, _ := logging.ParseLevel(o.cfg.LogLevel)
	return level
}

func (o *RootOptions) setupLogging(cmd *cobra.Command) {
	logging.Setup(cmd.ErrOrStderr(), o.logLevel())
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openStore opens the database, creating its directory when needed.
func (o *RootOptions) openStore() (*store.Store, error) {
	if err := o.resolve(); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(o.DB); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
		}
	}
	st, err := store.Open(o.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeStore closes st and logs a failure.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// gameList lists the games directory with the settings and history of st.
func (o *RootOptions) gameList(st *store.Store) *gamelist.List {
	return gamelist.New(o.Games,
		gamelist.WithSettings(st),
		gamelist.WithHistory(st, o.cfg.RecentLimit),
	)
}

// loadProfile compiles the layout profile, or returns the defaults when
// none is configured.
func (o *RootOptions) loadProfile() (*profile.Profile, error) {
	if err := o.resolve(); err != nil {
		return nil, err
	}
	if o.Profile == "" {
		return profile.Default(), nil
	}
	p, err := profile.Load(o.Profile)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load profile", err)
	}
	return p, nil
}
