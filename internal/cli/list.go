package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/patience/internal/gamelist"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	All bool // list unsupported games regardless of the show-all setting
}

// ListResult is the output of the list command.
type ListResult struct {
	Dir     string          `json:"dir"`
	Recent  []gamelist.Game `json:"recent"`
	Games   []gamelist.Game `json:"games"`
	ShowAll bool            `json:"show_all"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available games",
		Long: `List the games in the games directory.

Only supported games are listed unless show-all is on or --all is given.
Recently played games that are still listed come first.

Examples:
  patience list
  patience list --all
  patience list --games ./games --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "include unsupported games")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	gl := opts.gameList(st)

	showAll, err := st.ShowAllGames(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read settings", err)
	}

	result := ListResult{Dir: gl.Dir(), ShowAll: showAll || opts.All}
	if opts.All {
		result.Games, err = gl.All()
	} else {
		result.Games, err = gl.Games(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list games", err)
	}
	if result.Recent, err = gl.Recent(ctx); err != nil {
		return WrapExitError(ExitFailure, "failed to read recent games", err)
	}
	if result.Games == nil {
		result.Games = []gamelist.Game{}
	}
	if result.Recent == nil {
		result.Recent = []gamelist.Game{}
	}

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(result)
	}

	w := cmd.OutOrStdout()
	if len(result.Games) == 0 {
		fmt.Fprintf(w, "No games found in %s.\n", result.Dir)
		return nil
	}
	if len(result.Recent) > 0 {
		fmt.Fprintln(w, "Recently played:")
		for _, g := range result.Recent {
			fmt.Fprintf(w, "  %s\n", g.DisplayName)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Games:")
	for _, g := range result.Games {
		line := fmt.Sprintf("  %-20s %s", g.DisplayName, g.FileName)
		if !g.Supported {
			line += " (unsupported)"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
