package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ShowAllResult is the output of the show-all command.
type ShowAllResult struct {
	ShowAll bool `json:"show_all"`
	Changed bool `json:"changed"`
}

// NewShowAllCommand creates the show-all command.
func NewShowAllCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-all [on|off]",
		Short: "Show or set whether unsupported games are listed",
		Long: `Show or set the show-all-games setting.

Without an argument the current value is printed.

Examples:
  patience show-all
  patience show-all on`,
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     []string{"on", "off"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowAll(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runShowAll(opts *RootOptions, args []string, cmd *cobra.Command) error {
	var (
		value bool
		set   = len(args) == 1
	)
	if set {
		v, err := parseSwitch(args[0])
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid argument", err)
		}
		value = v
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if set {
		if err := st.SetShowAllGames(ctx, value); err != nil {
			return WrapExitError(ExitFailure, "failed to save setting", err)
		}
	}
	current, err := st.ShowAllGames(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read setting", err)
	}

	result := ShowAllResult{ShowAll: current, Changed: set}
	if opts.Format == "json" {
		return opts.formatter(cmd).Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "show-all: %s\n", switchName(current))
	return nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func switchName(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
