package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/patience/internal/gamelist"
	"github.com/roach88/patience/internal/ir"
	"github.com/roach88/patience/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Plays []store.Play `json:"plays"`
	Stats HistoryStats `json:"stats"`
}

// HistoryStats summarises the listed plays.
type HistoryStats struct {
	Total      int `json:"total"`
	Won        int `json:"won"`
	Lost       int `json:"lost"`
	Unfinished int `json:"unfinished"`
	BestScore  int `json:"best_score"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently played games",
		Long: `Show the play history, most recent first.

Each dealt game is recorded with its seed, final state, score and
number of moves.

Examples:
  patience history
  patience history --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of plays to show (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--limit must not be negative, got %d", opts.Limit))
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	plays, err := st.Plays(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read history", err)
	}
	result := HistoryResult{Plays: plays, Stats: historyStats(plays)}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(result)
	}

	w := cmd.OutOrStdout()
	if len(plays) == 0 {
		fmt.Fprintln(w, "No games played yet.")
		return nil
	}
	fmt.Fprintf(w, "%-16s  %-16s  %-10s  %6s  %5s\n", "STARTED", "GAME", "STATE", "SCORE", "MOVES")
	for _, p := range plays {
		fmt.Fprintf(w, "%-16s  %-16s  %-10s  %6d  %5d\n",
			p.StartedAt.Local().Format(time.DateOnly+" 15:04"),
			gamelist.DisplayName(strings.TrimSuffix(filepath.Base(p.Game), gamelist.Extension)),
			p.State,
			p.Score,
			p.Moves,
		)
	}
	s := result.Stats
	fmt.Fprintf(w, "\n%d played, %d won, %d lost, best score %d\n", s.Total, s.Won, s.Lost, s.BestScore)
	return nil
}

func historyStats(plays []store.Play) HistoryStats {
	s := HistoryStats{Total: len(plays)}
	for i, p := range plays {
		switch {
		case p.State == ir.WonState:
			s.Won++
		case p.State == ir.GameOverState:
			s.Lost++
		default:
			s.Unfinished++
		}
		if i == 0 || p.Score > s.BestScore {
			s.BestScore = p.Score
		}
	}
	return s
}
