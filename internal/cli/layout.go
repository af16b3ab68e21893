package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/patience/internal/table"
	"github.com/roach88/patience/internal/tui"
)

// LayoutOptions holds flags for the layout command.
type LayoutOptions struct {
	*RootOptions
	Width   float64
	Height  float64
	Columns float64
	Rows    float64
	Cells   bool // width and height are terminal cells
}

// LayoutSize is a width/height pair in table units.
type LayoutSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// LayoutResult is the output of the layout command.
type LayoutResult struct {
	Area       LayoutSize `json:"area"`
	Board      LayoutSize `json:"board"`
	CardSize   LayoutSize `json:"card_size"`
	CardMargin LayoutSize `json:"card_margin"`
	CardSpace  LayoutSize `json:"card_space"`
	Extent     LayoutSize `json:"extent"`
	SideMargin float64    `json:"side_margin"`
	Cramped    bool       `json:"cramped"`
}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LayoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the card geometry for a table size",
		Long: `Compute the card size and margins for a table and board size.

The margins come from the layout profile. With --cells the width and
height are read as terminal columns and rows, as the play command
does.

Examples:
  patience layout --width 800 --height 600 --columns 7 --rows 4
  patience layout --cells --width 80 --height 25 --columns 7 --rows 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Width, "width", 0, "table width (required)")
	cmd.Flags().Float64Var(&opts.Height, "height", 0, "table height (required)")
	cmd.Flags().Float64Var(&opts.Columns, "columns", 7, "board width in slots")
	cmd.Flags().Float64Var(&opts.Rows, "rows", 4, "board height in slots")
	cmd.Flags().BoolVar(&opts.Cells, "cells", false, "width and height are terminal cells")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

func runLayout(opts *LayoutOptions, cmd *cobra.Command) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return NewExitError(ExitCommandError, "--width and --height must be positive")
	}
	if opts.Columns <= 0 || opts.Rows <= 0 {
		return NewExitError(ExitCommandError, "--columns and --rows must be positive")
	}

	p, err := opts.loadProfile()
	if err != nil {
		return err
	}

	area := table.Size{W: opts.Width, H: opts.Height}
	if opts.Cells {
		area.W, area.H = tui.TableSize(int(opts.Width), int(opts.Height))
	}
	params := table.LayoutParams{
		Area:              area,
		Board:             table.Size{W: opts.Columns, H: opts.Rows},
		Margin:            p.Margin,
		MaximumMargin:     p.MaximumMargin,
		MinimumSideMargin: p.MinimumSideMargin,
	}
	l, ok := table.ComputeLayout(params)
	if !ok {
		return NewExitError(ExitFailure, fmt.Sprintf("a %gx%g board does not fit into %gx%g", opts.Columns, opts.Rows, area.W, area.H))
	}

	result := LayoutResult{
		Area:       layoutSize(area),
		Board:      layoutSize(params.Board),
		CardSize:   layoutSize(l.CardSize),
		CardMargin: layoutSize(l.CardMargin),
		CardSpace:  layoutSize(l.CardSpace),
		Extent:     layoutSize(l.BoardExtent(params)),
		SideMargin: l.SideMargin,
		Cramped:    l.SideMargin < p.MinimumSideMargin,
	}
	if result.Cramped {
		slog.Warn("side margin below minimum", "side_margin", l.SideMargin, "minimum", p.MinimumSideMargin)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Area:        %gx%g\n", result.Area.W, result.Area.H)
	fmt.Fprintf(w, "Board:       %gx%g slots\n", result.Board.W, result.Board.H)
	fmt.Fprintf(w, "Card size:   %gx%g\n", result.CardSize.W, result.CardSize.H)
	fmt.Fprintf(w, "Card margin: %gx%g\n", result.CardMargin.W, result.CardMargin.H)
	fmt.Fprintf(w, "Card space:  %gx%g\n", result.CardSpace.W, result.CardSpace.H)
	fmt.Fprintf(w, "Extent:      %gx%g\n", result.Extent.W, result.Extent.H)
	fmt.Fprintf(w, "Side margin: %g\n", result.SideMargin)
	return nil
}

func layoutSize(s table.Size) LayoutSize {
	return LayoutSize{W: s.W, H: s.H}
}
