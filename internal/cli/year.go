package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"asakatsu/internal/core"
	"asakatsu/internal/heatmap"
	"asakatsu/internal/log"
)

const (
	formatTerminal = "terminal"
	formatCSV      = "csv"
	formatJSON     = "json"
)

func newYearCommand() *cobra.Command {
	var (
		ago    int
		format string
	)
	cmd := &cobra.Command{
		Use:   "year",
		Short: "Print the heatmaps of one year",
		Long: `Fetch entries, build the year view and print it.

The terminal format draws one coloured calendar per category. csv prints one
row per day with an empty cell for days without entries; json prints the
series with their daily totals in seconds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runYear(cmd, ago, format)
		},
	}
	cmd.Flags().IntVarP(&ago, "ago", "a", 0, "Years back from the current year (0, 1 or 2)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTerminal, "Output format (terminal, csv, json)")
	return cmd
}

func runYear(cmd *cobra.Command, ago int, format string) error {
	sel, err := core.ParseYearSelection(strconv.Itoa(ago))
	if err != nil {
		return fmt.Errorf("--ago %d: %w", ago, err)
	}
	switch format {
	case formatTerminal, formatCSV, formatJSON:
	default:
		return fmt.Errorf("unknown format %q: must be one of terminal, csv, json", format)
	}

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return err
	}
	// Logs go to stderr so exports on stdout stay clean.
	lvl, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: lvl, Component: log.ComponentCLI, Output: cmd.ErrOrStderr()})

	ctx := cmd.Context()
	svc, res, err := NewDashboard(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer res.Close()

	view, err := svc.YearView(ctx, sel)
	if err != nil {
		return err
	}
	log.NewStructuredLogger(logger).LogYearBuilt(ctx, view.Source, view.Year, view.Entries)

	out := cmd.OutOrStdout()
	switch format {
	case formatCSV:
		return heatmap.WriteCSV(out, view.Frame)
	case formatJSON:
		return heatmap.WriteJSON(out, view.Frame)
	default:
		_, err := fmt.Fprintln(out, heatmap.TerminalFrame(view.Frame))
		return err
	}
}
