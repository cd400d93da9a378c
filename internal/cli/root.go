package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the asakatsu command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "asakatsu",
		Short: "Morning activity dashboard backed by Toggl Track",
		Long: `asakatsu aggregates Toggl time entries into daily totals per category and
shows them as calendar heatmaps, next to a map of the countries your
language teachers come from.

Examples:
  asakatsu serve                      # Start the web dashboard on $PORT
  asakatsu year --ago 1               # Print last year's heatmaps
  asakatsu year --format csv > y.csv  # Export this year's daily totals
  asakatsu token set                  # Store the Toggl API token in the OS keyring`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			LoadEnvFile()
		},
	}
	root.AddCommand(newServeCommand(), newYearCommand(), newTokenCommand())
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
