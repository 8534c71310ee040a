package commands

import (
	"github.com/mwiater/k6merge/internal/output"
	"github.com/spf13/cobra"
)

// summaryCmd prints a table of the merged metrics instead of the document.
var summaryCmd = &cobra.Command{
	Use:         "summary [files...]",
	Annotations: documentInput,
	Short:       "Print a table of merged metrics",
	Long: `Merge k6 summary documents exactly like 'merge' does, then print one row per metric
with its type and merged values. Input is read from files or, with no arguments, from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		merged, _, err := mergeFromArgs(cmd, args)
		if err != nil {
			return err
		}
		return output.WriteSummary(cmd.OutOrStdout(), merged)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
