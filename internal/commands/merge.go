package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mwiater/k6merge/internal/input"
	"github.com/mwiater/k6merge/internal/logging"
	"github.com/mwiater/k6merge/internal/merge"
	"github.com/mwiater/k6merge/internal/output"
	"github.com/mwiater/k6merge/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	mergeOutputPath string
	successLine     = color.New(color.FgGreen).SprintFunc()
)

// mergeCmd merges worker summaries into one document.
var mergeCmd = &cobra.Command{
	Use:         "merge [files...]",
	Annotations: documentInput,
	Short:       "Merge k6 summary exports into one document",
	Long: `Read k6 summary documents and write a single merged document.

With no arguments a JSON array of documents is read from stdin. Each file argument may hold one
document (as written by --summary-export) or an array of them. Counts are summed, min and max are
global, averages and percentiles are averaged across documents, gauges are summed, and counter
rates are recomputed from the longest run duration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		format, err := cfg.OutputFormat()
		if err != nil {
			return err
		}

		merged, sources, err := mergeFromArgs(cmd, args)
		if err != nil {
			return err
		}

		data, err := output.EncodeDocument(merged, output.Options{Format: format, Compact: cfg.Compact})
		if err != nil {
			return err
		}

		if mergeOutputPath == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(mergeOutputPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", mergeOutputPath, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successLine(fmt.Sprintf("merged %d documents (%d metrics) into %s",
			sources, merged.Metrics.Len(), mergeOutputPath)))
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutputPath, "output", "o", "", "write the merged document here instead of stdout")
	mergeCmd.Flags().String("format", "", "output format: json or yaml (default json)")
	mergeCmd.Flags().Bool("compact", false, "write JSON on a single line")

	_ = viper.BindPFlag("format", mergeCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("compact", mergeCmd.Flags().Lookup("compact"))

	rootCmd.AddCommand(mergeCmd)
}

// mergeFromArgs reads documents from files, or from stdin when no files are given, and merges them.
func mergeFromArgs(cmd *cobra.Command, args []string) (report.Document, int, error) {
	log := logging.Logger()

	var (
		docs []report.Document
		err  error
	)
	if len(args) == 0 {
		docs, err = input.ReadBatch(cmd.InOrStdin())
	} else {
		docs, err = input.NewLoader(log, GetConfig().LoadConcurrency()).LoadFiles(cmd.Context(), args)
	}
	if err != nil {
		return report.Document{}, 0, err
	}

	return merge.NewMerger(log).Merge(docs), len(docs), nil
}
