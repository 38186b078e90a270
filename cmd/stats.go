package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waferlab/cpqa-cli/internal/dataset"
	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/ingest"
	"github.com/waferlab/cpqa-cli/internal/limits"
	"github.com/waferlab/cpqa-cli/internal/stats"
	"github.com/waferlab/cpqa-cli/internal/units"
	"github.com/waferlab/cpqa-cli/internal/utils"
)

var (
	stParams []string
	stParam  string
)

var statsCmd = &cobra.Command{
	Use:   "stats <batch-dir>",
	Short: "Compute descriptive statistics for one batch without exporting",
	Long: `Stats runs ingestion and unit normalization on a single batch
directory and prints the per-parameter statistics as JSON to stdout.
No files are written and no cleaning flags are applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := effectiveParams(false)
		if cmd.Flags().Changed("params") && len(stParams) > 0 {
			params = stParams
		}

		logger := newLogger()
		defer logger.Sync()
		rep := diag.NewReporter(logger)

		recs, agg, _, err := ingest.IngestBatch(args[0], params, rep)
		if err != nil {
			return err
		}
		units.Normalize(recs, agg, rep)

		table := dataset.New(recs)
		allParams := limits.WithExtensions(params)
		if stParam != "" {
			allParams = []string{stParam}
		}
		summaries := stats.DescribeAll(table, agg, allParams, rep)
		if len(summaries) == 0 {
			return fmt.Errorf("no usable values for requested parameters")
		}
		b, err := utils.PrettyJSON(summaries)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringSliceVar(&stParams, "params", nil, "override target parameter list")
	statsCmd.Flags().StringVarP(&stParam, "param", "P", "", "summarize a single parameter")
}
