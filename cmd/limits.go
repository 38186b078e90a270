package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/ingest"
	"github.com/waferlab/cpqa-cli/internal/utils"
)

var (
	limJSON   bool
	limParams []string
)

var limitsCmd = &cobra.Command{
	Use:   "limits <batch-dir>",
	Short: "Show the aggregated spec limits for a batch",
	Long: `Limits scans a batch directory, parses the limit rows of every log
file, and prints the merged per-parameter limits after default filling.
Useful for checking how inconsistent files reconcile before a full run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := effectiveParams(false)
		if cmd.Flags().Changed("params") && len(limParams) > 0 {
			params = limParams
		}

		logger := newLogger()
		defer logger.Sync()
		rep := diag.NewReporter(logger)

		_, agg, _, err := ingest.IngestBatch(args[0], params, rep)
		if err != nil && agg == nil {
			return err
		}

		if limJSON {
			b, err := utils.PrettyJSON(agg)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}

		names := make([]string, 0, len(agg))
		for p := range agg {
			names = append(names, p)
		}
		sort.Strings(names)
		for _, p := range names {
			lim := agg[p]
			fmt.Printf("%-10s upper=%s lower=%s unit=%s\n", p, fmtLimit(lim.Upper), fmtLimit(lim.Lower), lim.Unit)
		}
		return nil
	},
}

func fmtLimit(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

func init() {
	rootCmd.AddCommand(limitsCmd)
	limitsCmd.Flags().BoolVar(&limJSON, "json", false, "print limits as JSON")
	limitsCmd.Flags().StringSliceVar(&limParams, "params", nil, "override target parameter list")
}
