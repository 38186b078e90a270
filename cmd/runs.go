package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waferlab/cpqa-cli/internal/report"
)

var (
	runsOutputDir string
	runsLimit     int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past analysis runs recorded in the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := runsOutputDir
		if cfg != nil && !cmd.Flags().Changed("output-dir") {
			outDir = cfg.OutputDir
		}
		idx, err := report.LoadIndex(outDir)
		if err != nil {
			return err
		}
		runs := idx.ListRuns()
		if len(runs) == 0 {
			fmt.Println("(no runs)")
			return nil
		}
		if runsLimit > 0 && len(runs) > runsLimit {
			runs = runs[:runsLimit]
		}
		for _, r := range runs {
			id := r.ID
			if len(id) > 8 {
				id = id[:8]
			}
			fmt.Printf("- %s  %s  lot=%s  %d records / %d wafers  files %d/%d  warnings=%d  (%s)\n",
				r.CompletedAt.Format("2006-01-02 15:04"), r.Batch, r.Lot,
				r.Records, r.WaferCount, r.FilesUsable, r.FilesFound, r.Warnings, id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringVarP(&runsOutputDir, "output-dir", "o", "output", "output directory holding the run index")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 0, "show at most n most recent runs (0 = all)")
}
