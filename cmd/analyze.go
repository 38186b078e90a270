package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/waferlab/cpqa-cli/internal/dataset"
	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/ingest"
	"github.com/waferlab/cpqa-cli/internal/limits"
	"github.com/waferlab/cpqa-cli/internal/report"
	"github.com/waferlab/cpqa-cli/internal/stats"
	"github.com/waferlab/cpqa-cli/internal/units"
	"github.com/waferlab/cpqa-cli/internal/utils"
)

var (
	anaDataDir   string
	anaOutputDir string
	anaStrategy  string
	anaParams    []string
	anaQuiet     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [batch-dirs...]",
	Short: "Run the full pipeline over one or more batch directories",
	Long: `Analyze ingests every recognized log file in each batch directory,
normalizes units, applies the configured cleaning strategy, and writes
per-parameter JSON datasets plus a statistics summary under the output
directory. With no arguments, every subdirectory of the data directory
is treated as a batch. Batches that fail are skipped; the command fails
only when no batch succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, outDir := anaDataDir, anaOutputDir
		if cfg != nil {
			if !cmd.Flags().Changed("data-dir") {
				dataDir = cfg.DataDir
			}
			if !cmd.Flags().Changed("output-dir") {
				outDir = cfg.OutputDir
			}
			if !cmd.Flags().Changed("strategy") && cfg.CleanStrategy != "" {
				anaStrategy = cfg.CleanStrategy
			}
		}
		strategy, err := dataset.ParseStrategy(anaStrategy)
		if err != nil {
			return err
		}
		opts := dataset.DefaultOptions()
		if cfg != nil {
			opts = dataset.Options{
				ZThreshold: cfg.ZScoreThreshold,
				HighMult:   cfg.OutlierHighMult,
				LowMult:    cfg.OutlierLowMult,
			}
		}

		batches := args
		if len(batches) == 0 {
			batches, err = listBatchDirs(dataDir)
			if err != nil {
				return err
			}
		}
		if len(batches) == 0 {
			return fmt.Errorf("no batch directories found under %s", dataDir)
		}
		sort.Strings(batches)

		params := effectiveParams(cmd.Flags().Changed("params"))
		logger := newLogger()
		defer logger.Sync()

		idx, err := report.LoadIndex(outDir)
		if err != nil {
			return err
		}

		total := len(batches)
		var succeeded int
		for i, dir := range batches {
			if !anaQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(dir))
			}
			rep := diag.NewReporter(logger)
			sum, err := runBatch(dir, outDir, params, strategy, opts, rep)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: batch %s skipped: %v\n", filepath.Base(dir), err)
				continue
			}
			succeeded++
			warnings := 0
			for _, e := range rep.Events() {
				if e.Severity != diag.Info {
					warnings++
				}
			}
			idx.AddRun(report.Run{
				ID:          sum.RunID,
				Batch:       sum.Batch,
				Lot:         sum.Lot,
				Strategy:    anaStrategy,
				FilesFound:  sum.FilesFound,
				FilesUsable: sum.FilesUsable,
				Records:     sum.Records,
				WaferCount:  sum.WaferCount,
				OutputDir:   filepath.Join(outDir, sum.Batch),
				Warnings:    warnings,
			})
			if !anaQuiet {
				fmt.Printf("✓ %s: %d records, %d wafers, %d warnings\n", sum.Batch, sum.Records, sum.WaferCount, warnings)
			}
		}

		if succeeded == 0 {
			return fmt.Errorf("all %d batches failed", total)
		}
		if err := idx.Save(); err != nil {
			return fmt.Errorf("save run index: %w", err)
		}
		if !anaQuiet {
			fmt.Printf("Done: %d/%d batches analyzed, output in %s\n", succeeded, total, outDir)
		}
		return nil
	},
}

// runBatch executes the pipeline for a single batch directory.
func runBatch(dir, outDir string, params []string, strategy dataset.Strategy, opts dataset.Options, rep *diag.Reporter) (ingest.BatchSummary, error) {
	recs, agg, sum, err := ingest.IngestBatch(dir, params, rep)
	if err != nil {
		return sum, err
	}
	allParams := limits.WithExtensions(params)

	converted := units.Normalize(recs, agg, rep)
	if converted > 0 {
		rep.Infof(diag.StageNormalize, "", "batch %s: %d values rescaled by inference", sum.Batch, converted)
	}

	table := dataset.Clean(dataset.New(recs), agg, strategy, allParams, opts)

	batchOut := filepath.Join(outDir, sum.Batch)
	if _, err := dataset.ExportByParam(table, agg, allParams, batchOut, rep); err != nil {
		return sum, err
	}

	summaries := stats.DescribeAll(table, agg, allParams, rep)
	b, err := utils.PrettyJSON(summaries)
	if err != nil {
		return sum, err
	}
	if err := utils.SafeWriteFile(filepath.Join(batchOut, "statistics.json"), b); err != nil {
		return sum, err
	}

	sb, err := utils.PrettyJSON(sum)
	if err != nil {
		return sum, err
	}
	if err := utils.SafeWriteFile(filepath.Join(batchOut, "batch_summary.json"), sb); err != nil {
		return sum, err
	}
	return sum, nil
}

// effectiveParams resolves the parameter list from flag, config, and default.
func effectiveParams(flagSet bool) []string {
	if flagSet && len(anaParams) > 0 {
		return anaParams
	}
	if cfg != nil && len(cfg.TargetParams) > 0 {
		return append(append([]string{}, cfg.TargetParams...), cfg.ExtraParams...)
	}
	base := limits.TargetParams()
	if cfg != nil && len(cfg.ExtraParams) > 0 {
		base = append(base, cfg.ExtraParams...)
	}
	return base
}

// listBatchDirs returns the immediate subdirectories of dataDir.
func listBatchDirs(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(dataDir, e.Name()))
		}
	}
	return dirs, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaDataDir, "data-dir", "data", "directory whose subdirectories are batches")
	analyzeCmd.Flags().StringVarP(&anaOutputDir, "output-dir", "o", "output", "directory for exports and statistics")
	analyzeCmd.Flags().StringVarP(&anaStrategy, "strategy", "s", "standard", "cleaning strategy: standard | remove_outliers | smart")
	analyzeCmd.Flags().StringSliceVar(&anaParams, "params", nil, "override target parameter list")
	analyzeCmd.Flags().BoolVar(&anaQuiet, "quiet", false, "suppress progress output")
}
