package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/limits"
)

// BatchSummary describes one batch ingestion run.
type BatchSummary struct {
	RunID       string `json:"run_id"`
	Batch       string `json:"batch"`
	Lot         string `json:"lot"`
	FilesFound  int    `json:"files_found"`
	FilesUsable int    `json:"files_usable"`
	Records     int    `json:"records"`
	WaferCount  int    `json:"wafer_count"`
}

// IngestBatch runs the full ingestion of one batch directory: scan, a limits
// pass over every file (merged first-non-null-wins in sorted file order, then
// default-filled), and a record pass. A file that fails any stage contributes
// nothing and processing continues; a batch with zero usable files is an
// error the caller may skip without aborting the run.
func IngestBatch(dir string, targetParams []string, rep *diag.Reporter) ([]Record, map[string]limits.Limit, BatchSummary, error) {
	targetParams = limits.WithExtensions(targetParams)
	sum := BatchSummary{RunID: uuid.NewString(), Batch: filepath.Base(dir)}

	paths, err := ScanBatch(dir, targetParams, rep)
	if err != nil {
		return nil, nil, sum, fmt.Errorf("scan batch %s: %w", dir, err)
	}
	sum.FilesFound = len(paths)
	if len(paths) == 0 {
		return nil, nil, sum, fmt.Errorf("no log files found in %s", dir)
	}

	// Limits pass first so extraction-time corrections in the record pass can
	// never observe a partially merged aggregate.
	agg := make(map[string]limits.Limit)
	type parsed struct {
		recs []Record
		lims map[string]limits.Limit
	}
	byFile := make(map[string]parsed, len(paths))
	for _, path := range paths {
		recs, fileLims, err := ExtractFile(path, targetParams, rep)
		if err != nil {
			continue
		}
		byFile[path] = parsed{recs: recs, lims: fileLims}
		limits.Merge(agg, fileLims)
	}
	limits.FillDefaults(agg, targetParams)

	var all []Record
	wafers := make(map[string]bool)
	for _, path := range paths {
		p, ok := byFile[path]
		if !ok || len(p.recs) == 0 {
			continue
		}
		sum.FilesUsable++
		all = append(all, p.recs...)
		for _, r := range p.recs {
			wafers[r.Wafer] = true
		}
	}
	sum.Records = len(all)
	sum.WaferCount = len(wafers)
	if len(all) > 0 {
		sum.Lot = all[0].Lot
	}

	if len(all) == 0 {
		return nil, agg, sum, fmt.Errorf("no usable files in batch %s", dir)
	}
	rep.Infof(diag.StageExtract, "", "batch %s: %d records from %d/%d files", sum.Batch, sum.Records, sum.FilesUsable, sum.FilesFound)
	return all, agg, sum, nil
}
