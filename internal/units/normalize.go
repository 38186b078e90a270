package units

import (
	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/ingest"
	"github.com/waferlab/cpqa-cli/internal/limits"
)

// Normalize runs the post-hoc unit correction over every record against the
// batch-level aggregated limits, in place. This is the one sanctioned
// mutation of extracted records. The pass is idempotent: values already in
// their target band are Exact and untouched, so a second run is a no-op.
// Returns the number of values converted.
func Normalize(recs []ingest.Record, agg map[string]limits.Limit, rep *diag.Reporter) int {
	converted := 0
	undetermined := make(map[string]int)

	for i := range recs {
		for param, v := range recs[i].Values {
			lim, ok := agg[param]
			if !ok {
				continue
			}
			// Parameters outside the recognized unit families (VTH and any
			// caller-supplied extras) are never rescaled and never flagged.
			if TargetUnit(param, lim) == "" {
				continue
			}
			adj, conf := Adjust(v, param, lim)
			switch conf {
			case Inferred:
				if adj != v {
					recs[i].Values[param] = adj
					converted++
				}
			case Undetermined:
				undetermined[param]++
			}
		}
	}

	for param, n := range undetermined {
		rep.ParamWarnf(diag.StageNormalize, "", param, "%d values outside all recognized unit bands; left unchanged", n)
	}
	if converted > 0 {
		rep.Infof(diag.StageNormalize, "", "converted %d values to their target units", converted)
	}
	return converted
}
