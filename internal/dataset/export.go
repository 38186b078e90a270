package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/limits"
	"github.com/waferlab/cpqa-cli/internal/utils"
)

// ExportByParam writes one JSON array document per parameter into dir:
// every record carrying a value for that parameter becomes an object
// {Lot, Wafer, No.U, <param>, LimitU, LimitL, Unit}. Parameters with no
// valid data are skipped and reported. Returns the written paths by
// parameter name.
func ExportByParam(t *Table, agg map[string]limits.Limit, params []string, dir string, rep *diag.Reporter) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir export dir: %w", err)
	}

	paths := make(map[string]string)
	for _, param := range params {
		lim := agg[param]
		var docs []map[string]any
		for _, r := range t.Records {
			v, ok := r.Values[param]
			if !ok {
				continue
			}
			// Limit fields are always present; a missing bound or unit
			// is an explicit null so every document shares one shape.
			var unit any
			if lim.Unit != "" {
				unit = lim.Unit
			}
			docs = append(docs, map[string]any{
				"Lot":    r.Lot,
				"Wafer":  r.Wafer,
				"No.U":   r.Unit,
				param:    v,
				"LimitU": lim.Upper,
				"LimitL": lim.Lower,
				"Unit":   unit,
			})
		}
		if len(docs) == 0 {
			rep.ParamWarnf(diag.StageExport, "", param, "no valid data; export skipped")
			continue
		}
		b, err := utils.PrettyJSON(docs)
		if err != nil {
			return nil, fmt.Errorf("marshal %s export: %w", param, err)
		}
		path := filepath.Join(dir, param+"_data.json")
		if err := utils.SafeWriteFile(path, b); err != nil {
			return nil, fmt.Errorf("write %s export: %w", param, err)
		}
		paths[param] = path
	}
	return paths, nil
}
