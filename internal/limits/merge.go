package limits

// Merge folds the limits discovered in one file into the batch-level
// aggregate. The first file to supply a non-null field for a parameter wins;
// later files only fill fields that are still open. Callers must invoke Merge
// in a deterministic file order (sorted by filename) so the "first wins"
// outcome does not depend on directory iteration order.
func Merge(agg, file map[string]Limit) {
	for param, lim := range file {
		cur, ok := agg[param]
		if !ok {
			agg[param] = lim
			continue
		}
		if cur.Upper == nil && lim.Upper != nil {
			cur.Upper = lim.Upper
		}
		if cur.Lower == nil && lim.Lower != nil {
			cur.Lower = lim.Lower
		}
		if cur.Unit == "" && lim.Unit != "" {
			cur.Unit = lim.Unit
		}
		agg[param] = cur
	}
}
