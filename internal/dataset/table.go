// Package dataset holds the cleaned measurement table: every extracted
// record plus per-record, per-parameter quality flags. Cleaning marks rows,
// it never deletes them, so a cleaned table always has at least as many rows
// as the raw extraction it came from.
package dataset

import (
	"sort"

	"github.com/waferlab/cpqa-cli/internal/ingest"
)

// Flags is the set of quality markers attached to one record, keyed by
// flag name ("RDSON1_outlier_high", "VTH_spec_low", ...).
type Flags map[string]bool

// Table pairs records with their flags. Records and Flags are parallel
// slices; Flags[i] belongs to Records[i].
type Table struct {
	Records []ingest.Record
	Flags   []Flags
}

// New builds a table over the given records with empty flag sets.
func New(recs []ingest.Record) *Table {
	t := &Table{
		Records: recs,
		Flags:   make([]Flags, len(recs)),
	}
	for i := range t.Flags {
		t.Flags[i] = make(Flags)
	}
	return t
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Records) }

// Clone deep-copies the table so strategies can stay pure.
func (t *Table) Clone() *Table {
	out := &Table{
		Records: make([]ingest.Record, len(t.Records)),
		Flags:   make([]Flags, len(t.Flags)),
	}
	for i, r := range t.Records {
		out.Records[i] = r.Clone()
	}
	for i, f := range t.Flags {
		nf := make(Flags, len(f))
		for k, v := range f {
			nf[k] = v
		}
		out.Flags[i] = nf
	}
	return out
}

// ParamValues returns the non-missing values of one parameter in row order.
func (t *Table) ParamValues(param string) []float64 {
	var vals []float64
	for _, r := range t.Records {
		if v, ok := r.Values[param]; ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// Wafers returns the distinct wafer ids in sorted order. Wafer ids are
// zero-padded at ingestion, so lexicographic order is numeric order.
func (t *Table) Wafers() []string {
	seen := make(map[string]bool)
	for _, r := range t.Records {
		seen[r.Wafer] = true
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// WaferValues returns the non-missing values of one parameter for one wafer.
func (t *Table) WaferValues(param, wafer string) []float64 {
	var vals []float64
	for _, r := range t.Records {
		if r.Wafer != wafer {
			continue
		}
		if v, ok := r.Values[param]; ok {
			vals = append(vals, v)
		}
	}
	return vals
}
