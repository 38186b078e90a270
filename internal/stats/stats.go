// Package stats computes descriptive statistics over cleaned CP-test
// datasets, overall and broken down by wafer.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/waferlab/cpqa-cli/internal/dataset"
	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/limits"
)

// Moments holds the descriptive statistics for one group of values.
type Moments struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
	Q10    float64 `json:"q10"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Q90    float64 `json:"q90"`

	UpperLimit *float64 `json:"limit_upper,omitempty"`
	LowerLimit *float64 `json:"limit_lower,omitempty"`
	Unit       string   `json:"unit,omitempty"`
}

// Summary is the per-parameter result: overall moments plus a per-wafer
// breakdown keyed by wafer id.
type Summary struct {
	Param   string              `json:"param"`
	Overall *Moments            `json:"overall"`
	ByWafer map[string]*Moments `json:"by_wafer"`
}

// Describe computes a Summary for one parameter. Cleaning flags are
// carried alongside the values, not applied here; callers that want
// flagged rows excluded filter the table first. Returns nil when the
// parameter has no usable values anywhere in the table.
func Describe(t *dataset.Table, param string, lim limits.Limit, rep *diag.Reporter) *Summary {
	vals := t.ParamValues(param)
	if len(vals) == 0 {
		rep.ParamWarnf(diag.StageStats, "", param, "no usable values; summary omitted")
		return nil
	}

	overall := describeValues(vals)
	overall.UpperLimit = lim.Upper
	overall.LowerLimit = lim.Lower
	overall.Unit = lim.Unit

	s := &Summary{Param: param, Overall: overall}
	wafers := t.Wafers()
	s.ByWafer = make(map[string]*Moments, len(wafers))
	for _, w := range wafers {
		wv := t.WaferValues(param, w)
		if len(wv) == 0 {
			continue
		}
		s.ByWafer[w] = describeValues(wv)
	}
	return s
}

// DescribeAll computes summaries for every parameter in params, keeping
// the input order. Parameters with no data are skipped.
func DescribeAll(t *dataset.Table, agg map[string]limits.Limit, params []string, rep *diag.Reporter) []*Summary {
	var out []*Summary
	for _, p := range params {
		if s := Describe(t, p, agg[p], rep); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func describeValues(vals []float64) *Moments {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	m := &Moments{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q10:    quantile(sorted, 0.10),
		Q25:    quantile(sorted, 0.25),
		Q50:    quantile(sorted, 0.50),
		Q75:    quantile(sorted, 0.75),
		Q90:    quantile(sorted, 0.90),
	}
	m.Median = m.Q50
	m.Range = m.Max - m.Min
	if len(sorted) > 1 {
		m.Std = stat.StdDev(sorted, nil)
	}
	return m
}

// quantile computes the q-th quantile of sorted values using linear
// interpolation between the two nearest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
