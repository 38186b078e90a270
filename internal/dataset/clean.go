package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/waferlab/cpqa-cli/internal/limits"
)

// Strategy selects a cleaning pass. The set is closed: dispatch is by this
// enum, not by open-ended polymorphism.
type Strategy int

const (
	StrategyStandard Strategy = iota
	StrategyRemoveOutliers
	StrategySmartParameter
)

// ParseStrategy maps a config/CLI name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "standard":
		return StrategyStandard, nil
	case "remove_outliers":
		return StrategyRemoveOutliers, nil
	case "smart":
		return StrategySmartParameter, nil
	default:
		return StrategyStandard, fmt.Errorf("unknown cleaning strategy %q", name)
	}
}

// Default cleaning thresholds: values beyond defaultHighMult times the upper
// limit (or below defaultLowMult times the lower limit) are outliers; values
// merely beyond the limit are spec violations. Both are flagged, neither is
// removed. defaultZThreshold is the |z| cutoff for the statistical passes.
const (
	defaultHighMult   = 1.5
	defaultLowMult    = 0.5
	defaultZThreshold = 3.0
)

// Options carries the tunable cleaning thresholds. A zero field falls back
// to the package default, so Options{} and DefaultOptions() are equivalent.
type Options struct {
	ZThreshold float64
	HighMult   float64
	LowMult    float64
}

// DefaultOptions returns the built-in thresholds.
func DefaultOptions() Options {
	return Options{
		ZThreshold: defaultZThreshold,
		HighMult:   defaultHighMult,
		LowMult:    defaultLowMult,
	}
}

func (o Options) withDefaults() Options {
	if o.ZThreshold == 0 {
		o.ZThreshold = defaultZThreshold
	}
	if o.HighMult == 0 {
		o.HighMult = defaultHighMult
	}
	if o.LowMult == 0 {
		o.LowMult = defaultLowMult
	}
	return o
}

// Clean applies the selected strategy to a copy of the table. Every strategy
// is a pure function (table, limits) -> flagged table; rows are only ever
// marked. The returned table's row count equals the input's.
func Clean(t *Table, agg map[string]limits.Limit, strategy Strategy, params []string, opts Options) *Table {
	opts = opts.withDefaults()
	out := t.Clone()
	switch strategy {
	case StrategyRemoveOutliers:
		cleanZScore(out, params, opts.ZThreshold)
	case StrategySmartParameter:
		cleanSmart(out, agg, params, opts)
	default:
		cleanStandard(out, agg, params, opts)
	}
	return out
}

// cleanStandard flags spec violations and gross outliers against the
// aggregated limits.
func cleanStandard(t *Table, agg map[string]limits.Limit, params []string, opts Options) {
	for _, param := range params {
		lim := agg[param]
		for i, r := range t.Records {
			v, ok := r.Values[param]
			if !ok {
				continue
			}
			if lim.Upper != nil {
				switch {
				case v > *lim.Upper*opts.HighMult:
					t.Flags[i][param+"_outlier_high"] = true
				case v > *lim.Upper:
					t.Flags[i][param+"_spec_high"] = true
				}
			}
			if lim.Lower != nil {
				switch {
				case v < *lim.Lower*opts.LowMult:
					t.Flags[i][param+"_outlier_low"] = true
				case v < *lim.Lower:
					t.Flags[i][param+"_spec_low"] = true
				}
			}
		}
	}
}

// cleanZScore flags values whose z-score magnitude exceeds the threshold.
func cleanZScore(t *Table, params []string, threshold float64) {
	for _, param := range params {
		vals := t.ParamValues(param)
		m, sd := meanStd(vals)
		if sd == 0 {
			continue
		}
		for i, r := range t.Records {
			v, ok := r.Values[param]
			if !ok {
				continue
			}
			if math.Abs((v-m)/sd) > threshold {
				t.Flags[i][param+"_z_outlier"] = true
			}
		}
	}
}

// smartMethod picks the detection method suited to each parameter's
// distribution: spec-limit bounded, log-transformed z-score for the heavily
// skewed leakage currents, or plain statistical z-score.
var smartMethod = map[string]string{
	"BVDSS1":  "spec_limit",
	"BVDSS2":  "spec_limit",
	"DELTABV": "statistical",
	"IDSS1":   "log_transform",
	"VTH":     "spec_limit",
	"RDSON1":  "statistical",
	"VFSDS":   "spec_limit",
	"IGSS2":   "log_transform",
	"IGSSR2":  "log_transform",
	"IDSS2":   "log_transform",
	"IDSS3":   "log_transform",
}

func cleanSmart(t *Table, agg map[string]limits.Limit, params []string, opts Options) {
	for _, param := range params {
		switch smartMethod[param] {
		case "spec_limit":
			smartSpecLimit(t, param, agg[param], opts)
		case "log_transform":
			smartLogTransform(t, param, opts.ZThreshold)
		case "statistical":
			smartStatistical(t, param, opts.ZThreshold)
		}
	}
}

// smartSpecLimit bounds the outlier threshold by both the IQR fence and a
// multiple of the spec limit, taking whichever is tighter.
func smartSpecLimit(t *Table, param string, lim limits.Limit, opts Options) {
	vals := t.ParamValues(param)
	if len(vals) == 0 {
		return
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1

	if lim.Upper != nil {
		thr := math.Min(q3+3*iqr, *lim.Upper*opts.HighMult)
		for i, r := range t.Records {
			if v, ok := r.Values[param]; ok && v > thr {
				t.Flags[i][param+"_smart_outlier_high"] = true
			}
		}
	}
	if lim.Lower != nil {
		thr := math.Max(q1-3*iqr, *lim.Lower*opts.LowMult)
		for i, r := range t.Records {
			if v, ok := r.Values[param]; ok && v < thr {
				t.Flags[i][param+"_smart_outlier_low"] = true
			}
		}
	}
}

func smartLogTransform(t *Table, param string, threshold float64) {
	vals := t.ParamValues(param)
	logs := make([]float64, len(vals))
	for i, v := range vals {
		logs[i] = math.Log1p(math.Abs(v))
	}
	m, sd := meanStd(logs)
	if sd == 0 {
		return
	}
	for i, r := range t.Records {
		v, ok := r.Values[param]
		if !ok {
			continue
		}
		if math.Abs((math.Log1p(math.Abs(v))-m)/sd) > threshold {
			t.Flags[i][param+"_smart_log_outlier"] = true
		}
	}
}

func smartStatistical(t *Table, param string, threshold float64) {
	vals := t.ParamValues(param)
	m, sd := meanStd(vals)
	if sd == 0 {
		return
	}
	for i, r := range t.Records {
		v, ok := r.Values[param]
		if !ok {
			continue
		}
		if math.Abs((v-m)/sd) > threshold {
			t.Flags[i][param+"_smart_stat_outlier"] = true
		}
	}
}

func meanStd(vals []float64) (mean, std float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	if len(vals) < 2 {
		return mean, 0
	}
	var sum float64
	for _, v := range vals {
		d := v - mean
		sum += d * d
	}
	return mean, math.Sqrt(sum / float64(len(vals)-1))
}

// quantile interpolates linearly between order statistics of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
