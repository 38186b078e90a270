// Package limits parses and aggregates per-parameter specification limits
// found in CP test log files.
package limits

// Limit holds the specification bounds for one test parameter. A nil Upper or
// Lower means no file supplied that bound yet; FillDefaults resolves the gap
// for the well-known parameters.
type Limit struct {
	Upper *float64 `json:"upper"`
	Lower *float64 `json:"lower"`
	Unit  string   `json:"unit,omitempty"`
}

// targetParams is the canonical set of CP test parameters this tool tracks.
// IDSS3 is an extension parameter carried by some probers and is always
// appended when absent.
var targetParams = []string{
	"BVDSS1", "BVDSS2", "DELTABV", "IDSS1", "VTH",
	"RDSON1", "VFSDS", "IGSS2", "IGSSR2", "IDSS2",
}

// TargetParams returns the default target parameter list including the IDSS3
// extension. The returned slice is a copy.
func TargetParams() []string {
	out := make([]string, len(targetParams), len(targetParams)+1)
	copy(out, targetParams)
	return append(out, "IDSS3")
}

// WithExtensions appends IDSS3 to a caller-supplied parameter list when it is
// missing, matching the prober convention of reporting IDSS3 alongside the
// base leakage set.
func WithExtensions(params []string) []string {
	for _, p := range params {
		if p == "IDSS3" {
			return params
		}
	}
	out := make([]string, len(params), len(params)+1)
	copy(out, params)
	return append(out, "IDSS3")
}

// leakageParams is the closed set of leakage-current parameters that carry
// ampere-family units.
var leakageParams = map[string]bool{
	"IDSS1":  true,
	"IDSS2":  true,
	"IGSS2":  true,
	"IGSSR2": true,
	"IDSS3":  true,
}

// IsLeakageParam reports whether p is one of the leakage-current parameters.
func IsLeakageParam(p string) bool { return leakageParams[p] }

// IsResistanceParam reports whether p is the on-resistance parameter measured
// in the milli-ohm family.
func IsResistanceParam(p string) bool { return p == "RDSON1" }

// voltageParams is the set of voltage-family parameters subject to the
// volts-vs-millivolts inference in the unit normalizer.
var voltageParams = map[string]bool{
	"VFSDS":   true,
	"BVDSS1":  true,
	"BVDSS2":  true,
	"DELTABV": true,
}

// IsVoltageParam reports whether p belongs to the voltage family.
func IsVoltageParam(p string) bool { return voltageParams[p] }

func f64(v float64) *float64 { return &v }
