// Package units re-derives each parameter's target unit from its aggregated
// limit and corrects extracted values whose magnitude says they were recorded
// in a different scale. Every magnitude threshold is a named constant so
// tests can pin exact band boundaries.
package units

import (
	"strings"

	"github.com/waferlab/cpqa-cli/internal/limits"
)

// Confidence grades an adjustment decision.
type Confidence int

const (
	// Exact: the value already sits in the target unit's expected band.
	Exact Confidence = iota
	// Inferred: the value was converted based on a magnitude heuristic.
	Inferred
	// Undetermined: the value fits no recognized band; it is returned
	// unchanged rather than silently scaled.
	Undetermined
)

// Resistance bands. A raw reading below ohmBandMax is taken to be in ohms,
// one inside [mohmBandMin, mohmBandMax) in milli-ohms, and anything larger in
// micro-ohms. A limit magnitude above mohmScaleLimit means the spec sheet is
// quoted in milli-ohms.
const (
	ohmBandMax     = 1.0
	mohmBandMin    = 1.0
	mohmBandMax    = 1000.0
	mohmScaleLimit = 5.0
)

// Leakage bands, in the target (nano- or micro-amp) scale.
const (
	ampBandMax       = 1e-6
	microBandMax     = 1e-3
	leakPlausibleMin = 0.1
	leakPlausibleMax = 1000.0
)

// Voltage heuristics. With no usable unit suffix on the limit, a
// limit-to-value ratio inside (voltRatioMin, voltRatioMax) marks a value
// recorded in volts against a millivolt limit, and the inverse window marks
// the opposite. Outside both windows the unit is undetermined.
const (
	voltsSmallMax   = 10.0
	mvLargeMin      = 100.0
	voltRatioMin    = 500.0
	voltRatioMax    = 2000.0
	invVoltRatioMin = 0.0005
	invVoltRatioMax = 0.002
)

// TargetUnit derives the unit a parameter's values should end up in from its
// aggregated batch-level limit. The empty string means no target could be
// determined (unknown parameter or missing limit).
func TargetUnit(param string, lim limits.Limit) string {
	switch {
	case limits.IsResistanceParam(param):
		if lim.Upper != nil && *lim.Upper > mohmScaleLimit {
			return "mohm"
		}
		if strings.Contains(strings.ToLower(lim.Unit), "mohm") {
			return "mohm"
		}
		return "ohm"
	case param == "IDSS3":
		return "ua"
	case limits.IsLeakageParam(param):
		return "na"
	case limits.IsVoltageParam(param):
		if strings.Contains(strings.ToLower(lim.Unit), "mv") {
			return "mv"
		}
		return "v"
	default:
		return ""
	}
}

// Adjust decides, from magnitude alone, whether value was recorded in a unit
// other than the target and converts it if so. It is a pure function; the
// bands are chosen so a correctly scaled value is Exact and a second
// application is a no-op.
func Adjust(value float64, param string, lim limits.Limit) (float64, Confidence) {
	switch {
	case limits.IsResistanceParam(param):
		return adjustResistance(value, lim)
	case param == "IDSS3":
		return adjustLeakage(value, 1e6)
	case limits.IsLeakageParam(param):
		return adjustLeakage(value, 1e9)
	case limits.IsVoltageParam(param):
		return adjustVoltage(value, lim)
	default:
		return value, Undetermined
	}
}

func adjustResistance(value float64, lim limits.Limit) (float64, Confidence) {
	toMohm := TargetUnit("RDSON1", lim) == "mohm"
	switch {
	case value < ohmBandMax:
		if toMohm {
			converted := value * 1000
			if converted < mohmBandMin {
				// Too small even for an ohm reading; converting would
				// leave it in a conversion band and it would rescale
				// again on the next pass.
				return value, Undetermined
			}
			return converted, Inferred // ohm -> mohm
		}
		return value, Exact
	case value < mohmBandMax:
		if !toMohm {
			return value / 1000, Inferred // mohm -> ohm
		}
		return value, Exact
	default:
		// Micro-ohm scale readings from a misconfigured tester.
		if toMohm {
			converted := value / 1000
			if converted >= mohmBandMax {
				return value, Undetermined
			}
			return converted, Inferred
		}
		converted := value / 1e6
		if converted >= ohmBandMax {
			return value, Undetermined
		}
		return converted, Inferred
	}
}

// adjustLeakage converts bare-ampere or micro-scale readings up to the target
// scale; scale is 1e9 for nano-amp targets and 1e6 for micro-amp targets.
func adjustLeakage(value float64, scale float64) (float64, Confidence) {
	switch {
	case value < ampBandMax:
		converted := value * scale
		if converted < ampBandMax || (scale == 1e9 && converted < microBandMax) {
			// A reading this far below the ampere band has no
			// recognizable scale; converting it would land back in a
			// conversion band and compound on the next pass.
			return value, Undetermined
		}
		return converted, Inferred // amperes -> target
	case scale == 1e9 && value < microBandMax:
		return value * 1000, Inferred // micro -> nano
	case value >= leakPlausibleMin && value <= leakPlausibleMax:
		return value, Exact
	default:
		return value, Undetermined
	}
}

func adjustVoltage(value float64, lim limits.Limit) (float64, Confidence) {
	if lim.Upper == nil {
		return value, Undetermined
	}
	limitVal := *lim.Upper
	toMv := strings.Contains(strings.ToLower(lim.Unit), "mv")

	if toMv && value < voltsSmallMax && limitVal > mvLargeMin {
		if converted := value * 1000; converted >= voltsSmallMax {
			return converted, Inferred // volts -> millivolts
		}
	}
	if !toMv && value > mvLargeMin && limitVal < voltsSmallMax {
		if converted := value / 1000; converted <= mvLargeMin {
			return converted, Inferred // millivolts -> volts
		}
	}
	if limitVal > 0 && value > 0 {
		ratio := limitVal / value
		if ratio > voltRatioMin && ratio < voltRatioMax && !toMv {
			return value * 1000, Inferred
		}
		if ratio > invVoltRatioMin && ratio < invVoltRatioMax && toMv {
			return value / 1000, Inferred
		}
		// Ratio near 1 means value and limit already share a scale.
		if ratio >= invVoltRatioMax && ratio <= voltRatioMin {
			return value, Exact
		}
	}
	return value, Undetermined
}
