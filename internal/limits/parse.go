package limits

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenRe extracts a leading numeric literal (plain or scientific) and a
// trailing unit suffix. The suffix class includes the Greek ohm and micro
// signs seen in prober exports; '-' is kept last so it is a literal member.
var tokenRe = regexp.MustCompile(`([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)([a-zA-ZΩμ-]*)`)

// ParseLimitToken parses a single limit-value cell such as "900.0V",
// "365.0mOHM" or "3.35E-002" into a numeric value and a lowercased unit
// string. Parameter-specific rule families take precedence over generic
// parsing. A nil value means the token could not be parsed; callers treat
// that as "limit unknown".
func ParseLimitToken(token, param string) (*float64, string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ""
	}

	if IsResistanceParam(param) {
		return parseResistanceLimit(token)
	}
	if IsLeakageParam(param) {
		return parseLeakageLimit(token, param)
	}

	// Bare scientific notation outside the special families parses as a
	// unitless float.
	if strings.ContainsAny(token, "eE") {
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			return f64(v), ""
		}
	}

	m := tokenRe.FindStringSubmatch(token)
	if m == nil {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, ""
		}
		return f64(v), ""
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, ""
	}
	unit := m[2]
	// A lone trailing "-" (e.g. "50.00-") is a sign marker on some testers,
	// not a unit; the value is positive.
	if unit == "-" && strings.HasSuffix(token, "-") {
		return f64(v), ""
	}
	return f64(v), strings.ToLower(unit)
}

// parseResistanceLimit handles the RDSON1 family. All spellings of ohm
// collapse to "mohm": milli-ohm values stay as-is, and plain-ohm values keep
// their numeric value unconverted. That asymmetry matches the extractor-side
// correction and is pinned by tests; see the unit normalizer for the
// post-hoc reconciliation pass.
func parseResistanceLimit(token string) (*float64, string) {
	m := tokenRe.FindStringSubmatch(token)
	if m == nil {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, ""
		}
		return f64(v), "mohm"
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, ""
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.Contains(unit, "mohm") || strings.Contains(unit, "mω"):
		return f64(v), "mohm"
	case strings.Contains(unit, "ohm") || strings.Contains(unit, "ω"):
		// Plain ohms: unit label normalized, numeric value left unconverted.
		return f64(v), "mohm"
	default:
		return f64(v), "mohm"
	}
}

// parseLeakageLimit handles the leakage-current set. Substring match priority
// is na > ua > ma > a; a token with no unit suffix defaults to nano-amps for
// the base set and micro-amps for IDSS3.
func parseLeakageLimit(token, param string) (*float64, string) {
	def := "na"
	if param == "IDSS3" {
		def = "ua"
	}
	m := tokenRe.FindStringSubmatch(token)
	if m == nil {
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, ""
		}
		return f64(v), def
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, ""
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.Contains(unit, "na"):
		return f64(v), "na"
	case strings.Contains(unit, "ua") || strings.Contains(unit, "μa"):
		return f64(v), "ua"
	case strings.Contains(unit, "ma"):
		return f64(v), "ma"
	case strings.Contains(unit, "a"):
		return f64(v), "a"
	default:
		return f64(v), def
	}
}
