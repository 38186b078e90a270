package ingest

import (
	"errors"
	"strings"
)

// Layout records where the structural rows of one log file sit. Row indices
// are zero-based into the slice returned by ReadLines. LimitURow and
// LimitLRow are -1 when the file carries no limit rows.
type Layout struct {
	HeaderRow    int
	LimitURow    int
	LimitLRow    int
	DataStartRow int
	// Params holds the tab-split header fields, trimmed, empties dropped.
	Params []string
}

// limitSearchWindow bounds how far below the header the limit rows are
// searched, keeping false positives in the data body out.
const limitSearchWindow = 10

var (
	ErrNoHeader    = errors.New("header row not found")
	ErrNoDataStart = errors.New("data start row not found")
)

// Tokenize locates the header row, the optional limit rows, and the first
// data row within the raw lines of a log file. targetParams is used for the
// fallback header heuristic when no anchor token is present.
func Tokenize(lines []string, targetParams []string) (Layout, error) {
	lay := Layout{LimitURow: -1, LimitLRow: -1}

	header := findHeaderRow(lines, targetParams)
	if header < 0 {
		return lay, ErrNoHeader
	}
	lay.HeaderRow = header
	lay.Params = splitFields(lines[header])

	end := header + 1 + limitSearchWindow
	if end > len(lines) {
		end = len(lines)
	}
	for i := header + 1; i < end; i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case strings.Contains(line, "LimitU") || strings.Contains(line, "USL"):
			if lay.LimitURow < 0 {
				lay.LimitURow = i
			}
		case strings.Contains(line, "LimitL") || strings.Contains(line, "LSL"):
			if lay.LimitLRow < 0 {
				lay.LimitLRow = i
			}
		}
	}

	lay.DataStartRow = findDataStart(lines, header)
	if lay.DataStartRow < 0 {
		return lay, ErrNoDataStart
	}
	return lay, nil
}

// findHeaderRow returns the first line carrying the unit-index anchor "No.U"
// or the X/Y/Bin coordinate trio, falling back to the first line whose
// tab-split fields include at least three target parameter names.
func findHeaderRow(lines []string, targetParams []string) int {
	for i, line := range lines {
		if strings.Contains(line, "No.U") {
			return i
		}
		if strings.Contains(line, "X") && strings.Contains(line, "Y") && strings.Contains(line, "Bin") {
			return i
		}
	}
	for i, line := range lines {
		fields := splitFields(line)
		n := 0
		for _, p := range targetParams {
			for _, f := range fields {
				if f == p {
					n++
					break
				}
			}
		}
		if n >= 3 {
			return i
		}
	}
	return -1
}

// findDataStart scans forward from just past the header for the first
// tab-delimited line with at least three fields whose leading field is a pure
// non-negative integer, which distinguishes a die index from labels, limit
// rows and bias settings.
func findDataStart(lines []string, header int) int {
	for i := header + 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.Contains(line, "LimitU") || strings.Contains(line, "LimitL") || strings.Contains(line, "Bias") {
			continue
		}
		if !strings.Contains(line, "\t") {
			continue
		}
		vals := strings.Split(line, "\t")
		if len(vals) >= 3 && isUint(strings.TrimSpace(vals[0])) {
			return i
		}
	}
	return -1
}

func splitFields(line string) []string {
	raw := strings.Split(strings.TrimSpace(line), "\t")
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func isUint(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
