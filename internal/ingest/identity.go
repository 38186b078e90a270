package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// identitySearchWindow bounds the header scan for lot and wafer fields.
const identitySearchWindow = 20

var (
	lotFromName   = regexp.MustCompile(`([A-Z0-9]+-\d+)`)
	waferFromName = regexp.MustCompile(`_(\d+)\.`)
)

// ResolveIdentity determines the lot and wafer identifiers for one file.
// Priority order: explicit header fields in the first lines, then filename
// patterns, then the parent directory name for the lot and wafer "01" as the
// final default. Numeric wafer numbers are zero-padded to two digits.
func ResolveIdentity(lines []string, path string) (lot, wafer string) {
	end := identitySearchWindow
	if end > len(lines) {
		end = len(lines)
	}
	var waferNum *int
	for _, line := range lines[:end] {
		upper := strings.ToUpper(line)
		parts := strings.Split(strings.TrimSpace(line), "\t")
		switch {
		case strings.Contains(line, "Lot number") || strings.Contains(upper, "LOT"):
			if lot == "" && len(parts) > 1 {
				lot = strings.TrimSpace(parts[1])
			}
		case strings.Contains(line, "Wafer number") || strings.Contains(upper, "WAFER"):
			if wafer == "" && len(parts) > 1 {
				raw := strings.TrimSpace(parts[1])
				if n, err := strconv.Atoi(raw); err == nil {
					waferNum = &n
				} else {
					wafer = raw
				}
			}
		}
	}

	base := filepath.Base(path)
	if lot == "" {
		if m := lotFromName.FindStringSubmatch(base); m != nil {
			lot = m[1]
		}
	}
	if wafer == "" && waferNum == nil {
		if m := waferFromName.FindStringSubmatch(base); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				waferNum = &n
			} else {
				wafer = m[1]
			}
		}
	}

	if lot == "" {
		lot = filepath.Base(filepath.Dir(path))
	}
	if wafer == "" {
		n := 1
		if waferNum != nil {
			n = *waferNum
		}
		wafer = fmt.Sprintf("%02d", n)
	}
	return lot, wafer
}
