package ingest

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/limits"
)

// sentinelInvalid is the literal some testers write for a failed measurement.
// Cells carrying it contribute no value.
const sentinelInvalid = "999.9"

// Record is one die's measurements: identity (lot, wafer, unit index) plus a
// value per target parameter actually present on that line. Values may be
// rewritten once by the unit normalizer; nothing else mutates a Record after
// extraction.
type Record struct {
	Lot    string
	Wafer  string
	Unit   int
	Values map[string]float64
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	vals := make(map[string]float64, len(r.Values))
	for k, v := range r.Values {
		vals[k] = v
	}
	return Record{Lot: r.Lot, Wafer: r.Wafer, Unit: r.Unit, Values: vals}
}

// ExtractFile parses one log file into measurement records and the limits it
// declares. A file whose structure cannot be located contributes zero records
// and a nil limit map; the error is recorded on rep and also returned so the
// caller can count the file as unusable.
func ExtractFile(path string, targetParams []string, rep *diag.Reporter) ([]Record, map[string]limits.Limit, error) {
	name := filepath.Base(path)
	lines, err := ReadLines(path)
	if err != nil {
		rep.Errorf(diag.StageTokenize, name, "unreadable file: %v", err)
		return nil, nil, err
	}
	lay, err := Tokenize(lines, targetParams)
	if err != nil {
		rep.Errorf(diag.StageTokenize, name, "structure not located: %v", err)
		return nil, nil, err
	}
	lot, wafer := ResolveIdentity(lines, path)

	fileLimits, paramUnits := parseLimitRows(lines, lay, targetParams, name, rep)
	recs := extractRecords(lines, lay, lot, wafer, targetParams, paramUnits)
	if len(recs) == 0 {
		rep.Warnf(diag.StageExtract, name, "no rows yielded a valid target value")
	}
	return recs, fileLimits, nil
}

// parseLimitRows builds the per-file limit map from the LimitU/LimitL rows
// and records each parameter's inferred unit for extraction-time correction.
func parseLimitRows(lines []string, lay Layout, targetParams []string, name string, rep *diag.Reporter) (map[string]limits.Limit, map[string]string) {
	fileLimits := make(map[string]limits.Limit)
	paramUnits := make(map[string]string)
	if lay.LimitURow < 0 || lay.LimitLRow < 0 {
		return fileLimits, paramUnits
	}
	upperCells := strings.Split(strings.TrimSpace(lines[lay.LimitURow]), "\t")
	lowerCells := strings.Split(strings.TrimSpace(lines[lay.LimitLRow]), "\t")

	for i, param := range lay.Params {
		if !isTarget(param, targetParams) {
			continue
		}
		upper, upperUnit := limits.ParseLimitToken(cellAt(upperCells, i), param)
		lower, _ := limits.ParseLimitToken(cellAt(lowerCells, i), param)
		if upper == nil && lower == nil {
			rep.ParamWarnf(diag.StageLimits, name, param, "limit tokens unparseable; limit unknown")
		}
		if upperUnit != "" {
			paramUnits[param] = upperUnit
		}
		fileLimits[param] = limits.Limit{Upper: upper, Lower: lower, Unit: upperUnit}
	}
	return fileLimits, paramUnits
}

// extractRecords walks the data body. A row is retained only when at least
// one target parameter yields a valid value; this is the single place rows
// are legitimately dropped rather than flagged.
func extractRecords(lines []string, lay Layout, lot, wafer string, targetParams []string, paramUnits map[string]string) []Record {
	colIndex := make(map[string]int, len(lay.Params))
	for i, p := range lay.Params {
		colIndex[p] = i
	}

	var recs []Record
	for i := lay.DataStartRow; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		if len(cells) < 3 || !isUint(strings.TrimSpace(cells[0])) {
			continue
		}
		unitIdx, _ := strconv.Atoi(strings.TrimSpace(cells[0]))
		rec := Record{Lot: lot, Wafer: wafer, Unit: unitIdx, Values: make(map[string]float64)}

		for _, param := range targetParams {
			col, ok := colIndex[param]
			if !ok || col >= len(cells) {
				continue
			}
			cell := strings.TrimSpace(cells[col])
			if cell == "" || strings.EqualFold(cell, sentinelInvalid) {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			rec.Values[param] = correctAtExtraction(v, param, paramUnits)
		}
		if len(rec.Values) > 0 {
			recs = append(recs, rec)
		}
	}
	return recs
}

// correctAtExtraction applies the per-parameter unit correction using the
// unit inferred from this file's own limit row (not the batch aggregate):
// plain-ohm or unit-less resistance readings are promoted to milli-ohms, and
// bare-ampere leakage readings to nano-amps (micro-amps for IDSS3). The unit
// map is re-tagged so later rows in the same file are not converted twice.
func correctAtExtraction(v float64, param string, paramUnits map[string]string) float64 {
	switch {
	case limits.IsResistanceParam(param):
		if u := paramUnits[param]; u == "ohm" || u == "" {
			paramUnits[param] = "mohm"
			return v * 1000
		}
	case param == "IDSS3":
		if paramUnits[param] == "a" {
			paramUnits[param] = "ua"
			return v * 1e6
		}
	case limits.IsLeakageParam(param):
		if paramUnits[param] == "a" {
			paramUnits[param] = "na"
			return v * 1e9
		}
	}
	return v
}

func isTarget(param string, targetParams []string) bool {
	for _, p := range targetParams {
		if p == param {
			return true
		}
	}
	return false
}

func cellAt(cells []string, i int) string {
	if len(cells) == 0 {
		return ""
	}
	if i >= len(cells) {
		i = len(cells) - 1
	}
	return cells[i]
}
