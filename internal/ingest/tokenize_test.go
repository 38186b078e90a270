package ingest

import (
	"strings"
	"testing"
)

var fullLog = []string{
	"Lot number\tAB123-45",
	"Wafer number\t3",
	"",
	"No.U\tX\tY\tBin\tBVDSS1\tRDSON1\tIDSS1\tVTH",
	"LimitU\t\t\t\t900.0V\t365.0mOHM\t250.0nA\t4.00V",
	"LimitL\t\t\t\t660.0V\t100.0mOHM\t0.00nA\t3.00V",
	"Bias\t\t\t\t100uA\t25A\t800V\t250uA",
	"1\t0\t0\t1\t756.3\t183.2\t12.5\t3.52",
	"2\t0\t1\t1\t749.8\t999.9\t10.1\t3.48",
	"3\t1\t0\t1\t999.9\t999.9\t999.9\t999.9",
}

var testParams = []string{"BVDSS1", "RDSON1", "IDSS1", "VTH", "IGSS2"}

func TestTokenizeFullLayout(t *testing.T) {
	lay, err := Tokenize(fullLog, testParams)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if lay.HeaderRow != 3 {
		t.Fatalf("header row = %d, want 3", lay.HeaderRow)
	}
	if lay.LimitURow != 4 || lay.LimitLRow != 5 {
		t.Fatalf("limit rows = %d/%d, want 4/5", lay.LimitURow, lay.LimitLRow)
	}
	// The bias row sits between the limits and the data and must be skipped.
	if lay.DataStartRow != 7 {
		t.Fatalf("data start = %d, want 7", lay.DataStartRow)
	}
	want := []string{"No.U", "X", "Y", "Bin", "BVDSS1", "RDSON1", "IDSS1", "VTH"}
	if len(lay.Params) != len(want) {
		t.Fatalf("params = %v, want %v", lay.Params, want)
	}
	for i, p := range want {
		if lay.Params[i] != p {
			t.Fatalf("params[%d] = %q, want %q", i, lay.Params[i], p)
		}
	}
}

func TestTokenizeHeaderFallback(t *testing.T) {
	lines := []string{
		"some preamble",
		"BVDSS1\tRDSON1\tVTH\tIDSS1",
		"1\t750.1\t180.0\t3.5",
	}
	lay, err := Tokenize(lines, testParams)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if lay.HeaderRow != 1 {
		t.Fatalf("header row = %d, want 1", lay.HeaderRow)
	}
	if lay.LimitURow != -1 || lay.LimitLRow != -1 {
		t.Fatalf("limit rows = %d/%d, want -1/-1", lay.LimitURow, lay.LimitLRow)
	}
}

func TestTokenizeNoHeader(t *testing.T) {
	lines := []string{"free text", "more text", ""}
	if _, err := Tokenize(lines, testParams); err != ErrNoHeader {
		t.Fatalf("err = %v, want ErrNoHeader", err)
	}
}

func TestTokenizeNoData(t *testing.T) {
	lines := []string{
		"No.U\tX\tY\tBin\tBVDSS1",
		"LimitU\t\t\t\t900.0V",
		"LimitL\t\t\t\t660.0V",
	}
	if _, err := Tokenize(lines, testParams); err != ErrNoDataStart {
		t.Fatalf("err = %v, want ErrNoDataStart", err)
	}
}

func TestResolveIdentityHeaderFields(t *testing.T) {
	lot, wafer := ResolveIdentity(fullLog, "/data/XYZ/whatever.txt")
	if lot != "AB123-45" {
		t.Fatalf("lot = %q, want AB123-45", lot)
	}
	if wafer != "03" {
		t.Fatalf("wafer = %q, want 03", wafer)
	}
}

func TestResolveIdentityFilename(t *testing.T) {
	lines := []string{"No.U\tX\tY\tBin\tVTH", "1\t0\t0\t1\t3.5"}
	lot, wafer := ResolveIdentity(lines, "/data/batch9/CD456-78_2.txt")
	if lot != "CD456-78" {
		t.Fatalf("lot = %q, want CD456-78", lot)
	}
	if wafer != "02" {
		t.Fatalf("wafer = %q, want 02", wafer)
	}
}

func TestResolveIdentityDirFallback(t *testing.T) {
	lines := []string{"No.U\tX\tY\tBin\tVTH"}
	lot, wafer := ResolveIdentity(lines, "/data/batch_o7/readings.txt")
	if lot != "batch_o7" {
		t.Fatalf("lot = %q, want batch_o7", lot)
	}
	if wafer != "01" {
		t.Fatalf("wafer = %q, want 01", wafer)
	}
}

func TestIsUint(t *testing.T) {
	for _, s := range []string{"0", "1", "042"} {
		if !isUint(s) {
			t.Fatalf("isUint(%q) = false", s)
		}
	}
	for _, s := range []string{"", "-1", "1.5", "1e3", "x"} {
		if isUint(s) {
			t.Fatalf("isUint(%q) = true", s)
		}
	}
}

func TestSplitFieldsDropsEmpties(t *testing.T) {
	got := splitFields(" A\t\tB \tC\t")
	if strings.Join(got, ",") != "A,B,C" {
		t.Fatalf("splitFields = %v", got)
	}
}
