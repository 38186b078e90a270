package units

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/waferlab/cpqa-cli/internal/diag"
	"github.com/waferlab/cpqa-cli/internal/ingest"
	"github.com/waferlab/cpqa-cli/internal/limits"
)

func f64(v float64) *float64 { return &v }

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
		t.Fatalf("value = %v, want %v", got, want)
	}
}

func TestTargetUnit(t *testing.T) {
	cases := []struct {
		param string
		lim   limits.Limit
		want  string
	}{
		{"RDSON1", limits.Limit{Upper: f64(365.0), Unit: "mohm"}, "mohm"},
		{"RDSON1", limits.Limit{Upper: f64(0.365)}, "ohm"},
		{"RDSON1", limits.Limit{Upper: f64(0.365), Unit: "mohm"}, "mohm"},
		{"IDSS1", limits.Limit{Unit: "a"}, "na"},
		{"IDSS3", limits.Limit{}, "ua"},
		{"BVDSS1", limits.Limit{Unit: "v"}, "v"},
		{"BVDSS1", limits.Limit{Unit: "mv"}, "mv"},
		{"VTH", limits.Limit{Unit: "v"}, ""},
	}
	for _, c := range cases {
		if got := TargetUnit(c.param, c.lim); got != c.want {
			t.Fatalf("TargetUnit(%s, %+v) = %q, want %q", c.param, c.lim, got, c.want)
		}
	}
}

func TestAdjustResistanceBands(t *testing.T) {
	mohmLim := limits.Limit{Upper: f64(365.0), Unit: "mohm"}
	cases := []struct {
		in       float64
		want     float64
		wantConf Confidence
	}{
		{0.18, 180.0, Inferred},     // ohms recorded against a mohm spec
		{183.2, 183.2, Exact},       // already milli-ohms
		{183200.0, 183.2, Inferred}, // micro-ohm scale reading
	}
	for _, c := range cases {
		got, conf := Adjust(c.in, "RDSON1", mohmLim)
		approx(t, got, c.want)
		if conf != c.wantConf {
			t.Fatalf("Adjust(%v) confidence = %v, want %v", c.in, conf, c.wantConf)
		}
	}
}

func TestAdjustLeakageBands(t *testing.T) {
	lim := limits.Limit{Upper: f64(250.0), Unit: "na"}
	cases := []struct {
		in       float64
		want     float64
		wantConf Confidence
	}{
		{1.2e-8, 12.0, Inferred},  // amperes -> nano-amps
		{1.2e-5, 0.012, Inferred}, // micro -> nano
		{12.5, 12.5, Exact},       // plausible nano-amp reading
		{5.0e4, 5.0e4, Undetermined},
	}
	for _, c := range cases {
		got, conf := Adjust(c.in, "IDSS1", lim)
		approx(t, got, c.want)
		if conf != c.wantConf {
			t.Fatalf("Adjust(%v) confidence = %v, want %v", c.in, conf, c.wantConf)
		}
	}
}

func TestAdjustIDSS3TargetsMicroAmps(t *testing.T) {
	lim := limits.Limit{Upper: f64(250.0), Unit: "ua"}
	got, conf := Adjust(2.3e-7, "IDSS3", lim)
	approx(t, got, 0.23)
	if conf != Inferred {
		t.Fatalf("confidence = %v, want Inferred", conf)
	}
	// No micro->nano promotion for a micro-amp target.
	got, conf = Adjust(0.5, "IDSS3", lim)
	approx(t, got, 0.5)
	if conf != Exact {
		t.Fatalf("confidence = %v, want Exact", conf)
	}
}

func TestAdjustVoltageRatioWindows(t *testing.T) {
	vLim := limits.Limit{Upper: f64(900.0), Unit: "v"}
	// A kilovolt-style fraction against a volt limit: ratio window promotes.
	got, conf := Adjust(0.75, "BVDSS1", vLim)
	approx(t, got, 750.0)
	if conf != Inferred {
		t.Fatalf("small reading: confidence = %v, want Inferred", conf)
	}
	// Correct scale already.
	got, conf = Adjust(756.3, "BVDSS1", vLim)
	approx(t, got, 756.3)
	if conf != Exact {
		t.Fatalf("exact reading: confidence = %v, want Exact", conf)
	}

	mvLim := limits.Limit{Upper: f64(1000.0), Unit: "mv"}
	got, conf = Adjust(0.85, "VFSDS", mvLim)
	approx(t, got, 850.0)
	if conf != Inferred {
		t.Fatalf("volt reading: confidence = %v, want Inferred", conf)
	}
	// Inverse window: a reading a thousandfold above a millivolt limit.
	got, conf = Adjust(850000.0, "VFSDS", mvLim)
	approx(t, got, 850.0)
	if conf != Inferred {
		t.Fatalf("oversized mv reading: confidence = %v, want Inferred", conf)
	}

	// Millivolt-scale reading against a volt limit fits no window.
	got, conf = Adjust(750000.0, "BVDSS1", vLim)
	approx(t, got, 750000.0)
	if conf != Undetermined {
		t.Fatalf("out-of-window reading: confidence = %v, want Undetermined", conf)
	}

	if _, conf = Adjust(756.3, "BVDSS1", limits.Limit{}); conf != Undetermined {
		t.Fatalf("missing limit: confidence = %v, want Undetermined", conf)
	}
}

// Readings so far out of scale that a conversion would land them back in a
// conversion band must be left alone, or a second pass would rescale them
// again.
func TestAdjustLeavesUnrecognizableScalesAlone(t *testing.T) {
	mohmLim := limits.Limit{Upper: f64(365.0), Unit: "mohm"}
	ohmLim := limits.Limit{Upper: f64(0.365)}
	naLim := limits.Limit{Upper: f64(250.0), Unit: "na"}
	mvLim := limits.Limit{Upper: f64(1000.0), Unit: "mv"}
	vLim := limits.Limit{Upper: f64(5.0), Unit: "v"}

	cases := []struct {
		name  string
		param string
		lim   limits.Limit
		in    float64
	}{
		{"sub-milli-ohm against mohm spec", "RDSON1", mohmLim, 0.0005},
		{"giga-scale against mohm spec", "RDSON1", mohmLim, 2.0e6},
		{"giga-scale against ohm spec", "RDSON1", ohmLim, 2.0e9},
		{"femto-amp leakage", "IDSS1", naLim, 5.0e-13},
		{"micro-volt against mv limit", "VFSDS", mvLim, 0.005},
		{"oversized reading against v limit", "BVDSS1", vLim, 2.0e5},
	}
	for _, c := range cases {
		got, conf := Adjust(c.in, c.param, c.lim)
		if conf != Undetermined {
			t.Fatalf("%s: confidence = %v, want Undetermined", c.name, conf)
		}
		approx(t, got, c.in)
		// And applying the decision again changes nothing.
		again, conf2 := Adjust(got, c.param, c.lim)
		approx(t, again, got)
		if conf2 != Undetermined {
			t.Fatalf("%s: second pass confidence = %v, want Undetermined", c.name, conf2)
		}
	}
}

// Converted values must sit outside every conversion band, so a second
// Adjust is always a no-op.
func TestAdjustConvertOnceThenStable(t *testing.T) {
	mohmLim := limits.Limit{Upper: f64(365.0), Unit: "mohm"}
	naLim := limits.Limit{Upper: f64(250.0), Unit: "na"}

	cases := []struct {
		param string
		lim   limits.Limit
		in    float64
		want  float64
	}{
		{"RDSON1", mohmLim, 0.0335782, 33.5782},
		{"RDSON1", mohmLim, 183200.0, 183.2},
		{"IDSS1", naLim, 1.2e-8, 12.0},
	}
	for _, c := range cases {
		got, conf := Adjust(c.in, c.param, c.lim)
		approx(t, got, c.want)
		if conf != Inferred {
			t.Fatalf("Adjust(%v, %s) confidence = %v, want Inferred", c.in, c.param, conf)
		}
		again, conf2 := Adjust(got, c.param, c.lim)
		approx(t, again, got)
		if conf2 == Inferred {
			t.Fatalf("Adjust(%v, %s) rescaled again to %v", got, c.param, again)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	agg := map[string]limits.Limit{
		"RDSON1": {Upper: f64(365.0), Unit: "mohm"},
		"IDSS1":  {Upper: f64(250.0), Unit: "na"},
		"BVDSS1": {Upper: f64(900.0), Unit: "v"},
	}
	recs := []ingest.Record{
		{Lot: "AB123-45", Wafer: "01", Unit: 1, Values: map[string]float64{
			"RDSON1": 0.18, "IDSS1": 1.2e-8, "BVDSS1": 756.3,
		}},
		{Lot: "AB123-45", Wafer: "01", Unit: 2, Values: map[string]float64{
			"RDSON1": 183.2, "IDSS1": 12.5, "BVDSS1": 749.8,
		}},
	}
	rep := diag.NewReporter(zap.NewNop())

	converted := Normalize(recs, agg, rep)
	if converted != 2 {
		t.Fatalf("converted = %d, want 2", converted)
	}
	approx(t, recs[0].Values["RDSON1"], 180.0)
	approx(t, recs[0].Values["IDSS1"], 12.0)
	approx(t, recs[0].Values["BVDSS1"], 756.3)

	// A second pass finds everything already in band.
	if again := Normalize(recs, agg, rep); again != 0 {
		t.Fatalf("second pass converted %d values", again)
	}
	approx(t, recs[0].Values["RDSON1"], 180.0)
	approx(t, recs[1].Values["RDSON1"], 183.2)
}

func TestNormalizeReportsUndetermined(t *testing.T) {
	agg := map[string]limits.Limit{"IDSS1": {Upper: f64(250.0), Unit: "na"}}
	recs := []ingest.Record{
		{Values: map[string]float64{"IDSS1": 5.0e4}},
	}
	rep := diag.NewReporter(zap.NewNop())
	Normalize(recs, agg, rep)

	found := false
	for _, e := range rep.Events() {
		if e.Stage == diag.StageNormalize && e.Param == "IDSS1" && e.Severity == diag.Warning {
			found = true
		}
	}
	if !found {
		t.Fatalf("undetermined value not reported: %#v", rep.Events())
	}
	approx(t, recs[0].Values["IDSS1"], 5.0e4)
}
