package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataDir != "data" || c.OutputDir != "output" {
		t.Fatalf("dirs = %q/%q", c.DataDir, c.OutputDir)
	}
	if c.CleanStrategy != "standard" {
		t.Fatalf("clean_strategy = %q, want standard", c.CleanStrategy)
	}
	if c.ZScoreThreshold != 3.0 || c.OutlierHighMult != 1.5 || c.OutlierLowMult != 0.5 {
		t.Fatalf("thresholds = %v/%v/%v", c.ZScoreThreshold, c.OutlierHighMult, c.OutlierLowMult)
	}
	if c.JSONLogs || c.Debug {
		t.Fatalf("logging flags default on")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{
		DataDir:         "/srv/cp/data",
		OutputDir:       "/srv/cp/out",
		TargetParams:    []string{"VTH", "RDSON1"},
		CleanStrategy:   "smart",
		ZScoreThreshold: 2.5,
		OutlierHighMult: 1.5,
		OutlierLowMult:  0.5,
		JSONLogs:        true,
	}
	if err := Save(in, cfgPath); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.DataDir != in.DataDir || out.OutputDir != in.OutputDir {
		t.Fatalf("dirs = %q/%q", out.DataDir, out.OutputDir)
	}
	if len(out.TargetParams) != 2 || out.TargetParams[0] != "VTH" {
		t.Fatalf("target_params = %v", out.TargetParams)
	}
	if out.CleanStrategy != "smart" || out.ZScoreThreshold != 2.5 || !out.JSONLogs {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
