package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIndexRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx, err := LoadIndex(dir)
	if err != nil {
		t.Fatalf("LoadIndex empty dir: %v", err)
	}
	if len(idx.Runs) != 0 {
		t.Fatalf("fresh index has runs: %v", idx.Runs)
	}

	id := idx.AddRun(Run{
		Batch:       "batch_o7",
		Lot:         "AB123-45",
		Strategy:    "standard",
		FilesFound:  3,
		FilesUsable: 2,
		Records:     4,
		WaferCount:  2,
		Warnings:    1,
	})
	if id == "" {
		t.Fatalf("AddRun returned empty id")
	}
	if err := idx.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "index.json")); err != nil {
		t.Fatalf("index.json not written: %v", err)
	}

	again, err := LoadIndex(dir)
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	r, ok := again.Runs[id]
	if !ok {
		t.Fatalf("run %s not persisted", id)
	}
	if r.Batch != "batch_o7" || r.Records != 4 || r.Warnings != 1 {
		t.Fatalf("run round-trip mismatch: %+v", r)
	}
	if r.CompletedAt.IsZero() {
		t.Fatalf("completion time not set")
	}
}

func TestListRunsMostRecentFirst(t *testing.T) {
	idx := NewIndex(t.TempDir())
	early := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	idx.AddRun(Run{ID: "a", Batch: "first", CompletedAt: early})
	idx.AddRun(Run{ID: "b", Batch: "second", CompletedAt: late})

	runs := idx.ListRuns()
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].Batch != "second" || runs[1].Batch != "first" {
		t.Fatalf("order = %s, %s", runs[0].Batch, runs[1].Batch)
	}
}

func TestSaveWithoutRoot(t *testing.T) {
	idx := &Index{Runs: map[string]*Run{}}
	if err := idx.Save(); err == nil {
		t.Fatalf("expected error without root dir")
	}
}
