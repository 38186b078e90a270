// Package report maintains the on-disk index of analysis runs so that
// repeated invocations over the same output directory accumulate a
// browsable history.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/waferlab/cpqa-cli/internal/utils"
)

const indexFileName = "index.json"

// Run records one completed batch analysis.
type Run struct {
	ID          string    `json:"id"`
	Batch       string    `json:"batch"`
	Lot         string    `json:"lot"`
	Strategy    string    `json:"strategy"`
	FilesFound  int       `json:"files_found"`
	FilesUsable int       `json:"files_usable"`
	Records     int       `json:"records"`
	WaferCount  int       `json:"wafer_count"`
	OutputDir   string    `json:"output_dir"`
	Warnings    int       `json:"warnings"`
	CompletedAt time.Time `json:"completed_at"`
}

// Index is the persisted run history for an output directory.
type Index struct {
	Runs      map[string]*Run `json:"runs"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Not serialized: on-disk location of the index.json
	rootDir string `json:"-"`
}

// NewIndex constructs an empty in-memory index. Call Save() to persist.
func NewIndex(rootDir string) *Index {
	return &Index{
		Runs:      make(map[string]*Run),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		rootDir:   rootDir,
	}
}

// LoadIndex loads index.json from the provided directory. A missing
// file yields a fresh empty index rather than an error.
func LoadIndex(dir string) (*Index, error) {
	path := filepath.Join(dir, indexFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewIndex(dir), nil
		}
		return nil, fmt.Errorf("read run index: %w", err)
	}
	var idx Index
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("parse run index: %w", err)
	}
	if idx.Runs == nil {
		idx.Runs = make(map[string]*Run)
	}
	idx.rootDir = dir
	return &idx, nil
}

// RootDir returns the on-disk index directory path.
func (idx *Index) RootDir() string { return idx.rootDir }

// AddRun records a completed run under a fresh id and returns the id.
func (idx *Index) AddRun(r Run) string {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}
	if idx.Runs == nil {
		idx.Runs = make(map[string]*Run)
	}
	idx.Runs[r.ID] = &r
	idx.UpdatedAt = time.Now()
	return r.ID
}

// ListRuns returns runs ordered most recent first.
func (idx *Index) ListRuns() []*Run {
	out := make([]*Run, 0, len(idx.Runs))
	for _, r := range idx.Runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Save writes index.json using atomic write.
func (idx *Index) Save() error {
	if idx.rootDir == "" {
		return errors.New("index root directory not set")
	}
	if err := utils.EnsureDir(idx.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	idx.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(idx)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(idx.rootDir, indexFileName), data)
}
