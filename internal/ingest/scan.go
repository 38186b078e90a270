package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/waferlab/cpqa-cli/internal/diag"
)

// logExtensions are the textual extensions prober logs arrive with, matched
// case-insensitively.
var logExtensions = []string{".txt", ".log", ".csv", ".dat"}

// sniffBytes is how much of a file the extension-less fallback reads when
// deciding whether it looks like a CP log.
const sniffBytes = 1000

// ScanBatch lists candidate log files in a batch directory. Files are
// deduplicated by lowercased base name and returned sorted, so downstream
// limit aggregation is a deterministic reduction. When no file matches a
// known extension, the directory is re-scanned and each file's head is
// sniffed for target parameter names.
func ScanBatch(dir string, targetParams []string, rep *diag.Reporter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !hasLogExtension(name) {
			continue
		}
		if _, dup := seen[name]; !dup {
			seen[name] = filepath.Join(dir, e.Name())
		}
	}

	if len(seen) == 0 {
		rep.Infof(diag.StageScan, "", "no files with known extensions in %s; sniffing contents", dir)
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if sniffLooksLikeLog(path, targetParams) {
				seen[strings.ToLower(e.Name())] = path
			}
		}
	}

	paths := make([]string, 0, len(seen))
	for _, p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func hasLogExtension(name string) bool {
	for _, ext := range logExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// sniffLooksLikeLog reads the head of a file and reports whether any target
// parameter name appears in it.
func sniffLooksLikeLog(path string, targetParams []string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, sniffBytes)
	n, err := f.Read(buf)
	if n == 0 || (err != nil && n <= 0) {
		return false
	}
	head := string(buf[:n])
	for _, p := range targetParams {
		if strings.Contains(head, p) {
			return true
		}
	}
	return false
}
