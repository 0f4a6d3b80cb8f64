package interactionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// FilePrefix starts the name of every log file this package owns.
	FilePrefix = "interaction_log_"
	// FileExt ends the name of every log file this package creates.
	FileExt = ".jsonl"

	// fileTimeLayout must stay zero-padded and fixed-width: rotation relies on
	// lexicographic order matching chronological order.
	fileTimeLayout = "20060102_150405"
)

// FileName returns the log file name for a session started at t.
func FileName(t time.Time) string {
	return FilePrefix + t.Format(fileTimeLayout) + FileExt
}

// Files lists the log files in dir, newest first. Only regular files whose name
// starts with FilePrefix are returned.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list log directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), FilePrefix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths, nil
}

// RotationResult describes one rotation pass.
type RotationResult struct {
	Kept    []string
	Removed []string
	Failed  map[string]error
}

// Rotate keeps the newest maxFiles log files in dir and removes the rest.
// A file that cannot be removed is recorded in Failed and the pass continues.
func Rotate(dir string, maxFiles int) (RotationResult, error) {
	res := RotationResult{Failed: map[string]error{}}
	if maxFiles < 0 {
		return res, fmt.Errorf("max log files must not be negative, got %d", maxFiles)
	}

	files, err := Files(dir)
	if err != nil {
		return res, err
	}

	if len(files) <= maxFiles {
		res.Kept = files
		return res, nil
	}

	res.Kept = files[:maxFiles]
	for _, path := range files[maxFiles:] {
		if err := os.Remove(path); err != nil {
			res.Failed[path] = err
			continue
		}
		res.Removed = append(res.Removed, path)
	}
	return res, nil
}
