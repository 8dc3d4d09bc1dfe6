package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// discover lists the DICOM files in dir and returns their paths sorted
// lexicographically, so the subtraction operand order is stable across
// reruns regardless of directory listing order. Exactly two files are
// required; anything else is a DiscoveryError, never a partial result.
func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DiscoveryError{Dir: dir, Err: err}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".dcm") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) != 2 {
		return nil, &DiscoveryError{Dir: dir, Found: len(paths)}
	}
	return paths, nil
}
