package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover lists the source weight files directly inside dir, sorted by name.
// GGUF files are left out so that earlier outputs are not picked up as inputs.
func Discover(dir string) ([]string, error) {
	abs, err := ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	if abs == "" {
		return nil, fmt.Errorf("empty directory path")
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !IsWeightFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(abs, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
