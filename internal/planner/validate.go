package planner

import (
	"os"
	"path/filepath"
	"strings"
)

// ValidateInputs checks that every path exists, is a regular file and has a
// supported extension. It returns the resolved absolute paths, or a
// *ValidationError naming every rejected input.
func ValidateInputs(paths []string) ([]string, error) {
	var (
		valid   []string
		invalid []InvalidInput
	)
	for _, raw := range paths {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := ResolvePath(raw)
		if err != nil {
			invalid = append(invalid, InvalidInput{Path: raw, Reason: err.Error()})
			continue
		}
		fi, err := os.Stat(p)
		switch {
		case err != nil && os.IsNotExist(err):
			invalid = append(invalid, InvalidInput{Path: p, Reason: "file not found"})
		case err != nil:
			invalid = append(invalid, InvalidInput{Path: p, Reason: err.Error()})
		case !fi.Mode().IsRegular():
			invalid = append(invalid, InvalidInput{Path: p, Reason: "not a file"})
		case !IsSupported(p):
			invalid = append(invalid, InvalidInput{Path: p, Reason: "unsupported format: " + strings.ToLower(filepath.Ext(p))})
		default:
			valid = append(valid, p)
		}
	}
	if len(invalid) > 0 {
		return valid, &ValidationError{Invalid: invalid}
	}
	if len(valid) == 0 {
		return nil, ErrNoInputs
	}
	return valid, nil
}
