package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"ggufconv/internal/common/fsutil"
	"ggufconv/pkg/types"
)

// Options tunes plan construction.
type Options struct {
	// OutputDir, when set, places every output under this directory instead of
	// next to its input.
	OutputDir string
}

// BuildPlan derives one entry per distinct input and one target per distinct
// format. The only filesystem access is a stat per target to fill Exists,
// which is evaluated against the final (possibly relocated) output path.
func BuildPlan(inputs []string, formats []string, opts Options) (*types.ConversionPlan, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	fmts := ParseFormats(formats)
	if len(fmts) == 0 {
		return nil, ErrNoFormats
	}
	outDir, err := ResolvePath(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	plan := &types.ConversionPlan{}
	seen := make(map[string]struct{}, len(inputs))
	for _, raw := range inputs {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		in, err := ResolvePath(raw)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", raw, err)
		}
		if !IsSupported(in) {
			return nil, &UnsupportedExtensionError{Path: in, Ext: filepath.Ext(in)}
		}
		if _, dup := seen[in]; dup {
			continue
		}
		seen[in] = struct{}{}
		plan.Entries = append(plan.Entries, buildEntry(in, fmts, outDir))
	}
	if len(plan.Entries) == 0 {
		return nil, ErrNoInputs
	}
	return plan, nil
}

func buildEntry(input string, formats []types.Format, outDir string) types.ModelPlanEntry {
	e := types.ModelPlanEntry{
		InputPath:        input,
		IntermediatePath: IntermediatePath(input),
		Targets:          make([]types.ConversionTarget, 0, len(formats)),
	}
	for _, f := range formats {
		out := RelocateOutput(OutputPath(e.IntermediatePath, f), outDir)
		e.Targets = append(e.Targets, types.ConversionTarget{
			Format:     f,
			OutputPath: out,
			Exists:     fsutil.NonEmptyFile(out),
		})
	}
	return e
}

// ResolvePath expands a leading '~' and makes p absolute. Empty stays empty.
func ResolvePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	p, err := fsutil.ExpandHome(p)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	return abs, nil
}
