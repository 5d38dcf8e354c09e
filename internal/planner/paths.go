package planner

import (
	"path/filepath"
	"strings"

	"ggufconv/pkg/types"
)

// IntermediateExt is the extension of intermediate and output files.
const IntermediateExt = ".gguf"

// intermediateMarker is appended to the input stem to name the F16 intermediate.
const intermediateMarker = "-" + string(types.IntermediateFormat)

// weightExts are the source formats handled by the converter.
var weightExts = []string{".safetensors", ".pth", ".pt", ".bin"}

// SupportedExtensions returns every input extension accepted by BuildPlan.
func SupportedExtensions() []string {
	return append(append([]string(nil), weightExts...), IntermediateExt)
}

// IsWeightFile reports whether path carries a source weight extension.
func IsWeightFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range weightExts {
		if ext == e {
			return true
		}
	}
	return false
}

// IsSupported reports whether path carries any accepted input extension.
func IsSupported(path string) bool {
	return IsWeightFile(path) || strings.EqualFold(filepath.Ext(path), IntermediateExt)
}

// IntermediatePath derives the F16 intermediate path for input:
// model.safetensors -> model-F16.gguf. A .gguf input is already in the
// interchange format and is returned unchanged.
func IntermediatePath(input string) string {
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, IntermediateExt) {
		return input
	}
	return strings.TrimSuffix(input, ext) + intermediateMarker + IntermediateExt
}

// OutputPath derives the quantized output path from an intermediate path:
// model-F16.gguf + Q4_K_M -> model-Q4_K_M.gguf.
func OutputPath(intermediate string, format types.Format) string {
	stem := strings.TrimSuffix(intermediate, filepath.Ext(intermediate))
	stem = strings.TrimSuffix(stem, intermediateMarker)
	return stem + "-" + string(format) + IntermediateExt
}

// RelocateOutput moves output under dir, keeping its basename. An empty dir
// leaves the path untouched. Applying it twice is a no-op.
func RelocateOutput(output, dir string) string {
	if dir == "" {
		return output
	}
	return filepath.Join(dir, filepath.Base(output))
}
