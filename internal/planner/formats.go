package planner

import (
	"strings"

	"ggufconv/pkg/types"
)

// KnownFormats lists the quantizer formats offered to users, grouped by family.
// It is informational: BuildPlan accepts any format string.
var KnownFormats = []types.FormatGroup{
	{Name: "Q2", Formats: []types.Format{"Q2_K", "Q2_K_S"}},
	{Name: "Q3", Formats: []types.Format{"Q3_K_S", "Q3_K_M", "Q3_K_L"}},
	{Name: "Q4", Formats: []types.Format{"Q4_0", "Q4_1", "Q4_K", "Q4_K_S", "Q4_K_M"}},
	{Name: "Q5", Formats: []types.Format{"Q5_0", "Q5_1", "Q5_K", "Q5_K_S", "Q5_K_M"}},
	{Name: "Q6", Formats: []types.Format{"Q6_K"}},
	{Name: "Q8", Formats: []types.Format{"Q8_0"}},
	{Name: "MISC", Formats: []types.Format{"F16", "BF16", "F32", "COPY"}},
}

// IsKnownFormat reports whether f appears in KnownFormats.
func IsKnownFormat(f types.Format) bool {
	for _, g := range KnownFormats {
		for _, k := range g.Formats {
			if k == f {
				return true
			}
		}
	}
	return false
}

// ParseFormats normalizes raw format strings, splitting comma-separated
// entries, dropping empties and collapsing duplicates. Order of first
// occurrence is kept.
func ParseFormats(raw []string) []types.Format {
	var out []types.Format
	seen := make(map[types.Format]struct{})
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			f := types.NormalizeFormat(part)
			if f == "" {
				continue
			}
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
