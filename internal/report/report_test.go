package report

import (
	"bytes"
	"strings"
	"testing"

	"ggufconv/internal/executor"
	"ggufconv/pkg/types"
)

func samplePlan() *types.ConversionPlan {
	return &types.ConversionPlan{Entries: []types.ModelPlanEntry{{
		InputPath:        "/m/a.safetensors",
		IntermediatePath: "/m/a-F16.gguf",
		Targets: []types.ConversionTarget{
			{Format: "Q4_K_M", OutputPath: "/m/a-Q4_K_M.gguf"},
			{Format: "Q8_0", OutputPath: "/m/a-Q8_0.gguf", Exists: true},
		},
	}}}
}

func TestPlanTable(t *testing.T) {
	var buf bytes.Buffer
	Plan(&buf, samplePlan())
	out := buf.String()
	for _, want := range []string{"INPUT", "a.safetensors", "Q4_K_M", "/m/a-Q8_0.gguf", StatusExists, StatusPending, "1 of 2 output(s) to create"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Output files:\n/m/a-Q4_K_M.gguf\n/m/a-Q8_0.gguf\n") {
		t.Fatalf("output list missing:\n%s", out)
	}
}

func TestOutputs(t *testing.T) {
	var buf bytes.Buffer
	Outputs(&buf, samplePlan())
	if got := buf.String(); got != "/m/a-Q4_K_M.gguf\n/m/a-Q8_0.gguf\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFormats(t *testing.T) {
	var buf bytes.Buffer
	Formats(&buf, []types.FormatGroup{{Name: "Q4", Formats: []types.Format{"Q4_0", "Q4_K_M"}}})
	if out := buf.String(); !strings.Contains(out, "Q4_0 Q4_K_M") {
		t.Fatalf("got %q", out)
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, executor.Summary{Completed: 2, Skipped: 1, Failed: 1, Cleaned: 1})
	if out := buf.String(); !strings.Contains(out, "completed: 2") || !strings.Contains(out, "failed: 1") {
		t.Fatalf("got %q", out)
	}
}
