package planner

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestValidateInputs(t *testing.T) {
	d := t.TempDir()
	good := filepath.Join(d, "ok.safetensors")
	txt := filepath.Join(d, "notes.txt")
	writeFile(t, good, "x")
	writeFile(t, txt, "x")
	sub := filepath.Join(d, "dir.bin")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(d, "missing.pt")

	valid, err := ValidateInputs([]string{good, txt, sub, missing, ""})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(valid, []string{good}) {
		t.Fatalf("valid=%v", valid)
	}
	reasons := map[string]string{}
	for _, in := range ve.Invalid {
		reasons[in.Path] = in.Reason
	}
	want := map[string]string{
		txt:     "unsupported format: .txt",
		sub:     "not a file",
		missing: "file not found",
	}
	if !reflect.DeepEqual(reasons, want) {
		t.Fatalf("reasons=%v, want %v", reasons, want)
	}
	if !IsInputError(err) {
		t.Fatalf("validation error must be an input error")
	}
}

func TestValidateInputsEmpty(t *testing.T) {
	if _, err := ValidateInputs(nil); !errors.Is(err, ErrNoInputs) {
		t.Fatalf("expected ErrNoInputs, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	d := t.TempDir()
	for _, n := range []string{"b.safetensors", "a.PTH", "a-Q4_K_M.gguf", "readme.md", "c.bin"} {
		writeFile(t, filepath.Join(d, n), "x")
	}
	if err := os.Mkdir(filepath.Join(d, "nested.safetensors"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := Discover(d)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{filepath.Join(d, "a.PTH"), filepath.Join(d, "b.safetensors"), filepath.Join(d, "c.bin")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files=%v, want %v", files, want)
	}
	if _, err := Discover(filepath.Join(d, "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestParseFormatsAndCatalogue(t *testing.T) {
	got := ParseFormats([]string{"q4_k_m,Q8_0", "Q4_K_M", "", " f16 "})
	if len(got) != 3 || got[0] != "Q4_K_M" || got[1] != "Q8_0" || got[2] != "F16" {
		t.Fatalf("ParseFormats=%v", got)
	}
	if !IsKnownFormat("Q6_K") || IsKnownFormat("Q9_Z") {
		t.Fatalf("IsKnownFormat mismatch")
	}
}
