package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"err":     zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("info", FormatJSON, &buf)
	l.Debug().Msg("hidden")
	l.Info().Str("format", "Q4_K_M").Msg("quantizing")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	if m["message"] != "quantizing" || m["format"] != "Q4_K_M" || m["level"] != "info" {
		t.Fatalf("unexpected record: %v", m)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New("debug", FormatConsole, &buf)
	l.Debug().Msg("converting")
	if !strings.Contains(buf.String(), "converting") {
		t.Fatalf("console output missing message: %q", buf.String())
	}
}
