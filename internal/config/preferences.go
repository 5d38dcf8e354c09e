package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Preferences are the user selections a host remembers between runs. The
// conversion engine never reads them; hosts resolve them into call options.
// KeepF16 is nil when the user never chose.
type Preferences struct {
	SelectedFormats FormatSelection `json:"selected_formats"`
	OutputPath      string          `json:"output_path"`
	KeepF16         *bool           `json:"keep_f16,omitempty"`
}

// FormatSelection is a list of format names. It also decodes the legacy
// object form {"Q4_K_M": true, "Q8_0": false}, keeping the true entries.
type FormatSelection []string

func (s *FormatSelection) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*s = list
		return nil
	}
	var set map[string]bool
	if err := json.Unmarshal(b, &set); err != nil {
		return fmt.Errorf("selected_formats: expected list or object: %w", err)
	}
	out := make([]string, 0, len(set))
	for k, on := range set {
		if on {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	*s = out
	return nil
}

// DefaultPreferencesPath returns <user config dir>/ggufconv/preferences.json.
func DefaultPreferencesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "ggufconv", "preferences.json"), nil
}

// LoadPreferences reads preferences from path. A missing file yields empty
// preferences and is created so later runs find it.
func LoadPreferences(path string) (Preferences, error) {
	var p Preferences
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, SavePreferences(path, p)
	}
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

// SavePreferences writes p to path as indented JSON, creating parent dirs.
func SavePreferences(path string, p Preferences) error {
	if p.SelectedFormats == nil {
		p.SelectedFormats = FormatSelection{}
	}
	b, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
