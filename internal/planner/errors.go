package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoInputs is returned when no input path was supplied.
	ErrNoInputs = errors.New("no input models given")
	// ErrNoFormats is returned when no non-empty output format was supplied.
	ErrNoFormats = errors.New("no output formats given")
)

// UnsupportedExtensionError reports an input whose extension is not recognized.
type UnsupportedExtensionError struct {
	Path string
	Ext  string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported input format %q: %s", e.Ext, e.Path)
}

// InvalidInput is one rejected path with the reason it was rejected.
type InvalidInput struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ValidationError lists every input that failed ValidateInputs.
type ValidationError struct {
	Invalid []InvalidInput
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Invalid))
	for _, in := range e.Invalid {
		parts = append(parts, in.Path+" ("+in.Reason+")")
	}
	return fmt.Sprintf("%d invalid input(s): %s", len(e.Invalid), strings.Join(parts, "; "))
}

// IsInputError reports whether err is a caller error detected before any
// subprocess runs.
func IsInputError(err error) bool {
	if errors.Is(err, ErrNoInputs) || errors.Is(err, ErrNoFormats) {
		return true
	}
	var ue *UnsupportedExtensionError
	if errors.As(err, &ue) {
		return true
	}
	var ve *ValidationError
	return errors.As(err, &ve)
}
