package tools

import (
	"errors"
	"fmt"
	"strings"
)

// toolUnavailableError signals that an external executable or script is
// missing. It is fatal for a whole run.
type toolUnavailableError struct {
	tool string
	path string
	err  error
}

func (e *toolUnavailableError) Error() string {
	return fmt.Sprintf("%s tool unavailable at %q: %v", e.tool, e.path, e.err)
}

func (e *toolUnavailableError) Unwrap() error { return e.err }

// ErrToolUnavailable constructs a toolUnavailableError.
func ErrToolUnavailable(tool, path string, err error) error {
	return &toolUnavailableError{tool: tool, path: path, err: err}
}

// IsToolUnavailable reports whether err indicates a missing tool.
func IsToolUnavailable(err error) bool {
	var e *toolUnavailableError
	return errors.As(err, &e)
}

// toolFailedError signals a tool that ran and exited unsuccessfully.
type toolFailedError struct {
	tool       string
	exitCode   int
	stderrTail string
	err        error
}

func (e *toolFailedError) Error() string {
	msg := fmt.Sprintf("%s failed (exit code %d)", e.tool, e.exitCode)
	if tail := lastLine(e.stderrTail); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *toolFailedError) Unwrap() error { return e.err }

// ErrToolFailed constructs a toolFailedError.
func ErrToolFailed(tool string, exitCode int, stderrTail string, err error) error {
	return &toolFailedError{tool: tool, exitCode: exitCode, stderrTail: stderrTail, err: err}
}

// IsToolFailed reports whether err came from a tool exiting unsuccessfully.
func IsToolFailed(err error) bool {
	var e *toolFailedError
	return errors.As(err, &e)
}

// StderrTail returns the captured stderr tail of a failed tool, if any.
func StderrTail(err error) string {
	var e *toolFailedError
	if errors.As(err, &e) {
		return e.stderrTail
	}
	return ""
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
