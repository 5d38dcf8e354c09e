package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultConvertArgs are passed to the converter script when none are configured.
var DefaultConvertArgs = []string{"--src", "{input}", "--dst", "{output}"}

// Converter runs a Python conversion script producing the F16 intermediate:
//
//	<python> <script> <args...>
//
// with {input} and {output} substituted in args. The script runs from Dir,
// which defaults to the script's directory.
type Converter struct {
	Runner Runner
	Python string
	Script string
	Args   []string
	Dir    string
}

// NewConverter resolves script to an absolute path so it stays valid when the
// process runs from the script directory.
func NewConverter(r Runner, python, script string, args []string) (*Converter, error) {
	abs, err := filepath.Abs(script)
	if err != nil {
		return nil, fmt.Errorf("convert script: %w", err)
	}
	return &Converter{Runner: r, Python: python, Script: abs, Args: args}, nil
}

// Convert writes the intermediate for input to output.
func (c *Converter) Convert(ctx context.Context, input, output string) error {
	args := c.Args
	if len(args) == 0 {
		args = DefaultConvertArgs
	}
	argv := append([]string{c.Script}, expandArgs(args, map[string]string{
		"{input}":  input,
		"{output}": output,
	})...)
	dir := c.Dir
	if dir == "" {
		dir = filepath.Dir(c.Script)
	}
	return c.Runner.Run(ctx, Cmd{Tool: "convert", Path: c.Python, Args: argv, Dir: dir})
}

// Preflight checks that the interpreter and the script exist.
func (c *Converter) Preflight() error {
	if _, err := exec.LookPath(c.Python); err != nil {
		return ErrToolUnavailable("convert", c.Python, err)
	}
	fi, err := os.Stat(c.Script)
	if err != nil {
		return ErrToolUnavailable("convert", c.Script, err)
	}
	if fi.IsDir() {
		return ErrToolUnavailable("convert", c.Script, fmt.Errorf("is a directory"))
	}
	return nil
}

func expandArgs(args []string, vars map[string]string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		for k, v := range vars {
			a = strings.ReplaceAll(a, k, v)
		}
		out[i] = a
	}
	return out
}
