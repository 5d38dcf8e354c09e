package tools

import (
	"context"
	"os/exec"
	"strconv"

	"ggufconv/pkg/types"
)

// Quantizer runs llama-quantize:
//
//	<bin> [args...] <input> <output> <FORMAT> [threads]
type Quantizer struct {
	Runner  Runner
	Bin     string
	Args    []string
	Threads int
}

// NewQuantizer returns a Quantizer for bin.
func NewQuantizer(r Runner, bin string, args []string, threads int) *Quantizer {
	return &Quantizer{Runner: r, Bin: bin, Args: args, Threads: threads}
}

// Quantize writes input re-encoded as format to output.
func (q *Quantizer) Quantize(ctx context.Context, input, output string, format types.Format) error {
	argv := make([]string, 0, len(q.Args)+4)
	argv = append(argv, q.Args...)
	argv = append(argv, input, output, string(format))
	if q.Threads > 0 {
		argv = append(argv, strconv.Itoa(q.Threads))
	}
	return q.Runner.Run(ctx, Cmd{Tool: "quantize", Path: q.Bin, Args: argv})
}

// Preflight checks that the quantizer executable can be found.
func (q *Quantizer) Preflight() error {
	if _, err := exec.LookPath(q.Bin); err != nil {
		return ErrToolUnavailable("quantize", q.Bin, err)
	}
	return nil
}
