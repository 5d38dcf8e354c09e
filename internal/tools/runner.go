package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// stderrTailBytes bounds the stderr kept for error messages.
const stderrTailBytes = 4096

// Cmd describes one subprocess invocation.
type Cmd struct {
	Tool string // short name used in logs and metrics, e.g. "convert"
	Path string
	Args []string
	Dir  string
}

// Runner executes Cmds and logs their output.
type Runner struct {
	Log zerolog.Logger
}

// NewRunner returns a Runner logging to log.
func NewRunner(log zerolog.Logger) Runner { return Runner{Log: log} }

// Run executes c and waits for it to exit. A missing executable yields an
// error for which IsToolUnavailable is true; a non-zero exit yields one for
// which IsToolFailed is true. Cancelling ctx kills the process.
func (r Runner) Run(ctx context.Context, c Cmd) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = os.Environ()

	tail := &tailBuffer{max: stderrTailBytes}
	outLog := &lineLogger{log: r.Log, tool: c.Tool, stream: "stdout"}
	errLog := &lineLogger{log: r.Log, tool: c.Tool, stream: "stderr"}
	cmd.Stdout = outLog
	cmd.Stderr = io.MultiWriter(tail, errLog)

	r.Log.Debug().Str("tool", c.Tool).Str("path", c.Path).Strs("args", c.Args).Str("dir", c.Dir).Msg("exec")
	start := time.Now()
	if err := cmd.Start(); err != nil {
		toolRuns.WithLabelValues(c.Tool, "unavailable").Inc()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return ErrToolUnavailable(c.Tool, c.Path, err)
		}
		return fmt.Errorf("start %s: %w", c.Tool, err)
	}
	r.Log.Debug().Str("tool", c.Tool).Int("pid", cmd.Process.Pid).Msg("started")
	err := cmd.Wait()
	outLog.flush()
	errLog.flush()
	dur := time.Since(start)
	if err != nil {
		toolRuns.WithLabelValues(c.Tool, "error").Inc()
		toolDuration.WithLabelValues(c.Tool, "error").Observe(dur.Seconds())
		if ctx.Err() != nil {
			return fmt.Errorf("%s interrupted: %w", c.Tool, ctx.Err())
		}
		code := -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			code = ee.ExitCode()
		}
		r.Log.Debug().Str("tool", c.Tool).Int("exit_code", code).Dur("dur", dur).Msg("exit")
		return ErrToolFailed(c.Tool, code, tail.String(), err)
	}
	toolRuns.WithLabelValues(c.Tool, "ok").Inc()
	toolDuration.WithLabelValues(c.Tool, "ok").Observe(dur.Seconds())
	r.Log.Debug().Str("tool", c.Tool).Dur("dur", dur).Msg("exit")
	return nil
}

// lineLogger forwards complete output lines to the logger at debug level.
type lineLogger struct {
	log    zerolog.Logger
	tool   string
	stream string
	buf    []byte
}

func (lw *lineLogger) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		idx := bytes.IndexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		lw.emit(lw.buf[:idx])
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}

func (lw *lineLogger) flush() {
	if len(lw.buf) > 0 {
		lw.emit(lw.buf)
		lw.buf = nil
	}
}

func (lw *lineLogger) emit(line []byte) {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	if len(line) == 0 {
		return
	}
	lw.log.Debug().Str("tool", lw.tool).Str("stream", lw.stream).Msg(string(line))
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = append([]byte(nil), t.buf[len(t.buf)-t.max:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
