package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"ggufconv/internal/executor"
	"ggufconv/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultBuffer = 64
)

// Engine executes a plan. *executor.Executor satisfies it.
type Engine interface {
	Execute(ctx context.Context, plan *types.ConversionPlan, opts executor.Options, sink executor.ProgressSink) (executor.Summary, error)
}

// Config encapsulates all tunables for Runner construction.
type Config struct {
	Engine Engine
	Log    zerolog.Logger
	// Events receives lifecycle events; nil drops them.
	Events EventPublisher
	// Buffer is the capacity of the progress channel.
	Buffer int
	// Request defaults, used when a request leaves the field empty.
	OutputDir        string
	KeepIntermediate bool
	Formats          []string
}

// New constructs a Runner from cfg.
func New(cfg Config) *Runner {
	r := &Runner{
		engine:           cfg.Engine,
		log:              cfg.Log,
		events:           cfg.Events,
		buffer:           cfg.Buffer,
		outputDir:        cfg.OutputDir,
		keepIntermediate: cfg.KeepIntermediate,
		formats:          append([]string(nil), cfg.Formats...),
		startTime:        time.Now(),
	}
	if r.buffer <= 0 {
		r.buffer = defaultBuffer
	}
	if r.events == nil {
		r.events = noopPublisher{}
	}
	return r
}
