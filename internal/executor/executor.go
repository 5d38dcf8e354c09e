package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"ggufconv/internal/common/fsutil"
	"ggufconv/internal/planner"
	"ggufconv/internal/tools"
	"ggufconv/pkg/types"
)

// Options are the resolved per-run settings.
type Options struct {
	// OutputDir relocates every pending output under this directory.
	OutputDir string
	// KeepIntermediate retains the F16 file after an entry completes.
	KeepIntermediate bool
}

// Summary counts what a run did. Total is the number of targets that were
// pending when the run started.
type Summary struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Skipped        int `json:"skipped"`
	Failed         int `json:"failed"`
	EntriesSkipped int `json:"entries_skipped"`
	EntriesFailed  int `json:"entries_failed"`
	Cleaned        int `json:"cleaned"`
}

// Executor runs conversion plans against a converter and a quantizer.
type Executor struct {
	conv  Converter
	quant Quantizer
	log   zerolog.Logger
}

// New returns an Executor using conv and quant.
func New(conv Converter, quant Quantizer, log zerolog.Logger) *Executor {
	return &Executor{conv: conv, quant: quant, log: log}
}

// Execute processes plan in order and blocks until it is done. The returned
// error is non-nil only when the run had to stop early: ctx was cancelled or
// a tool executable is missing. Per-entry and per-target failures are
// reported through sink and counted in the Summary.
//
// When opts.OutputDir is set, every target's OutputPath is rewritten under it
// and Exists is re-checked before any work starts; the plan is otherwise left
// untouched.
func (x *Executor) Execute(ctx context.Context, plan *types.ConversionPlan, opts Options, sink ProgressSink) (Summary, error) {
	if sink == nil {
		sink = nopSink{}
	}
	outDir, err := planner.ResolvePath(opts.OutputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("output dir: %w", err)
	}
	finalize(plan, outDir)
	r := &run{
		x:     x,
		ctx:   ctx,
		opts:  opts,
		sink:  sink,
		plan:  plan,
		total: plan.PendingCount(),
	}
	r.summary.Total = r.total
	return r.execute()
}

// run holds the mutable state of one Execute call.
type run struct {
	x       *Executor
	ctx     context.Context
	opts    Options
	sink    ProgressSink
	plan    *types.ConversionPlan
	total   int
	current int
	summary Summary
}

func (r *run) execute() (Summary, error) {
	log := r.x.log
	if r.total == 0 {
		r.sink.Publish(types.ProgressEvent{
			Kind:     types.EventNothingToDo,
			Message:  "All outputs already exist, nothing to do!",
			Progress: 100,
		})
		log.Info().Msg("all outputs already exist, nothing to do")
		runsTotal.WithLabelValues("nothing_to_do").Inc()
		return r.summary, nil
	}
	log.Info().Int("models", len(r.plan.Entries)).Int("pending", r.total).Msg("starting conversion run")
	for i := range r.plan.Entries {
		if err := r.ctx.Err(); err != nil {
			return r.abort(err)
		}
		if err := r.processEntry(i, &r.plan.Entries[i]); err != nil {
			return r.abort(err)
		}
	}
	log.Info().
		Int("completed", r.summary.Completed).
		Int("skipped", r.summary.Skipped).
		Int("failed", r.summary.Failed).
		Int("cleaned", r.summary.Cleaned).
		Msg("conversion run finished")
	runsTotal.WithLabelValues("ok").Inc()
	return r.summary, nil
}

func (r *run) abort(err error) (Summary, error) {
	r.x.log.Error().Err(err).Msg("conversion run aborted")
	runsTotal.WithLabelValues("failed").Inc()
	return r.summary, err
}

func (r *run) processEntry(idx int, e *types.ModelPlanEntry) error {
	label := fmt.Sprintf("model %d/%d", idx+1, len(r.plan.Entries))
	name := filepath.Base(e.InputPath)
	log := r.x.log.With().Str("input", e.InputPath).Logger()

	if e.AllExist() {
		r.emit(types.EventEntrySkipped, e, "", "Skipping %s, all outputs exist: %s", label, name)
		log.Info().Msg("skipping model, all outputs exist")
		r.summary.EntriesSkipped++
		r.summary.Skipped += len(e.Targets)
		targetsTotal.WithLabelValues("skipped").Add(float64(len(e.Targets)))
		return nil
	}

	if err := r.ensureIntermediate(label, name, e); err != nil {
		if r.fatal(err) {
			return err
		}
		r.emit(types.EventError, e, "", "Error: F16 file not produced for %s: %s (%v)", label, name, err)
		log.Error().Err(err).Str("f16", e.IntermediatePath).Msg("intermediate conversion failed, skipping model")
		r.summary.EntriesFailed++
		for _, t := range e.Targets {
			if t.Exists {
				r.summary.Skipped++
				continue
			}
			r.summary.Failed++
			targetsTotal.WithLabelValues("failed").Inc()
		}
		return nil
	}

	for i := range e.Targets {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		if err := r.processTarget(label, name, e, &e.Targets[i]); err != nil {
			return err
		}
	}
	r.cleanup(label, name, e)
	return nil
}

func (r *run) ensureIntermediate(label, name string, e *types.ModelPlanEntry) error {
	if fsutil.NonEmptyFile(e.IntermediatePath) {
		r.emit(types.EventReusingIntermediate, e, "", "Using existing F16 file for %s: %s", label, name)
		r.x.log.Info().Str("f16", e.IntermediatePath).Msg("using existing F16 file")
		intermediatesTotal.WithLabelValues("reused").Inc()
		return nil
	}
	if e.InputIsIntermediate() {
		intermediatesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("input %s is missing or empty", e.InputPath)
	}
	r.emit(types.EventConverting, e, "", "Converting %s to F16 as an intermediate step: %s", label, name)
	r.x.log.Info().Str("input", e.InputPath).Str("f16", e.IntermediatePath).Msg("converting to F16")
	if err := r.x.conv.Convert(r.ctx, e.InputPath, e.IntermediatePath); err != nil {
		intermediatesTotal.WithLabelValues("failed").Inc()
		return err
	}
	if !fsutil.NonEmptyFile(e.IntermediatePath) {
		intermediatesTotal.WithLabelValues("failed").Inc()
		return errors.New("F16 file not found or empty: " + e.IntermediatePath)
	}
	intermediatesTotal.WithLabelValues("converted").Inc()
	r.emit(types.EventIntermediateReady, e, "", "F16 intermediate ready for %s: %s", label, name)
	return nil
}

// processTarget returns an error only for fatal conditions.
func (r *run) processTarget(label, name string, e *types.ModelPlanEntry, t *types.ConversionTarget) error {
	log := r.x.log.With().Str("input", e.InputPath).Str("format", t.Format.String()).Logger()
	if t.Exists {
		r.emit(types.EventTargetSkipped, e, t.Format, "Skipping existing %s output for %s: %s", t.Format, label, name)
		r.summary.Skipped++
		targetsTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	if t.OutputPath != e.IntermediatePath {
		if err := fsutil.EnsureParentDir(t.OutputPath); err != nil {
			r.targetFailed(label, name, e, t, err)
			return nil
		}
		r.emit(types.EventQuantizing, e, t.Format, "Quantizing %s to %s: %s", label, t.Format, name)
		log.Info().Str("output", t.OutputPath).Msg("quantizing")
		err := r.x.quant.Quantize(r.ctx, e.IntermediatePath, t.OutputPath, t.Format)
		if err == nil && !fsutil.NonEmptyFile(t.OutputPath) {
			err = fmt.Errorf("quantizer produced no output at %s", t.OutputPath)
		}
		if err != nil {
			if r.fatal(err) {
				return err
			}
			r.targetFailed(label, name, e, t, err)
			return nil
		}
	}

	r.current++
	r.summary.Completed++
	targetsTotal.WithLabelValues("completed").Inc()
	r.emit(types.EventCompleted, e, t.Format, "Completed %s quantization for %s: %s", t.Format, label, name)
	log.Info().Str("output", t.OutputPath).Msg("completed")
	return nil
}

func (r *run) targetFailed(label, name string, e *types.ModelPlanEntry, t *types.ConversionTarget, err error) {
	r.emit(types.EventError, e, t.Format, "Error creating %s output for %s: %s", t.Format, label, name)
	r.x.log.Error().Err(err).
		Str("input", e.InputPath).
		Str("format", t.Format.String()).
		Str("output", t.OutputPath).
		Str("stderr_tail", tools.StderrTail(err)).
		Msg("quantization failed")
	r.summary.Failed++
	targetsTotal.WithLabelValues("failed").Inc()
}

// cleanup removes the intermediate once something downstream exists, unless
// it was requested as an output, kept by option, or is the input itself.
func (r *run) cleanup(label, name string, e *types.ModelPlanEntry) {
	if r.opts.KeepIntermediate || e.RequestsIntermediate() || e.InputIsIntermediate() {
		return
	}
	produced := false
	for _, t := range e.Targets {
		if fsutil.NonEmptyFile(t.OutputPath) {
			produced = true
			break
		}
	}
	if !produced || !fsutil.PathExists(e.IntermediatePath) {
		return
	}
	if err := os.Remove(e.IntermediatePath); err != nil {
		r.x.log.Warn().Err(err).Str("f16", e.IntermediatePath).Msg("could not delete intermediate file")
		cleanupsTotal.WithLabelValues("error").Inc()
		return
	}
	r.summary.Cleaned++
	cleanupsTotal.WithLabelValues("deleted").Inc()
	r.emit(types.EventCleanup, e, "", "Cleaned up intermediate F16 file for %s: %s", label, name)
	r.x.log.Info().Str("f16", e.IntermediatePath).Msg("deleted intermediate file")
}

// finalize moves every target under dir and re-stats the ones that moved.
func finalize(plan *types.ConversionPlan, dir string) {
	if dir == "" {
		return
	}
	for i := range plan.Entries {
		for j := range plan.Entries[i].Targets {
			t := &plan.Entries[i].Targets[j]
			if out := planner.RelocateOutput(t.OutputPath, dir); out != t.OutputPath {
				t.OutputPath = out
				t.Exists = fsutil.NonEmptyFile(out)
			}
		}
	}
}

func (r *run) fatal(err error) bool {
	return r.ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		tools.IsToolUnavailable(err)
}

func (r *run) percent() float64 {
	if r.total == 0 {
		return 100
	}
	return float64(r.current) / float64(r.total) * 100
}

func (r *run) emit(kind types.EventKind, e *types.ModelPlanEntry, f types.Format, format string, args ...any) {
	r.sink.Publish(types.ProgressEvent{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Progress: r.percent(),
		Current:  r.current,
		Total:    r.total,
		Input:    e.InputPath,
		Format:   f,
	})
}
