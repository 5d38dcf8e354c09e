package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ggufconv/internal/executor"
	"ggufconv/internal/planner"
	"ggufconv/pkg/types"
)

// Runner admits and tracks conversion runs.
type Runner struct {
	engine           Engine
	log              zerolog.Logger
	events           EventPublisher
	buffer           int
	outputDir        string
	keepIntermediate bool
	formats          []string
	startTime        time.Time

	mu     sync.Mutex
	active bool
	status types.RunStatus
}

// Prepare validates req and builds its plan. Empty or nil request fields
// fall back to the Runner's defaults. Errors satisfy planner.IsInputError.
func (r *Runner) Prepare(req types.PlanRequest) (*types.ConversionPlan, executor.Options, error) {
	opts := executor.Options{
		OutputDir:        strings.TrimSpace(req.OutputDir),
		KeepIntermediate: r.keepIntermediate,
	}
	if req.KeepIntermediate != nil {
		opts.KeepIntermediate = *req.KeepIntermediate
	}
	if opts.OutputDir == "" {
		opts.OutputDir = r.outputDir
	}
	formats := req.Formats
	if len(planner.ParseFormats(formats)) == 0 {
		formats = r.formats
	}
	inputs, err := planner.ValidateInputs(req.Inputs)
	if err != nil {
		return nil, opts, err
	}
	plan, err := planner.BuildPlan(inputs, formats, planner.Options{OutputDir: opts.OutputDir})
	if err != nil {
		return nil, opts, err
	}
	return plan, opts, nil
}

// Plan builds the plan for req without running it.
func (r *Runner) Plan(req types.PlanRequest) (types.PlanResponse, error) {
	plan, _, err := r.Prepare(req)
	if err != nil {
		return types.PlanResponse{}, err
	}
	return types.PlanResponse{Plan: plan, Targets: plan.TargetCount(), Pending: plan.PendingCount()}, nil
}

// Formats returns the catalogue of known quantizer formats.
func (r *Runner) Formats() types.FormatsResponse {
	groups := make([]types.FormatGroup, len(planner.KnownFormats))
	for i, g := range planner.KnownFormats {
		groups[i] = types.FormatGroup{Name: g.Name, Formats: append([]types.Format(nil), g.Formats...)}
	}
	return types.FormatsResponse{Groups: groups}
}

// Start prepares req and launches it.
func (r *Runner) Start(ctx context.Context, req types.PlanRequest) (*Job, error) {
	plan, opts, err := r.Prepare(req)
	if err != nil {
		return nil, err
	}
	return r.Launch(ctx, plan, opts)
}

// Launch runs plan on a worker goroutine. It fails with a busy error when
// another run is active. The plan must not be touched by the caller until
// the Job is done.
func (r *Runner) Launch(ctx context.Context, plan *types.ConversionPlan, opts executor.Options) (*Job, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return nil, ErrBusy()
	}
	r.active = true
	r.status = types.RunStatus{Active: true, StartedUnix: time.Now().Unix()}
	r.mu.Unlock()

	job := &Job{
		events: make(chan types.ProgressEvent, r.buffer),
		done:   make(chan struct{}),
	}
	r.events.Publish(Event{Name: EventRunStarted, Fields: map[string]any{
		"entries": len(plan.Entries),
		"pending": plan.PendingCount(),
	}})
	r.log.Info().Int("entries", len(plan.Entries)).Int("pending", plan.PendingCount()).Msg("run started")
	go r.work(ctx, job, plan, opts)
	return job, nil
}

// Run launches plan and calls fn for every event, terminal one included,
// from the calling goroutine. It returns once the run is over.
func (r *Runner) Run(ctx context.Context, plan *types.ConversionPlan, opts executor.Options, fn func(types.ProgressEvent)) (executor.Summary, error) {
	job, err := r.Launch(ctx, plan, opts)
	if err != nil {
		return executor.Summary{}, err
	}
	for ev := range job.Events() {
		if fn != nil {
			fn(ev)
		}
	}
	return job.Wait()
}

func (r *Runner) work(ctx context.Context, job *Job, plan *types.ConversionPlan, opts executor.Options) {
	out := executor.NewChannelSink(ctx, job.events)
	var last types.ProgressEvent
	sink := executor.SinkFunc(func(e types.ProgressEvent) {
		last = e
		r.observe(e)
		out.Publish(e)
	})

	sum, err := r.execute(ctx, plan, opts, sink)

	term := types.ProgressEvent{Progress: last.Progress, Current: last.Current, Total: last.Total}
	if err != nil {
		term.Kind = types.EventFailed
		term.Message = "Conversion failed: " + err.Error()
	} else {
		term.Kind = types.EventDone
		term.Message = fmt.Sprintf("Conversion finished: %d completed, %d skipped, %d failed",
			sum.Completed, sum.Skipped, sum.Failed)
	}
	r.observe(term)
	out.Publish(term)
	r.finish(sum, err)

	job.summary, job.err = sum, err
	close(job.events)
	close(job.done)
}

// execute shields the worker from a panicking engine.
func (r *Runner) execute(ctx context.Context, plan *types.ConversionPlan, opts executor.Options, sink executor.ProgressSink) (sum executor.Summary, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).Msg("executor panic")
			err = fmt.Errorf("executor panic: %v", p)
		}
	}()
	return r.engine.Execute(ctx, plan, opts, sink)
}

func (r *Runner) observe(e types.ProgressEvent) {
	r.mu.Lock()
	ev := e
	r.status.Last = &ev
	r.mu.Unlock()
}

func (r *Runner) finish(sum executor.Summary, err error) {
	r.mu.Lock()
	r.active = false
	r.status.Active = false
	r.status.FinishedUnix = time.Now().Unix()
	if err != nil {
		r.status.Error = err.Error()
	}
	r.mu.Unlock()

	fields := map[string]any{
		"completed": sum.Completed,
		"skipped":   sum.Skipped,
		"failed":    sum.Failed,
	}
	if err != nil {
		fields["error"] = err.Error()
		r.events.Publish(Event{Name: EventRunFailed, Fields: fields})
		r.log.Error().Err(err).Msg("run failed")
		return
	}
	r.events.Publish(Event{Name: EventRunFinished, Fields: fields})
	r.log.Info().Int("completed", sum.Completed).Int("skipped", sum.Skipped).Int("failed", sum.Failed).Msg("run finished")
}

// Job is a handle on a launched run.
type Job struct {
	events  chan types.ProgressEvent
	done    chan struct{}
	summary executor.Summary
	err     error
}

// Events yields progress in order and is closed after the terminal event.
// Consumers must drain it or cancel the run's context.
func (j *Job) Events() <-chan types.ProgressEvent { return j.events }

// Done is closed once the run is over.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the run is over and returns its outcome.
func (j *Job) Wait() (executor.Summary, error) {
	<-j.done
	return j.summary, j.err
}
