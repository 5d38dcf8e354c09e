package executor

import (
	"context"
	"sync"

	"ggufconv/pkg/types"
)

// ProgressSink receives progress events. Publish is called from the
// executor's goroutine, in order, and must not panic.
type ProgressSink interface {
	Publish(types.ProgressEvent)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(types.ProgressEvent)

func (f SinkFunc) Publish(e types.ProgressEvent) { f(e) }

// nopSink is the default; it drops events.
type nopSink struct{}

func (nopSink) Publish(types.ProgressEvent) {}

// ChannelSink hands events to another goroutine over a bounded channel.
// Publish blocks while the channel is full and drops the event once ctx is
// done, so a consumer that went away cannot wedge the executor.
type ChannelSink struct {
	ctx context.Context
	ch  chan<- types.ProgressEvent
}

// NewChannelSink returns a sink writing to ch. The caller owns ch.
func NewChannelSink(ctx context.Context, ch chan<- types.ProgressEvent) *ChannelSink {
	return &ChannelSink{ctx: ctx, ch: ch}
}

func (s *ChannelSink) Publish(e types.ProgressEvent) {
	select {
	case s.ch <- e:
	case <-s.ctx.Done():
	}
}

// MemorySink stores events in memory, mainly for tests.
type MemorySink struct {
	mu     sync.Mutex
	events []types.ProgressEvent
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Publish(e types.ProgressEvent) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (s *MemorySink) Events() []types.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ProgressEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Kinds returns the recorded event kinds in order.
func (s *MemorySink) Kinds() []types.EventKind {
	evs := s.Events()
	out := make([]types.EventKind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}
