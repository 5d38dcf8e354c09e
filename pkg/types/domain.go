package types

import "strings"

// Format identifies a GGUF tensor type understood by the quantizer (e.g. Q4_K_M).
// It is an open set: values are passed through to the quantizer, which is the
// only authority on which ones are legal.
type Format string

// IntermediateFormat is the half-precision format produced by the converter.
const IntermediateFormat Format = "F16"

// NormalizeFormat trims surrounding whitespace and upper-cases s.
func NormalizeFormat(s string) Format {
	return Format(strings.ToUpper(strings.TrimSpace(s)))
}

func (f Format) String() string { return string(f) }

// IsIntermediate reports whether f names the intermediate F16 format.
func (f Format) IsIntermediate() bool { return f == IntermediateFormat }

// ConversionTarget is one requested (input, format) pairing.
type ConversionTarget struct {
	// Requested output format.
	// example: Q4_K_M
	Format Format `json:"format" example:"Q4_K_M"`
	// Final path of the quantized file.
	// example: /models/flux-Q4_K_M.gguf
	OutputPath string `json:"output" example:"/models/flux-Q4_K_M.gguf"`
	// True when a non-empty file already existed at OutputPath when the plan was built.
	// example: false
	Exists bool `json:"exists" example:"false"`
}

// ModelPlanEntry groups all targets produced from a single input file.
type ModelPlanEntry struct {
	// Absolute path of the source weights.
	// example: /models/flux.safetensors
	InputPath string `json:"input" example:"/models/flux.safetensors"`
	// Path of the F16 GGUF intermediate.
	// example: /models/flux-F16.gguf
	IntermediatePath string `json:"f16" example:"/models/flux-F16.gguf"`
	// Targets in requested-format order.
	Targets []ConversionTarget `json:"outputs"`
}

// AllExist reports whether every target of the entry was present at plan time.
func (e ModelPlanEntry) AllExist() bool {
	for _, t := range e.Targets {
		if !t.Exists {
			return false
		}
	}
	return true
}

// RequestsIntermediate reports whether the F16 format itself is a requested target.
func (e ModelPlanEntry) RequestsIntermediate() bool {
	for _, t := range e.Targets {
		if t.Format.IsIntermediate() {
			return true
		}
	}
	return false
}

// InputIsIntermediate reports whether the input file already is the intermediate,
// i.e. no conversion step is needed and the file must never be removed.
func (e ModelPlanEntry) InputIsIntermediate() bool {
	return e.InputPath == e.IntermediatePath
}

// ConversionPlan is the ordered description of the work for one run.
type ConversionPlan struct {
	Entries []ModelPlanEntry `json:"entries"`
}

// PendingCount returns the number of targets not yet present on disk.
func (p *ConversionPlan) PendingCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, e := range p.Entries {
		for _, t := range e.Targets {
			if !t.Exists {
				n++
			}
		}
	}
	return n
}

// TargetCount returns the total number of targets in the plan.
func (p *ConversionPlan) TargetCount() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, e := range p.Entries {
		n += len(e.Targets)
	}
	return n
}

// EventKind classifies a ProgressEvent.
type EventKind string

const (
	EventNothingToDo         EventKind = "nothing_to_do"
	EventEntrySkipped        EventKind = "entry_skipped"
	EventReusingIntermediate EventKind = "reusing_intermediate"
	EventConverting          EventKind = "converting"
	EventIntermediateReady   EventKind = "intermediate_ready"
	EventTargetSkipped       EventKind = "target_skipped"
	EventQuantizing          EventKind = "quantizing"
	EventCompleted           EventKind = "completed"
	EventError               EventKind = "error"
	EventCleanup             EventKind = "cleanup"
	EventDone                EventKind = "done"
	EventFailed              EventKind = "failed"
)

// Terminal reports whether no further events follow k in a run.
func (k EventKind) Terminal() bool { return k == EventDone || k == EventFailed }

// ProgressEvent is a single progress notification emitted during execution.
type ProgressEvent struct {
	// Event classification.
	// example: completed
	Kind EventKind `json:"kind" example:"completed"`
	// Human-readable status line.
	// example: Completed Q4_K_M quantization for model 1/2: flux.safetensors
	Message string `json:"message" example:"Completed Q4_K_M quantization for model 1/2: flux.safetensors"`
	// Percentage of pending conversions finished, 0-100.
	// example: 50
	Progress float64 `json:"progress" example:"50"`
	// Completed conversions so far.
	// example: 1
	Current int `json:"current" example:"1"`
	// Conversions pending at the start of the run.
	// example: 2
	Total int `json:"total" example:"2"`
	// Input path the event refers to, if any.
	Input string `json:"input,omitempty"`
	// Format the event refers to, if any.
	Format Format `json:"format,omitempty"`
}
