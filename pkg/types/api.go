package types

// PlanRequest is the payload of POST /plan and POST /convert.
type PlanRequest struct {
	// Source weight files (.safetensors, .pth, .pt, .bin, .gguf).
	// example: ["/models/flux.safetensors"]
	Inputs []string `json:"inputs" example:"[\"/models/flux.safetensors\"]"`
	// Output formats passed to the quantizer.
	// example: ["Q4_K_M","Q8_0"]
	Formats []string `json:"formats" example:"[\"Q4_K_M\",\"Q8_0\"]"`
	// Optional directory for all outputs; empty writes next to each input.
	// example: /models/out
	OutputDir string `json:"output_dir,omitempty" example:"/models/out"`
	// Keep the F16 intermediate after its targets complete. Null uses the
	// server default.
	// example: false
	KeepIntermediate *bool `json:"keep_intermediate,omitempty" example:"false"`
}

// PlanResponse wraps a built plan with its counters.
type PlanResponse struct {
	Plan *ConversionPlan `json:"plan"`
	// Targets across all entries.
	// example: 4
	Targets int `json:"targets" example:"4"`
	// Targets that still need to be produced.
	// example: 3
	Pending int `json:"pending" example:"3"`
}

// FormatGroup is a named family of quantizer formats.
type FormatGroup struct {
	// example: Q4
	Name string `json:"name" example:"Q4"`
	// example: ["Q4_0","Q4_K_M"]
	Formats []Format `json:"formats" example:"[\"Q4_0\",\"Q4_K_M\"]"`
}

// FormatsResponse is returned by GET /formats.
type FormatsResponse struct {
	Groups []FormatGroup `json:"groups"`
}

// RunStatus describes the active or most recent conversion run.
type RunStatus struct {
	// True while a run is executing.
	// example: true
	Active bool `json:"active" example:"true"`
	// Last progress event observed for the run.
	Last *ProgressEvent `json:"last,omitempty"`
	// Start time (unix seconds).
	// example: 1700000000
	StartedUnix int64 `json:"started_unix,omitempty" example:"1700000000"`
	// Finish time (unix seconds); zero while active.
	// example: 1700000100
	FinishedUnix int64 `json:"finished_unix,omitempty" example:"1700000100"`
	// Terminal error message, if the run failed.
	Error string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Run RunStatus `json:"run"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
