// Package jobs hosts conversion runs for the CLI and the HTTP server.
//
// A Runner admits one run at a time. It validates the request, builds the
// plan, and drives the executor on a worker goroutine while progress flows
// back over a bounded channel. Files by concern:
//
//   - config.go: Config and package defaults; New applies defaults.
//   - errors.go: busyError and IsBusy.
//   - events.go: lifecycle events and the EventPublisher hook.
//   - runner.go: Prepare, Plan, Start and the Job handle.
//   - stream.go: Convert, which writes the progress stream as NDJSON.
//   - status.go: Status reporting for /status.
package jobs
