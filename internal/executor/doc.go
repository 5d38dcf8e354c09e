// Package executor drives a types.ConversionPlan to completion.
//
// Work is strictly sequential: entry by entry, target by target. For each
// entry the F16 intermediate is produced at most once (or reused when already
// on disk), every pending target is quantized from it, and the intermediate
// is removed afterwards unless it was requested, kept by option, or nothing
// downstream was produced.
//
// Failures are isolated: a failed conversion abandons only its entry and a
// failed quantization only its target. A missing tool executable and
// context cancellation end the run.
//
// Progress is reported through a ProgressSink. Hosts that run the executor on
// a worker goroutine use ChannelSink to hand events to their own loop.
package executor
