package jobs

import (
	"context"
	"encoding/json"
	"io"

	"ggufconv/pkg/types"
)

// Convert starts req and streams its progress to w as NDJSON, one
// types.ProgressEvent per line, calling flush after each line when non-nil.
//
// An error is returned only if the run could not start (input errors, busy)
// or the stream could not be written. Once streaming has begun, the outcome
// of the run is carried by the terminal done/failed event.
func (r *Runner) Convert(ctx context.Context, req types.PlanRequest, w io.Writer, flush func()) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	job, err := r.Start(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	var writeErr error
	for ev := range job.Events() {
		if writeErr != nil {
			continue
		}
		if err := enc.Encode(ev); err != nil {
			// Reader is gone; stop the run and drain.
			writeErr = err
			cancel()
			continue
		}
		if flush != nil {
			flush()
		}
	}
	_, _ = job.Wait()
	return writeErr
}
