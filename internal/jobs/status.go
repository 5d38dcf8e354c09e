package jobs

import (
	"time"

	"ggufconv/pkg/types"
)

// Busy reports whether a run is active.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Status builds the response for /status.
func (r *Runner) Status() types.StatusResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	run := r.status
	if run.Last != nil {
		last := *run.Last
		run.Last = &last
	}
	return types.StatusResponse{
		Run:           run,
		UptimeSeconds: int64(time.Since(r.startTime).Seconds()),
	}
}
