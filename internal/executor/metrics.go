package executor

import "github.com/prometheus/client_golang/prometheus"

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ggufconv",
			Subsystem: "executor",
			Name:      "runs_total",
			Help:      "Plan executions by outcome",
		},
		[]string{"result"},
	)

	targetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ggufconv",
			Subsystem: "executor",
			Name:      "targets_total",
			Help:      "Conversion targets by outcome (completed, skipped, failed)",
		},
		[]string{"result"},
	)

	intermediatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ggufconv",
			Subsystem: "executor",
			Name:      "intermediates_total",
			Help:      "F16 intermediates by outcome (converted, reused, failed)",
		},
		[]string{"result"},
	)

	cleanupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ggufconv",
			Subsystem: "executor",
			Name:      "cleanups_total",
			Help:      "Intermediate deletions by outcome",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, targetsTotal, intermediatesTotal, cleanupsTotal)
}
