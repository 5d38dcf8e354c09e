package tools

import "github.com/prometheus/client_golang/prometheus"

var (
	toolRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ggufconv",
			Subsystem: "tool",
			Name:      "runs_total",
			Help:      "External tool invocations by tool and result",
		},
		[]string{"tool", "result"},
	)

	toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ggufconv",
			Subsystem: "tool",
			Name:      "duration_seconds",
			Help:      "Wall time of external tool invocations in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		},
		[]string{"tool", "result"},
	)
)

func init() {
	prometheus.MustRegister(toolRuns, toolDuration)
}
