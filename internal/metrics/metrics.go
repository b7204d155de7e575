// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "spendlens",
			Subsystem: "analysis",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of segment analysis sweeps by axis",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"axis"},
	)

	SweepErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spendlens",
			Subsystem: "analysis",
			Name:      "sweep_errors_total",
			Help:      "Failed analysis sweeps by axis",
		},
		[]string{"axis"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spendlens",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)
)

// Register installs the collectors into the default registry. Safe to call
// more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(SweepDuration, SweepErrors, HTTPRequests)
	})
}
