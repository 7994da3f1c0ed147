// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package metrics exposes prometheus counters for lifecycle actions and
// operation waits
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcevm/vmctl/internal/core"
)

// Outcomes recorded for lifecycle actions
const (
	OutcomeSuccess = "success"
	OutcomeNoop    = "noop"
	OutcomeFailure = "failure"
)

// Recorder owns a private registry so repeated construction in tests and in
// serve mode never collides with the default registry. A nil Recorder
// records nothing.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	polls      *prometheus.CounterVec
	wait       *prometheus.HistogramVec
}

// NewRecorder creates and registers the vmctl metrics
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vmctl",
			Name:      "lifecycle_operations_total",
			Help:      "Lifecycle actions by outcome.",
		}, []string{"action", "outcome"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vmctl",
			Name:      "operation_polls_total",
			Help:      "Remote operation status fetches by scope.",
		}, []string{"scope"}),
		wait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vmctl",
			Name:      "operation_wait_seconds",
			Help:      "Time spent waiting for remote operations.",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"label"}),
	}
	r.registry.MustRegister(r.operations, r.polls, r.wait)
	return r
}

// Operation counts one lifecycle action
func (r *Recorder) Operation(action, outcome string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(action, outcome).Inc()
}

// Poll counts one operation status fetch
func (r *Recorder) Poll(scope core.OperationScope) {
	if r == nil {
		return
	}
	r.polls.WithLabelValues(string(scope)).Inc()
}

// ObserveWait records how long an operation wait took
func (r *Recorder) ObserveWait(label string, d time.Duration) {
	if r == nil {
		return
	}
	r.wait.WithLabelValues(label).Observe(d.Seconds())
}

// Registry returns the registry holding the vmctl metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RegisterMetrics mounts the handler on /metrics
func (r *Recorder) RegisterMetrics(mux *http.ServeMux) {
	mux.Handle("/metrics", r.Handler())
}
