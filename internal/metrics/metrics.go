// Package metrics collects Prometheus statistics about maze generation and
// solving. The collectors live in their own registry so a run can write them
// to a node-exporter textfile when it finishes.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	maze "github.com/yalue/textmaze"
)

const namespace = "textmaze"

// Recorder holds the collectors for one process.
type Recorder struct {
	registry *prometheus.Registry

	// runs counts generation attempts.
	// Labels: status (ok, unreachable, iteration_limit, invalid)
	runs *prometheus.CounterVec

	// iterations counts wall proposals.
	// Labels: kind (productive, total)
	iterations *prometheus.CounterVec

	// productiveRatio tracks the share of proposals that opened a wall.
	productiveRatio prometheus.Histogram

	// generationSeconds measures time spent in the generator.
	generationSeconds prometheus.Histogram

	// routeLength tracks the number of cells on found routes.
	routeLength prometheus.Histogram

	// searches counts route searches.
	// Labels: result (found, no_route)
	searches *prometheus.CounterVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generate",
			Name:      "runs_total",
			Help:      "Maze generation attempts by outcome",
		}, []string{"status"}),
		iterations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generate",
			Name:      "iterations_total",
			Help:      "Wall proposals made by the generator",
		}, []string{"kind"}),
		productiveRatio: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generate",
			Name:      "productive_ratio",
			Help:      "Fraction of wall proposals that opened a wall",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		}),
		generationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generate",
			Name:      "duration_seconds",
			Help:      "Time spent generating a maze",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		routeLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "length_cells",
			Help:      "Number of cells on found routes",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "searches_total",
			Help:      "Route searches by result",
		}, []string{"result"}),
	}
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordGeneration records a successful generation.
func (r *Recorder) RecordGeneration(stats maze.Stats) {
	r.runs.WithLabelValues("ok").Inc()
	r.iterations.WithLabelValues("productive").Add(float64(stats.Productive))
	r.iterations.WithLabelValues("total").Add(float64(stats.Total))
	if stats.Total > 0 {
		r.productiveRatio.Observe(stats.Ratio())
	}
	r.generationSeconds.Observe(stats.Duration.Seconds())
}

// RecordGenerationFailure records a failed generation with a status label
// derived from the error.
func (r *Recorder) RecordGenerationFailure(e error) {
	r.runs.WithLabelValues(FailureStatus(e)).Inc()
}

// FailureStatus maps generator errors to the status label values.
func FailureStatus(e error) string {
	switch {
	case e == nil:
		return "ok"
	case errors.Is(e, maze.ErrUnreachable):
		return "unreachable"
	case errors.Is(e, maze.ErrIterationLimit):
		return "iteration_limit"
	}
	return "invalid"
}

// RecordRoute records the outcome of a route search. A nil route counts as
// no route.
func (r *Recorder) RecordRoute(route maze.Route) {
	if route == nil {
		r.searches.WithLabelValues("no_route").Inc()
		return
	}
	r.searches.WithLabelValues("found").Inc()
	r.routeLength.Observe(float64(len(route)))
}

// WriteTextfile writes every collector to path in the text exposition format,
// for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry())
}
