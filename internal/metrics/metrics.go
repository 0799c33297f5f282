// Package metrics exposes ensemble progress as Prometheus collectors. The
// recorder plugs into the simulator through lifecycle hooks, so the runner
// itself stays free of instrumentation.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Recorder owns a private registry, so tests and concurrent simulators
// never fight over the global one.
type Recorder struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	trials   *prometheus.CounterVec
	inflight prometheus.Gauge
	runSecs  prometheus.Histogram
	trialSec prometheus.Histogram
}

// NewRecorder creates the collectors and registers them.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nbstp",
				Name:      "runs_total",
				Help:      "Completed Monte Carlo runs.",
			},
			[]string{"outcome", "scenario"},
		),
		trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nbstp",
				Name:      "trials_total",
				Help:      "Completed ensemble members.",
			},
			[]string{"outcome"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "nbstp",
				Name:      "runs_inflight",
				Help:      "Runs currently executing.",
			},
		),
		runSecs: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "nbstp",
				Name:      "run_duration_seconds",
				Help:      "Wall time per run.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		trialSec: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "nbstp",
				Name:      "trial_duration_seconds",
				Help:      "Wall time per ensemble member.",
				// Trials are far quicker than HTTP requests; the default
				// buckets would put them all in the first one.
				Buckets: prometheus.ExponentialBuckets(1e-5, 10, 7),
			},
		),
	}
	r.registry.MustRegister(r.runs, r.trials, r.inflight, r.runSecs, r.trialSec)
	return r
}

// Hooks returns lifecycle hooks feeding the collectors. Merge them with any
// logging hooks before handing them to the simulator.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, _ *domain.RunEvent) {
			r.inflight.Inc()
		},
		OnTrialDone: func(_ context.Context, ev *domain.TrialEvent) {
			r.trials.WithLabelValues(outcome(ev.Err)).Inc()
			r.trialSec.Observe(ev.Elapsed.Seconds())
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			r.inflight.Dec()
			r.runs.WithLabelValues(outcome(ev.Err), ev.Scenario).Inc()
			r.runSecs.Observe(ev.Elapsed.Seconds())
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
