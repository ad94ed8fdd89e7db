// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Metrics holds the application collectors. It doubles as the backend observer.
type Metrics struct {
	analyses          *prometheus.CounterVec
	analysisFailures  *prometheus.CounterVec
	fallbacks         *prometheus.CounterVec
	loadFailures      *prometheus.CounterVec
	benchmarkDuration prometheus.Histogram
	speedup           prometheus.Gauge
	dashboardFetches  *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwdbench_analyses_total",
			Help: "Password analyses by the backend that produced the result",
		}, []string{"backend"}),
		analysisFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwdbench_analysis_failures_total",
			Help: "Failed backend invocations, including the ones the reference backend recovered",
		}, []string{"backend"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwdbench_backend_fallbacks_total",
			Help: "Calls served by the reference backend instead of the accelerated one",
		}, []string{"reason"}),
		loadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwdbench_backend_load_failures_total",
			Help: "Backends that could not be loaded",
		}, []string{"backend"}),
		benchmarkDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pwdbench_benchmark_duration_seconds",
			Help:    "Wall time of a full benchmark comparison",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),
		speedup: f.NewGauge(prometheus.GaugeOpts{
			Name: "pwdbench_speedup_ratio",
			Help: "Speedup of the accelerated backend in the latest benchmark",
		}),
		dashboardFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pwdbench_dashboard_fetch_total",
			Help: "Dashboard panel fetches by result",
		}, []string{"panel", "result"}),
	}
}

func (m *Metrics) LoadFailed(backend string, err error) {
	log.Debug().Err(err).Msgf("backend %s failed to load", backend)
	m.loadFailures.WithLabelValues(backend).Inc()
}

func (m *Metrics) Analyzed(backend string) {
	m.analyses.WithLabelValues(backend).Inc()
}

func (m *Metrics) AnalysisFailed(backend string, _ error) {
	m.analysisFailures.WithLabelValues(backend).Inc()
}

func (m *Metrics) FellBack(reason string) {
	m.fallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) Benchmarked(res *bench.Result) {
	m.benchmarkDuration.Observe(res.DurationMs / 1000)
	m.speedup.Set(res.SpeedupRatio)
}

func (m *Metrics) DashboardFetched(panel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.dashboardFetches.WithLabelValues(panel, result).Inc()
}
