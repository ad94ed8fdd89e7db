// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"testing"
)

func TestMetrics_BackendObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	runner := backend.NewRunner(func() (backend.Backend, error) {
		return nil, errors.New("no accelerated backend here")
	}, backend.WithObserver(m))

	if _, err := runner.Analyze("hunter2"); err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	if got := testutil.ToFloat64(m.analyses.WithLabelValues(backend.ReferenceName)); got != 1 {
		t.Errorf("Reference analyses: %f, want: 1", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("load")); got != 1 {
		t.Errorf("Load fallbacks: %f, want: 1", got)
	}
	if got := testutil.ToFloat64(m.loadFailures.WithLabelValues(backend.AcceleratedName)); got != 1 {
		t.Errorf("Load failures: %f, want: 1", got)
	}
}

type brokenBackend struct{}

func (brokenBackend) Name() string { return backend.AcceleratedName }

func (brokenBackend) AnalyzeStrength(string) (strength.Result, error) {
	return strength.Result{}, errors.New("trap")
}

func (brokenBackend) BenchmarkComputation(string, int) (float64, error) {
	return 0, errors.New("trap")
}

func TestMetrics_RecoveredFailure(t *testing.T) {
	m := New(prometheus.NewRegistry())
	runner := backend.NewRunner(func() (backend.Backend, error) {
		return brokenBackend{}, nil
	}, backend.WithObserver(m))

	a, err := runner.Analyze("hunter2")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if a.Backend != backend.ReferenceName {
		t.Errorf("Should be answered by the reference backend, got %s", a.Backend)
	}

	if got := testutil.ToFloat64(m.analysisFailures.WithLabelValues(backend.AcceleratedName)); got != 1 {
		t.Errorf("Accelerated failures: %f, want: 1", got)
	}
	if got := testutil.ToFloat64(m.analysisFailures.WithLabelValues(backend.ReferenceName)); got != 0 {
		t.Errorf("Reference failures: %f, want: 0", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("invocation")); got != 1 {
		t.Errorf("Invocation fallbacks: %f, want: 1", got)
	}
	if got := testutil.ToFloat64(m.analyses.WithLabelValues(backend.ReferenceName)); got != 1 {
		t.Errorf("Reference analyses: %f, want: 1", got)
	}
}

func TestMetrics_Benchmark(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Benchmarked(&bench.Result{DurationMs: 1500, SpeedupRatio: 3.5})

	if got := testutil.ToFloat64(m.speedup); got != 3.5 {
		t.Errorf("Speedup: %f, want: 3.5", got)
	}
	if got := testutil.CollectAndCount(m.benchmarkDuration); got != 1 {
		t.Errorf("Histogram series: %d, want: 1", got)
	}
}

func TestMetrics_Dashboard(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.DashboardFetched("weather", nil)
	m.DashboardFetched("weather", errors.New("timeout"))
	m.DashboardFetched("fact", nil)

	if got := testutil.ToFloat64(m.dashboardFetches.WithLabelValues("weather", "error")); got != 1 {
		t.Errorf("Weather errors: %f, want: 1", got)
	}
	if got := testutil.CollectAndCount(m.dashboardFetches); got != 3 {
		t.Errorf("Dashboard series: %d, want: 3", got)
	}
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Errorf("Registering twice on the same registry should panic")
		}
	}()
	New(reg)
}
