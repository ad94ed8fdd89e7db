// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package bench

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
	"testing"
	"time"
)

type scriptedBackend struct {
	name    string
	samples []float64
	err     error
	calls   []int
}

func (s *scriptedBackend) Name() string { return s.name }

func (s *scriptedBackend) AnalyzeStrength(password string) (strength.Result, error) {
	return strength.Analyze(password), nil
}

func (s *scriptedBackend) BenchmarkComputation(_ string, iterations int) (float64, error) {
	s.calls = append(s.calls, iterations)
	if s.err != nil {
		return 0, s.err
	}
	if len(s.samples) == 0 {
		return 1, nil
	}
	v := s.samples[0]
	s.samples = s.samples[1:]
	return v, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Settle = 0
	cfg.WarmupSettle = 0
	cfg.CollectGarbage = false
	return cfg
}

func testHarness(cfg Config) *Harness {
	h := NewHarness(cfg)
	h.environment = nil
	return h
}

func TestIterations(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		length int
		want   int
	}{
		{0, 50000},
		{1, 50000},
		{2, 50000},
		{3, 33334},
		{10, 10000},
		{20, 5000},
		{40, 5000},
		{1000, 5000},
	}

	for _, tc := range cases {
		if got := cfg.Iterations(tc.length); got != tc.want {
			t.Errorf("Iterations(%d): %d, want: %d", tc.length, got, tc.want)
		}
	}
}

func TestWarmupIterations(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.WarmupIterations(50000); got != 2000 {
		t.Errorf("WarmupIterations(50000): %d, want: 2000", got)
	}
	if got := cfg.WarmupIterations(3000); got != 1500 {
		t.Errorf("WarmupIterations(3000): %d, want: 1500", got)
	}
	if got := cfg.WarmupIterations(1); got != 1 {
		t.Errorf("WarmupIterations(1): %d, want: 1", got)
	}
}

func TestSpeedupRatio(t *testing.T) {
	if got := SpeedupRatio(100, 0); got != 1.0 {
		t.Errorf("SpeedupRatio(100, 0): %f, want: 1.0", got)
	}
	if got := SpeedupRatio(100, -3); got != 1.0 {
		t.Errorf("SpeedupRatio(100, -3): %f, want: 1.0", got)
	}
	if got := SpeedupRatio(100, 25); got != 4.0 {
		t.Errorf("SpeedupRatio(100, 25): %f, want: 4.0", got)
	}
}

func TestRun_CollectsOneSamplePerRound(t *testing.T) {
	collected := 0
	cfg := testConfig()
	cfg.CollectGarbage = true
	h := testHarness(cfg)
	h.collect = func() { collected++ }

	b := &scriptedBackend{name: "fake", samples: []float64{3, 1, 2}}
	samples, err := h.Run(context.Background(), b, "hunter2", 42, 3)
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	if len(samples) != 3 || samples[0] != 3 || samples[1] != 1 || samples[2] != 2 {
		t.Errorf("Samples should keep round order: %v", samples)
	}
	if collected != 3 {
		t.Errorf("GC hint should run once per round, ran %d times", collected)
	}
	for _, it := range b.calls {
		if it != 42 {
			t.Errorf("Every round should run 42 iterations, got %d", it)
		}
	}
}

func TestRun_BackendFailure(t *testing.T) {
	h := testHarness(testConfig())
	b := &scriptedBackend{name: "fake", err: errors.New("trap")}

	_, err := h.Run(context.Background(), b, "x", 10, 3)
	var ae *backend.AnalysisError
	if !errors.As(err, &ae) {
		t.Errorf("Backend failures should surface as *AnalysisError: %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	cfg := testConfig()
	cfg.Settle = time.Hour
	h := testHarness(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &scriptedBackend{name: "fake"}
	if _, err := h.Run(ctx, b, "x", 10, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("Should stop at the settle point when cancelled: %v", err)
	}
	if len(b.calls) != 0 {
		t.Errorf("No round should run after cancellation")
	}
}

func TestCompare_Symmetric(t *testing.T) {
	cfg := testConfig()
	cfg.Rounds = 5
	cfg.WarmupRounds = 2
	h := testHarness(cfg)

	ref := &scriptedBackend{name: "ref", samples: []float64{1, 1, 10, 10, 10, 100, 10}}
	acc := &scriptedBackend{name: "acc", samples: []float64{1, 1, 5, 5, 5, 5, 50}}

	res, err := h.Compare(context.Background(), ref, acc, "MySecurePassword123!")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}

	if len(ref.calls) != len(acc.calls) {
		t.Fatalf("Both backends should be called equally: %d vs %d", len(ref.calls), len(acc.calls))
	}
	for i := range ref.calls {
		if ref.calls[i] != acc.calls[i] {
			t.Errorf("Call %d iterations differ: %d vs %d", i, ref.calls[i], acc.calls[i])
		}
	}
	if len(ref.calls) != cfg.WarmupRounds+cfg.Rounds {
		t.Errorf("Calls: %d, want: %d", len(ref.calls), cfg.WarmupRounds+cfg.Rounds)
	}
	if ref.calls[0] != 2000 || ref.calls[len(ref.calls)-1] != 5000 {
		t.Errorf("Unexpected iteration counts: %v", ref.calls)
	}

	if res.ReferenceStats.Outliers != 1 || res.ReferenceTimeMs != 10 {
		t.Errorf("Reference stats: %+v", res.ReferenceStats)
	}
	if res.AcceleratedStats.Outliers != 1 || res.AcceleratedTimeMs != 5 {
		t.Errorf("Accelerated stats: %+v", res.AcceleratedStats)
	}
	if res.SpeedupRatio != 2 {
		t.Errorf("Speedup: %f, want: 2", res.SpeedupRatio)
	}
	if res.Iterations != 5000 || res.Rounds != 5 || res.WarmupRounds != 2 || res.PasswordLength != 20 {
		t.Errorf("Unexpected parameters: %+v", res)
	}
	if res.ID == "" {
		t.Errorf("Result should carry an id")
	}
}

func TestCompare_ZeroAcceleratedTime(t *testing.T) {
	cfg := testConfig()
	cfg.Rounds = 3
	cfg.WarmupRounds = 0
	h := testHarness(cfg)

	ref := &scriptedBackend{name: "ref", samples: []float64{100, 100, 100}}
	acc := &scriptedBackend{name: "acc", samples: []float64{0, 0, 0}}

	res, err := h.Compare(context.Background(), ref, acc, "pw")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if res.SpeedupRatio != 1.0 {
		t.Errorf("Zero accelerated time should give a speedup of exactly 1, got %f", res.SpeedupRatio)
	}
}

func TestCompare_RealBackends(t *testing.T) {
	cfg := testConfig()
	cfg.Rounds = 4
	cfg.WarmupRounds = 1
	cfg.MinIterations = 50
	cfg.MaxIterations = 100
	h := testHarness(cfg)

	acc, err := backend.LoadAccelerated()
	if err != nil {
		t.Fatalf("Should not fail loading: %s", err)
	}

	res, err := h.Compare(context.Background(), backend.Reference(), acc, "Tr0ub4dor&3")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if res.ReferenceStats.Count+res.ReferenceStats.Outliers != 4 {
		t.Errorf("Reference should have 4 samples: %+v", res.ReferenceStats)
	}
	if res.SpeedupRatio <= 0 {
		t.Errorf("Speedup should be positive: %f", res.SpeedupRatio)
	}
}
