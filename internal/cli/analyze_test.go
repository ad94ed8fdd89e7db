// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"github.com/alvinbaena/pwd-bench/internal/render"
	"github.com/alvinbaena/pwd-bench/internal/session"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// gatedBackend blocks its first timed call until the gate is closed and records how
// many timed calls ever ran at the same time.
type gatedBackend struct {
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once

	active    atomic.Int32
	maxActive atomic.Int32
	calls     atomic.Int32
}

func (g *gatedBackend) Name() string { return backend.AcceleratedName }

func (g *gatedBackend) AnalyzeStrength(password string) (strength.Result, error) {
	return strength.Analyze(password), nil
}

func (g *gatedBackend) BenchmarkComputation(string, int) (float64, error) {
	g.calls.Add(1)
	n := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		m := g.maxActive.Load()
		if n <= m || g.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	g.once.Do(func() {
		close(g.entered)
		<-g.gate
	})
	return 1, nil
}

func TestAnalyzer_BenchmarksDoNotOverlap(t *testing.T) {
	gated := &gatedBackend{gate: make(chan struct{}), entered: make(chan struct{})}

	cfg := bench.DefaultConfig()
	cfg.Rounds = 1
	cfg.WarmupRounds = 0
	cfg.Settle = 0
	cfg.WarmupSettle = 0
	cfg.MinIterations, cfg.MaxIterations = 1, 1
	cfg.CollectGarbage = false

	a := &analyzer{
		runner:  backend.NewRunner(func() (backend.Backend, error) { return gated, nil }),
		harness: bench.NewHarness(cfg),
		state:   session.NewState(session.Dark),
		format:  render.JSON,
	}
	defer a.tracker.Cancel()

	a.startBenchmark(context.Background(), "first")
	<-gated.entered

	started := make(chan struct{})
	go func() {
		a.startBenchmark(context.Background(), "second")
		close(started)
	}()

	select {
	case <-started:
		t.Fatalf("Should not start a benchmark while the superseded one is still timing")
	case <-time.After(50 * time.Millisecond):
	}

	close(gated.gate)
	<-started
	a.waitBenchmark()

	require.Equal(t, int32(2), gated.calls.Load(), "Each benchmark should time the accelerated backend once")
	assert.Equal(t, int32(1), gated.maxActive.Load(), "Timed calls should never overlap")
}
