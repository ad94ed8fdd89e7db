// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package bench

import (
	"context"
	"github.com/alvinbaena/pwd-bench/internal/util"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/stats"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"runtime"
	"time"
	"unicode/utf8"
)

// Below this much free memory a warning is logged before a run, GC pauses skew the samples.
const lowMemoryBytes = 256 * 1024 * 1024

// Result is the comparison of two backends over the same password.
type Result struct {
	ID                 string       `json:"id" yaml:"id"`
	PasswordLength     int          `json:"passwordLength" yaml:"passwordLength"`
	ReferenceBackend   string       `json:"referenceBackend" yaml:"referenceBackend"`
	AcceleratedBackend string       `json:"acceleratedBackend" yaml:"acceleratedBackend"`
	ReferenceTimeMs    float64      `json:"referenceTimeMs" yaml:"referenceTimeMs"`
	AcceleratedTimeMs  float64      `json:"acceleratedTimeMs" yaml:"acceleratedTimeMs"`
	SpeedupRatio       float64      `json:"speedupRatio" yaml:"speedupRatio"`
	Iterations         int          `json:"iterationsPerRound" yaml:"iterationsPerRound"`
	Rounds             int          `json:"rounds" yaml:"rounds"`
	WarmupRounds       int          `json:"warmupRounds" yaml:"warmupRounds"`
	ReferenceStats     *stats.Stats `json:"referenceStats,omitempty" yaml:"referenceStats,omitempty"`
	AcceleratedStats   *stats.Stats `json:"acceleratedStats,omitempty" yaml:"acceleratedStats,omitempty"`
	Environment        *Environment `json:"environment,omitempty" yaml:"environment,omitempty"`
	StartedAt          time.Time    `json:"startedAt" yaml:"startedAt"`
	DurationMs         float64      `json:"durationMs" yaml:"durationMs"`
}

// SpeedupRatio is reference/accelerated, or exactly 1 when the accelerated time is not positive.
func SpeedupRatio(referenceMs, acceleratedMs float64) float64 {
	if acceleratedMs > 0 {
		return referenceMs / acceleratedMs
	}

	return 1.0
}

// Harness times backends strictly one after the other on the calling goroutine.
type Harness struct {
	cfg         Config
	environment func() *Environment
	collect     func()
}

func NewHarness(cfg Config) *Harness {
	return &Harness{
		cfg:         cfg,
		environment: CollectEnvironment,
		collect:     runtime.GC,
	}
}

func (h *Harness) Config() Config {
	return h.cfg
}

// Run collects one sample per round: GC hint, settle delay, then a single timed
// call running iterations back-to-back. Every call gets its own sample buffer.
func (h *Harness) Run(ctx context.Context, b backend.Backend, password string, iterations int, rounds int) ([]float64, error) {
	samples := make([]float64, 0, rounds)
	s := newStatus()
	s.StageWork(b.Name(), rounds)

	for round := 0; round < rounds; round++ {
		if h.cfg.CollectGarbage && h.collect != nil {
			h.collect()
		}

		if err := settle(ctx, h.cfg.Settle); err != nil {
			return nil, err
		}

		elapsed, err := b.BenchmarkComputation(password, iterations)
		if err != nil {
			return nil, &backend.AnalysisError{Backend: b.Name(), Err: err}
		}

		samples = append(samples, elapsed)
		s.Round(elapsed)
	}

	s.Done()
	return samples, nil
}

// Warmup exercises every backend with a reduced iteration count. Nothing is recorded.
func (h *Harness) Warmup(ctx context.Context, password string, iterations int, backends ...backend.Backend) error {
	n := h.cfg.WarmupIterations(iterations)
	s := newStatus()
	s.StageWork("Warm-up", h.cfg.WarmupRounds)

	for round := 0; round < h.cfg.WarmupRounds; round++ {
		for _, b := range backends {
			if _, err := b.BenchmarkComputation(password, n); err != nil {
				return &backend.AnalysisError{Backend: b.Name(), Err: err}
			}
		}

		if err := settle(ctx, h.cfg.WarmupSettle); err != nil {
			return err
		}
		s.Round(0)
	}

	s.Done()
	return nil
}

// Compare warms both backends up, times the reference and then the accelerated
// backend with identical parameters, and reduces both sample sets.
func (h *Harness) Compare(ctx context.Context, reference backend.Backend, accelerated backend.Backend, password string) (*Result, error) {
	m := util.Stats()
	defer m()
	util.CheckMemory(lowMemoryBytes)

	length := utf8.RuneCountInString(password)
	iterations := h.cfg.Iterations(length)
	res := &Result{
		ID:                 uuid.NewString(),
		PasswordLength:     length,
		ReferenceBackend:   reference.Name(),
		AcceleratedBackend: accelerated.Name(),
		Iterations:         iterations,
		Rounds:             h.cfg.Rounds,
		WarmupRounds:       h.cfg.WarmupRounds,
		StartedAt:          time.Now(),
	}

	p := message.NewPrinter(language.English)
	log.Info().Msgf("running benchmark %s with %s iterations over %d rounds", res.ID, p.Sprintf("%d", iterations), h.cfg.Rounds)

	if err := h.Warmup(ctx, password, iterations, reference, accelerated); err != nil {
		return nil, err
	}

	refSamples, err := h.Run(ctx, reference, password, iterations, h.cfg.Rounds)
	if err != nil {
		return nil, err
	}

	accSamples, err := h.Run(ctx, accelerated, password, iterations, h.cfg.Rounds)
	if err != nil {
		return nil, err
	}

	refStats := stats.Compute(refSamples)
	accStats := stats.Compute(accSamples)
	res.ReferenceStats = &refStats
	res.AcceleratedStats = &accStats
	res.ReferenceTimeMs = refStats.Median
	res.AcceleratedTimeMs = accStats.Median
	res.SpeedupRatio = SpeedupRatio(refStats.Median, accStats.Median)

	if h.environment != nil {
		res.Environment = h.environment()
	}
	res.DurationMs = float64(time.Since(res.StartedAt).Microseconds()) / 1000

	log.Info().Msgf("benchmark %s complete: %s=%.2fms, %s=%.2fms, speedup=%.2fx",
		res.ID, res.ReferenceBackend, res.ReferenceTimeMs, res.AcceleratedBackend, res.AcceleratedTimeMs, res.SpeedupRatio)
	return res, nil
}

// settle is the yield point between rounds. It returns early when ctx is done.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
