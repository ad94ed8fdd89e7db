// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package backend

import (
	"github.com/alvinbaena/pwd-bench/pkg/strength"
	"sync/atomic"
	"time"
)

type reference struct{}

// Reference returns the portable in-process scorer. It never fails to load.
func Reference() Backend {
	return reference{}
}

func (reference) Name() string {
	return ReferenceName
}

func (reference) AnalyzeStrength(password string) (strength.Result, error) {
	return strength.Analyze(password), nil
}

func (r reference) BenchmarkComputation(password string, iterations int) (float64, error) {
	return timeAnalyses(r.AnalyzeStrength, password, iterations)
}

// timeAnalyses runs the full analysis iterations times, so every backend is timed on the
// same work: scoring, feedback and entropy/crack-time estimation.
func timeAnalyses(analyze func(string) (strength.Result, error), password string, iterations int) (float64, error) {
	sink := 0
	start := time.Now()
	for i := 0; i < iterations; i++ {
		r, err := analyze(password)
		if err != nil {
			return 0, err
		}
		sink += r.Score
	}
	elapsed := time.Since(start)

	keep(sink)
	return millis(elapsed), nil
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / float64(time.Millisecond)
}

var blackhole int64

// keep stops the compiler from discarding benchmark loops.
func keep(v int) {
	atomic.StoreInt64(&blackhole, int64(v))
}
