// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package bench

import (
	"math"
	"time"
)

type Config struct {
	// Rounds is the number of timed rounds per backend.
	Rounds int
	// WarmupRounds run before timing starts; their samples are discarded.
	WarmupRounds int
	// WarmupIterationCap bounds the iterations of a single warm-up call.
	WarmupIterationCap int
	// Settle is the pause before every timed round.
	Settle time.Duration
	// WarmupSettle is the pause after every warm-up round.
	WarmupSettle time.Duration
	// MinIterations and MaxIterations bound the iterations per round.
	MinIterations int
	MaxIterations int
	// CollectGarbage runs the collector before every timed round.
	CollectGarbage bool
}

func DefaultConfig() Config {
	return Config{
		Rounds:             15,
		WarmupRounds:       5,
		WarmupIterationCap: 2000,
		Settle:             5 * time.Millisecond,
		WarmupSettle:       10 * time.Millisecond,
		MinIterations:      5000,
		MaxIterations:      50000,
		CollectGarbage:     true,
	}
}

// referenceLength is the password length that gets exactly MinIterations.
const referenceLength = 20

// Iterations scales the per-round iteration count inversely with the password
// length, so that every round costs about the same wall-clock time.
func (c Config) Iterations(length int) int {
	if length < 1 {
		length = 1
	}

	scaled := int(math.Ceil(float64(c.MinIterations) * referenceLength / float64(length)))
	if scaled > c.MaxIterations {
		scaled = c.MaxIterations
	}
	if scaled < c.MinIterations {
		scaled = c.MinIterations
	}

	return scaled
}

// WarmupIterations is the per-call iteration count used while warming up.
func (c Config) WarmupIterations(iterations int) int {
	n := iterations / 2
	if c.WarmupIterationCap > 0 && n > c.WarmupIterationCap {
		n = c.WarmupIterationCap
	}
	if n < 1 {
		n = 1
	}

	return n
}
