// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
)

const (
	ReferenceName   = "reference"
	AcceleratedName = "accelerated"
)

// Backend is an interchangeable implementation of the scoring engine.
type Backend interface {
	Name() string
	// AnalyzeStrength scores a single password.
	AnalyzeStrength(password string) (strength.Result, error)
	// BenchmarkComputation scores the password iterations times back-to-back and
	// returns the elapsed wall-clock time in milliseconds.
	BenchmarkComputation(password string, iterations int) (float64, error)
}

// ErrBackendLoad is wrapped by every LoadError.
var ErrBackendLoad = errors.New("backend unavailable")

// LoadError reports that a backend could not be initialised.
type LoadError struct {
	Backend string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s backend: %s", e.Backend, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{ErrBackendLoad, e.Err}
}

// AnalysisError reports a failed scoring call. No partial result accompanies it.
type AnalysisError struct {
	Backend string
	Err     error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s analysis failed: %s", e.Backend, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
