// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
	"github.com/rs/zerolog/log"
	"sync"
)

// LoaderFunc initialises a backend. LoadAccelerated is the default one.
type LoaderFunc func() (Backend, error)

// Analysis is a scoring result tagged with the backend that produced it.
type Analysis struct {
	strength.Result `yaml:",inline"`
	Backend         string `json:"backend" yaml:"backend"`
	Fallback        bool   `json:"fallback" yaml:"fallback"`
}

// Comparison holds the reference and accelerated analyses of the same password,
// with zxcvbn's estimate as a second opinion.
type Comparison struct {
	Reference   Analysis  `json:"reference" yaml:"reference"`
	Accelerated Analysis  `json:"accelerated" yaml:"accelerated"`
	Consistent  bool      `json:"consistent" yaml:"consistent"`
	Zxcvbn      *Estimate `json:"zxcvbn,omitempty" yaml:"zxcvbn,omitempty"`
}

// Observer is notified about backend selection events. Metrics hook in here.
type Observer interface {
	LoadFailed(backend string, err error)
	Analyzed(backend string)
	AnalysisFailed(backend string, err error)
	FellBack(reason string)
}

type Option func(*Runner)

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

func WithReference(b Backend) Option {
	return func(r *Runner) {
		r.reference = b
	}
}

// Runner owns the accelerated/reference selection. The accelerated backend is
// loaded once; if that fails the runner stays in reference-only mode.
type Runner struct {
	loader    LoaderFunc
	reference Backend
	observer  Observer

	once        sync.Once
	accelerated Backend
	loadErr     error
}

func NewRunner(loader LoaderFunc, opts ...Option) *Runner {
	r := &Runner{
		loader:    loader,
		reference: Reference(),
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Load initialises the accelerated backend if it was not tried yet and returns the load error, if any.
func (r *Runner) Load() error {
	r.once.Do(func() {
		if r.loader == nil {
			r.loadErr = &LoadError{Backend: AcceleratedName, Err: errors.New("no loader configured")}
		} else {
			r.accelerated, r.loadErr = safeLoad(r.loader)
		}

		if r.loadErr != nil {
			r.accelerated = nil
			log.Warn().Err(r.loadErr).Msg("accelerated backend unavailable, using the reference backend for this session")
			r.observer.LoadFailed(AcceleratedName, r.loadErr)
			r.observer.FellBack("load")
			return
		}

		log.Debug().Msgf("%s backend loaded", r.accelerated.Name())
	})

	return r.loadErr
}

// Degraded reports whether the runner is in reference-only mode.
func (r *Runner) Degraded() bool {
	return r.Load() != nil
}

// Active returns the backend that answers Analyze calls.
func (r *Runner) Active() Backend {
	if r.Degraded() {
		return r.reference
	}
	return r.accelerated
}

// Backends returns the pair to benchmark. When degraded both are the reference backend.
func (r *Runner) Backends() (reference Backend, accelerated Backend) {
	return r.reference, r.Active()
}

// Analyze scores the password on the active backend. An accelerated failure falls
// back to the reference for this call only; if that also fails an *AnalysisError is returned.
func (r *Runner) Analyze(password string) (Analysis, error) {
	active := r.Active()
	result, err := safeAnalyze(active, password)
	if err == nil {
		r.observer.Analyzed(active.Name())
		return Analysis{Result: result, Backend: active.Name(), Fallback: r.Degraded()}, nil
	}

	r.observer.AnalysisFailed(active.Name(), err)
	if active == r.reference {
		return Analysis{}, err
	}

	log.Warn().Err(err).Msgf("falling back to the %s backend", r.reference.Name())
	r.observer.FellBack("invocation")

	result, err = safeAnalyze(r.reference, password)
	if err != nil {
		r.observer.AnalysisFailed(r.reference.Name(), err)
		return Analysis{}, err
	}

	r.observer.Analyzed(r.reference.Name())
	return Analysis{Result: result, Backend: r.reference.Name(), Fallback: true}, nil
}

// Compare scores the password on the reference backend and through Analyze.
func (r *Runner) Compare(password string) (Comparison, error) {
	ref, err := safeAnalyze(r.reference, password)
	if err != nil {
		r.observer.AnalysisFailed(r.reference.Name(), err)
		return Comparison{}, err
	}
	r.observer.Analyzed(r.reference.Name())

	acc, err := r.Analyze(password)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{
		Reference:   Analysis{Result: ref, Backend: r.reference.Name()},
		Accelerated: acc,
		Consistent:  ref.Score == acc.Score,
		Zxcvbn:      Zxcvbn(password),
	}, nil
}

func safeLoad(loader LoaderFunc) (b Backend, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			b = nil
			err = &LoadError{Backend: AcceleratedName, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	b, err = loader()
	if err != nil {
		var le *LoadError
		if !errors.As(err, &le) {
			err = &LoadError{Backend: AcceleratedName, Err: err}
		}
		return nil, err
	}
	if b == nil {
		return nil, &LoadError{Backend: AcceleratedName, Err: errors.New("loader returned no backend")}
	}

	return b, nil
}

func safeAnalyze(b Backend, password string) (result strength.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &AnalysisError{Backend: b.Name(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	result, err = b.AnalyzeStrength(password)
	if err != nil {
		return strength.Result{}, &AnalysisError{Backend: b.Name(), Err: err}
	}

	return result, nil
}

type nopObserver struct{}

func (nopObserver) LoadFailed(string, error)     {}
func (nopObserver) Analyzed(string)              {}
func (nopObserver) AnalysisFailed(string, error) {}
func (nopObserver) FellBack(string)              {}
