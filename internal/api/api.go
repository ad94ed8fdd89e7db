// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-bench/internal/dashboard"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"net/http"
)

// Panels is what the dashboard routes need from the dashboard.
type Panels interface {
	Refresh(ctx context.Context) (dashboard.Snapshot, error)
	// Last is the snapshot of the newest refresh that completed.
	Last() (dashboard.Snapshot, bool)
	Weather(ctx context.Context) (dashboard.Current, bool, error)
	Fact(ctx context.Context) (dashboard.Fact, error)
	Activity(ctx context.Context) ([]dashboard.Event, error)
}

type BenchObserver interface {
	Benchmarked(res *bench.Result)
}

type Deps struct {
	Runner *backend.Runner
	Bench  bench.Config
	// Optional, the dashboard routes are not registered without it.
	Dashboard Panels
	Observer  BenchObserver
}

type api struct {
	deps Deps
	// Benchmarks run one at a time, concurrent runs would skew each other's samples.
	benchmarks *semaphore.Weighted
}

func (a *api) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		Backend:  a.deps.Runner.Active().Name(),
		Degraded: a.deps.Runner.Degraded(),
	})
}

func (a *api) checkStrength(c *gin.Context) {
	var req strengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmp, err := a.deps.Runner.Compare(*req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := strengthResponse{
		ID:         uuid.NewString(),
		Backend:    cmp.Accelerated.Backend,
		Fallback:   cmp.Accelerated.Fallback,
		Degraded:   a.deps.Runner.Degraded(),
		Consistent: cmp.Consistent,
		Result:     cmp.Accelerated.Result,
		Reference:  cmp.Reference.Result,
		Zxcvbn:     cmp.Zxcvbn,
	}

	c.JSON(http.StatusOK, resp)
}

func (a *api) benchmark(c *gin.Context) {
	var req benchmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := a.deps.Bench
	if req.Rounds != nil {
		cfg.Rounds = *req.Rounds
	}
	if req.WarmupRounds != nil {
		cfg.WarmupRounds = *req.WarmupRounds
	}

	ctx := c.Request.Context()
	if err := a.benchmarks.Acquire(ctx, 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "benchmark cancelled while waiting for a running one"})
		return
	}
	defer a.benchmarks.Release(1)

	ref, acc := a.deps.Runner.Backends()
	res, err := bench.NewHarness(cfg).Compare(ctx, ref, acc, *req.Password)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		log.Error().Err(err).Msg("error running benchmark")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if a.deps.Observer != nil {
		a.deps.Observer.Benchmarked(res)
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) snapshot(c *gin.Context) {
	snap, err := a.deps.Dashboard.Refresh(c.Request.Context())
	if errors.Is(err, dashboard.ErrSuperseded) {
		// A newer refresh won, serve what it committed.
		if last, ok := a.deps.Dashboard.Last(); ok {
			snap = last
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (a *api) weather(c *gin.Context) {
	current, stale, err := a.deps.Dashboard.Weather(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"weather": current, "stale": stale})
}

func (a *api) fact(c *gin.Context) {
	f, err := a.deps.Dashboard.Fact(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, f)
}

func (a *api) activity(c *gin.Context) {
	events, err := a.deps.Dashboard.Activity(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func Register(group *gin.RouterGroup, deps Deps) error {
	if deps.Runner == nil {
		return errors.New("api requires a backend runner")
	}

	a := &api{deps: deps, benchmarks: semaphore.NewWeighted(1)}

	group.GET("/health", a.health)
	group.POST("/strength", a.checkStrength)
	group.POST("/benchmark", a.benchmark)

	if deps.Dashboard != nil {
		d := group.Group("/dashboard")
		d.GET("", a.snapshot)
		d.GET("/weather", a.weather)
		d.GET("/fact", a.fact)
		d.GET("/activity", a.activity)
	}

	return nil
}
