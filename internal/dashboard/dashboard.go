// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"errors"
	"github.com/alvinbaena/pwd-bench/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
	"sync"
	"time"
)

const (
	PanelWeather  = "weather"
	PanelFact     = "fact"
	PanelActivity = "activity"
)

// ErrSuperseded is returned by Refresh when a newer refresh was issued before it finished.
var ErrSuperseded = errors.New("dashboard refresh superseded by a newer one")

type Config struct {
	WeatherURL  string
	FactURL     string
	ActivityURL string
	Latitude    float64
	Longitude   float64
	GitHubUser  string
	CacheTTL    time.Duration
	RetryMax    int
	Timeout     time.Duration
	// OnFetch is told about every panel fetch, err is nil on success.
	OnFetch func(panel string, err error)
}

func (c Config) withDefaults() Config {
	if c.WeatherURL == "" {
		c.WeatherURL = DefaultWeatherURL
	}
	if c.FactURL == "" {
		c.FactURL = DefaultFactURL
	}
	if c.ActivityURL == "" {
		c.ActivityURL = DefaultActivityURL
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 10 * time.Minute
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.OnFetch == nil {
		c.OnFetch = func(string, error) {}
	}
	return c
}

// Snapshot is the state of all panels after one refresh. A failing panel leaves its
// field empty and records the error, the other panels are unaffected.
type Snapshot struct {
	Weather      *Current          `json:"weather,omitempty" yaml:"weather,omitempty"`
	WeatherStale bool              `json:"weatherStale" yaml:"weatherStale"`
	Fact         *Fact             `json:"fact,omitempty" yaml:"fact,omitempty"`
	Activity     []Event           `json:"activity" yaml:"activity"`
	Errors       map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
	FetchedAt    time.Time         `json:"fetchedAt" yaml:"fetchedAt"`
}

type Dashboard struct {
	cfg      Config
	weather  *Weather
	facts    *Facts
	activity *Activity
	tracker  session.Tracker

	mu   sync.RWMutex
	last *Snapshot
}

func New(cfg Config) (*Dashboard, error) {
	cfg = cfg.withDefaults()
	client := initHttpClient(cfg.RetryMax, cfg.Timeout)

	weather, err := newWeather(client, cfg.WeatherURL, cfg.Latitude, cfg.Longitude, cfg.CacheTTL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		cfg:      cfg,
		weather:  weather,
		facts:    &Facts{http: client, url: cfg.FactURL},
		activity: &Activity{http: client, url: cfg.ActivityURL, user: cfg.GitHubUser},
	}, nil
}

func (d *Dashboard) Weather(ctx context.Context) (Current, bool, error) {
	c, stale, err := d.weather.Current(ctx)
	d.cfg.OnFetch(PanelWeather, err)
	return c, stale, err
}

func (d *Dashboard) Fact(ctx context.Context) (Fact, error) {
	f, err := d.facts.Random(ctx)
	d.cfg.OnFetch(PanelFact, err)
	return f, err
}

func (d *Dashboard) Activity(ctx context.Context) ([]Event, error) {
	events, err := d.activity.Recent(ctx)
	d.cfg.OnFetch(PanelActivity, err)
	return events, err
}

// Refresh loads every panel concurrently. Only the most recently started refresh
// becomes the Last snapshot; an older one still returns what it got, with ErrSuperseded.
func (d *Dashboard) Refresh(ctx context.Context) (Snapshot, error) {
	ticket, ctx := d.tracker.Begin(ctx)
	defer ticket.Done()

	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     3,
		NumWorkers:    3,
	})
	if err != nil {
		return Snapshot{}, err
	}
	defer tasks.Close()

	snap := Snapshot{Errors: map[string]string{}}
	var mu sync.Mutex
	fail := func(panel string, err error) {
		mu.Lock()
		defer mu.Unlock()
		snap.Errors[panel] = err.Error()
	}

	loaders := []func(){
		func() {
			c, stale, err := d.Weather(ctx)
			if err != nil {
				fail(PanelWeather, err)
				return
			}
			mu.Lock()
			snap.Weather, snap.WeatherStale = &c, stale
			mu.Unlock()
		},
		func() {
			f, err := d.Fact(ctx)
			if err != nil {
				fail(PanelFact, err)
				return
			}
			mu.Lock()
			snap.Fact = &f
			mu.Unlock()
		},
		func() {
			events, err := d.Activity(ctx)
			if err != nil {
				fail(PanelActivity, err)
				return
			}
			mu.Lock()
			snap.Activity = events
			mu.Unlock()
		},
	}

	for _, load := range loaders {
		if err = tasks.Publish(load); err != nil {
			log.Panic().Err(err).Msgf("there is a programming error here.")
		}
	}
	tasks.Wait()

	snap.FetchedAt = time.Now()
	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}

	if !ticket.Commit(func() {
		d.mu.Lock()
		d.last = &snap
		d.mu.Unlock()
	}) {
		log.Debug().Msg("discarding superseded dashboard refresh")
		return snap, ErrSuperseded
	}

	return snap, nil
}

// Last returns the snapshot of the latest committed refresh, if any.
func (d *Dashboard) Last() (Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.last == nil {
		return Snapshot{}, false
	}
	return *d.last, true
}

func (d *Dashboard) Close() {
	d.tracker.Cancel()
	d.weather.Close()
}
