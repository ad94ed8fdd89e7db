// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"github.com/dgraph-io/ristretto"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultWeatherURL = "https://api.met.no/weatherapi/locationforecast/2.0/compact"
	weatherKey        = "weather"
)

// Current is the reduced view of the first forecast entry.
type Current struct {
	Temperature   float64   `json:"temperature" yaml:"temperature"`
	Humidity      float64   `json:"humidity" yaml:"humidity"`
	WindSpeed     float64   `json:"windSpeed" yaml:"windSpeed"`
	SymbolCode    string    `json:"symbolCode" yaml:"symbolCode"`
	Precipitation float64   `json:"precipitation" yaml:"precipitation"`
	Time          time.Time `json:"time" yaml:"time"`
}

type forecast struct {
	Properties struct {
		Timeseries []struct {
			Time time.Time `json:"time"`
			Data struct {
				Instant struct {
					Details struct {
						AirTemperature   float64 `json:"air_temperature"`
						RelativeHumidity float64 `json:"relative_humidity"`
						WindSpeed        float64 `json:"wind_speed"`
					} `json:"details"`
				} `json:"instant"`
				Next6Hours *struct {
					Summary struct {
						SymbolCode string `json:"symbol_code"`
					} `json:"summary"`
					Details struct {
						PrecipitationAmount float64 `json:"precipitation_amount"`
					} `json:"details"`
				} `json:"next_6_hours"`
			} `json:"data"`
		} `json:"timeseries"`
	} `json:"properties"`
}

func (f *forecast) current() (Current, error) {
	if len(f.Properties.Timeseries) == 0 {
		return Current{}, errors.New("weather response has no timeseries")
	}

	entry := f.Properties.Timeseries[0]
	c := Current{
		Temperature: entry.Data.Instant.Details.AirTemperature,
		Humidity:    entry.Data.Instant.Details.RelativeHumidity,
		WindSpeed:   entry.Data.Instant.Details.WindSpeed,
		Time:        entry.Time,
	}
	if next := entry.Data.Next6Hours; next != nil {
		c.SymbolCode = next.Summary.SymbolCode
		c.Precipitation = next.Details.PrecipitationAmount
	}

	return c, nil
}

// Weather fetches the forecast for a fixed location. Fresh copies live in the cache
// until the upstream Expires time (or the configured TTL); the last good copy is kept
// without expiry and served when the upstream fails.
type Weather struct {
	http      *retryablehttp.Client
	url       string
	latitude  float64
	longitude float64
	ttl       time.Duration
	timeout   time.Duration
	cache     *ristretto.Cache
	group     singleflight.Group
	now       func() time.Time

	mu    sync.RWMutex
	stale *Current
}

func newWeather(client *retryablehttp.Client, url string, latitude, longitude float64, ttl, timeout time.Duration) (*Weather, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100,
		MaxCost:     10,
		BufferItems: 64,
		// Costs are item counts, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating weather cache: %w", err)
	}

	return &Weather{
		http:      client,
		url:       url,
		latitude:  latitude,
		longitude: longitude,
		ttl:       ttl,
		timeout:   timeout,
		cache:     cache,
		now:       time.Now,
	}, nil
}

// Current returns the current weather and whether it is a stale copy. Concurrent callers
// share one upstream request, which outlives any single caller giving up on it.
func (w *Weather) Current(ctx context.Context) (Current, bool, error) {
	if v, ok := w.cache.Get(weatherKey); ok {
		return v.(Current), false, nil
	}

	ch := w.group.DoChan(weatherKey, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
		defer cancel()
		return w.fetch(fctx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res.Err = ctx.Err()
	}

	v, err := res.Val, res.Err
	if err != nil {
		w.mu.RLock()
		defer w.mu.RUnlock()
		if w.stale != nil {
			log.Warn().Err(err).Msg("using expired weather copy due to upstream error")
			return *w.stale, true, nil
		}

		return Current{}, false, err
	}

	return v.(Current), false, nil
}

func (w *Weather) fetch(ctx context.Context) (Current, error) {
	var f forecast
	url := fmt.Sprintf("%s?lat=%.4f&lon=%.4f", w.url, w.latitude, w.longitude)
	header, err := getJSON(ctx, w.http, url, &f)
	if err != nil {
		return Current{}, err
	}

	c, err := f.current()
	if err != nil {
		return Current{}, err
	}

	ttl := w.expiresIn(header)
	if w.cache.SetWithTTL(weatherKey, c, 1, ttl) {
		w.cache.Wait()
	}

	w.mu.Lock()
	w.stale = &c
	w.mu.Unlock()

	log.Debug().Msgf("weather cached for %s", ttl)
	return c, nil
}

// expiresIn honours the upstream Expires header when it lies in the future.
func (w *Weather) expiresIn(header http.Header) time.Duration {
	if exp := header.Get("Expires"); exp != "" {
		if t, err := http.ParseTime(exp); err == nil {
			if d := t.Sub(w.now()); d > 0 {
				return d
			}
		}
	}

	return w.ttl
}

func (w *Weather) Close() {
	w.cache.Close()
}
