// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"io"
	"net"
	"net/http"
	"time"
)

const userAgent = "pwdbench-dashboard/1.0 (github.com/alvinbaena/pwd-bench)"

func initHttpClient(retryMax int, timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	// The retry logger is far too chatty for a dashboard refresh.
	client.Logger = nil
	client.RetryMax = retryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second

	client.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return client
}

// getJSON decodes the body of a successful GET into out and returns the response headers.
func getJSON(ctx context.Context, client *retryablehttp.Client, url string, out interface{}) (http.Header, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing body for %s", url)
		}
	}(res.Body)

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("request [%s] failed with status [%d] %s", url, res.StatusCode, res.Status)
	}

	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("error decoding response from %s: %w", url, err)
	}

	return res.Header, nil
}
