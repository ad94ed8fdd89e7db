// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"errors"
	"github.com/hashicorp/go-retryablehttp"
)

const DefaultFactURL = "https://uselessfacts.jsph.pl/api/v2/facts/random"

type Fact struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Source    string `json:"source" yaml:"source"`
	SourceURL string `json:"source_url" yaml:"sourceUrl"`
	Permalink string `json:"permalink" yaml:"permalink"`
}

type Facts struct {
	http *retryablehttp.Client
	url  string
}

// Random fetches a new fact on every call.
func (f *Facts) Random(ctx context.Context) (Fact, error) {
	var fact Fact
	if _, err := getJSON(ctx, f.http, f.url, &fact); err != nil {
		return Fact{}, err
	}

	if fact.Text == "" {
		return Fact{}, errors.New("fact response has no text")
	}

	return fact, nil
}
