// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package dashboard

import (
	"context"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"strings"
	"time"
)

const (
	DefaultActivityURL = "https://api.github.com/users/%s/events/public"
	activityLimit      = 5
)

type githubEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"repo"`
	Payload struct {
		Ref     *string `json:"ref"`
		Action  string  `json:"action"`
		Commits []struct {
			Message string `json:"message"`
		} `json:"commits"`
		PullRequest *struct {
			Title   string `json:"title"`
			HTMLURL string `json:"html_url"`
		} `json:"pull_request"`
		Issue *struct {
			Title   string `json:"title"`
			HTMLURL string `json:"html_url"`
		} `json:"issue"`
	} `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a summarised public GitHub event.
type Event struct {
	ID        string    `json:"id" yaml:"id"`
	Type      string    `json:"type" yaml:"type"`
	Repo      string    `json:"repo" yaml:"repo"`
	Summary   string    `json:"summary" yaml:"summary"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	URL       string    `json:"url,omitempty" yaml:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type Activity struct {
	http *retryablehttp.Client
	url  string
	user string
}

// Recent returns the latest public events of the configured user, newest first.
func (a *Activity) Recent(ctx context.Context) ([]Event, error) {
	var raw []githubEvent
	if _, err := getJSON(ctx, a.http, fmt.Sprintf(a.url, a.user), &raw); err != nil {
		return nil, err
	}

	if len(raw) > activityLimit {
		raw = raw[:activityLimit]
	}

	events := make([]Event, 0, len(raw))
	for _, e := range raw {
		events = append(events, summarise(e))
	}

	return events, nil
}

func summarise(e githubEvent) Event {
	repo := e.Repo.Name
	if i := strings.Index(repo, "/"); i >= 0 {
		repo = repo[i+1:]
	}

	ev := Event{ID: e.ID, Type: e.Type, Repo: e.Repo.Name, CreatedAt: e.CreatedAt}
	switch e.Type {
	case "PushEvent":
		n := len(e.Payload.Commits)
		plural := "s"
		if n == 1 {
			plural = ""
		}
		ev.Summary = fmt.Sprintf("Pushed %d commit%s to %s", n, plural, repo)
		if n > 0 {
			ev.Detail = firstLine(e.Payload.Commits[n-1].Message)
		}
	case "WatchEvent":
		ev.Summary = fmt.Sprintf("Starred %s", repo)
	case "ForkEvent":
		ev.Summary = fmt.Sprintf("Forked %s", repo)
	case "CreateEvent":
		kind := "repository"
		if e.Payload.Ref != nil && *e.Payload.Ref != "" {
			kind = "branch"
		}
		ev.Summary = fmt.Sprintf("Created %s %s", kind, repo)
	case "PullRequestEvent":
		ev.Summary = fmt.Sprintf("%s PR in %s", e.Payload.Action, repo)
		if pr := e.Payload.PullRequest; pr != nil {
			ev.Detail, ev.URL = pr.Title, pr.HTMLURL
		}
	case "IssuesEvent":
		ev.Summary = fmt.Sprintf("%s issue in %s", e.Payload.Action, repo)
		if is := e.Payload.Issue; is != nil {
			ev.Detail, ev.URL = is.Title, is.HTMLURL
		}
	default:
		ev.Summary = fmt.Sprintf("Activity in %s", repo)
	}

	return ev
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Ago formats the age of t the way the activity panel shows it.
func Ago(t time.Time, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", hours/24)
	}
}
