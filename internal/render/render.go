// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/json"
	"fmt"
	"github.com/alvinbaena/pwd-bench/internal/dashboard"
	"github.com/alvinbaena/pwd-bench/pkg/backend"
	"github.com/alvinbaena/pwd-bench/pkg/bench"
	"github.com/alvinbaena/pwd-bench/pkg/stats"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
	"time"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML:
		return f, nil
	case "":
		return Text, nil
	}

	return "", fmt.Errorf("unknown output format %q, use text, json or yaml", s)
}

// Encode writes v as JSON or YAML. Text output goes through the renderers instead.
func Encode(w io.Writer, format Format, v interface{}) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	return fmt.Errorf("format %q is not a structured format", format)
}

// Analysis renders one scoring result.
func (s Styles) Analysis(a backend.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d/%d  %s\n", s.Label.Render("Score"), a.Score, a.MaxScore, s.Level(a.Level))
	fmt.Fprintf(&b, "%s %.1f bits\n", s.Label.Render("Entropy"), a.EntropyBits)
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Time to crack"), a.TimeToCrack)

	feedback := a.FeedbackText()
	if len(a.Feedback) > 0 {
		feedback = s.Warning.Render(feedback)
	}
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Feedback"), feedback)

	backendLine := fmt.Sprintf("backend: %s", a.Backend)
	if a.Fallback {
		backendLine += " (fallback)"
	}
	b.WriteString(s.Muted.Render(backendLine))

	return b.String()
}

// Comparison renders the accelerated analysis and zxcvbn's opinion, and flags disagreement
// with the reference.
func (s Styles) Comparison(c backend.Comparison) string {
	out := s.Analysis(c.Accelerated)
	if c.Zxcvbn != nil {
		out += "\n" + s.Muted.Render(fmt.Sprintf("zxcvbn: %d/4, %.1f bits, cracked in %s",
			c.Zxcvbn.Score, c.Zxcvbn.Entropy, c.Zxcvbn.CrackTimeDisplay))
	}
	if !c.Consistent {
		out += "\n" + s.Error.Render(fmt.Sprintf("backends disagree: %s scored %d, %s scored %d",
			c.Reference.Backend, c.Reference.Score, c.Accelerated.Backend, c.Accelerated.Score))
	}
	return s.Box.Render(out)
}

func statsRow(label string, ref, acc *stats.Stats, value func(*stats.Stats) string) string {
	cell := func(st *stats.Stats) string {
		if st == nil {
			return "-"
		}
		return value(st)
	}
	return fmt.Sprintf("  %-14s %14s %14s\n", label, cell(ref), cell(acc))
}

func ms(v float64) string {
	return fmt.Sprintf("%.3f ms", v)
}

// Benchmark renders a benchmark result as a small table.
func (s Styles) Benchmark(res *bench.Result) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Benchmark %s", res.ID)))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render(fmt.Sprintf("%d characters, %s iterations x %d rounds, %d warm-up rounds",
		res.PasswordLength, humanize.Comma(int64(res.Iterations)), res.Rounds, res.WarmupRounds)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %-14s %14s %14s\n", "", res.ReferenceBackend, res.AcceleratedBackend)
	ref, acc := res.ReferenceStats, res.AcceleratedStats
	b.WriteString(statsRow("median", ref, acc, func(st *stats.Stats) string { return ms(st.Median) }))
	b.WriteString(statsRow("mean", ref, acc, func(st *stats.Stats) string { return ms(st.Mean) }))
	b.WriteString(statsRow("min", ref, acc, func(st *stats.Stats) string { return ms(st.Min) }))
	b.WriteString(statsRow("max", ref, acc, func(st *stats.Stats) string { return ms(st.Max) }))
	b.WriteString(statsRow("samples", ref, acc, func(st *stats.Stats) string {
		return fmt.Sprintf("%d (-%d)", st.Count, st.Outliers)
	}))

	b.WriteString("\n")
	speedup := fmt.Sprintf("Speedup %.2fx", res.SpeedupRatio)
	if res.SpeedupRatio < 1 {
		b.WriteString(s.Warning.Render(speedup))
	} else {
		b.WriteString(s.Title.Render(speedup))
	}

	if env := res.Environment; env != nil {
		b.WriteString("\n")
		line := fmt.Sprintf("%s %s/%s, GOMAXPROCS %d", env.GoVersion, env.OS, env.Arch, env.GoMaxProcs)
		if env.CPUModel != "" {
			line += fmt.Sprintf(", %s (%d threads)", env.CPUModel, env.LogicalCPUs)
		}
		if env.TotalMemory > 0 {
			line += fmt.Sprintf(", %s RAM (%s free)", humanize.IBytes(env.TotalMemory), humanize.IBytes(env.AvailableMemory))
		}
		b.WriteString(s.Muted.Render(line))
	}

	return b.String()
}

// Dashboard renders a snapshot of the dashboard panels.
func (s Styles) Dashboard(snap dashboard.Snapshot, now time.Time) string {
	var b strings.Builder

	b.WriteString(s.Title.Render("Weather"))
	b.WriteString("\n")
	if w := snap.Weather; w != nil {
		fmt.Fprintf(&b, "%.1f°C, %s, humidity %.0f%%, wind %.1f m/s, %.1f mm next 6h",
			w.Temperature, symbolText(w.SymbolCode), w.Humidity, w.WindSpeed, w.Precipitation)
		if snap.WeatherStale {
			b.WriteString(s.Warning.Render(" (stale)"))
		}
	} else {
		b.WriteString(s.panelError(snap, dashboard.PanelWeather))
	}
	b.WriteString("\n\n")

	b.WriteString(s.Title.Render("Did you know?"))
	b.WriteString("\n")
	if f := snap.Fact; f != nil {
		b.WriteString(f.Text)
		if f.Source != "" {
			b.WriteString(s.Muted.Render(" (" + f.Source + ")"))
		}
	} else {
		b.WriteString(s.panelError(snap, dashboard.PanelFact))
	}
	b.WriteString("\n\n")

	b.WriteString(s.Title.Render("Recent activity"))
	if msg, failed := snap.Errors[dashboard.PanelActivity]; failed {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(msg))
	} else if len(snap.Activity) == 0 {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("No recent activity"))
	}
	for _, e := range snap.Activity {
		fmt.Fprintf(&b, "\n- %s %s", e.Summary, s.Muted.Render(dashboard.Ago(e.CreatedAt, now)))
		if e.Detail != "" {
			fmt.Fprintf(&b, "\n  %s", s.Muted.Render(e.Detail))
		}
	}

	return s.Box.Render(b.String())
}

func (s Styles) panelError(snap dashboard.Snapshot, panel string) string {
	if msg, ok := snap.Errors[panel]; ok {
		return s.Error.Render(msg)
	}
	return s.Muted.Render("Not loaded")
}

// symbolText turns a met.no symbol code like "lightrain_showers_day" into "light rain showers".
func symbolText(code string) string {
	code = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(code, "_day"), "_night"), "_polartwilight")
	if code == "" {
		return "unknown"
	}

	words := strings.Split(code, "_")
	for i, w := range words {
		for _, prefix := range []string{"light", "heavy"} {
			if strings.HasPrefix(w, prefix) && len(w) > len(prefix) {
				w = prefix + " " + w[len(prefix):]
			}
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}
