// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/alvinbaena/pwd-bench/internal/session"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	accent lipgloss.Color
	muted  lipgloss.Color
	warn   lipgloss.Color
	error  lipgloss.Color
	levels [5]lipgloss.Color
}

var palettes = map[session.Theme]palette{
	session.Dark: {
		accent: lipgloss.Color("#2CD7C7"),
		muted:  lipgloss.Color("245"),
		warn:   lipgloss.Color("#F4D03F"),
		error:  lipgloss.Color("#E74C3C"),
		levels: [5]lipgloss.Color{"196", "208", "226", "42", "#2CD7C7"},
	},
	session.Light: {
		accent: lipgloss.Color("#157483"),
		muted:  lipgloss.Color("240"),
		warn:   lipgloss.Color("#B7950B"),
		error:  lipgloss.Color("#C0392B"),
		levels: [5]lipgloss.Color{"124", "166", "136", "28", "#157483"},
	},
}

// Styles is the set of lipgloss styles for one theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
	levels  [5]lipgloss.Style
}

func StylesFor(theme session.Theme) Styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[session.Dark]
	}

	s := Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		Label:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(p.muted),
		Warning: lipgloss.NewStyle().Foreground(p.warn),
		Error:   lipgloss.NewStyle().Foreground(p.error),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
	}
	for i, c := range p.levels {
		s.levels[i] = lipgloss.NewStyle().Bold(true).Foreground(c)
	}

	return s
}

// Level renders the strength level as a coloured badge.
func (s Styles) Level(l strength.Level) string {
	if l < strength.VeryWeak || l > strength.VeryStrong {
		return l.String()
	}
	return s.levels[l].Render(l.String())
}
