// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package session

import (
	"fmt"
	"strings"
	"sync"
)

type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, nil
	case Light:
		return Light, nil
	}

	return "", fmt.Errorf("unknown theme %q, use %q or %q", s, Dark, Light)
}

// State is the presentation state of one session. It is created at startup,
// changed only through Toggle, and handed to whoever renders.
type State struct {
	mu    sync.RWMutex
	theme Theme
}

func NewState(theme Theme) *State {
	if theme != Light {
		theme = Dark
	}

	return &State{theme: theme}
}

func (s *State) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// Toggle flips between dark and light and returns the new theme.
func (s *State) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.theme == Dark {
		s.theme = Light
	} else {
		s.theme = Dark
	}

	return s.theme
}
