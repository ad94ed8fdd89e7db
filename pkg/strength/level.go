// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import "fmt"

type Level int

const (
	VeryWeak Level = iota
	Weak
	Fair
	Strong
	VeryStrong
)

var levelNames = [...]string{"Very Weak", "Weak", "Fair", "Strong", "Very Strong"}

// LevelFor maps a score to its level. Thresholds are inclusive lower bounds.
func LevelFor(score int) Level {
	switch {
	case score < 30:
		return VeryWeak
	case score < 50:
		return Weak
	case score < 70:
		return Fair
	case score < 85:
		return Strong
	default:
		return VeryStrong
	}
}

func (l Level) String() string {
	if l < VeryWeak || l > VeryStrong {
		return fmt.Sprintf("Level(%d)", int(l))
	}

	return levelNames[l]
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if name == string(text) {
			*l = Level(i)
			return nil
		}
	}

	return fmt.Errorf("unknown strength level %q", string(text))
}
