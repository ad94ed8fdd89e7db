// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"fmt"
	"math"
)

// GuessesPerSecond is the assumed offline brute-force rate.
const GuessesPerSecond = 2e9

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	year   = 365 * day
)

// CharsetSize sums the alphabet sizes of the present classes.
func CharsetSize(c Classes) int {
	size := 0
	if c.Lower {
		size += 26
	}
	if c.Upper {
		size += 26
	}
	if c.Digit {
		size += 10
	}
	if c.Symbol {
		size += 32
	}

	return size
}

// Entropy returns length * log2(charset), or 0 when the charset is empty.
func Entropy(length int, charset int) float64 {
	if charset <= 0 || length <= 0 {
		return 0
	}

	return float64(length) * math.Log2(float64(charset))
}

// CrackSeconds is the time needed to exhaust charset^length at GuessesPerSecond.
func CrackSeconds(length int, charset int) float64 {
	if charset <= 0 {
		return 0
	}

	return math.Pow(float64(charset), float64(length)) / GuessesPerSecond
}

// TimeToCrack formats CrackSeconds in the coarsest unit that keeps the value >= 1.
func TimeToCrack(length int, charset int) string {
	return FormatDuration(CrackSeconds(length, charset))
}

func FormatDuration(seconds float64) string {
	switch {
	case math.IsInf(seconds, 1):
		return "Forever"
	case seconds < 1 || math.IsNaN(seconds):
		return "Instantly"
	case seconds < minute:
		return fmt.Sprintf("%.1f seconds", seconds)
	case seconds < hour:
		return fmt.Sprintf("%.1f minutes", seconds/minute)
	case seconds < day:
		return fmt.Sprintf("%.1f hours", seconds/hour)
	case seconds < year:
		return fmt.Sprintf("%.1f days", seconds/day)
	default:
		return fmt.Sprintf("%.1f years", seconds/year)
	}
}
