// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxScore is the upper bound of every score.
	MaxScore = 100
	// MinLength is the length under which a password gets a proportional length contribution.
	MinLength = 8

	lengthBonus     = 35
	perCharBonus    = 4
	classBonus      = 10
	commonPenalty   = 20
	sequencePenalty = 10

	commonWord     = "password"
	commonSequence = "123"
)

// Feedback notes, in the order checks are evaluated.
const (
	NoteLength    = "Use at least 8 characters"
	NoteLowercase = "Add lowercase letters"
	NoteUppercase = "Add uppercase letters"
	NoteDigit     = "Add numbers"
	NoteSymbol    = "Add special characters"
	NoteCommon    = "Avoid common passwords"
	NoteSequence  = "Avoid common sequences"

	// AllClear is returned by FeedbackText when no check triggered.
	AllClear = "Great password!"
)

// Result is the outcome of analysing a single password.
type Result struct {
	Score       int      `json:"score" yaml:"score"`
	MaxScore    int      `json:"maxScore" yaml:"maxScore"`
	Level       Level    `json:"strengthLevel" yaml:"strengthLevel"`
	Feedback    []string `json:"feedback" yaml:"feedback"`
	EntropyBits float64  `json:"entropyBits" yaml:"entropyBits"`
	TimeToCrack string   `json:"timeToCrack" yaml:"timeToCrack"`
}

// FeedbackText joins the feedback notes or returns AllClear when there are none.
func (r Result) FeedbackText() string {
	if len(r.Feedback) == 0 {
		return AllClear
	}

	return strings.Join(r.Feedback, ", ")
}

// Classes records which character classes are present in a password.
type Classes struct {
	Lower  bool
	Upper  bool
	Digit  bool
	Symbol bool
}

// ClassesOf scans the password once. Anything outside the ASCII alphanumeric ranges is a symbol.
func ClassesOf(password string) Classes {
	var c Classes
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			c.Lower = true
		case r >= 'A' && r <= 'Z':
			c.Upper = true
		case r >= '0' && r <= '9':
			c.Digit = true
		default:
			c.Symbol = true
		}
	}

	return c
}

// Analyze scores a password. It is pure and safe for concurrent use.
func Analyze(password string) Result {
	length := utf8.RuneCountInString(password)
	score := 0
	feedback := make([]string, 0, 7)

	if length >= MinLength {
		score += lengthBonus
	} else {
		score += length * perCharBonus
		feedback = append(feedback, NoteLength)
	}

	classes := ClassesOf(password)
	if classes.Lower {
		score += classBonus
	} else {
		feedback = append(feedback, NoteLowercase)
	}
	if classes.Upper {
		score += classBonus
	} else {
		feedback = append(feedback, NoteUppercase)
	}
	if classes.Digit {
		score += classBonus
	} else {
		feedback = append(feedback, NoteDigit)
	}
	if classes.Symbol {
		score += classBonus
	} else {
		feedback = append(feedback, NoteSymbol)
	}

	if strings.Contains(strings.ToLower(password), commonWord) {
		score -= commonPenalty
		feedback = append(feedback, NoteCommon)
	}
	if strings.Contains(password, commonSequence) {
		score -= sequencePenalty
		feedback = append(feedback, NoteSequence)
	}

	score = Clamp(score)
	charset := CharsetSize(classes)

	if len(feedback) == 0 {
		feedback = nil
	}

	return Result{
		Score:       score,
		MaxScore:    MaxScore,
		Level:       LevelFor(score),
		Feedback:    feedback,
		EntropyBits: Entropy(length, charset),
		TimeToCrack: TimeToCrack(length, charset),
	}
}

// Clamp bounds a raw score into [0, MaxScore].
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}

	return score
}
