// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"github.com/alvinbaena/pwd-bench/pkg/strength"
	"unicode/utf8"
)

const (
	classLower uint8 = 1 << iota
	classUpper
	classDigit
	classSymbol
)

// Probes checked against the reference scorer when the accelerated backend loads.
var selfTestProbes = []string{"test123", "", "MySecurePassword123!", "PASSWORD", "ñandú", "Abcdefg1!"}

// accelerated scores passwords with a byte lookup table and no allocations on the hot path.
// Every byte of a multi-byte rune is outside the ASCII alphanumeric ranges, so a byte scan
// finds the same classes as a rune scan.
type accelerated struct {
	classes [256]uint8
	folded  [256]byte
}

// LoadAccelerated builds the lookup tables and verifies them against the reference scorer.
func LoadAccelerated() (Backend, error) {
	a := &accelerated{}
	for i := 0; i < 256; i++ {
		b := byte(i)
		a.folded[i] = b
		switch {
		case b >= 'a' && b <= 'z':
			a.classes[i] = classLower
		case b >= 'A' && b <= 'Z':
			a.classes[i] = classUpper
			a.folded[i] = b + ('a' - 'A')
		case b >= '0' && b <= '9':
			a.classes[i] = classDigit
		default:
			a.classes[i] = classSymbol
		}
	}

	if err := SelfTest(a, selfTestProbes...); err != nil {
		return nil, &LoadError{Backend: AcceleratedName, Err: err}
	}

	return a, nil
}

// SelfTest checks that candidate scores every probe exactly like the reference scorer.
func SelfTest(candidate Backend, probes ...string) error {
	for _, p := range probes {
		got, err := candidate.AnalyzeStrength(p)
		if err != nil {
			return fmt.Errorf("self-test probe %q: %w", p, err)
		}
		if want := strength.Analyze(p); got.Score != want.Score {
			return fmt.Errorf("self-test probe %q scored %d, reference scored %d", p, got.Score, want.Score)
		}
	}

	return nil
}

func (a *accelerated) Name() string {
	return AcceleratedName
}

func (a *accelerated) scan(password string) (classes uint8) {
	for i := 0; i < len(password); i++ {
		classes |= a.classes[password[i]]
	}
	return
}

// containsFolded reports whether password contains the lowercase ASCII needle, ignoring ASCII case.
func (a *accelerated) containsFolded(password, needle string) bool {
	n := len(needle)
	for i := 0; i+n <= len(password); i++ {
		j := 0
		for j < n && a.folded[password[i+j]] == needle[j] {
			j++
		}
		if j == n {
			return true
		}
	}
	return false
}

func contains(password, needle string) bool {
	n := len(needle)
	for i := 0; i+n <= len(password); i++ {
		if password[i:i+n] == needle {
			return true
		}
	}
	return false
}

func (a *accelerated) score(password string) (score int, length int, classes uint8) {
	length = utf8.RuneCountInString(password)
	if length >= strength.MinLength {
		score = 35
	} else {
		score = length * 4
	}

	classes = a.scan(password)
	for c := classLower; c <= classSymbol; c <<= 1 {
		if classes&c != 0 {
			score += 10
		}
	}

	if a.containsFolded(password, "password") {
		score -= 20
	}
	if contains(password, "123") {
		score -= 10
	}

	return strength.Clamp(score), length, classes
}

func (a *accelerated) AnalyzeStrength(password string) (strength.Result, error) {
	score, length, mask := a.score(password)
	classes := strength.Classes{
		Lower:  mask&classLower != 0,
		Upper:  mask&classUpper != 0,
		Digit:  mask&classDigit != 0,
		Symbol: mask&classSymbol != 0,
	}

	var feedback []string
	if length < strength.MinLength {
		feedback = append(feedback, strength.NoteLength)
	}
	if !classes.Lower {
		feedback = append(feedback, strength.NoteLowercase)
	}
	if !classes.Upper {
		feedback = append(feedback, strength.NoteUppercase)
	}
	if !classes.Digit {
		feedback = append(feedback, strength.NoteDigit)
	}
	if !classes.Symbol {
		feedback = append(feedback, strength.NoteSymbol)
	}
	if a.containsFolded(password, "password") {
		feedback = append(feedback, strength.NoteCommon)
	}
	if contains(password, "123") {
		feedback = append(feedback, strength.NoteSequence)
	}

	charset := strength.CharsetSize(classes)
	return strength.Result{
		Score:       score,
		MaxScore:    strength.MaxScore,
		Level:       strength.LevelFor(score),
		Feedback:    feedback,
		EntropyBits: strength.Entropy(length, charset),
		TimeToCrack: strength.TimeToCrack(length, charset),
	}, nil
}

func (a *accelerated) BenchmarkComputation(password string, iterations int) (float64, error) {
	return timeAnalyses(a.AnalyzeStrength, password, iterations)
}
