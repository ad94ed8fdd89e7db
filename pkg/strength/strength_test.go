// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"math"
	"reflect"
	"testing"
)

func TestAnalyze_Empty(t *testing.T) {
	r := Analyze("")

	if r.Score != 0 {
		t.Errorf("Empty password should score 0, got %d", r.Score)
	}
	if r.EntropyBits != 0 {
		t.Errorf("Empty password should have 0 entropy, got %f", r.EntropyBits)
	}
	if r.TimeToCrack != "Instantly" {
		t.Errorf("Empty password should crack instantly, got %s", r.TimeToCrack)
	}

	want := []string{NoteLength, NoteLowercase, NoteUppercase, NoteDigit, NoteSymbol}
	if !reflect.DeepEqual(r.Feedback, want) {
		t.Errorf("Feedback: %v, want: %v", r.Feedback, want)
	}
	if r.Level != VeryWeak {
		t.Errorf("Level: %s, want: %s", r.Level, VeryWeak)
	}
}

func TestAnalyze(t *testing.T) {
	cases := []struct {
		password string
		score    int
		feedback []string
	}{
		{"abc", 22, []string{NoteLength, NoteUppercase, NoteDigit, NoteSymbol}},
		{"abcdefgh", 45, []string{NoteUppercase, NoteDigit, NoteSymbol}},
		{"Abcdefg1!", 75, nil},
		{"MySecurePassword123!", 45, []string{NoteCommon, NoteSequence}},
		{"password123", 25, []string{NoteUppercase, NoteSymbol, NoteCommon, NoteSequence}},
		{"PASSWORD", 25, []string{NoteLowercase, NoteDigit, NoteSymbol, NoteCommon}},
		{"12345678", 35, []string{NoteLowercase, NoteUppercase, NoteSymbol, NoteSequence}},
		{"ñandú", 40, []string{NoteLength, NoteUppercase, NoteDigit}},
	}

	for _, tc := range cases {
		r := Analyze(tc.password)
		if r.Score != tc.score {
			t.Errorf("Analyze(%q) score: %d, want: %d", tc.password, r.Score, tc.score)
		}
		if !reflect.DeepEqual(r.Feedback, tc.feedback) {
			t.Errorf("Analyze(%q) feedback: %v, want: %v", tc.password, r.Feedback, tc.feedback)
		}
		if r.MaxScore != MaxScore {
			t.Errorf("Analyze(%q) max score: %d, want: %d", tc.password, r.MaxScore, MaxScore)
		}
		if r.Level != LevelFor(r.Score) {
			t.Errorf("Analyze(%q) level %s does not match score %d", tc.password, r.Level, r.Score)
		}
	}
}

func TestAnalyze_Penalties(t *testing.T) {
	penalised := Analyze("password123")
	plain := Analyze("passw0rd456")

	if penalised.Score >= plain.Score {
		t.Errorf("password123 (%d) should score lower than passw0rd456 (%d)", penalised.Score, plain.Score)
	}
	if penalised.FeedbackText() != "Add uppercase letters, Add special characters, Avoid common passwords, Avoid common sequences" {
		t.Errorf("Unexpected feedback text: %s", penalised.FeedbackText())
	}
}

func TestAnalyze_Bounds(t *testing.T) {
	inputs := []string{"", "a", "password", "123", "PassWord123", "password123password123",
		"Tr0ub4dor&3", "correct horse battery staple", "日本語のパスワード", "\x00\x01\x02"}

	for _, in := range inputs {
		r := Analyze(in)
		if r.Score < 0 || r.Score > MaxScore {
			t.Errorf("Analyze(%q) score %d out of bounds", in, r.Score)
		}
		if r.EntropyBits < 0 {
			t.Errorf("Analyze(%q) negative entropy", in)
		}
		if (r.EntropyBits == 0) != (in == "") {
			t.Errorf("Analyze(%q) entropy %f only zero when no class is present", in, r.EntropyBits)
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	for _, in := range []string{"", "hunter2", "MySecurePassword123!"} {
		if a, b := Analyze(in), Analyze(in); !reflect.DeepEqual(a, b) {
			t.Errorf("Analyze(%q) should be deterministic: %+v != %+v", in, a, b)
		}
	}
}

func TestAnalyze_Entropy(t *testing.T) {
	r := Analyze("Abcdefg1!")
	want := 9 * math.Log2(94)
	if math.Abs(r.EntropyBits-want) > 1e-9 {
		t.Errorf("Entropy: %f, want: %f", r.EntropyBits, want)
	}
}

func TestFeedbackText_AllClear(t *testing.T) {
	if got := Analyze("Abcdefg1!").FeedbackText(); got != AllClear {
		t.Errorf("FeedbackText: %s, want: %s", got, AllClear)
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score int
		want  Level
	}{
		{0, VeryWeak}, {29, VeryWeak}, {30, Weak}, {49, Weak}, {50, Fair},
		{69, Fair}, {70, Strong}, {84, Strong}, {85, VeryStrong}, {100, VeryStrong},
	}

	for _, tc := range cases {
		if got := LevelFor(tc.score); got != tc.want {
			t.Errorf("LevelFor(%d): %s, want: %s", tc.score, got, tc.want)
		}
	}
}

func TestLevel_Text(t *testing.T) {
	for l := VeryWeak; l <= VeryStrong; l++ {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("Should not fail marshalling: %s", err)
		}

		var back Level
		if err = back.UnmarshalText(text); err != nil {
			t.Fatalf("Should not fail unmarshalling %s: %s", text, err)
		}
		if back != l {
			t.Errorf("Level round trip: %s, want: %s", back, l)
		}
	}

	var l Level
	if err := l.UnmarshalText([]byte("Mediocre")); err == nil {
		t.Errorf("Should fail on unknown level")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "Instantly"},
		{0.99, "Instantly"},
		{1, "1.0 seconds"},
		{59.94, "59.9 seconds"},
		{90, "1.5 minutes"},
		{3 * 3600, "3.0 hours"},
		{2.5 * 86400, "2.5 days"},
		{10 * 31536000, "10.0 years"},
		{math.Inf(1), "Forever"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%f): %s, want: %s", tc.seconds, got, tc.want)
		}
	}
}

func TestTimeToCrack_Monotonic(t *testing.T) {
	order := []string{"Instantly", "seconds", "minutes", "hours", "days", "years", "Forever"}
	rank := func(s string) int {
		for i, u := range order {
			if len(s) >= len(u) && s[len(s)-len(u):] == u {
				return i
			}
		}
		return -1
	}

	last := 0
	for length := 0; length < 400; length++ {
		r := rank(TimeToCrack(length, 94))
		if r < last {
			t.Fatalf("TimeToCrack should not decrease at length %d", length)
		}
		last = r
	}
	if last != len(order)-1 {
		t.Errorf("Very long passwords should take forever")
	}
}
