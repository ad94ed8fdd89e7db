// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package backend

import "github.com/nbutton23/zxcvbn-go"

// Estimate is zxcvbn's independent opinion of a password, shown next to our own score.
type Estimate struct {
	Score            int     `json:"score" yaml:"score"`
	Entropy          float64 `json:"entropy" yaml:"entropy"`
	CrackTime        float64 `json:"crackTime" yaml:"crackTime"`
	CrackTimeDisplay string  `json:"crackTimeDisplay" yaml:"crackTimeDisplay"`
}

// Zxcvbn estimates the password with zxcvbn. The empty password gets no estimate.
func Zxcvbn(password string) *Estimate {
	if password == "" {
		return nil
	}

	m := zxcvbn.PasswordStrength(password, nil)
	return &Estimate{
		Score:            m.Score,
		Entropy:          m.Entropy,
		CrackTime:        m.CrackTime,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
}
