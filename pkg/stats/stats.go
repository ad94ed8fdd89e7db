// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package stats

import (
	"github.com/jfcg/sorty/v2"
)

// MinSamplesForFence is the smallest sample set that gets a quartile split.
const MinSamplesForFence = 4

const fenceFactor = 1.5

// Stats summarises a sample set after outlier removal.
type Stats struct {
	Mean     float64 `json:"mean" yaml:"mean"`
	Median   float64 `json:"median" yaml:"median"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Count    int     `json:"count" yaml:"count"`
	Outliers int     `json:"outliers" yaml:"outliers"`
}

// Sorted returns an ascending copy of the samples. The input is left untouched.
func Sorted(samples []float64) []float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sorty.SortSlice(sorted)
	return sorted
}

// Quartiles returns the floor-indexed first and third quartiles of an ascending slice.
func Quartiles(sorted []float64) (q1 float64, q3 float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}

	return sorted[n/4], sorted[n*3/4]
}

// RemoveOutliers drops samples outside the 1.5*IQR fences. Sets smaller than
// MinSamplesForFence are returned whole. The result is always sorted.
func RemoveOutliers(samples []float64) []float64 {
	sorted := Sorted(samples)
	if len(sorted) < MinSamplesForFence {
		return sorted
	}

	q1, q3 := Quartiles(sorted)
	iqr := q3 - q1
	lower := q1 - fenceFactor*iqr
	upper := q3 + fenceFactor*iqr

	kept := sorted[:0]
	for _, v := range sorted {
		if v >= lower && v <= upper {
			kept = append(kept, v)
		}
	}

	return kept
}

// Compute reduces raw samples to a Stats value. The median is the element at
// floor(count/2) of the retained samples, never an average of two.
func Compute(samples []float64) Stats {
	kept := RemoveOutliers(samples)
	s := Stats{
		Count:    len(kept),
		Outliers: len(samples) - len(kept),
	}
	if len(kept) == 0 {
		return s
	}

	sum := 0.0
	for _, v := range kept {
		sum += v
	}

	s.Mean = sum / float64(len(kept))
	s.Median = kept[len(kept)/2]
	s.Min = kept[0]
	s.Max = kept[len(kept)-1]
	return s
}
