// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package stats

import (
	"reflect"
	"testing"
)

func TestCompute_RemovesOutlier(t *testing.T) {
	s := Compute([]float64{10, 10, 10, 10, 100})

	if s.Outliers != 1 {
		t.Errorf("Should remove 1 outlier, removed %d", s.Outliers)
	}
	if s.Count != 4 {
		t.Errorf("Should keep 4 samples, kept %d", s.Count)
	}
	if s.Mean != 10 || s.Median != 10 {
		t.Errorf("Mean and median should be 10, got %f and %f", s.Mean, s.Median)
	}
	if s.Max != 10 {
		t.Errorf("Max should be 10 after removal, got %f", s.Max)
	}
}

func TestCompute_SmallSets(t *testing.T) {
	cases := [][]float64{
		{},
		{7},
		{1, 1000},
		{3, 1, 500},
	}

	for _, samples := range cases {
		s := Compute(samples)
		if s.Outliers != 0 {
			t.Errorf("Compute(%v) should not remove outliers, removed %d", samples, s.Outliers)
		}
		if s.Count != len(samples) {
			t.Errorf("Compute(%v) count: %d, want: %d", samples, s.Count, len(samples))
		}
	}
}

func TestCompute_MedianIsLowerFloorIndex(t *testing.T) {
	cases := []struct {
		samples []float64
		median  float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 3},
		{[]float64{5, 1, 4, 2, 3, 6}, 4},
	}

	for _, tc := range cases {
		if s := Compute(tc.samples); s.Median != tc.median {
			t.Errorf("Compute(%v) median: %f, want: %f", tc.samples, s.Median, tc.median)
		}
	}
}

func TestCompute_Descriptive(t *testing.T) {
	s := Compute([]float64{4, 2, 8, 6})
	want := Stats{Mean: 5, Median: 6, Min: 2, Max: 8, Count: 4, Outliers: 0}
	if s != want {
		t.Errorf("Compute: %+v, want: %+v", s, want)
	}
}

func TestCompute_CountInvariant(t *testing.T) {
	samples := []float64{1.2, 1.1, 1.3, 1.25, 9.8, 1.15, 0.01, 1.22, 1.18, 1.21}
	s := Compute(samples)

	if s.Count+s.Outliers != len(samples) {
		t.Errorf("Count (%d) + outliers (%d) should equal %d", s.Count, s.Outliers, len(samples))
	}
	if s.Outliers != 2 {
		t.Errorf("Should drop the two extreme samples, dropped %d", s.Outliers)
	}
	if s.Min < 1 || s.Max > 2 {
		t.Errorf("Retained range should be tight, got [%f, %f]", s.Min, s.Max)
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	samples := []float64{5, 3, 9, 1, 7}
	orig := append([]float64(nil), samples...)
	Compute(samples)

	if !reflect.DeepEqual(samples, orig) {
		t.Errorf("Input should not change: %v, want: %v", samples, orig)
	}
}

func TestQuartiles(t *testing.T) {
	q1, q3 := Quartiles([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	if q1 != 3 || q3 != 7 {
		t.Errorf("Quartiles: (%f, %f), want: (3, 7)", q1, q3)
	}

	q1, q3 = Quartiles(nil)
	if q1 != 0 || q3 != 0 {
		t.Errorf("Quartiles of an empty set should be zero")
	}
}
