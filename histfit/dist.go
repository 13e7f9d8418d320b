// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package histfit

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// A Distribution summarizes a sample of branch values.
type Distribution struct {
	// Values is the sample in increasing order.
	Values []float64

	N int

	Mean, StdDev float64

	// Median, Q1 and Q3 are the 0.5, 0.25 and 0.75 quantiles.
	Median, Q1, Q3 float64

	Min, Max float64
}

// NewDistribution summarizes values. It takes ownership of values and
// sorts them in place.
func NewDistribution(values []float64) *Distribution {
	samp := stats.Sample{Xs: values}
	// Speed up order statistics.
	samp.Sort()
	d := &Distribution{Values: samp.Xs, N: len(values)}
	if d.N == 0 {
		nan := math.NaN()
		d.Mean, d.StdDev, d.Median, d.Q1, d.Q3, d.Min, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}
	d.Mean = samp.Mean()
	if d.N > 1 {
		d.StdDev = samp.StdDev()
	}
	d.Median = samp.Quantile(0.5)
	d.Q1 = samp.Quantile(0.25)
	d.Q3 = samp.Quantile(0.75)
	d.Min, d.Max = samp.Bounds()
	return d
}

// Degenerate reports whether every value in the sample is the same.
func (d *Distribution) Degenerate() bool {
	return d.N > 0 && d.Min == d.Max
}

// RobustSigma estimates the width of the sample from its interquartile
// range, which is 1.349σ for a normal distribution. It falls back to
// the standard deviation when the quartiles coincide.
func (d *Distribution) RobustSigma() float64 {
	if s := (d.Q3 - d.Q1) / 1.349; s > 0 {
		return s
	}
	return d.StdDev
}
