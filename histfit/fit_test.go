// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package histfit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/optimize"
)

// gaussHist fills a 50-bin histogram over [-0.06, 0.06) with a
// noiseless Gaussian profile of the given peak, mean and width. It
// returns the histogram and the filled values.
func gaussHist(peak, mean, sigma float64) (*hbook.H1D, []float64) {
	h := hbook.NewH1D(50, -0.06, 0.06)
	var vals []float64
	for _, b := range h.Binning.Bins {
		x := b.XMid()
		z := (x - mean) / sigma
		n := int(math.Round(peak * math.Exp(-0.5*z*z)))
		for i := 0; i < n; i++ {
			h.Fill(x, 1)
			vals = append(vals, x)
		}
	}
	return h, vals
}

func TestFitGaussian(t *testing.T) {
	for _, method := range []string{"", "nelder-mead", "bfgs", "lbfgs"} {
		t.Run(method, func(t *testing.T) {
			h, vals := gaussHist(1000, 0.005, 0.012)
			dist := NewDistribution(vals)
			init := Guess(h, dist, 0, 0)
			assert.False(t, dist.Degenerate())
			assert.InDelta(t, 0.005, init.Mean, 0.003)
			assert.InDelta(t, 1000, init.Amplitude, 50)

			m, err := ParseMethod(method)
			require.NoError(t, err)
			res, err := FitGaussian(h, init, FitOptions{Method: m})
			require.NoError(t, err)

			assert.False(t, res.Degenerate)
			assert.InDelta(t, 0.005, res.Mean, 2e-4)
			assert.InDelta(t, 0.012, res.Sigma, 5e-4)
			assert.InDelta(t, 1000, res.Amplitude, 20)
			assert.Equal(t, res.Points-3, res.NDF)
			assert.Less(t, res.ReducedChi2(), 1.0)
			for i, e := range res.Errors {
				assert.False(t, math.IsNaN(e), "error %d", i)
				assert.Greater(t, e, 0.0, "error %d", i)
			}
		})
	}
}

func TestFitRange(t *testing.T) {
	h, vals := gaussHist(500, 0, 0.02)
	init := Guess(h, NewDistribution(vals), 0, 0)

	all, err := FitGaussian(h, init, FitOptions{})
	require.NoError(t, err)
	core, err := FitGaussian(h, init, FitOptions{Min: -0.02, Max: 0.02})
	require.NoError(t, err)

	assert.Less(t, core.Points, all.Points)
	// Bin centers -0.018 through 0.018.
	assert.Equal(t, 16, core.Points)
	assert.Equal(t, 50, all.Points)
	assert.InDelta(t, 0, core.Mean, 1e-3)
}

func TestGuessRange(t *testing.T) {
	h, vals := gaussHist(500, 0, 0.02)
	dist := NewDistribution(vals)

	all := Guess(h, dist, 0, 0)
	tail := Guess(h, dist, 0.031, 0.06)

	var want float64
	for _, b := range h.Binning.Bins {
		if x := b.XMid(); x >= 0.031 && x <= 0.06 {
			want = math.Max(want, b.SumW())
		}
	}
	assert.Equal(t, want, tail.Amplitude)
	assert.Less(t, tail.Amplitude, all.Amplitude)
	assert.Equal(t, all.Mean, tail.Mean)
	assert.Equal(t, all.Sigma, tail.Sigma)

	// No bins in the window.
	empty := Guess(h, dist, 0.07, 0.08)
	assert.Equal(t, 0.0, empty.Amplitude)
}

func TestFitWindowGradient(t *testing.T) {
	h, vals := gaussHist(800, -0.004, 0.015)
	dist := NewDistribution(vals)
	for _, method := range []string{"bfgs", "lbfgs"} {
		t.Run(method, func(t *testing.T) {
			init := Guess(h, dist, -0.031, 0.031)
			m, err := ParseMethod(method)
			require.NoError(t, err)
			res, err := FitGaussian(h, init, FitOptions{Min: -0.031, Max: 0.031, Method: m})
			require.NoError(t, err)
			// Bin centers -0.030 through 0.030.
			assert.Equal(t, 26, res.Points)
			assert.InDelta(t, -0.004, res.Mean, 2e-4)
			assert.InDelta(t, 0.015, res.Sigma, 5e-4)
			assert.InDelta(t, 800, res.Amplitude, 20)
		})
	}
}

func TestFitSinglePoint(t *testing.T) {
	h := hbook.NewH1D(50, -0.06, 0.06)
	h.Fill(0, 1)
	dist := NewDistribution([]float64{0})
	require.True(t, dist.Degenerate())

	init := Guess(h, dist, -0.06, 0.06)
	assert.Equal(t, Gaussian{Amplitude: 1, Mean: 0, Sigma: 0}, init)

	res, err := FitGaussian(h, init, FitOptions{})
	require.NoError(t, err)
	assert.True(t, res.Degenerate)
	assert.Equal(t, 0.0, res.Mean)
	assert.Equal(t, 0.0, res.Sigma)
	assert.Equal(t, 1, res.Points)
	assert.Equal(t, -2, res.NDF)
	assert.True(t, math.IsInf(res.ReducedChi2(), 1))
}

func TestFitEmpty(t *testing.T) {
	h := hbook.NewH1D(10, 0, 1)
	_, err := FitGaussian(h, Gaussian{Amplitude: 1, Mean: 0.5, Sigma: 0.1}, FitOptions{})
	assert.EqualError(t, err, "no non-empty bins in fit range")
}

func TestReducedChi2(t *testing.T) {
	for _, test := range []struct {
		chi2 float64
		ndf  int
		want float64
	}{
		{3, 3, 1},
		{10, 4, 2.5},
		{0, 1, 0},
		{3, 0, math.Inf(1)},
		{3, -2, math.Inf(1)},
		{0, 0, math.Inf(1)},
	} {
		r := &FitResult{Chi2: test.chi2, NDF: test.ndf}
		assert.Equal(t, test.want, r.ReducedChi2(), "chi2=%v ndf=%d", test.chi2, test.ndf)
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.IsType(t, &optimize.NelderMead{}, m)
	m, err = ParseMethod("BFGS")
	require.NoError(t, err)
	assert.IsType(t, &optimize.BFGS{}, m)
	_, err = ParseMethod("migrad")
	assert.EqualError(t, err, `unknown fit method "migrad" (want one of nelder-mead, bfgs, lbfgs)`)
}

func TestGaussianEval(t *testing.T) {
	g := Gaussian{Amplitude: 2, Mean: 1, Sigma: 0.5}
	assert.Equal(t, 2.0, g.Eval(1))
	assert.InDelta(t, 2*math.Exp(-2), g.Eval(2), 1e-15)

	spike := Gaussian{Amplitude: 3, Mean: 1}
	assert.Equal(t, 3.0, spike.Eval(1))
	assert.Equal(t, 0.0, spike.Eval(1.0001))
}

func TestDistribution(t *testing.T) {
	d := NewDistribution([]float64{4, 1, 3, 2, 5})
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, d.Values)
	assert.Equal(t, 5, d.N)
	assert.Equal(t, 3.0, d.Mean)
	assert.Equal(t, 3.0, d.Median)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	assert.InDelta(t, 1.5, d.StdDev, 0.1)
	assert.False(t, d.Degenerate())

	one := NewDistribution([]float64{7})
	assert.Equal(t, 7.0, one.Mean)
	assert.Equal(t, 0.0, one.StdDev)
	assert.Equal(t, 0.0, one.RobustSigma())
	assert.True(t, one.Degenerate())

	empty := NewDistribution(nil)
	assert.Equal(t, 0, empty.N)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.False(t, empty.Degenerate())
}
