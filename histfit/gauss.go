// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package histfit

import (
	"fmt"
	"math"
)

// A Gaussian is the curve A·exp(-½((x-μ)/σ)²).
type Gaussian struct {
	Amplitude float64
	Mean      float64
	Sigma     float64
}

// Eval returns the curve's value at x. A zero-width curve is a spike
// of height Amplitude at Mean.
func (g Gaussian) Eval(x float64) float64 {
	if g.Sigma == 0 {
		if x == g.Mean {
			return g.Amplitude
		}
		return 0
	}
	z := (x - g.Mean) / g.Sigma
	return g.Amplitude * math.Exp(-0.5*z*z)
}

func (g Gaussian) String() string {
	return fmt.Sprintf("gaus(A=%g, mean=%g, sigma=%g)", g.Amplitude, g.Mean, g.Sigma)
}

// A scaling maps Gaussian parameters onto numbers of order one: the
// amplitude in units of a, and the mean and width in units of s, with
// the mean measured from m.
type scaling struct {
	a, m, s float64
}

func scalingOf(g Gaussian) scaling {
	sc := scaling{a: math.Abs(g.Amplitude), m: g.Mean, s: math.Abs(g.Sigma)}
	if sc.a == 0 {
		sc.a = 1
	}
	return sc
}

// params returns the scaled parameters of g.
func (sc scaling) params(g Gaussian) []float64 {
	return []float64{g.Amplitude / sc.a, (g.Mean - sc.m) / sc.s, g.Sigma / sc.s}
}

// gaussian is the inverse of params. The sign of the width is
// dropped.
func (sc scaling) gaussian(ps []float64) Gaussian {
	return Gaussian{
		Amplitude: ps[0] * sc.a,
		Mean:      sc.m + ps[1]*sc.s,
		Sigma:     math.Abs(ps[2]) * sc.s,
	}
}

// units returns the size of one scaled unit of each parameter.
func (sc scaling) units() [3]float64 {
	return [3]float64{sc.a, sc.s, sc.s}
}
