// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package histfit

import (
	"go-hep.org/x/hep/hbook"
)

// A ResidualBin is one bin of a residual histogram.
type ResidualBin struct {
	XMin, XMax float64

	// Value is the observed content minus the curve at the bin
	// center.
	Value float64

	// Err is the observed bin's error.
	Err float64
}

// XMid returns the bin center.
func (b ResidualBin) XMid() float64 {
	return 0.5 * (b.XMin + b.XMax)
}

// Residuals has the same binning as the histogram it was derived from.
type Residuals []ResidualBin

// NewResiduals returns the residuals of h with respect to curve.
func NewResiduals(h *hbook.H1D, curve func(x float64) float64) Residuals {
	bins := h.Binning.Bins
	r := make(Residuals, len(bins))
	for i, b := range bins {
		r[i] = ResidualBin{
			XMin:  b.XMin(),
			XMax:  b.XMax(),
			Value: b.SumW() - curve(b.XMid()),
			Err:   b.ErrW(),
		}
	}
	return r
}

// S2D converts r to a scatter with x error bars spanning each bin.
func (r Residuals) S2D() *hbook.S2D {
	pts := make([]hbook.Point2D, len(r))
	for i, b := range r {
		hw := 0.5 * (b.XMax - b.XMin)
		pts[i] = hbook.Point2D{
			X:    b.XMid(),
			Y:    b.Value,
			ErrX: hbook.Range{Min: hw, Max: hw},
			ErrY: hbook.Range{Min: b.Err, Max: b.Err},
		}
	}
	return hbook.NewS2D(pts...)
}
