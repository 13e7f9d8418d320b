// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws a fitted histogram and its residuals on a
// split canvas.
//
// The canvas is divided into pads given in normalized device
// coordinates, where (0, 0) is the bottom-left corner of the canvas
// and (1, 1) the top-right.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/aclements/go-moremath/scale"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gemlab/ntfit/histfit"
	"github.com/gemlab/ntfit/histunit"
)

// A Pad is a region of a canvas in normalized device coordinates.
type Pad struct {
	XMin, YMin, XMax, YMax float64
}

var (
	// TopPad holds the data and fit.
	TopPad = Pad{0, 0.4, 1, 1}
	// BottomPad holds the residuals.
	BottomPad = Pad{0, 0.05, 1, 0.4}
)

// Canvas returns the part of c covered by p.
func (p Pad) Canvas(c draw.Canvas) draw.Canvas {
	ndc := scale.Linear{Min: 0, Max: 1}
	xOut := scale.Linear{Min: float64(c.Min.X), Max: float64(c.Max.X)}
	yOut := scale.Linear{Min: float64(c.Min.Y), Max: float64(c.Max.Y)}
	x := scale.QQ{Src: &ndc, Dest: &xOut}
	y := scale.QQ{Src: &ndc, Dest: &yOut}
	return draw.Canvas{
		Canvas: c.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: vg.Length(x.Map(p.XMin)), Y: vg.Length(y.Map(p.YMin))},
			Max: vg.Point{X: vg.Length(x.Map(p.XMax)), Y: vg.Length(y.Map(p.YMax))},
		},
	}
}

// ResidualTitle is the default title of the residual pad.
const ResidualTitle = "Residuals;X;Data - Fit"

// Label position of the goodness-of-fit annotation, normalized to
// the top pad.
const labelX, labelY = 0.15, 0.85

// A Figure is a histogram with a fitted curve above its residuals.
type Figure struct {
	Title         histunit.Title
	ResidualTitle histunit.Title

	Hist *hbook.H1D
	Fit  *histfit.FitResult

	// FitMin and FitMax bound the drawn curve.
	FitMin, FitMax float64

	Residuals histfit.Residuals

	// Width and Height are the canvas size.
	Width, Height vg.Length
}

// DPI is the screen resolution assumed by Pixels.
const DPI = 96

// Pixels converts a pixel count at DPI to a length.
func Pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / DPI
}

// Label returns the goodness-of-fit annotation. A fit with no degrees
// of freedom reads "inf".
func (f *Figure) Label() string {
	r := f.Fit.ReducedChi2()
	if math.IsInf(r, 1) {
		return "χ²/ndf = inf"
	}
	return fmt.Sprintf("χ²/ndf = %.2f", r)
}

// Plots builds the top and bottom pad plots.
func (f *Figure) Plots() (top, bottom *hplot.Plot) {
	top = hplot.New()
	top.Title.Text = f.Title.Main
	top.X.Label.Text = f.Title.X
	top.Y.Label.Text = f.Title.Y
	top.X.Min, top.X.Max = f.Hist.XMin(), f.Hist.XMax()

	data := hplot.NewH1D(f.Hist, hplot.WithYErrBars(true))
	data.LineStyle.Color = color.Black
	top.Add(data)

	curve := plotter.NewFunction(f.Fit.Eval)
	curve.XMin, curve.XMax = f.FitMin, f.FitMax
	curve.Samples = 500
	curve.Color = color.RGBA{R: 255, A: 255}
	curve.Width = vg.Points(1.5)
	top.Add(curve)

	top.Add(hplot.NewLabel(labelX, labelY, f.Label(), hplot.WithLabelNormalized(true)))

	rt := f.ResidualTitle
	if rt == (histunit.Title{}) {
		rt = histunit.ParseTitle(ResidualTitle)
	}
	bottom = hplot.New()
	bottom.Title.Text = rt.Main
	bottom.X.Label.Text = rt.X
	bottom.Y.Label.Text = rt.Y
	bottom.X.Min, bottom.X.Max = top.X.Min, top.X.Max

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 128}
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	bottom.Add(zero)

	resid := hplot.NewS2D(f.Residuals.S2D(), hplot.WithYErrBars(true))
	resid.GlyphStyle.Shape = draw.CircleGlyph{}
	resid.GlyphStyle.Radius = vg.Points(1.5)
	bottom.Add(resid)

	return top, bottom
}

// Draw draws f on c.
func (f *Figure) Draw(c draw.Canvas) {
	c.SetColor(color.White)
	c.Fill(c.Rectangle.Path())

	top, bottom := f.Plots()
	top.Draw(TopPad.Canvas(c))
	bottom.Draw(BottomPad.Canvas(c))
}
