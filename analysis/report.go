// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analysis

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gemlab/ntfit/histunit"
)

// Report writes a summary of the fit to w.
func (r *Result) Report(w io.Writer) error {
	fit := r.Fit
	scaler := histunit.NoOpScaler
	if fit.Chi2 != 0 {
		scaler = histunit.CommonScale([]float64{fit.Chi2}, histunit.NotationSI)
	}
	fmt.Fprintf(w, "entries: %d, selected: %d, in range: %d\n",
		r.Entries, r.Projection.Selected, r.Projection.InRange())
	fmt.Fprintf(w, "fit range: [%g, %g], points: %d\n", r.FitMin, r.FitMax, fit.Points)
	if fit.Degenerate {
		fmt.Fprintf(w, "degenerate sample, curve not minimized\n")
	}
	fmt.Fprintf(w, "Chi2 / NDF = %s / %d = %.2f\n\n", scaler.Format(fit.Chi2), fit.NDF, fit.ReducedChi2())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "parameter\tvalue\terror\t\n")
	for i, p := range []struct {
		name string
		val  float64
	}{
		{"Constant", fit.Amplitude},
		{"Mean", fit.Mean},
		{"Sigma", fit.Sigma},
	} {
		s := histunit.CommonScale([]float64{p.val, fit.Errors[i]}, histunit.NotationExp)
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", p.name, s.Format(p.val), s.Format(fit.Errors[i]))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nMean: %.6g, Sigma: %.6g\n", fit.Mean, fit.Sigma)
	return err
}
