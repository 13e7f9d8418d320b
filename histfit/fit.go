// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package histfit fits Gaussian curves to histograms and derives fit
// residuals.
//
// The minimization is delegated to go-hep's fit package, which drives
// gonum's optimize. This package only chooses the data points, the
// starting parameters and the goodness-of-fit bookkeeping.
package histfit

import (
	"math"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"go-hep.org/x/hep/fit"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Methods lists the minimizers accepted by ParseMethod.
var Methods = []string{"nelder-mead", "bfgs", "lbfgs"}

// ParseMethod returns the gonum minimizer with the given name. The
// empty name selects Nelder-Mead.
func ParseMethod(name string) (optimize.Method, error) {
	switch strings.ToLower(name) {
	case "", "nelder-mead", "neldermead", "simplex":
		return &optimize.NelderMead{}, nil
	case "bfgs":
		return &optimize.BFGS{}, nil
	case "lbfgs":
		return &optimize.LBFGS{}, nil
	}
	return nil, errors.Errorf("unknown fit method %q (want one of %s)", name, strings.Join(Methods, ", "))
}

// Guess returns starting parameters for fitting h over [min, max],
// where h's entries are summarized by dist. The amplitude is the
// largest bin that enters the fit. A sample with no spread yields a
// zero-width curve centered on the sample mean.
func Guess(h *hbook.H1D, dist *Distribution, min, max float64) Gaussian {
	g := Gaussian{Mean: dist.Median, Sigma: dist.RobustSigma()}
	if dist.Degenerate() {
		g.Mean, g.Sigma = dist.Mean, 0
	}
	for _, y := range fitPoints(h, min, max).y {
		g.Amplitude = math.Max(g.Amplitude, y)
	}
	return g
}

// FitOptions control FitGaussian.
type FitOptions struct {
	// Min and Max restrict the fit to bins whose center lies in
	// [Min, Max]. If Min >= Max, the histogram range is used.
	Min, Max float64

	// Method is the minimizer. Nil means Nelder-Mead.
	Method optimize.Method

	// Settings are passed to the minimizer. Nil means gonum's
	// defaults.
	Settings *optimize.Settings

	// Log receives fit diagnostics. Nil means log.Log.
	Log log.Interface
}

// A FitResult is the outcome of a Gaussian fit.
type FitResult struct {
	Gaussian

	// Errors are the one-sigma uncertainties on Amplitude, Mean and
	// Sigma. They are NaN if the fit was not minimized or the
	// curvature at the minimum is not positive definite.
	Errors [3]float64

	// Chi2 is the weighted sum of squared deviations over the
	// fitted points.
	Chi2 float64

	// Points is the number of bins that entered the fit, and NDF is
	// Points minus the three free parameters.
	Points int
	NDF    int

	// Degenerate is set when the sample had no spread and the curve
	// was fixed rather than minimized.
	Degenerate bool

	// Status is the minimizer's termination status.
	Status string
}

// ReducedChi2 returns Chi2/NDF, or +Inf if there are no degrees of
// freedom.
func (r *FitResult) ReducedChi2() float64 {
	if r.NDF <= 0 {
		return math.Inf(1)
	}
	return r.Chi2 / float64(r.NDF)
}

// gradientThreshold is the default convergence threshold on the
// numerical gradient of χ²/2 in scaled parameters.
const gradientThreshold = 1e-3

// points is the subset of a histogram used in a fit.
type points struct {
	x, y, err []float64
}

// fitPoints selects the non-empty bins, as fit.H1D does, restricted to
// those whose center lies in [min, max].
func fitPoints(h *hbook.H1D, min, max float64) points {
	if !(min < max) {
		min, max = h.XMin(), h.XMax()
	}
	var p points
	for _, b := range h.Binning.Bins {
		x := b.XMid()
		if x < min || x > max || b.SumW() == 0 {
			continue
		}
		p.x = append(p.x, x)
		p.y = append(p.y, b.SumW())
		p.err = append(p.err, b.ErrW())
	}
	return p
}

func (p points) chi2(g Gaussian) float64 {
	var chi2 float64
	for i, x := range p.x {
		d := (p.y[i] - g.Eval(x)) / p.err[i]
		chi2 += d * d
	}
	return chi2
}

// FitGaussian fits a Gaussian to the non-empty bins of h by weighted
// least squares, starting from init. Each bin is weighted by its
// error.
//
// If init has zero width the fit is degenerate: init is returned as
// the fitted curve without minimization.
func FitGaussian(h *hbook.H1D, init Gaussian, opts FitOptions) (*FitResult, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.Log
	}
	pts := fitPoints(h, opts.Min, opts.Max)
	res := &FitResult{
		Gaussian: init,
		Points:   len(pts.x),
		NDF:      len(pts.x) - 3,
		Errors:   [3]float64{math.NaN(), math.NaN(), math.NaN()},
	}

	if init.Sigma == 0 {
		res.Degenerate = true
		res.Chi2 = pts.chi2(init)
		res.Status = "degenerate"
		logger.WithField("mean", init.Mean).Debug("zero-width sample, skipping minimization")
		return res, nil
	}
	if len(pts.x) == 0 {
		return nil, errors.New("no non-empty bins in fit range")
	}

	sc := scalingOf(init)
	method := opts.Method
	if method == nil {
		method = &optimize.NelderMead{}
	}
	settings := opts.Settings
	if settings == nil {
		settings = &optimize.Settings{GradientThreshold: gradientThreshold}
	}
	logger.WithFields(log.Fields{
		"points": len(pts.x),
		"init":   init.String(),
	}).Debug("minimizing")
	opt, err := fit.Curve1D(
		fit.Func1D{
			F: func(x float64, ps []float64) float64 {
				return sc.gaussian(ps).Eval(x)
			},
			X:   pts.x,
			Y:   pts.y,
			Err: pts.err,
			Ps:  sc.params(init),
		},
		settings, method,
	)
	var status string
	switch {
	case opt != nil && errors.Is(err, optimize.ErrNoProgress):
		// The line search ran into the noise floor of the numerical
		// gradient. The best location so far is the minimum.
		status = "NoProgress"
	case err != nil:
		return nil, errors.Wrap(err, "fitting gaussian")
	default:
		if err := opt.Status.Err(); err != nil {
			return nil, errors.Wrap(err, "fitting gaussian")
		}
		status = opt.Status.String()
	}

	res.Gaussian = sc.gaussian(opt.X)
	res.Chi2 = pts.chi2(res.Gaussian)
	res.Status = status
	res.Errors = paramErrors(pts, sc, opt.X)
	logger.WithFields(log.Fields{
		"status":      res.Status,
		"evaluations": opt.Stats.FuncEvaluations,
		"chi2":        res.Chi2,
	}).Debug("minimized")
	return res, nil
}

// paramErrors returns the parameter uncertainties from the inverse of
// the χ² Hessian at the scaled parameters ps. The covariance is 2·H⁻¹.
func paramErrors(pts points, sc scaling, ps []float64) [3]float64 {
	errs := [3]float64{math.NaN(), math.NaN(), math.NaN()}
	chi2 := func(ps []float64) float64 {
		return pts.chi2(sc.gaussian(ps))
	}
	hess := mat.NewSymDense(len(ps), nil)
	fd.Hessian(hess, chi2, ps, nil)

	var chol mat.Cholesky
	if ok := chol.Factorize(hess); !ok {
		return errs
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return errs
	}
	units := sc.units()
	for i := range errs {
		if v := 2 * cov.At(i, i); v >= 0 {
			errs[i] = math.Sqrt(v) * units[i]
		}
	}
	return errs
}
