// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analysis runs the load, project, fit procedure on ntuple
// data.
//
// Every step takes the handles it needs from the previous one, so the
// same procedure can run several times in one process.
package analysis

import (
	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/gemlab/ntfit/config"
	"github.com/gemlab/ntfit/histfit"
	"github.com/gemlab/ntfit/histunit"
	"github.com/gemlab/ntfit/ntproc"
	"github.com/gemlab/ntfit/ntuple"
	"github.com/gemlab/ntfit/render"
)

// Options control Run.
type Options struct {
	// Log receives progress messages. Nil means log.Log.
	Log log.Interface

	// Progress, if non-nil, is called with the number of entries
	// before they are read. It returns a function to call per
	// entry and a function to call once reading is done.
	Progress func(total int64) (tick, done func())
}

// A Result holds everything one run produced.
type Result struct {
	Config *config.Config

	// Entries is the number of entries in the (chained) tree.
	Entries int64

	Projection *ntproc.Projection
	Dist       *histfit.Distribution
	Fit        *histfit.FitResult
	Residuals  histfit.Residuals

	// FitMin and FitMax are the resolved fit range.
	FitMin, FitMax float64
}

// Run opens cfg's files, histograms the configured branch, fits a
// Gaussian and computes the residuals.
//
// If a file cannot be opened, the error matches ntuple.ErrOpen and no
// tree is looked up. If the tree is missing, the error matches
// ntuple.ErrTreeNotFound and no histogram is built.
func Run(cfg *config.Config, opts Options) (*Result, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.Log
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "bad configuration")
	}
	method, err := histfit.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	filter, err := ntproc.NewFilter(cfg.Cut)
	if err != nil {
		return nil, errors.Wrap(err, "parsing cut")
	}

	files, err := ntuple.OpenFiles(cfg.Files)
	if err != nil {
		return nil, err
	}
	defer ntuple.CloseAll(files)

	tree, err := ntuple.Chain(files, cfg.Tree)
	if err != nil {
		return nil, err
	}
	res := &Result{Config: cfg, Entries: tree.Entries()}
	logger.WithFields(log.Fields{
		"tree":    tree.Name(),
		"files":   len(files),
		"entries": res.Entries,
	}).Info("opened tree")

	p := &ntproc.Projector{
		Branch: cfg.Branch,
		Filter: filter,
		Bins:   cfg.Bins,
		Min:    cfg.Min,
		Max:    cfg.Max,
	}
	done := func() {}
	if opts.Progress != nil {
		p.Progress, done = opts.Progress(res.Entries)
	}
	res.Projection, err = p.Project(tree)
	done()
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"branch":   cfg.Branch,
		"selected": res.Projection.Selected,
		"inRange":  res.Projection.InRange(),
	}).Info("projected")

	res.Dist = histfit.NewDistribution(res.Projection.Values)
	if res.Dist.N == 0 {
		return nil, errors.Errorf("no %s entries in [%g, %g)", cfg.Branch, cfg.Min, cfg.Max)
	}

	res.FitMin, res.FitMax = cfg.FitRange()
	h := res.Projection.Hist
	res.Fit, err = histfit.FitGaussian(h, histfit.Guess(h, res.Dist, res.FitMin, res.FitMax), histfit.FitOptions{
		Min:    res.FitMin,
		Max:    res.FitMax,
		Method: method,
		Log:    logger,
	})
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"mean":  res.Fit.Mean,
		"sigma": res.Fit.Sigma,
		"chi2":  res.Fit.Chi2,
		"ndf":   res.Fit.NDF,
	}).Info("fitted")

	res.Residuals = histfit.NewResiduals(h, res.Fit.Eval)
	return res, nil
}

// Figure returns the two-pad figure of r.
func (r *Result) Figure() *render.Figure {
	return &render.Figure{
		Title:     histunit.ParseTitle(r.Config.Title),
		Hist:      r.Projection.Hist,
		Fit:       r.Fit,
		FitMin:    r.FitMin,
		FitMax:    r.FitMax,
		Residuals: r.Residuals,
		Width:     render.Pixels(r.Config.Width),
		Height:    render.Pixels(r.Config.Height),
	}
}
