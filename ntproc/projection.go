// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ntproc projects ntuple branches into histograms.
//
// A Projector reads one branch of a tree, optionally restricted by a
// Filter, and fills a fixed-binning go-hep histogram, the way ROOT's
// TTree::Draw("x>>h(n,min,max)", cut) does.
package ntproc

import (
	"github.com/pkg/errors"
	"go-hep.org/x/hep/hbook"

	"github.com/gemlab/ntfit/ntuple"
)

// A Projector describes how to project one branch of a tree into a
// histogram.
type Projector struct {
	// Branch is the branch to histogram.
	Branch string

	// Filter, if non-nil, selects the entries to project.
	Filter *Filter

	// Bins, Min and Max give the binning. Bins are equal width over
	// [Min, Max). Values outside the range land in the histogram's
	// underflow and overflow bins.
	Bins     int
	Min, Max float64

	// Progress, if non-nil, is called once per entry read.
	Progress func()
}

// A Projection is the result of projecting a branch.
type Projection struct {
	// Hist is filled with unit weights, so the error of each bin is
	// the square root of its count.
	Hist *hbook.H1D

	// Values lists the selected values inside [Min, Max), in entry
	// order.
	Values []float64

	// Selected counts the entries that passed the filter, in range
	// or not.
	Selected int64
}

// Project reads p.Branch from every entry of tree.
func (p *Projector) Project(tree ntuple.Tree) (*Projection, error) {
	if p.Bins <= 0 {
		return nil, errors.Errorf("bad bin count %d", p.Bins)
	}
	if !(p.Min < p.Max) {
		return nil, errors.Errorf("bad histogram range [%g, %g)", p.Min, p.Max)
	}

	// The value branch comes first, followed by whatever else the
	// cut reads.
	branches := []string{p.Branch}
	match := func([]float64) bool { return true }
	if p.Filter != nil {
		for _, b := range p.Filter.Branches() {
			if b != p.Branch {
				branches = append(branches, b)
			}
		}
		var err error
		match, err = p.Filter.Compile(branches)
		if err != nil {
			return nil, err
		}
	}

	out := &Projection{Hist: hbook.NewH1D(p.Bins, p.Min, p.Max)}
	err := tree.Scan(branches, func(vals []float64) error {
		if p.Progress != nil {
			p.Progress()
		}
		if !match(vals) {
			return nil
		}
		x := vals[0]
		out.Selected++
		out.Hist.Fill(x, 1)
		if p.Min <= x && x < p.Max {
			out.Values = append(out.Values, x)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "projecting %s", p.Branch)
	}
	return out, nil
}

// InRange returns the number of projected values inside the
// histogram range.
func (p *Projection) InRange() int {
	return len(p.Values)
}
