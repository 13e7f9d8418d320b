// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ntuple reads and writes flat tabular event data ("ntuples").
//
// A data file holds one or more named trees. Each tree is a sequence
// of entries with the same set of scalar numeric branches. Two file
// formats are supported: ROOT files, which are read and written with
// go-hep's groot, and a line-oriented text format modeled on the
// input accepted by ROOT's TTree::ReadFile:
//
//	# comment
//	tree: electrons
//	title: GEM shower electrons
//	xf yf zf
//	0.001 -0.002 -0.59
//	0.004 0.001 -0.60
//
// A "tree:" line starts a new tree section. The first plain line
// after it lists the branch names, either separated by white space or
// in ROOT's "x/D:y/D" descriptor form. Every following line holds one
// entry.
package ntuple

// Row is a single entry of a text ntuple together with the section it
// was read from.
type Row struct {
	// Tree is the name of the tree section this row belongs to.
	Tree string

	// Title is the tree title, or "" if the section has none.
	Title string

	// Columns names the branches of the section. It is shared by
	// all rows of one section.
	Columns []string

	// Values holds one value per column.
	Values []float64
}

// Section describes the header of one tree section of a text ntuple.
type Section struct {
	Tree    string
	Title   string
	Columns []string
}

// Clone makes a copy of Row that shares no state with r.
func (r *Row) Clone() *Row {
	return &Row{
		Tree:    r.Tree,
		Title:   r.Title,
		Columns: append([]string(nil), r.Columns...),
		Values:  append([]float64(nil), r.Values...),
	}
}

