// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import "github.com/pkg/errors"

// OpenFiles opens each of paths in order. Every file is opened before
// any tree is looked up, so an unreadable file is always reported as
// an *OpenError. On failure, files already opened are closed.
func OpenFiles(paths []string) ([]File, error) {
	if len(paths) == 0 {
		return nil, &OpenError{Path: "", Err: errors.New("no input files")}
	}
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		f, err := Open(path)
		if err != nil {
			CloseAll(files)
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// CloseAll closes every file and returns the first error.
func CloseAll(files []File) error {
	var first error
	for _, f := range files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Chain returns the tree called name from each of files, read one
// after another as a single tree. Every file must hold the tree.
func Chain(files []File, name string) (Tree, error) {
	trees := make([]Tree, 0, len(files))
	for _, f := range files {
		t, err := f.Tree(name)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	if len(trees) == 1 {
		return trees[0], nil
	}
	return &chain{trees: trees}, nil
}

// chain reads a sequence of trees with the same layout.
type chain struct {
	trees []Tree
}

func (c *chain) Name() string {
	if len(c.trees) == 0 {
		return ""
	}
	return c.trees[0].Name()
}

func (c *chain) Title() string {
	if len(c.trees) == 0 {
		return ""
	}
	return c.trees[0].Title()
}

func (c *chain) Entries() int64 {
	var n int64
	for _, t := range c.trees {
		n += t.Entries()
	}
	return n
}

func (c *chain) Branches() []string {
	if len(c.trees) == 0 {
		return nil
	}
	return c.trees[0].Branches()
}

func (c *chain) Scan(branches []string, fn func(vals []float64) error) error {
	for i, t := range c.trees {
		if err := t.Scan(branches, fn); err != nil {
			return errors.Wrapf(err, "chain element %d", i)
		}
	}
	return nil
}

// A TreeWriter appends entries to a new tree of float64 branches.
type TreeWriter interface {
	// Write appends one entry. vals must have one value per
	// column.
	Write(vals []float64) error

	// Close flushes the tree and closes the underlying file.
	Close() error
}

// Create creates the file at path holding a single tree with the
// given columns. Paths with a ".root" extension produce a ROOT file;
// any other path produces a text ntuple.
func Create(path, tree string, columns []string) (TreeWriter, error) {
	if len(columns) == 0 {
		return nil, errors.Errorf("creating %s: no columns", path)
	}
	for _, c := range columns {
		if !isName(c) {
			return nil, errors.Errorf("creating %s: bad column name %q", path, c)
		}
	}
	if isROOT(path) {
		return createROOT(path, tree, columns)
	}
	return createText(path, tree, columns)
}

