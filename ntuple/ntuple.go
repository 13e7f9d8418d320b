// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrOpen matches any error returned by Open or OpenFiles
	// because a file is missing, unreadable or corrupt.
	ErrOpen = errors.New("cannot open file")

	// ErrTreeNotFound is wrapped by File.Tree and Chain when the
	// requested tree is absent.
	ErrTreeNotFound = errors.New("tree not found")
)

// OpenError records a failure to open a data file.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Is reports whether target is ErrOpen.
func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// A File is an open data file holding named trees.
type File interface {
	// Name returns the path the file was opened from.
	Name() string

	// Tree returns the named tree. If there is no tree with that
	// name, the error wraps ErrTreeNotFound.
	Tree(name string) (Tree, error)

	Close() error
}

// A Tree is a named table of entries with scalar numeric branches.
type Tree interface {
	Name() string
	Title() string

	// Entries returns the number of entries in the tree.
	Entries() int64

	// Branches returns the branch names in declaration order.
	Branches() []string

	// Scan calls fn once per entry, in order, with the values of
	// the named branches converted to float64. The slice passed
	// to fn is reused between calls. Scan stops at the first
	// error returned by fn and returns it.
	Scan(branches []string, fn func(vals []float64) error) error
}

// Open opens the data file at path. Files with a ".root" extension
// are read as ROOT files; anything else is read as a text ntuple.
//
// If the file is missing, unreadable or corrupt, Open returns an
// *OpenError.
func Open(path string) (File, error) {
	var (
		f   File
		err error
	)
	if isROOT(path) {
		f, err = openROOT(path)
	} else {
		f, err = openText(path)
	}
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return f, nil
}

func isROOT(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".root")
}

// branchIndex maps each name in branches to its index in columns.
func branchIndex(tree string, columns, branches []string) ([]int, error) {
	idx := make([]int, len(branches))
nextBranch:
	for i, b := range branches {
		for j, c := range columns {
			if b == c {
				idx[i] = j
				continue nextBranch
			}
		}
		return nil, errors.Errorf("tree %q has no branch %q", tree, b)
	}
	return idx, nil
}
