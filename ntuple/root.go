// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import (
	"github.com/pkg/errors"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
)

// rootFile is a ROOT file opened with groot.
type rootFile struct {
	path string
	f    *riofs.File
}

func openROOT(path string) (*rootFile, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, err
	}
	return &rootFile{path: path, f: f}, nil
}

func (rf *rootFile) Name() string { return rf.path }

// Tree returns the tree stored under name. Names may contain
// directory components, as in "run1/electrons".
func (rf *rootFile) Tree(name string) (Tree, error) {
	obj, err := riofs.Dir(rf.f).Get(name)
	if err != nil {
		return nil, errors.Wrapf(ErrTreeNotFound, "%s: %s", rf.path, name)
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		return nil, errors.Wrapf(ErrTreeNotFound, "%s: %s is a %s", rf.path, name, obj.Class())
	}
	return &rootTree{t: t}, nil
}

func (rf *rootFile) Close() error { return rf.f.Close() }

type rootTree struct {
	t rtree.Tree
}

func (t *rootTree) Name() string   { return t.t.Name() }
func (t *rootTree) Title() string  { return t.t.Title() }
func (t *rootTree) Entries() int64 { return t.t.Entries() }

func (t *rootTree) Branches() []string {
	var names []string
	for _, b := range t.t.Branches() {
		names = append(names, b.Name())
	}
	return names
}

func (t *rootTree) Scan(branches []string, fn func(vals []float64) error) error {
	all := rtree.NewReadVars(t.t)
	rvars := make([]rtree.ReadVar, len(branches))
nextBranch:
	for i, name := range branches {
		for _, rv := range all {
			if rv.Name == name && (rv.Leaf == "" || rv.Leaf == name) {
				rvars[i] = rv
				continue nextBranch
			}
		}
		return errors.Errorf("tree %q has no branch %q", t.Name(), name)
	}

	r, err := rtree.NewReader(t.t, rvars)
	if err != nil {
		return errors.Wrapf(err, "reading tree %q", t.Name())
	}
	defer r.Close()

	vals := make([]float64, len(rvars))
	return r.Read(func(ctx rtree.RCtx) error {
		for i, rv := range rvars {
			v, ok := scalar(rv.Value)
			if !ok {
				return errors.Errorf("branch %q of tree %q: unsupported type %T", rv.Name, t.Name(), rv.Value)
			}
			vals[i] = v
		}
		return fn(vals)
	})
}

// scalar converts a pointer to a numeric leaf value to float64. It
// reports false for non-scalar leaves such as arrays and vectors.
func scalar(ptr interface{}) (float64, bool) {
	switch v := ptr.(type) {
	case *float64:
		return *v, true
	case *float32:
		return float64(*v), true
	case *int8:
		return float64(*v), true
	case *int16:
		return float64(*v), true
	case *int32:
		return float64(*v), true
	case *int64:
		return float64(*v), true
	case *uint8:
		return float64(*v), true
	case *uint16:
		return float64(*v), true
	case *uint32:
		return float64(*v), true
	case *uint64:
		return float64(*v), true
	case *bool:
		if *v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// rootWriter writes a flat tree of float64 branches to a new ROOT
// file.
type rootWriter struct {
	f    *riofs.File
	w    rtree.Writer
	vals []float64
}

func createROOT(path, tree string, columns []string) (*rootWriter, error) {
	f, err := groot.Create(path)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(columns))
	wvars := make([]rtree.WriteVar, len(columns))
	for i, c := range columns {
		wvars[i] = rtree.WriteVar{Name: c, Value: &vals[i]}
	}
	w, err := rtree.NewWriter(f, tree, wvars)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "creating tree %q in %s", tree, path)
	}
	return &rootWriter{f: f, w: w, vals: vals}, nil
}

func (w *rootWriter) Write(vals []float64) error {
	if len(vals) != len(w.vals) {
		return errors.Errorf("got %d values for %d branches", len(vals), len(w.vals))
	}
	copy(w.vals, vals)
	_, err := w.w.Write()
	return err
}

func (w *rootWriter) Close() error {
	err := w.w.Close()
	if err2 := w.f.Close(); err == nil {
		err = err2
	}
	return err
}
