// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// textFile is a text ntuple loaded into memory.
type textFile struct {
	path  string
	trees map[string]*memTree
}

// openText reads the whole text ntuple at path. Any malformed row
// makes the file unusable.
func openText(path string) (*textFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tf := &textFile{path: path, trees: make(map[string]*memTree)}
	r := NewReader(f, path)
	declared := 0
	declare := func() error {
		for _, sec := range r.Sections()[declared:] {
			if err := tf.declare(sec); err != nil {
				return err
			}
			declared++
		}
		return nil
	}
	for r.Scan() {
		row, err := r.Row()
		if err != nil {
			return nil, err
		}
		if err := declare(); err != nil {
			return nil, err
		}
		t := tf.trees[row.Tree]
		t.rows = append(t.rows, append([]float64(nil), row.Values...))
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	// Trees declared without any rows.
	if err := declare(); err != nil {
		return nil, err
	}
	return tf, nil
}

func (tf *textFile) declare(sec Section) error {
	if t, ok := tf.trees[sec.Tree]; ok {
		if !equalStrings(t.columns, sec.Columns) {
			return errors.Errorf("%s: tree %q redeclared with different columns", tf.path, sec.Tree)
		}
		return nil
	}
	tf.trees[sec.Tree] = &memTree{name: sec.Tree, title: sec.Title, columns: sec.Columns}
	return nil
}

func (tf *textFile) Name() string { return tf.path }

func (tf *textFile) Tree(name string) (Tree, error) {
	t, ok := tf.trees[name]
	if !ok {
		return nil, errors.Wrapf(ErrTreeNotFound, "%s: %s", tf.path, name)
	}
	return t, nil
}

func (tf *textFile) Close() error { return nil }

// memTree is a tree whose entries are held in memory.
type memTree struct {
	name, title string
	columns     []string
	rows        [][]float64
}

func (t *memTree) Name() string       { return t.name }
func (t *memTree) Title() string      { return t.title }
func (t *memTree) Entries() int64     { return int64(len(t.rows)) }
func (t *memTree) Branches() []string { return append([]string(nil), t.columns...) }

func (t *memTree) Scan(branches []string, fn func(vals []float64) error) error {
	idx, err := branchIndex(t.name, t.columns, branches)
	if err != nil {
		return err
	}
	vals := make([]float64, len(idx))
	for _, row := range t.rows {
		for i, j := range idx {
			vals[i] = row[j]
		}
		if err := fn(vals); err != nil {
			return err
		}
	}
	return nil
}

func (t *memTree) String() string {
	return fmt.Sprintf("%s (%d entries)", t.name, len(t.rows))
}

// textWriter writes one tree section of a text ntuple file.
type textWriter struct {
	f   *os.File
	w   *Writer
	row Row
	n   int
}

func createText(path, tree string, columns []string) (*textWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &textWriter{
		f:   f,
		w:   NewWriter(f),
		row: Row{Tree: tree, Columns: append([]string(nil), columns...)},
	}, nil
}

func (w *textWriter) Write(vals []float64) error {
	if len(vals) != len(w.row.Columns) {
		return errors.Errorf("writing %s: got %d values for %d columns", w.row.Tree, len(vals), len(w.row.Columns))
	}
	w.row.Values = vals
	w.n++
	return w.w.Write(&w.row)
}

func (w *textWriter) Close() error {
	if w.n == 0 {
		w.w.writeHeader(&w.row)
		if _, err := w.f.Write(w.w.buf.Bytes()); err != nil {
			w.f.Close()
			return err
		}
		w.w.buf.Reset()
	}
	return w.f.Close()
}
