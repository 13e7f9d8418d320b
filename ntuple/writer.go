// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import (
	"bytes"
	"io"
	"strconv"
	"strings"
)

// A Writer writes the text ntuple format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer

	first   bool
	tree    string
	title   string
	columns []string
}

// NewWriter returns a writer that writes text ntuple rows to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, first: true}
}

// Write writes row to w. If row's tree, title or columns differ from
// the previous row, it first emits a new section header.
func (w *Writer) Write(row *Row) error {
	if w.first || row.Tree != w.tree || row.Title != w.title || !equalStrings(row.Columns, w.columns) {
		w.writeHeader(row)
	}

	for i, v := range row.Values {
		if i > 0 {
			w.buf.WriteByte(' ')
		}
		w.buf.Write(strconv.AppendFloat(nil, v, 'g', -1, 64))
	}
	w.buf.WriteByte('\n')

	// Write to the buffer can't fail, so we only have to check if
	// this fails.
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

func (w *Writer) writeHeader(row *Row) {
	if !w.first {
		// Sections after rows get an extra blank.
		w.buf.WriteByte('\n')
	}
	w.first = false
	w.tree, w.title = row.Tree, row.Title
	w.columns = append(w.columns[:0], row.Columns...)

	w.buf.WriteString("tree: ")
	w.buf.WriteString(row.Tree)
	w.buf.WriteByte('\n')
	if row.Title != "" {
		w.buf.WriteString("title: ")
		w.buf.WriteString(row.Title)
		w.buf.WriteByte('\n')
	}
	w.buf.WriteString(strings.Join(row.Columns, " "))
	w.buf.WriteByte('\n')
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
