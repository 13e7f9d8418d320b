// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
)

func parseAll(t *testing.T, data string) []*Row {
	sr := strings.NewReader(data)
	r := NewReader(sr, "test")
	var out []*Row
	for r.Scan() {
		row, err := r.Row()
		if err == nil {
			out = append(out, row.Clone())
		} else {
			out = append(out, errRow(err.Error()))
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal("parsing failed: ", err)
	}
	return out
}

func printRow(w io.Writer, r *Row) {
	fmt.Fprintf(w, "{%s %q} %v %v\n", r.Tree, r.Title, r.Columns, r.Values)
}

// errRow returns a row that captures an error message. This is just a
// convenience for testing.
func errRow(msg string) *Row {
	return &Row{Tree: "error: " + msg, Columns: []string{}, Values: []float64{}}
}

func row(tree, title string, cols []string, vals ...float64) *Row {
	return &Row{Tree: tree, Title: title, Columns: cols, Values: vals}
}

func TestReader(t *testing.T) {
	xyz := []string{"x", "y", "z"}
	type testCase struct {
		name, input string
		want        []*Row
	}
	for _, test := range []testCase{
		{
			"basic",
			`tree: events
x y z
1 2 3
0.5 -1e-3 7
`,
			[]*Row{
				row("events", "", xyz, 1, 2, 3),
				row("events", "", xyz, 0.5, -1e-3, 7),
			},
		},
		{
			"title and comments",
			`# generated
tree: events
title: GEM shower events

x	y   z
# a comment between rows
4 5 6
`,
			[]*Row{row("events", "GEM shower events", xyz, 4, 5, 6)},
		},
		{
			"descriptor header",
			`tree: t
x/D:y/D:z/F
1 2 3
`,
			[]*Row{row("t", "", xyz, 1, 2, 3)},
		},
		{
			"two sections",
			`tree: a
x
1
tree: b
y z
2 3
`,
			[]*Row{
				row("a", "", []string{"x"}, 1),
				row("b", "", []string{"y", "z"}, 2, 3),
			},
		},
		{
			"bad lines",
			`1 2 3
tree: t
1 2 3
`,
			[]*Row{
				errRow("test:1: data before tree: line"),
				errRow("test:3: missing column header"),
			},
		},
		{
			"bad rows",
			`tree: t
x y
1
1 2 3
1 abc
1 1e999
`,
			[]*Row{
				errRow("test:3: expected 2 values, got 1"),
				errRow("test:4: expected 2 values, got 3"),
				errRow("test:5: parsing value: invalid syntax"),
				errRow("test:6: parsing value: value out of range"),
			},
		},
		{
			"bad header",
			`tree: t
x x
tree: u
x 2y
tree:
`,
			[]*Row{
				errRow(`test:2: duplicate column "x"`),
				errRow(`test:4: bad column name "2y"`),
				errRow("test:5: missing tree name"),
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := parseAll(t, test.input)
			want := test.want
			var diff bytes.Buffer
			for i := 0; i < len(got) || i < len(want); i++ {
				if i >= len(got) {
					fmt.Fprintf(&diff, "[%d] got: none, want:\n", i)
					printRow(&diff, want[i])
				} else if i >= len(want) {
					fmt.Fprintf(&diff, "[%d] want: none, got:\n", i)
					printRow(&diff, got[i])
				} else if !reflect.DeepEqual(got[i], want[i]) {
					fmt.Fprintf(&diff, "[%d] got:\n", i)
					printRow(&diff, got[i])
					fmt.Fprintf(&diff, "[%d] want:\n", i)
					printRow(&diff, want[i])
				}
			}
			if diff.Len() != 0 {
				t.Error(diff.String())
			}
		})
	}
}

func TestReaderSections(t *testing.T) {
	r := NewReader(strings.NewReader("tree: a\ntitle: first\nx\ntree: b\ny\n"), "test")
	for r.Scan() {
		t.Fatal("unexpected row")
	}
	want := []Section{
		{"a", "first", []string{"x"}},
		{"b", "", []string{"y"}},
	}
	if got := r.Sections(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	rows := []*Row{
		row("a", "", []string{"x", "y"}, 1, 2.5),
		row("a", "", []string{"x", "y"}, -3, 1e-9),
		row("b", "second", []string{"z"}, 4),
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	const want = `tree: a
x y
1 2.5
-3 1e-09

tree: b
title: second
z
4
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	// What we wrote must read back as the same rows.
	got := parseAll(t, buf.String())
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("read back %v, want %v", got, rows)
	}
}
