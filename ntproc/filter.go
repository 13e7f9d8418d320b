// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntproc

import (
	"fmt"

	"github.com/gemlab/ntfit/ntproc/internal/cutql"
)

// A Filter selects ntuple entries with a boolean cut such as
// "zf < -0.01 && energy > 1".
type Filter struct {
	cut   string
	query cutql.Query

	// branches lists the branches the query reads, in order of
	// first use.
	branches []string
}

// NewFilter constructs an entry filter from a selection cut. The
// empty cut selects every entry.
func NewFilter(cut string) (*Filter, error) {
	q, err := cutql.Parse(cut)
	if err != nil {
		return nil, err
	}

	f := &Filter{cut: cut, query: q}
	seen := make(map[string]bool)
	use := func(o cutql.Operand) {
		if o.Branch != "" && !seen[o.Branch] {
			seen[o.Branch] = true
			f.branches = append(f.branches, o.Branch)
		}
	}
	var walk func(q cutql.Query)
	walk = func(q cutql.Query) {
		switch q := q.(type) {
		default:
			panic(fmt.Sprintf("unknown query node type %T", q))
		case *cutql.QueryOp:
			for _, sub := range q.Exprs {
				walk(sub)
			}
		case *cutql.QueryCmp:
			use(q.L)
			use(q.R)
		}
	}
	walk(q)
	return f, nil
}

// String returns the cut the filter was built from.
func (f *Filter) String() string { return f.cut }

// Branches returns the branches the cut reads.
func (f *Filter) Branches() []string {
	return append([]string(nil), f.branches...)
}

// Compile binds the filter to a column layout and returns a predicate
// over rows with that layout. Every branch in f.Branches must appear
// in columns.
func (f *Filter) Compile(columns []string) (func(vals []float64) bool, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	for _, b := range f.branches {
		if _, ok := index[b]; !ok {
			return nil, fmt.Errorf("cut %q: unknown branch %q", f.cut, b)
		}
	}

	var compile func(q cutql.Query) func([]float64) bool
	compile = func(q cutql.Query) func([]float64) bool {
		switch q := q.(type) {
		case *cutql.QueryOp:
			subs := make([]func([]float64) bool, len(q.Exprs))
			for i, sub := range q.Exprs {
				subs[i] = compile(sub)
			}
			switch q.Op {
			case cutql.OpNot:
				return func(vals []float64) bool { return !subs[0](vals) }
			case cutql.OpAnd:
				return func(vals []float64) bool {
					for _, sub := range subs {
						if !sub(vals) {
							return false
						}
					}
					return true
				}
			case cutql.OpOr:
				return func(vals []float64) bool {
					for _, sub := range subs {
						if sub(vals) {
							return true
						}
					}
					return false
				}
			}
		case *cutql.QueryCmp:
			l, r := operand(q.L, index), operand(q.R, index)
			return func(vals []float64) bool { return q.Match(l(vals), r(vals)) }
		}
		panic(fmt.Sprintf("unknown query node %v", q))
	}
	return compile(f.query), nil
}

func operand(o cutql.Operand, index map[string]int) func([]float64) float64 {
	if o.Branch == "" {
		v := o.Value
		return func([]float64) float64 { return v }
	}
	i := index[o.Branch]
	return func(vals []float64) float64 { return vals[i] }
}
