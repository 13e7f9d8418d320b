// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutql

import (
	"strconv"
	"strings"
)

// Query is a node in the query tree. It can either be a QueryOp or a
// QueryCmp.
type Query interface {
	isQuery()
	String() string
}

// Operand is one side of a comparison: either a branch reference or a
// constant.
type Operand struct {
	Branch string  // Branch name, or "" for a constant
	Value  float64 // Constant value if Branch is ""
}

func (o Operand) String() string {
	if o.Branch != "" {
		return o.Branch
	}
	return strconv.FormatFloat(o.Value, 'g', -1, 64)
}

// QueryCmp is a leaf in a Query tree that compares two operands.
type QueryCmp struct {
	Off int // Byte offset of the comparison in the original query.
	L   Operand
	Op  CmpOp
	R   Operand
}

func (q *QueryCmp) isQuery() {}
func (q *QueryCmp) String() string {
	return q.L.String() + " " + q.Op.String() + " " + q.R.String()
}

// Match returns whether the comparison holds for the given operand
// values. Comparisons involving NaN are false, except for "!=".
func (q *QueryCmp) Match(l, r float64) bool {
	switch q.Op {
	case CmpLT:
		return l < r
	case CmpLE:
		return l <= r
	case CmpGT:
		return l > r
	case CmpGE:
		return l >= r
	case CmpEQ:
		return l == r
	case CmpNE:
		return l != r
	}
	panic("bad comparison " + q.Op.String())
}

// QueryOp is a boolean operator in the Query tree. OpNot must have
// exactly one child node. OpAnd and OpOr may have zero or more child
// nodes.
type QueryOp struct {
	Op    Op
	Exprs []Query
}

func (q *QueryOp) isQuery() {}
func (q *QueryOp) String() string {
	var op string
	switch q.Op {
	case OpNot:
		return "!" + q.Exprs[0].String()
	case OpAnd:
		if len(q.Exprs) == 0 {
			return "*"
		}
		op = " && "
	case OpOr:
		op = " || "
	}
	var buf strings.Builder
	buf.WriteByte('(')
	for i, e := range q.Exprs {
		if i > 0 {
			buf.WriteString(op)
		}
		buf.WriteString(e.String())
	}
	buf.WriteByte(')')
	return buf.String()
}

// Op specifies a type of boolean operator.
type Op int

const (
	OpAnd Op = 1 + iota
	OpOr
	OpNot
)

// CmpOp specifies a comparison operator.
type CmpOp int

const (
	CmpLT CmpOp = 1 + iota
	CmpLE
	CmpGT
	CmpGE
	CmpEQ
	CmpNE
)

// CmpOps maps the spelling of each comparison operator to its CmpOp.
var CmpOps = map[string]CmpOp{
	"<": CmpLT, "<=": CmpLE,
	">": CmpGT, ">=": CmpGE,
	"==": CmpEQ, "!=": CmpNE,
}

func (c CmpOp) String() string {
	for s, op := range CmpOps {
		if op == c {
			return s
		}
	}
	return "CmpOp(" + strconv.Itoa(int(c)) + ")"
}
