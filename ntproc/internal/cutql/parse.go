// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cutql implements the selection language used to choose
// ntuple entries, in the style of ROOT's TTree::Draw selections.
//
// Syntax:
//
//	expr    = andExpr {"||" andExpr} .
//	andExpr = unary {"&&" unary} .
//	unary   = "!" unary | "(" expr ")" | cmp .
//	cmp     = operand relop operand .
//	relop   = "<" | "<=" | ">" | ">=" | "==" | "!=" .
//	operand = branch | number .
//	branch  = (letter | "_") {letter | digit | "_" | "."} .
//
// The empty string is a valid query that selects everything.
package cutql

import (
	"fmt"
	"strconv"
	"unicode"
)

// Parse parses a selection string into a Query tree.
func Parse(q string) (Query, error) {
	toks, err := Tokenize(q)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 {
		// Only the EOF token.
		return &QueryOp{OpAnd, nil}, nil
	}
	return parse(q, toks)
}

// SyntaxError is an error produced by parsing a malformed selection
// string.
type SyntaxError struct {
	Query string // The query string
	Off   int    // Byte offset of the error in Query
	Msg   string // Error message
}

func (e *SyntaxError) Error() string {
	// Translate byte offset to a rune offset.
	pos := 0
	for i, r := range e.Query {
		if i >= e.Off {
			break
		}
		if unicode.IsGraphic(r) {
			pos++
		}
	}
	return fmt.Sprintf("syntax error: %s\n\t%s\n\t%*s^", e.Msg, e.Query, pos, "")
}

func parse(qOrig string, toks []Tok) (Query, error) {
	p := parser{qOrig, toks, nil}
	q, i := p.expr(0)
	if p.toks[i].Kind != 0 {
		p.error(i, "unexpected "+strconv.Quote(p.toks[i].Tok))
	}
	if p.err != nil {
		return nil, p.err
	}
	return q, nil
}

type parser struct {
	q    string
	toks []Tok
	err  *SyntaxError
}

func (p *parser) error(i int, msg string) int {
	off := p.toks[i].Off
	if p.err == nil || off < p.err.Off {
		p.err = &SyntaxError{p.q, off, msg}
	}
	// Move to the end token.
	return len(p.toks) - 1
}

func (p *parser) expr(i int) (Query, int) {
	return p.orExpr(i)
}

func (p *parser) orExpr(i int) (Query, int) {
	var q Query
	q, i = p.andExpr(i)
	if p.toks[i].Kind != 'O' {
		return q, i
	}
	terms := []Query{q}
	for p.toks[i].Kind == 'O' {
		q, i = p.andExpr(i + 1)
		terms = append(terms, q)
	}
	return &QueryOp{OpOr, terms}, i
}

func (p *parser) andExpr(i int) (Query, int) {
	var q Query
	q, i = p.unary(i)
	if p.toks[i].Kind != 'A' {
		return q, i
	}
	terms := []Query{q}
	for p.toks[i].Kind == 'A' {
		q, i = p.unary(i + 1)
		terms = append(terms, q)
	}
	return &QueryOp{OpAnd, terms}, i
}

func (p *parser) unary(i int) (Query, int) {
	switch p.toks[i].Kind {
	case '(':
		if p.toks[i+1].Kind == ')' {
			return nil, p.error(i+1, "nothing to match")
		}
		q, i := p.expr(i + 1)
		if p.toks[i].Kind != ')' {
			return nil, p.error(i, "missing \")\"")
		}
		return q, i + 1
	case '!':
		q, i := p.unary(i + 1)
		return &QueryOp{OpNot, []Query{q}}, i
	case 'w':
		return p.cmp(i)
	case 0, 'A', 'O', ')':
		return nil, p.error(i, "nothing to match")
	}
	return nil, p.error(i, "unexpected "+strconv.Quote(p.toks[i].Tok))
}

func (p *parser) cmp(i int) (Query, int) {
	off := p.toks[i].Off
	lhs, ok := p.operand(i)
	if !ok {
		return nil, len(p.toks) - 1
	}
	if p.toks[i+1].Kind != 'c' {
		return nil, p.error(i+1, "expected comparison")
	}
	op := CmpOps[p.toks[i+1].Tok]
	if p.toks[i+2].Kind != 'w' {
		return nil, p.error(i+2, "expected branch or number")
	}
	rhs, ok := p.operand(i + 2)
	if !ok {
		return nil, len(p.toks) - 1
	}
	if lhs.Branch == "" && rhs.Branch == "" {
		return nil, p.error(i, "comparison of two constants")
	}
	return &QueryCmp{off, lhs, op, rhs}, i + 3
}

func (p *parser) operand(i int) (Operand, bool) {
	word := p.toks[i].Tok
	if v, err := strconv.ParseFloat(word, 64); err == nil {
		return Operand{Value: v}, true
	}
	if !isBranchName(word) {
		p.error(i, "bad operand "+strconv.Quote(word))
		return Operand{}, false
	}
	return Operand{Branch: word}, true
}

func isBranchName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return s != ""
}
