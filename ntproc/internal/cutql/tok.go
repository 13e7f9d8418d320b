// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutql

import (
	"unicode"
	"unicode/utf8"
)

// Tok is a single token in the cutql lexical syntax.
type Tok struct {
	// Kind specifies the category of this token. It is 'w' for a
	// word (a branch name or number), 'A' for "&&", 'O' for "||",
	// 'c' for a comparison operator, a single operator character,
	// or 0 for the end-of-string token.
	Kind byte
	Off  int    // Byte offset of the beginning of this token
	Tok  string // Literal token contents
}

func isOp(ch byte) bool {
	switch ch {
	case '(', ')', '!', '<', '>', '=', '&', '|':
		return true
	}
	return false
}

// Tokenize splits q into a stream of tokens.
func Tokenize(q string) ([]Tok, error) {
	qOrig := q

	var toks []Tok
	for len(q) > 0 {
		off := len(qOrig) - len(q)
		two := ""
		if len(q) >= 2 {
			two = q[:2]
		}
		switch {
		case two == "&&":
			toks = append(toks, Tok{'A', off, two})
			q = q[2:]
		case two == "||":
			toks = append(toks, Tok{'O', off, two})
			q = q[2:]
		case two == "<=" || two == ">=" || two == "==" || two == "!=":
			toks = append(toks, Tok{'c', off, two})
			q = q[2:]
		case q[0] == '<' || q[0] == '>':
			toks = append(toks, Tok{'c', off, q[:1]})
			q = q[1:]
		case q[0] == '&' || q[0] == '|' || q[0] == '=':
			return nil, &SyntaxError{qOrig, off, "unexpected " + q[:1] + ", did you mean " + q[:1] + q[:1] + "?"}
		case isOp(q[0]):
			toks = append(toks, Tok{q[0], off, q[:1]})
			q = q[1:]
		default:
			if n := isSpace(q); n > 0 {
				q = q[n:]
				continue
			}
			// Consume until a space or operator.
			end := len(q)
			for i, r := range q {
				if unicode.IsSpace(r) || (r < utf8.RuneSelf && isOp(byte(r))) {
					end = i
					break
				}
			}
			toks = append(toks, Tok{'w', off, q[:end]})
			q = q[end:]
		}
	}
	// Add an EOF token. This eliminates the need for lots of
	// bounds checks in the parser and gives the EOF a position.
	toks = append(toks, Tok{0, len(qOrig), ""})
	return toks, nil
}

func isSpace(q string) int {
	if q[0] == ' ' {
		return 1
	}
	r, size := utf8.DecodeRuneInString(q)
	if unicode.IsSpace(r) {
		return size
	}
	return 0
}
