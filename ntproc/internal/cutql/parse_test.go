// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutql

import "testing"

func TestParse(t *testing.T) {
	check := func(query string, want string) {
		t.Helper()
		q, err := Parse(query)
		if err != nil {
			t.Errorf("%s: unexpected error %s", query, err)
		} else if got := q.String(); got != want {
			t.Errorf("%s: got %s, want %s", query, got, want)
		}
	}
	checkErr := func(query, error string, pos int) {
		t.Helper()
		_, err := Parse(query)
		if se, _ := err.(*SyntaxError); se == nil || se.Msg != error || se.Off != pos {
			t.Errorf("%s: want error %s at %d; got %s", query, error, pos, err)
		}
	}
	check(``, `*`)
	check(`  `, `*`)
	check(`x>0`, `x > 0`)
	check(`0 < yf`, `0 < yf`)
	check(`zf <= -0.01`, `zf <= -0.01`)
	check(`e>=1e-3`, `e >= 0.001`)
	check(`a == b`, `a == b`)
	check(`a != 2`, `a != 2`)
	check(`(x > 0)`, `x > 0`)
	check(`!x > 0`, `!x > 0`)
	check(`!!x > 0`, `!!x > 0`)
	check(`x > 0 && y < 1`, `(x > 0 && y < 1)`)
	check(`x > 0 || y < 1`, `(x > 0 || y < 1)`)
	check(`a<1 && b<2 || c<3 && d<4`, `((a < 1 && b < 2) || (c < 3 && d < 4))`)
	check(`a<1 && (b<2 || c<3) && d<4`, `(a < 1 && (b < 2 || c < 3) && d < 4)`)
	check(`!(a<1 && b<2)`, `!(a < 1 && b < 2)`)
	check(`run.x_1 > 2`, `run.x_1 > 2`)

	checkErr(`x`, "expected comparison", 1)
	checkErr(`x >`, "expected branch or number", 3)
	checkErr(`x = 1`, "unexpected =, did you mean ==?", 2)
	checkErr(`x > 1 & y > 2`, "unexpected &, did you mean &&?", 6)
	checkErr(`x > 1 | y > 2`, "unexpected |, did you mean ||?", 6)
	checkErr(`1 < 2`, "comparison of two constants", 0)
	checkErr(`2x > 1`, `bad operand "2x"`, 0)
	checkErr(`()`, "nothing to match", 1)
	checkErr(`&&`, "nothing to match", 0)
	checkErr(`x > 0 &&`, "nothing to match", 8)
	checkErr(`(x > 0`, "missing \")\"", 6)
	checkErr(`(x > 0))`, "unexpected \")\"", 7)
	checkErr(`x > 0 y > 1`, "unexpected \"y\"", 6)
	checkErr(`x > > 0`, "expected branch or number", 4)
}

func TestMatch(t *testing.T) {
	check := func(query string, l, r float64, want bool) {
		t.Helper()
		q, err := Parse(query)
		if err != nil {
			t.Fatal(err)
		}
		if got := q.(*QueryCmp).Match(l, r); got != want {
			t.Errorf("%s with (%v, %v): got %v, want %v", query, l, r, got, want)
		}
	}
	check(`a < b`, 1, 2, true)
	check(`a < b`, 2, 2, false)
	check(`a <= b`, 2, 2, true)
	check(`a > b`, 3, 2, true)
	check(`a >= b`, 1, 2, false)
	check(`a == b`, 2, 2, true)
	check(`a != b`, 2, 2, false)
}
