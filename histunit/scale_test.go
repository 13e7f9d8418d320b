// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package histunit

import (
	"math"
	"testing"
)

func TestScale(t *testing.T) {
	var n Notation
	test := func(num float64, want, wantPred string) {
		t.Helper()

		got := Scale(num, n)
		if got != want {
			t.Errorf("for %v, got %s, want %s", num, got, want)
		}

		// Check what happens when this number is exactly on
		// the crux between two scale factors.
		pred := math.Nextafter(num, 0)
		got = Scale(pred, n)
		if got != wantPred {
			dir := "-ε"
			if num < 0 {
				dir = "+ε"
			}
			t.Errorf("for %v%s, got %s, want %s", num, dir, got, wantPred)
		}
	}

	n = NotationSI
	// Smoke tests
	test(0, "0.00", "0.00")
	test(1, "1.00", "1.00")
	test(-1, "-1.00", "-1.00")
	// Full range
	test(9995000000000000, "9995T", "9995T")
	test(999500000000000, "1000T", "999T")
	test(99950000000000, "100T", "99.9T")
	test(9995000000000, "10.0T", "9.99T")
	test(999500000000, "1.00T", "999G")
	test(99950000000, "100G", "99.9G")
	test(9995000000, "10.0G", "9.99G")
	test(999500000, "1.00G", "999M")
	test(99950000, "100M", "99.9M")
	test(9995000, "10.0M", "9.99M")
	test(999500, "1.00M", "999k")
	test(99950, "100k", "99.9k")
	test(9995, "10.0k", "9.99k")
	test(999.5, "1.00k", "999")
	test(99.95, "100", "99.9")
	test(9.995, "10.0", "9.99")
	test(.9995, "1.00", "999m")
	test(.09995, "100m", "99.9m")
	test(.009995, "10.0m", "9.99m")
	test(.0009995, "1.00m", "999µ")
	test(.00009995, "100µ", "99.9µ")
	test(.000009995, "10.0µ", "9.99µ")
	test(.0000009995, "1.00µ", "999n")
	test(.00000009995, "100n", "99.9n")
	test(.000000009995, "10.0n", "9.99n")
	// Misc
	test(-99950000000000, "-100T", "-99.9T")
	test(-.000000009995, "-10.0n", "-9.99n")

	n = NotationExp
	test(0, "0.00", "0.00")
	test(1, "1.00", "1.00")
	test(99950, "100e+03", "99.9e+03")
	test(9995, "10.0e+03", "9.99e+03")
	test(999.5, "1.00e+03", "999")
	test(.9995, "1.00", "999e-03")
	test(.09995, "100e-03", "99.9e-03")
	test(.0009995, "1.00e-03", "999e-06")
}

func TestScaleSmall(t *testing.T) {
	for _, test := range []struct {
		val  float64
		n    Notation
		want string
	}{
		{3.5e-12, NotationSI, "3.50p"},
		{2.5e-14, NotationSI, "25.0f"},
		{3.5e-12, NotationExp, "3.50e-12"},
		{2.5e-14, NotationExp, "25.0e-15"},
		{0.0123, NotationExp, "12.3e-03"},
		{1234, NotationExp, "1.23e+03"},
		{math.NaN(), NotationSI, "NaN"},
		{math.Inf(1), NotationExp, "+Inf"},
	} {
		if got := Scale(test.val, test.n); got != test.want {
			t.Errorf("for %v, got %s, want %s", test.val, got, test.want)
		}
	}
}

func TestCommonScale(t *testing.T) {
	s := CommonScale([]float64{0.0123, 0.00045, math.NaN(), math.Inf(-1), 0}, NotationExp)
	if s.Prec != 0 || s.Prefix != "e-06" {
		t.Fatalf("got %+v, want precision 0 and prefix e-06", s)
	}
	if got := s.Format(0.00045); got != "450e-06" {
		t.Errorf("got %s, want 450e-06", got)
	}

	s = CommonScale([]float64{math.NaN()}, NotationSI)
	if want := (Scaler{2, 1, ""}); s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestNoOpScaler(t *testing.T) {
	test := func(val float64, want string) {
		t.Helper()
		got := NoOpScaler.Format(val)
		if got != want {
			t.Errorf("for %v, got %s, want %s", val, got, want)
		}
	}

	test(1, "1")
	test(123456789, "123456789")
	test(123.456789, "123.456789")
	test(-0.06, "-0.06")
}
