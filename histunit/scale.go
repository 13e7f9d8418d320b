// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package histunit formats fit results and parses ROOT-style histogram
// titles.
package histunit

import (
	"fmt"
	"math"
	"strconv"
)

// A Notation selects how a Scaler marks its scale factor.
type Notation int

const (
	// NotationSI appends an SI prefix, as in "12.3k" or "4.56µ".
	NotationSI Notation = iota
	// NotationExp appends a decimal exponent that is a multiple of
	// three, as in "12.3e+03" or "4.56e-06".
	NotationExp
)

// Scaler represents a scaling factor for a number and its scientific
// representation.
type Scaler struct {
	Prec   int     // Digits after the decimal point
	Factor float64 // Unscaled value of 1 Prefix (e.g., 1 k => 1000)
	Prefix string  // SI prefix or exponent suffix
}

// Format formats val and appends the prefix according to the given
// scale. Infinities and NaN are formatted without a prefix.
func (s Scaler) Format(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

// NoOpScaler is a Scaler that formats numbers with the smallest
// number of digits necessary to capture the exact value, and no
// prefix.
var NoOpScaler = Scaler{-1, 1, ""}

type factor struct {
	factor float64
	prefix string
	// Thresholds for 100, 10.0, 1.00.
	t100, t10, t1 float64
}

var siFactors = mkFactors(NotationSI)
var expFactors = mkFactors(NotationExp)

var siPrefixes = []string{"T", "G", "M", "k", "", "m", "µ", "n", "p", "f"}

func mkFactors(n Notation) []factor {
	// To ensure that the thresholds for printing values with
	// various factors exactly match how printing itself will
	// round, we construct the thresholds by parsing the printed
	// representation.
	var factors []factor
	exp := 12
	for _, p := range siPrefixes {
		if n == NotationExp {
			p = ""
			if exp != 0 {
				p = fmt.Sprintf("e%+03d", exp)
			}
		}
		t100, _ := strconv.ParseFloat(fmt.Sprintf("99.95e%d", exp), 64)
		t10, _ := strconv.ParseFloat(fmt.Sprintf("9.995e%d", exp), 64)
		t1, _ := strconv.ParseFloat(fmt.Sprintf(".9995e%d", exp), 64)
		factors = append(factors, factor{math.Pow(10, float64(exp)), p, t100, t10, t1})
		exp -= 3
	}
	return factors
}

// Scale formats val using at least three significant digits.
func Scale(val float64, n Notation) string {
	return CommonScale([]float64{val}, n).Format(val)
}

// CommonScale returns a common Scaler to apply to all values in vals.
// This scale will show at least three significant digits for every
// finite value.
func CommonScale(vals []float64, n Notation) Scaler {
	// The common scale is determined by the non-zero finite value
	// closest to zero.
	var min float64
	for _, v := range vals {
		v = math.Abs(v)
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if min == 0 || v < min {
			min = v
		}
	}
	if min == 0 {
		return Scaler{2, 1, ""}
	}

	var factors []factor
	switch n {
	default:
		panic(fmt.Sprintf("bad Notation %v", n))
	case NotationSI:
		factors = siFactors
	case NotationExp:
		factors = expFactors
	}

	for i, factor := range factors {
		last := i == len(factors)-1
		switch {
		case min >= factor.t100:
			return Scaler{0, factor.factor, factor.prefix}
		case min >= factor.t10:
			return Scaler{1, factor.factor, factor.prefix}
		case min >= factor.t1 || last:
			return Scaler{2, factor.factor, factor.prefix}
		}
	}
	panic("not reachable")
}
