// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package histunit

import "strings"

// A Title is a histogram title with its axis labels.
type Title struct {
	Main, X, Y string
}

// ParseTitle splits a title of the form "main;x label;y label". Missing
// parts are empty. Anything after a third ';' belongs to the y label.
func ParseTitle(s string) Title {
	parts := strings.SplitN(s, ";", 3)
	var t Title
	for i, p := range parts {
		p = strings.TrimSpace(p)
		switch i {
		case 0:
			t.Main = p
		case 1:
			t.X = p
		case 2:
			t.Y = p
		}
	}
	return t
}

// String joins t back into "main;x label;y label" form, dropping
// trailing empty parts.
func (t Title) String() string {
	switch {
	case t.Y != "":
		return t.Main + ";" + t.X + ";" + t.Y
	case t.X != "":
		return t.Main + ";" + t.X
	}
	return t.Main
}
