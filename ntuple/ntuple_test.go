// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ntuple

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

// collect reads the named branches of every entry of tree.
func collect(t *testing.T, tree Tree, branches ...string) [][]float64 {
	t.Helper()
	var out [][]float64
	err := tree.Scan(branches, func(vals []float64) error {
		out = append(out, append([]float64(nil), vals...))
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestOpenMissing(t *testing.T) {
	for _, name := range []string{"missing.root", "missing.txt"} {
		_, err := Open(filepath.Join(t.TempDir(), name))
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrOpen), "%s: %v", name, err)
		assert.False(t, errors.Is(err, ErrTreeNotFound), name)

		var oerr *OpenError
		assert.True(t, errors.As(err, &oerr))
	}
}

func TestOpenCorrupt(t *testing.T) {
	root := writeFile(t, "corrupt.root", "this is not a ROOT file")
	_, err := Open(root)
	assert.True(t, errors.Is(err, ErrOpen), "%v", err)

	text := writeFile(t, "corrupt.txt", "tree: t\nx y\n1 2\n1 oops\n")
	_, err = Open(text)
	assert.True(t, errors.Is(err, ErrOpen), "%v", err)
	var serr *SyntaxError
	require.True(t, errors.As(err, &serr), "%v", err)
	assert.Equal(t, 4, serr.Line)
}

func TestTextTree(t *testing.T) {
	path := writeFile(t, "hole.txt", `tree: electrons
title: GEM shower electrons
xf yf zf
0.1 0.2 -0.5
0.3 0.4 -0.6
tree: events
gain
12
`)
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	tree, err := f.Tree("electrons")
	require.NoError(t, err)
	assert.Equal(t, "electrons", tree.Name())
	assert.Equal(t, "GEM shower electrons", tree.Title())
	assert.Equal(t, int64(2), tree.Entries())
	assert.Equal(t, []string{"xf", "yf", "zf"}, tree.Branches())
	assert.Equal(t, [][]float64{{-0.5, 0.2}, {-0.6, 0.4}}, collect(t, tree, "zf", "yf"))

	err = tree.Scan([]string{"energy"}, func([]float64) error { return nil })
	assert.EqualError(t, err, `tree "electrons" has no branch "energy"`)

	_, err = f.Tree("x")
	assert.True(t, errors.Is(err, ErrTreeNotFound), "%v", err)
	assert.False(t, errors.Is(err, ErrOpen))
}

func TestTextEmptyTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	w, err := Create(path, "t", []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	f, err := Open(path)
	require.NoError(t, err)
	tree, err := f.Tree("t")
	require.NoError(t, err)
	assert.Equal(t, int64(0), tree.Entries())
	assert.Equal(t, []string{"a", "b"}, tree.Branches())
}

func TestTextRedeclared(t *testing.T) {
	path := writeFile(t, "twice.txt", "tree: t\nx\n1\ntree: t\nx\n2\n")
	f, err := Open(path)
	require.NoError(t, err)
	tree, err := f.Tree("t")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}}, collect(t, tree, "x"))

	path = writeFile(t, "clash.txt", "tree: t\nx\n1\ntree: t\ny\n2\n")
	_, err = Open(path)
	assert.True(t, errors.Is(err, ErrOpen), "%v", err)
}

func TestROOTRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hole.root")
	w, err := Create(path, "electrons", []string{"xf", "yf"})
	require.NoError(t, err)
	want := [][]float64{{1, -0.01}, {2, 0.02}, {3, 0.03}}
	for _, vals := range want {
		require.NoError(t, w.Write(vals))
	}
	require.NoError(t, w.Close())

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	tree, err := f.Tree("electrons")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tree.Entries())
	assert.Equal(t, []string{"xf", "yf"}, tree.Branches())
	assert.Equal(t, want, collect(t, tree, "xf", "yf"))

	_, err = f.Tree("events")
	assert.True(t, errors.Is(err, ErrTreeNotFound), "%v", err)
}

func TestChain(t *testing.T) {
	a := writeFile(t, "a.txt", "tree: t\nx y\n1 10\n2 20\n")
	b := writeFile(t, "b.txt", "tree: t\ny x\n30 3\n")
	files, err := OpenFiles([]string{a, b})
	require.NoError(t, err)
	defer CloseAll(files)

	tree, err := Chain(files, "t")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tree.Entries())
	assert.Equal(t, [][]float64{{1}, {2}, {3}}, collect(t, tree, "x"))

	_, err = Chain(files, "u")
	assert.True(t, errors.Is(err, ErrTreeNotFound))

	// A missing file is reported before any tree lookup.
	_, err = OpenFiles([]string{a, filepath.Join(t.TempDir(), "nope.txt")})
	assert.True(t, errors.Is(err, ErrOpen))
}

func TestCreateErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Create(filepath.Join(dir, "x.txt"), "t", nil)
	assert.Error(t, err)
	_, err = Create(filepath.Join(dir, "x.txt"), "t", []string{"ok", "not ok"})
	assert.Error(t, err)

	w, err := Create(filepath.Join(dir, "x.txt"), "t", []string{"a"})
	require.NoError(t, err)
	assert.Error(t, w.Write([]float64{1, 2}))
	require.NoError(t, w.Close())
}
