// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ntgen writes an ntuple of random entries.
//
// Usage:
//
//	ntgen [flags] -o output
//
// Each -b flag adds a branch, in order. A branch is written as
//
//	name=gauss:mean:sigma
//	name=uniform:min:max
//
// With no -b flags, ntgen writes the electron end points of a 2 mm
// hole run: xf and yf Gaussian around 0 with σ = 0.012, and zf uniform
// over [-0.6, 0).
//
// The output is a ROOT file if its name ends in .root, and a text
// ntuple otherwise.
package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gemlab/ntfit/ntuple"
)

var defaultBranches = []string{
	"xf=gauss:0:0.012",
	"yf=gauss:0:0.012",
	"zf=uniform:-0.6:0",
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// A branch is one generated column.
type branch struct {
	name string
	dist interface{ Rand() float64 }
}

// parseBranch parses a "name=kind:a:b" branch spec. The branch draws
// from PCG stream number stream of seed.
func parseBranch(spec string, seed uint64, stream uint64) (branch, error) {
	name, def, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return branch{}, errors.Errorf("branch %q: want name=kind:a:b", spec)
	}
	parts := strings.Split(def, ":")
	if len(parts) != 3 {
		return branch{}, errors.Errorf("branch %q: want name=kind:a:b", spec)
	}
	var args [2]float64
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return branch{}, errors.Wrapf(err, "branch %q", spec)
		}
		args[i] = v
	}

	src := rand.NewPCG(seed, stream)
	switch parts[0] {
	case "gauss", "gaus", "normal":
		if !(args[1] > 0) {
			return branch{}, errors.Errorf("branch %q: sigma must be positive", spec)
		}
		return branch{name, distuv.Normal{Mu: args[0], Sigma: args[1], Src: src}}, nil
	case "uniform", "flat":
		if !(args[0] < args[1]) {
			return branch{}, errors.Errorf("branch %q: empty range", spec)
		}
		return branch{name, distuv.Uniform{Min: args[0], Max: args[1], Src: src}}, nil
	}
	return branch{}, errors.Errorf("branch %q: unknown distribution %q", spec, parts[0])
}

func run(args []string, stderr io.Writer) int {
	var (
		output   string
		tree     string
		entries  int64
		seed     uint64
		specs    []string
		progress bool
	)
	logger := &log.Logger{Handler: cli.New(stderr), Level: log.InfoLevel}
	cmd := &cobra.Command{
		Use:           "ntgen [flags] -o output",
		Short:         "Write an ntuple of random entries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("missing -o output")
			}
			if len(specs) == 0 {
				specs = defaultBranches
			}
			return generate(output, tree, entries, seed, specs, progress, stderr, logger)
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	fl := cmd.Flags()
	fl.StringVarP(&output, "output", "o", "", "write the ntuple to `file`")
	fl.StringVarP(&tree, "tree", "t", "electrons", "tree `name`")
	fl.Int64VarP(&entries, "entries", "n", 10000, "number of entries")
	fl.Uint64Var(&seed, "seed", 1, "random seed")
	fl.StringArrayVarP(&specs, "branch", "b", nil, "add a branch `name=kind:a:b` (kind is gauss or uniform)")
	fl.BoolVar(&progress, "progress", true, "show a progress bar")

	if err := cmd.Execute(); err != nil {
		logger.WithError(err).Error("ntgen")
		return 1
	}
	return 0
}

func generate(output, tree string, entries int64, seed uint64, specs []string, progress bool, stderr io.Writer, logger log.Interface) error {
	if entries < 0 {
		return errors.Errorf("bad entry count %d", entries)
	}
	var branches []branch
	var names []string
	for i, spec := range specs {
		b, err := parseBranch(spec, seed, uint64(i))
		if err != nil {
			return err
		}
		branches = append(branches, b)
		names = append(names, b.name)
	}

	w, err := ntuple.Create(output, tree, names)
	if err != nil {
		return err
	}
	var bar *pb.ProgressBar
	if progress {
		bar = pb.New64(entries).SetWriter(stderr).Start()
	}
	vals := make([]float64, len(branches))
	for n := int64(0); n < entries; n++ {
		for i, b := range branches {
			vals[i] = b.dist.Rand()
		}
		if err := w.Write(vals); err != nil {
			w.Close()
			return errors.Wrapf(err, "entry %d", n)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
	if err := w.Close(); err != nil {
		return err
	}
	logger.WithFields(log.Fields{
		"path":     output,
		"tree":     tree,
		"entries":  entries,
		"branches": fmt.Sprint(names),
	}).Info("wrote ntuple")
	return nil
}
