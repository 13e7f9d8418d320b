// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ntskim copies the entries of a tree that pass a cut into a
// new ntuple.
//
// Usage:
//
//	ntskim [flags] -o output cut [inputs...]
//
// The cut uses the same syntax as ntfit --cut:
//
//	x < 1         - Compare a branch with a number or another branch
//	              (==, !=, <, <=, >, >=)
//	x && y        - Test if x and y are both true
//	x || y        - Test if x or y are true
//	!x            - Negate x
//	(...)         - Subexpression
//
// An empty cut ("") selects every entry. Trees of the same name are
// chained across the inputs, and the output holds one tree with the
// branches named by --keep, or every branch of the input.
//
// For example,
//
//	ntskim -o front.root 'zf > -0.1 && zf < 0' run1.root run2.root
//
// keeps the electrons that ended within 1 mm of the readout plane.
package main

import (
	"io"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gemlab/ntfit/ntproc"
	"github.com/gemlab/ntfit/ntuple"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type skim struct {
	output   string
	tree     string
	keep     []string
	progress bool
}

func run(args []string, stderr io.Writer) int {
	var s skim
	logger := &log.Logger{Handler: cli.New(stderr), Level: log.InfoLevel}
	cmd := &cobra.Command{
		Use:           "ntskim [flags] -o output cut [inputs...]",
		Short:         "Copy the entries of a tree that pass a cut",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.output == "" {
				return errors.New("missing -o output")
			}
			return s.run(args[0], args[1:], stderr, logger)
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	fl := cmd.Flags()
	fl.StringVarP(&s.output, "output", "o", "", "write the selected entries to `file`")
	fl.StringVarP(&s.tree, "tree", "t", "electrons", "tree `name`")
	fl.StringSliceVar(&s.keep, "keep", nil, "copy only these `branches`")
	fl.BoolVar(&s.progress, "progress", true, "show a progress bar")

	if err := cmd.Execute(); err != nil {
		logger.WithError(err).Error("ntskim")
		return 1
	}
	return 0
}

func (s *skim) run(cut string, inputs []string, stderr io.Writer, logger log.Interface) error {
	filter, err := ntproc.NewFilter(cut)
	if err != nil {
		return errors.Wrap(err, "parsing cut")
	}

	files, err := ntuple.OpenFiles(inputs)
	if err != nil {
		return err
	}
	defer ntuple.CloseAll(files)
	tree, err := ntuple.Chain(files, s.tree)
	if err != nil {
		return err
	}

	// Read the kept branches first, then whatever else the cut needs.
	keep := s.keep
	if len(keep) == 0 {
		keep = tree.Branches()
	}
	branches := append([]string(nil), keep...)
	seen := make(map[string]bool)
	for _, b := range branches {
		seen[b] = true
	}
	for _, b := range filter.Branches() {
		if !seen[b] {
			seen[b] = true
			branches = append(branches, b)
		}
	}
	match, err := filter.Compile(branches)
	if err != nil {
		return err
	}

	w, err := ntuple.Create(s.output, s.tree, keep)
	if err != nil {
		return err
	}
	var bar *pb.ProgressBar
	if s.progress {
		bar = pb.New64(tree.Entries()).SetWriter(stderr).Start()
	}
	var selected int64
	err = tree.Scan(branches, func(vals []float64) error {
		if bar != nil {
			bar.Increment()
		}
		if !match(vals) {
			return nil
		}
		selected++
		return w.Write(vals[:len(keep)])
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		w.Close()
		return errors.Wrapf(err, "skimming %s", tree.Name())
	}
	if err := w.Close(); err != nil {
		return err
	}
	logger.WithFields(log.Fields{
		"cut":      filter.String(),
		"entries":  tree.Entries(),
		"selected": selected,
		"path":     s.output,
	}).Info("wrote skim")
	return nil
}
