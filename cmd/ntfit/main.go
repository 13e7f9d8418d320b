// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ntfit histograms one branch of an ntuple, fits a Gaussian to
// it, and draws the fit above its residuals.
//
// Usage:
//
//	ntfit [flags] [files...]
//
// With no files, ntfit reads ./data/hole_2mm.root. Files ending in
// .root are read as ROOT files; anything else is read as a text
// ntuple. Trees of the same name are chained across files.
//
// Settings come from, in increasing priority: built-in defaults, the
// YAML file named by --config, NTFIT_* environment variables (also read
// from --env-file), and flags. For example,
//
//	NTFIT_BRANCH=xf ntfit --cut 'zf < 0' -o fit.png run1.root run2.root
//
// fits branch xf of the entries with negative zf and writes the figure
// to fit.png. Without -o, the figure is shown in a window; press q or
// Escape to quit.
//
// If an input file cannot be opened, ntfit prints "Cannot open file!"
// and exits with status 1. If the tree is missing, it prints "TTree
// not found!" and exits with status 1.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/cheggaaa/pb/v3"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gemlab/ntfit/analysis"
	"github.com/gemlab/ntfit/config"
	"github.com/gemlab/ntfit/histfit"
	"github.com/gemlab/ntfit/ntuple"
	"github.com/gemlab/ntfit/render"
	"github.com/gemlab/ntfit/render/window"
)

const (
	msgCannotOpen   = "Cannot open file!"
	msgTreeNotFound = "TTree not found!"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// display shows fig in a window and exits the process when the window
// closes.
var display = func(fig *render.Figure, title string, logger log.Interface) {
	window.Show(fig, title, func(err error) {
		if err != nil {
			logger.WithError(err).Error("window closed")
			os.Exit(1)
		}
		os.Exit(0)
	})
}

type flags struct {
	configFile string
	envFile    string
	verbose    bool
	progress   bool

	tree, branch, cut string
	bins              int
	min, max          float64
	fitMin, fitMax    float64
	method, title     string
	output            string
	width, height     int
}

func run(args []string, stdout, stderr io.Writer) int {
	var f flags
	code := 0
	cmd := &cobra.Command{
		Use:           "ntfit [flags] [files...]",
		Short:         "Fit a Gaussian to a histogrammed ntuple branch",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code = fit(cmd, &f, args, stdout, stderr)
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	def := config.Default()
	fl := cmd.Flags()
	fl.StringVarP(&f.configFile, "config", "c", "", "read settings from YAML `file`")
	fl.StringVar(&f.envFile, "env-file", ".env", "read NTFIT_* variables from `file` if it exists")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log fit details")
	fl.BoolVar(&f.progress, "progress", true, "show a progress bar while reading entries")
	fl.StringVarP(&f.tree, "tree", "t", def.Tree, "tree `name`")
	fl.StringVarP(&f.branch, "branch", "b", def.Branch, "branch to histogram")
	fl.StringVar(&f.cut, "cut", def.Cut, "select entries with `expr`, such as 'zf < 0 && xf > -0.01'")
	fl.IntVar(&f.bins, "bins", def.Bins, "number of histogram bins")
	fl.Float64Var(&f.min, "min", def.Min, "histogram lower edge")
	fl.Float64Var(&f.max, "max", def.Max, "histogram upper edge")
	fl.Float64Var(&f.fitMin, "fit-min", def.Min, "fit range lower edge")
	fl.Float64Var(&f.fitMax, "fit-max", def.Max, "fit range upper edge")
	fl.StringVar(&f.method, "method", def.Method, "minimizer: "+strings.Join(histfit.Methods, ", "))
	fl.StringVar(&f.title, "title", def.Title, "histogram title, as \"main;x label;y label\"")
	fl.StringVarP(&f.output, "output", "o", def.Output, "write the figure to `file` instead of showing it")
	fl.IntVar(&f.width, "width", def.Width, "canvas width in pixels")
	fl.IntVar(&f.height, "height", def.Height, "canvas height in pixels")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "ntfit: %v\n", err)
		return 2
	}
	return code
}

// loadConfig layers the configuration file, the environment and the
// flags that were set explicitly over the defaults.
func loadConfig(cmd *cobra.Command, f *flags, files []string) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}

	if f.envFile != "" {
		if _, err := os.Stat(f.envFile); err == nil {
			if err := godotenv.Load(f.envFile); err != nil {
				return nil, errors.Wrapf(err, "loading %s", f.envFile)
			}
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	set := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}
	set("tree", func() { cfg.Tree = f.tree })
	set("branch", func() { cfg.Branch = f.branch })
	set("cut", func() { cfg.Cut = f.cut })
	set("bins", func() { cfg.Bins = f.bins })
	set("min", func() { cfg.Min = f.min })
	set("max", func() { cfg.Max = f.max })
	set("fit-min", func() { cfg.FitMin = &f.fitMin })
	set("fit-max", func() { cfg.FitMax = &f.fitMax })
	set("method", func() { cfg.Method = f.method })
	set("title", func() { cfg.Title = f.title })
	set("output", func() { cfg.Output = f.output })
	set("width", func() { cfg.Width = f.width })
	set("height", func() { cfg.Height = f.height })
	if len(files) > 0 {
		cfg.Files = files
	}
	return cfg, nil
}

func fit(cmd *cobra.Command, f *flags, files []string, stdout, stderr io.Writer) int {
	logger := &log.Logger{Handler: cli.New(stderr), Level: log.InfoLevel}
	if f.verbose {
		logger.Level = log.DebugLevel
	}

	cfg, err := loadConfig(cmd, f, files)
	if err != nil {
		logger.WithError(err).Error("configuration")
		return 1
	}

	opts := analysis.Options{Log: logger}
	if f.progress {
		opts.Progress = func(total int64) (func(), func()) {
			bar := pb.New64(total).SetWriter(stderr).Start()
			return func() { bar.Increment() }, func() { bar.Finish() }
		}
	}
	res, err := analysis.Run(cfg, opts)
	switch {
	case errors.Is(err, ntuple.ErrOpen):
		fmt.Fprintln(stderr, msgCannotOpen)
		logger.WithError(err).Debug("open failed")
		return 1
	case errors.Is(err, ntuple.ErrTreeNotFound):
		fmt.Fprintln(stderr, msgTreeNotFound)
		logger.WithError(err).Debug("tree lookup failed")
		return 1
	case err != nil:
		logger.WithError(err).Error("analysis failed")
		return 1
	}

	if err := res.Report(stdout); err != nil {
		logger.WithError(err).Error("writing report")
		return 1
	}

	fig := res.Figure()
	if cfg.Output == "" {
		display(fig, fig.Title.Main, logger)
		return 0
	}
	if err := render.Save(fig, cfg.Output); err != nil {
		logger.WithError(err).Error("saving figure")
		return 1
	}
	logger.WithField("path", cfg.Output).Info("saved figure")
	return 0
}
