// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings of a histogram fit run.
//
// Settings are layered: Default, then a YAML file (Load), then NTFIT_*
// environment variables (ApplyEnv). Commands apply their flags last.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/gemlab/ntfit/histfit"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "NTFIT_"

// Config describes one analysis run.
type Config struct {
	// Files are the input data files. Trees of the same name are
	// chained across files.
	Files []string `json:"files"`

	// Tree and Branch name the data to histogram.
	Tree   string `json:"tree"`
	Branch string `json:"branch"`

	// Cut is an optional selection, such as "zf < 0".
	Cut string `json:"cut,omitempty"`

	// Bins, Min and Max give the histogram binning over [Min, Max).
	Bins int     `json:"bins"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`

	// FitMin and FitMax restrict the fit. Each defaults to the
	// histogram bound when unset.
	FitMin *float64 `json:"fitMin,omitempty"`
	FitMax *float64 `json:"fitMax,omitempty"`

	// Method is the minimizer, one of histfit.Methods.
	Method string `json:"method,omitempty"`

	// Title is a ROOT-style "title;x label;y label" string.
	Title string `json:"title"`

	// Output is the path of the rendered figure. If empty, the
	// figure is shown in a window.
	Output string `json:"output,omitempty"`

	// Width and Height are the canvas size in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Default returns the settings of the 2 mm hole analysis.
func Default() *Config {
	return &Config{
		Files:  []string{"./data/hole_2mm.root"},
		Tree:   "electrons",
		Branch: "yf",
		Bins:   50,
		Min:    -0.06,
		Max:    0.06,
		Method: "nelder-mead",
		Title:  "X Distribution;X (cm);Counts",
		Width:  800,
		Height: 800,
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	return Parse(data)
}

// Parse parses YAML configuration over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables, looked up
// with lookup (typically os.LookupEnv). Variable names are EnvPrefix
// followed by the upper-cased setting name, for example NTFIT_BRANCH
// or NTFIT_FITMIN. NTFIT_FILES is a comma-separated list.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	str := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	float := func(name string, dst *float64) error {
		if v, ok := get(name); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.Wrapf(err, "%s%s", EnvPrefix, name)
			}
			*dst = f
		}
		return nil
	}
	optFloat := func(name string, dst **float64) error {
		if _, ok := get(name); !ok {
			return nil
		}
		var f float64
		if err := float(name, &f); err != nil {
			return err
		}
		*dst = &f
		return nil
	}
	integer := func(name string, dst *int) error {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "%s%s", EnvPrefix, name)
			}
			*dst = n
		}
		return nil
	}

	if v, ok := get("FILES"); ok {
		c.Files = splitList(v)
	}
	str("TREE", &c.Tree)
	str("BRANCH", &c.Branch)
	str("CUT", &c.Cut)
	str("METHOD", &c.Method)
	str("TITLE", &c.Title)
	str("OUTPUT", &c.Output)
	for _, err := range []error{
		integer("BINS", &c.Bins),
		float("MIN", &c.Min),
		float("MAX", &c.Max),
		optFloat("FITMIN", &c.FitMin),
		optFloat("FITMAX", &c.FitMax),
		integer("WIDTH", &c.Width),
		integer("HEIGHT", &c.Height),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks c for settings that cannot produce a fit.
func (c *Config) Validate() error {
	switch {
	case len(c.Files) == 0:
		return errors.New("no input files")
	case c.Tree == "":
		return errors.New("no tree name")
	case c.Branch == "":
		return errors.New("no branch name")
	case c.Bins <= 0:
		return errors.Errorf("bins must be positive, got %d", c.Bins)
	case !(c.Min < c.Max):
		return errors.Errorf("histogram range [%g, %g) is empty", c.Min, c.Max)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("bad canvas size %dx%d", c.Width, c.Height)
	}
	if lo, hi := c.FitRange(); !(lo < hi) {
		return errors.Errorf("fit range [%g, %g] is empty", lo, hi)
	}
	if _, err := histfit.ParseMethod(c.Method); err != nil {
		return err
	}
	return nil
}

// FitRange returns the fit range, defaulting to the histogram range.
func (c *Config) FitRange() (min, max float64) {
	min, max = c.Min, c.Max
	if c.FitMin != nil {
		min = *c.FitMin
	}
	if c.FitMax != nil {
		max = *c.FitMax
	}
	return min, max
}
