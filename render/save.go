// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/vg/draw"
)

// Save draws fig to the file at path. The image format follows the
// file extension: eps, jpg, pdf, png, svg, tex or tif.
func Save(fig *Figure, path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	c, err := draw.NewFormattedCanvas(fig.Width, fig.Height, format)
	if err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	fig.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "saving figure")
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "writing %s", path)
}
