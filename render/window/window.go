// Copyright 2026 The ntfit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package window shows a render.Figure in an interactive Gio window.
//
// It is kept apart from package render because Gio links against the
// platform's windowing libraries through cgo.
package window

import (
	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vggio"

	"github.com/gemlab/ntfit/render"
)

// Show displays fig in a window titled title. It redraws the figure on
// every frame until the window is closed or the user presses q or
// Escape, then calls exit with the window's closing error.
//
// Show must be called from the main goroutine and never returns: the
// windowing system keeps the main goroutine, so exit must end the
// process.
func Show(fig *render.Figure, title string, exit func(error)) {
	go func() {
		exit(loop(fig, title))
	}()
	app.Main()
}

func loop(fig *render.Figure, title string) error {
	win := app.NewWindow(
		app.Title(title),
		app.Size(
			unit.Dp(float32(fig.Width.Dots(render.DPI))),
			unit.Dp(float32(fig.Height.Dots(render.DPI))),
		),
	)
	for e := range win.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			var (
				ops = new(op.Ops)
				gtx = layout.NewContext(ops, e)
				cnv = vggio.New(gtx, fig.Width, fig.Height)
			)
			fig.Draw(draw.New(cnv))
			e.Frame(cnv.Paint())

		case key.Event:
			switch e.Name {
			case "Q", key.NameEscape:
				win.Perform(system.ActionClose)
			}

		case system.DestroyEvent:
			return e.Err
		}
	}
	return nil
}
