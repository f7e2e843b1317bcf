// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"math"

	"github.com/gogpu/gg"
)

// drawScene renders animation frame n: a gradient background, three orbiting
// circles and a rotating outlined square. The scene scales with the canvas
// so resized frames stay recognizable.
func drawScene(dc *gg.Context, n int) {
	w, h := float64(dc.Width()), float64(dc.Height())
	t := float64(n) / 60

	drawGradientBackground(dc, w, h, t)

	cx, cy := w/2, h/2
	radius := math.Min(w, h) / 8
	orbit := math.Min(w, h) / 4
	for i := 0; i < 3; i++ {
		a := t*2*math.Pi + float64(i)*2*math.Pi/3
		dc.SetColor(gg.HSL(math.Mod(float64(i)/3+t/4, 1), 0.8, 0.55))
		dc.DrawCircle(cx+orbit*math.Cos(a), cy+orbit*math.Sin(a), radius)
		_ = dc.Fill()
	}

	side := math.Min(w, h) / 3
	dc.Push()
	dc.RotateAbout(t*math.Pi, cx, cy)
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(math.Max(1, side/30))
	dc.DrawRectangle(cx-side/2, cy-side/2, side, side)
	_ = dc.Stroke()
	dc.Pop()
}

func drawGradientBackground(dc *gg.Context, w, h, t float64) {
	const steps = 32
	shift := 0.1 * math.Sin(t*math.Pi)
	for i := 0; i < steps; i++ {
		f := float64(i) / steps
		dc.SetColor(gg.RGB(0.1+f*0.4+shift, 0.2+f*0.3, 0.4+f*0.2-shift))
		dc.DrawRectangle(0, h*f, w, h/steps+1)
		_ = dc.Fill()
	}
}
