// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package display captures the desktop as a shots readback source.
//
// A [Display] is both a shots.Surface and a shots.Frame: its size is the
// current display bounds (re-queried every frame, so a resolution change
// shows up as a resize) and ReadPixels grabs the screen with
// github.com/kbinani/screenshot.
package display

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/shots"
	"github.com/kbinani/screenshot"
)

var (
	// ErrNoDisplay is returned when no active display is found.
	ErrNoDisplay = errors.New("display: no active display")

	// ErrDisplayIndex is returned for an index outside the active displays.
	ErrDisplayIndex = errors.New("display: index out of range")
)

// backend is the subset of the screenshot package Display uses.
type backend struct {
	count   func() int
	bounds  func(index int) image.Rectangle
	capture func(rect image.Rectangle) (*image.RGBA, error)
}

var system = backend{
	count:   screenshot.NumActiveDisplays,
	bounds:  screenshot.GetDisplayBounds,
	capture: screenshot.CaptureRect,
}

// Display reads pixels from one monitor.
type Display struct {
	index int
	be    backend
}

// New returns the display at index (0 is the primary display).
func New(index int) (*Display, error) {
	return newDisplay(index, system)
}

func newDisplay(index int, be backend) (*Display, error) {
	n := be.count()
	if n == 0 {
		return nil, ErrNoDisplay
	}
	if index < 0 || index >= n {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrDisplayIndex, index, n)
	}
	return &Display{index: index, be: be}, nil
}

// Index returns the display index.
func (d *Display) Index() int { return d.index }

// Bounds returns the display rectangle in desktop coordinates.
func (d *Display) Bounds() image.Rectangle {
	return d.be.bounds(d.index)
}

// Size implements shots.Surface.
func (d *Display) Size() (width, height int) {
	b := d.Bounds()
	return b.Dx(), b.Dy()
}

// ReadPixels implements shots.Frame. If the display shrank since Size was
// called the missing area is left zeroed.
func (d *Display) ReadPixels(dst []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", shots.ErrInvalidDimensions, width, height)
	}
	row := width * shots.Channels
	if len(dst) < row*height {
		return shots.ErrShortBuffer
	}

	b := d.Bounds()
	rect := image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Min.Y+height).Intersect(b)
	img, err := d.be.capture(rect)
	if err != nil {
		return fmt.Errorf("display %d: capture: %w", d.index, err)
	}

	clear(dst[:row*height])
	ib := img.Bounds()
	w := min(ib.Dx(), width) * shots.Channels
	h := min(ib.Dy(), height)
	for y := 0; y < h; y++ {
		off := img.PixOffset(ib.Min.X, ib.Min.Y+y)
		copy(dst[y*row:y*row+w], img.Pix[off:off+w])
	}
	return nil
}
