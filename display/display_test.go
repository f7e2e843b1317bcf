// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package display

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/shots"
)

// fakeScreen is a single display with a mutable resolution.
type fakeScreen struct {
	bounds   image.Rectangle
	captured []image.Rectangle
	err      error
}

func (f *fakeScreen) backend(n int) backend {
	return backend{
		count:  func() int { return n },
		bounds: func(int) image.Rectangle { return f.bounds },
		capture: func(rect image.Rectangle) (*image.RGBA, error) {
			f.captured = append(f.captured, rect)
			if f.err != nil {
				return nil, f.err
			}
			img := image.NewRGBA(rect)
			for y := rect.Min.Y; y < rect.Max.Y; y++ {
				for x := rect.Min.X; x < rect.Max.X; x++ {
					img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
				}
			}
			return img, nil
		},
	}
}

func TestNew(t *testing.T) {
	screen := &fakeScreen{bounds: image.Rect(0, 0, 4, 3)}
	tests := []struct {
		name    string
		count   int
		index   int
		wantErr error
	}{
		{name: "primary", count: 1, index: 0},
		{name: "second", count: 2, index: 1},
		{name: "no displays", count: 0, index: 0, wantErr: ErrNoDisplay},
		{name: "negative", count: 1, index: -1, wantErr: ErrDisplayIndex},
		{name: "past end", count: 2, index: 2, wantErr: ErrDisplayIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := newDisplay(tt.index, screen.backend(tt.count))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("newDisplay() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && d.Index() != tt.index {
				t.Errorf("Index() = %d, want %d", d.Index(), tt.index)
			}
		})
	}
}

func TestSizeFollowsResolution(t *testing.T) {
	screen := &fakeScreen{bounds: image.Rect(0, 0, 4, 3)}
	d, err := newDisplay(0, screen.backend(1))
	if err != nil {
		t.Fatal(err)
	}
	if w, h := d.Size(); w != 4 || h != 3 {
		t.Errorf("Size() = %dx%d, want 4x3", w, h)
	}
	screen.bounds = image.Rect(0, 0, 8, 6)
	if w, h := d.Size(); w != 8 || h != 6 {
		t.Errorf("Size() after change = %dx%d, want 8x6", w, h)
	}
}

func TestReadPixels(t *testing.T) {
	// Second monitor placed to the right of a 1920-wide primary.
	screen := &fakeScreen{bounds: image.Rect(1920, 10, 1923, 12)}
	d, err := newDisplay(0, screen.backend(1))
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]byte, 3*2*shots.Channels)
	if err := d.ReadPixels(dst, 3, 2); err != nil {
		t.Fatalf("ReadPixels() error = %v", err)
	}
	if got := screen.captured[0]; got != screen.bounds {
		t.Errorf("captured rect = %v, want %v", got, screen.bounds)
	}
	// Pixel (1, 1) is desktop (1921, 11).
	off := (1*3 + 1) * shots.Channels
	if dst[off] != uint8(1921&0xFF) || dst[off+1] != 11 || dst[off+2] != 7 || dst[off+3] != 255 {
		t.Errorf("pixel (1,1) = %v", dst[off:off+4])
	}
}

func TestReadPixelsAfterShrink(t *testing.T) {
	screen := &fakeScreen{bounds: image.Rect(0, 0, 2, 2)}
	d, err := newDisplay(0, screen.backend(1))
	if err != nil {
		t.Fatal(err)
	}
	dst := make([]byte, 4*4*shots.Channels)
	for i := range dst {
		dst[i] = 0xEE
	}
	if err := d.ReadPixels(dst, 4, 4); err != nil {
		t.Fatalf("ReadPixels() error = %v", err)
	}
	if last := dst[len(dst)-1]; last != 0 {
		t.Errorf("area outside shrunken display = %#x, want 0", last)
	}
	if dst[3] != 255 {
		t.Errorf("captured pixel alpha = %d, want 255", dst[3])
	}
}

func TestReadPixelsErrors(t *testing.T) {
	boom := errors.New("boom")
	screen := &fakeScreen{bounds: image.Rect(0, 0, 2, 2), err: boom}
	d, err := newDisplay(0, screen.backend(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.ReadPixels(make([]byte, 16), 2, 2); !errors.Is(err, boom) {
		t.Errorf("capture failure error = %v, want boom", err)
	}
	if err := d.ReadPixels(make([]byte, 4), 2, 2); !errors.Is(err, shots.ErrShortBuffer) {
		t.Errorf("short dst error = %v, want ErrShortBuffer", err)
	}
	if err := d.ReadPixels(nil, 0, 2); !errors.Is(err, shots.ErrInvalidDimensions) {
		t.Errorf("zero width error = %v, want ErrInvalidDimensions", err)
	}
}
