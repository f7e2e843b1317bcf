// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Surface reports the current pixel dimensions of the render target.
// Capture queries it once per frame, so a window resize shows up as a new
// size on the next captured frame.
type Surface interface {
	Size() (width, height int)
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func() (width, height int)

// Size calls f.
func (f SurfaceFunc) Size() (width, height int) {
	return f()
}

// Frame is the GPU→CPU readback primitive for a just-rendered frame.
//
// ReadPixels writes width*height*Channels bytes of tightly packed RGBA8
// pixel data into dst. The host guarantees width and height match the
// surface the frame was rendered to.
type Frame interface {
	ReadPixels(dst []byte, width, height int) error
}

// FrameFunc adapts a function to the Frame interface.
type FrameFunc func(dst []byte, width, height int) error

// ReadPixels calls f(dst, width, height).
func (f FrameFunc) ReadPixels(dst []byte, width, height int) error {
	return f(dst, width, height)
}

// ImageSource is a Frame and Surface backed by a CPU image, typically the
// output of a software renderer such as a gg.Context.
type ImageSource struct {
	img image.Image
}

// ImageFrame wraps img as a Frame and Surface. The image is read at
// capture time, so callers may keep drawing into it between frames.
func ImageFrame(img image.Image) *ImageSource {
	return &ImageSource{img: img}
}

// Set replaces the wrapped image, for hosts whose renderer returns a new
// image per frame.
func (s *ImageSource) Set(img image.Image) {
	s.img = img
}

// Size returns the image dimensions.
func (s *ImageSource) Size() (width, height int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// ReadPixels copies the image into dst as RGBA8. *image.RGBA sources are
// copied row by row; other image types are converted.
func (s *ImageSource) ReadPixels(dst []byte, width, height int) error {
	if s.img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	if len(dst) < width*height*Channels {
		return ErrShortBuffer
	}
	b := s.img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("%w: image is %dx%d, want %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy(), width, height)
	}

	if rgba, ok := s.img.(*image.RGBA); ok {
		copyRows(dst, rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y):], width*Channels, rgba.Stride, height)
		return nil
	}

	out := &image.RGBA{Pix: dst, Stride: width * Channels, Rect: image.Rect(0, 0, width, height)}
	draw.Draw(out, out.Rect, s.img, b.Min, draw.Src)
	return nil
}

// copyRows copies rows of rowBytes from src (srcStride apart) into dst
// packed tightly.
func copyRows(dst, src []byte, rowBytes, srcStride, rows int) {
	if srcStride == rowBytes {
		copy(dst[:rowBytes*rows], src)
		return
	}
	for y := 0; y < rows; y++ {
		copy(dst[y*rowBytes:(y+1)*rowBytes], src[y*srcStride:y*srcStride+rowBytes])
	}
}

var (
	_ Frame   = (*ImageSource)(nil)
	_ Surface = (*ImageSource)(nil)
)
