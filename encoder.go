// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Encoder turns a captured frame into bytes on disk. Encoders are called
// only from the save worker goroutine.
type Encoder interface {
	// Encode writes img to w.
	Encode(w io.Writer, img image.Image) error

	// Extension returns the file extension without the leading dot.
	Extension() string
}

// Built-in encoders.
var (
	// PNG encodes with default compression, reusing encoder scratch buffers
	// across frames.
	PNG Encoder = NewPNGEncoder(png.DefaultCompression)

	// TIFF encodes with deflate compression and horizontal prediction.
	TIFF Encoder = tiffEncoder{opts: &tiff.Options{Compression: tiff.Deflate, Predictor: true}}

	// BMP encodes uncompressed bitmaps. Cheapest on CPU, largest on disk.
	BMP Encoder = bmpEncoder{}
)

// EncoderByName returns the built-in encoder for name ("png", "tiff", "bmp").
func EncoderByName(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "png":
		return PNG, nil
	case "tiff", "tif":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoder %q", ErrInvalidConfig, name)
	}
}

// NewPNGEncoder returns a PNG encoder with the given compression level.
func NewPNGEncoder(level png.CompressionLevel) Encoder {
	return &pngEncoder{enc: png.Encoder{
		CompressionLevel: level,
		BufferPool:       &pngBufferPool{},
	}}
}

type pngEncoder struct {
	enc png.Encoder
}

func (e *pngEncoder) Encode(w io.Writer, img image.Image) error {
	return e.enc.Encode(w, img)
}

func (e *pngEncoder) Extension() string { return "png" }

// pngBufferPool keeps png.EncoderBuffer instances alive between frames.
type pngBufferPool struct {
	pool sync.Pool
}

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *pngBufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}

type tiffEncoder struct {
	opts *tiff.Options
}

func (e tiffEncoder) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, e.opts)
}

func (tiffEncoder) Extension() string { return "tiff" }

type bmpEncoder struct{}

func (bmpEncoder) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

func (bmpEncoder) Extension() string { return "bmp" }
