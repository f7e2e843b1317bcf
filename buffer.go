// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"fmt"
	"image"
)

// Channels is the number of 8-bit channels per captured pixel (RGBA).
const Channels = 4

// Buffer is a CPU-visible frame buffer recycled between capture and save.
//
// A Buffer is owned by exactly one side at a time: the render goroutine
// while it is being filled, the save worker while it is queued or being
// written. Ownership moves with the channel hand-off, so Buffer has no lock.
type Buffer struct {
	// Pix holds Width*Height*Channels bytes of tightly packed RGBA8 data.
	Pix []byte

	// Width and Height are the dimensions Pix was allocated for.
	Width  int
	Height int

	id int // stable identity for diagnostics
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.Width, b.Height
}

// Image wraps the buffer pixels as an *image.RGBA without copying.
// The image shares memory with the buffer and is only valid while the
// caller owns the buffer.
func (b *Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * Channels,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Allocator creates CPU-visible capture buffers. A gpucontext.DeviceProvider
// that implements Allocator (for example to hand out mapped staging memory)
// is used automatically by New.
type Allocator interface {
	Allocate(width, height int) ([]byte, error)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(width, height int) ([]byte, error)

// Allocate calls f(width, height).
func (f AllocatorFunc) Allocate(width, height int) ([]byte, error) {
	return f(width, height)
}

// HostAllocator allocates capture buffers from the Go heap.
var HostAllocator Allocator = AllocatorFunc(func(width, height int) ([]byte, error) {
	return make([]byte, width*height*Channels), nil
})

// bufferPool owns allocation policy for the fixed set of capture buffers.
// The buffers themselves circulate through the return channel; the pool
// only creates them and resizes them in place.
type bufferPool struct {
	alloc Allocator
	size  int
}

func newBufferPool(alloc Allocator, size int) *bufferPool {
	return &bufferPool{alloc: alloc, size: size}
}

// fill allocates every pooled buffer at the given dimensions and hands
// them to out.
func (p *bufferPool) fill(out chan<- *Buffer, width, height int) error {
	for i := 0; i < p.size; i++ {
		b := &Buffer{id: i}
		if err := p.allocate(b, width, height); err != nil {
			return fmt.Errorf("shots: allocate buffer %d: %w", i, err)
		}
		out <- b
	}
	return nil
}

// fit reallocates b in place if its dimensions differ from width x height.
// It reports whether a reallocation happened.
func (p *bufferPool) fit(b *Buffer, width, height int) (bool, error) {
	if b.Width == width && b.Height == height && len(b.Pix) >= width*height*Channels {
		return false, nil
	}
	if err := p.allocate(b, width, height); err != nil {
		return false, err
	}
	return true, nil
}

func (p *bufferPool) allocate(b *Buffer, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	pix, err := p.alloc.Allocate(width, height)
	if err != nil {
		return err
	}
	if len(pix) < width*height*Channels {
		return fmt.Errorf("%w: allocator returned %d bytes for %dx%d", ErrShortBuffer, len(pix), width, height)
	}
	b.Pix = pix[:width*height*Channels]
	b.Width = width
	b.Height = height
	return nil
}
