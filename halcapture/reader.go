// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package halcapture

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/shots"
	"github.com/gogpu/wgpu/hal"
)

// fenceTimeout bounds the wait for the readback copy to finish.
const fenceTimeout = 5 * time.Second

var (
	// ErrNoHAL is returned when a provider does not expose HAL handles.
	ErrNoHAL = errors.New("halcapture: provider does not expose HAL device and queue")

	// ErrNilTexture is returned by a Frame created without a texture.
	ErrNilTexture = errors.New("halcapture: nil texture")
)

// Reader copies textures into CPU memory through a reusable staging buffer.
//
// Reader is NOT safe for concurrent use; call it from the render goroutine
// like shots.Shots.
type Reader struct {
	device hal.Device
	queue  hal.Queue

	staging hal.Buffer
	width   uint32
	height  uint32
	pitch   uint32
	scratch []byte
}

// NewReader creates a Reader sharing the HAL device and queue exposed by
// provider through HalDevice() any and HalQueue() any, as gogpu's
// GPUContextProvider does.
func NewReader(provider any) (*Reader, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return NewReaderFromHAL(device, queue), nil
}

// NewReaderFromHAL creates a Reader for an explicit device and queue.
func NewReaderFromHAL(device hal.Device, queue hal.Queue) *Reader {
	return &Reader{device: device, queue: queue}
}

// Frame returns a shots.Frame that reads tex back on capture. tex must have
// CopySrc usage and be in the RenderAttachment state, as a freshly rendered
// target is.
func (r *Reader) Frame(tex hal.Texture, format gputypes.TextureFormat) shots.Frame {
	return shots.FrameFunc(func(dst []byte, width, height int) error {
		if tex == nil {
			return ErrNilTexture
		}
		return r.read(tex, format, dst, width, height)
	})
}

// Release destroys the staging buffer. The Reader may be used again and
// recreates it on the next readback.
func (r *Reader) Release() {
	if r.staging != nil {
		r.device.DestroyBuffer(r.staging)
		r.staging = nil
	}
	r.width, r.height, r.pitch = 0, 0, 0
	r.scratch = nil
}

// ensureStaging recreates the staging buffer when the frame size changes.
func (r *Reader) ensureStaging(w, h uint32) error {
	if r.staging != nil && r.width == w && r.height == h {
		return nil
	}
	r.Release()

	pitch := alignedRowBytes(w)
	size := uint64(pitch) * uint64(h)
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "shots_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("halcapture: create staging buffer: %w", err)
	}
	r.staging = buf
	r.width, r.height, r.pitch = w, h, pitch
	r.scratch = make([]byte, size)
	shots.Logger().Debug("halcapture: staging buffer created", "width", w, "height", h, "bytes", size)
	return nil
}

func (r *Reader) read(tex hal.Texture, format gputypes.TextureFormat, dst []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", shots.ErrInvalidDimensions, width, height)
	}
	if len(dst) < width*height*shots.Channels {
		return shots.ErrShortBuffer
	}
	//nolint:gosec // G115: dimensions checked positive above
	w, h := uint32(width), uint32(height)
	if err := r.ensureStaging(w, h); err != nil {
		return err
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "shots_readback_encoder",
	})
	if err != nil {
		return fmt.Errorf("halcapture: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("shots_readback"); err != nil {
		return fmt.Errorf("halcapture: begin encoding: %w", err)
	}

	// CopyTextureToBuffer needs the source in the copy-source layout.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(tex, r.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: r.pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	// Back to RenderAttachment so the host's next pass finds the layout it expects.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("halcapture: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("halcapture: create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("halcapture: submit: %w", err)
	}
	ok, err := r.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("halcapture: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("halcapture: wait for GPU: timed out after %v", fenceTimeout)
	}

	if err := r.queue.ReadBuffer(r.staging, 0, r.scratch); err != nil {
		return fmt.Errorf("halcapture: read staging buffer: %w", err)
	}
	unpackRows(dst, r.scratch, width, height, int(r.pitch), isBGRA(format))
	return nil
}
