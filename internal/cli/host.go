// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/shots"
)

// hostDevice stands in for a GPU device when frames are rendered on the CPU.
type hostDevice struct{}

func (hostDevice) Poll(bool) {}
func (hostDevice) Destroy()  {}

type hostQueue struct{}

type hostAdapter struct{}

// hostProvider is the gpucontext.DeviceProvider for CPU rendering. Capture
// buffers come from the Go heap.
type hostProvider struct{}

var _ gpucontext.DeviceProvider = hostProvider{}

func (hostProvider) Device() gpucontext.Device             { return hostDevice{} }
func (hostProvider) Queue() gpucontext.Queue               { return hostQueue{} }
func (hostProvider) Adapter() gpucontext.Adapter           { return hostAdapter{} }
func (hostProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

func (hostProvider) Allocate(width, height int) ([]byte, error) {
	return shots.HostAllocator.Allocate(width, height)
}

// canvasSurface reports the current size of a gg context.
func canvasSurface(dc *gg.Context) shots.Surface {
	return shots.SurfaceFunc(func() (int, int) {
		return dc.Width(), dc.Height()
	})
}

// canvasFrame reads the pixels of a gg context. The context pixmap is
// tightly packed RGBA, so rows are copied directly.
func canvasFrame(dc *gg.Context) shots.Frame {
	return shots.FrameFunc(func(dst []byte, width, height int) error {
		if err := dc.FlushGPU(); err != nil {
			return err
		}
		pm := dc.ResizeTarget()
		src := pm.Data()
		srcRow := pm.Width() * shots.Channels
		row := min(width, pm.Width()) * shots.Channels
		rows := min(height, len(src)/max(srcRow, 1))
		for y := 0; y < rows; y++ {
			copy(dst[y*width*shots.Channels:y*width*shots.Channels+row], src[y*srcRow:y*srcRow+row])
		}
		return nil
	})
}
