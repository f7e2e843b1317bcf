// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halcapture reads rendered textures back from the GPU for the
// shots capture pipeline.
//
// A [Reader] shares the host's HAL device and queue, keeps one staging
// buffer sized to the current frame and returns [shots.Frame] values that
// copy a texture into a capture buffer:
//
//	reader, err := halcapture.NewReader(app.GPUContextProvider())
//	// per frame:
//	err = s.Capture(reader.Frame(tex, gputypes.TextureFormatBGRA8Unorm))
//
// The readback is synchronous: it submits a copy, waits on a fence and
// reads the staging buffer. BGRA textures are swizzled to RGBA.
//
// Build with -tags nogpu to exclude the HAL dependency; only the pixel
// helpers remain.
package halcapture
