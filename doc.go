// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shots saves rendered frames to disk without stalling the render
// loop.
//
// # Overview
//
// A host render loop calls [Shots.Capture] once per frame and [Shots.Take]
// whenever it wants a screenshot. Pending screenshots are read back from
// the GPU into a small pool of reusable buffers and handed to a background
// save worker, which keeps a short write-behind queue and writes files in
// capture order.
//
// # Quick Start
//
//	s, err := shots.New(provider, surface, projectDir)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = s.OutputDir("sketch")
//
//	// in the draw callback, after rendering:
//	s.Take()
//	if err := s.Capture(frame); err != nil {
//	    log.Print(err)
//	}
//
//	// on exit:
//	_ = s.Flush(100 * time.Millisecond)
//
// Files land in {projectDir}/dist/[subdir/]screenshot{N}.png with N
// starting at 1 in every directory.
//
// # Architecture
//
// Two goroutines share the work:
//   - Render side: the caller's goroutine. Owns the outstanding-shot and
//     idle-frame counters and performs readback.
//   - Save worker: one goroutine started by [New]. Owns the write-behind
//     queue, the output directory and the file sequence number.
//
// Buffers move between them only through two channels, one carrying
// requests to the worker and one returning written buffers. A buffer is
// never touched by both sides at once, so no locks guard pixel data.
//
// # Backpressure
//
// The number of buffers is fixed ([DefaultPoolSize]). When the worker
// falls behind, Capture blocks waiting for a free buffer, which throttles
// capture to disk throughput instead of growing memory. There are no
// timeouts: a stuck filesystem eventually stalls the render loop too.
//
// # Readback sources
//
// [Frame] is the only thing the pipeline needs from the renderer. The
// halcapture sub-package implements it against gogpu/wgpu HAL textures,
// the display sub-package against the desktop, and [ImageFrame] against
// any CPU image such as a gg.Context.
package shots
