// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import "errors"

// Errors returned by the capture pipeline.
var (
	// ErrNilProvider is returned when New is called without a device provider.
	ErrNilProvider = errors.New("shots: nil DeviceProvider")

	// ErrNilSurface is returned when New is called without a surface.
	ErrNilSurface = errors.New("shots: nil Surface")

	// ErrInvalidDimensions is returned when a buffer or surface has a
	// non-positive width or height.
	ErrInvalidDimensions = errors.New("shots: invalid dimensions")

	// ErrInvalidConfig is returned when options describe a pipeline that
	// cannot make progress (for example a write-behind depth that would
	// hold every pooled buffer).
	ErrInvalidConfig = errors.New("shots: invalid configuration")

	// ErrInvalidSubdir is returned by OutputDir for paths that would leave
	// the output root.
	ErrInvalidSubdir = errors.New("shots: invalid output subdirectory")

	// ErrClosed is returned by operations attempted after Flush.
	ErrClosed = errors.New("shots: pipeline is closed")

	// ErrShortBuffer is returned by a Frame when the destination slice is
	// smaller than width*height*Channels.
	ErrShortBuffer = errors.New("shots: destination buffer too small")
)
