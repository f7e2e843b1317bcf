// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"fmt"

	"github.com/spf13/afero"
)

// Pipeline defaults.
const (
	// DefaultPoolSize is the number of capture buffers in circulation.
	DefaultPoolSize = 3

	// DefaultWriteBehind is how many captured buffers the worker holds in
	// memory before the oldest is forced to disk.
	DefaultWriteBehind = 2

	// DefaultIdleFlushFrames is the number of frames without a capture
	// after which queued buffers are flushed. Chosen empirically; override
	// with WithIdleFlushFrames.
	DefaultIdleFlushFrames = 2

	// DefaultFilePrefix names files prefix{N}.ext.
	DefaultFilePrefix = "screenshot"

	// OutputRoot is the directory under the base directory that holds
	// every capture.
	OutputRoot = "dist"
)

// Option configures a Shots pipeline during creation.
//
// Example:
//
//	s, err := shots.New(provider, surface, baseDir,
//	    shots.WithPoolSize(4),
//	    shots.WithWriteBehind(3),
//	    shots.WithEncoder(shots.TIFF))
type Option func(*options)

type options struct {
	poolSize        int
	writeBehind     int
	idleFlushFrames int
	fs              afero.Fs
	encoder         Encoder
	prefix          string
	alloc           Allocator
	onError         func(path string, err error)
}

func defaultOptions() options {
	return options{
		poolSize:        DefaultPoolSize,
		writeBehind:     DefaultWriteBehind,
		idleFlushFrames: DefaultIdleFlushFrames,
		encoder:         PNG,
		prefix:          DefaultFilePrefix,
	}
}

// WithPoolSize sets the number of capture buffers in circulation. This
// bounds memory use and is the point where Capture applies backpressure.
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// WithWriteBehind sets how many buffers the worker keeps queued before
// writing the oldest. It must be smaller than the pool size.
func WithWriteBehind(n int) Option {
	return func(o *options) {
		o.writeBehind = n
	}
}

// WithIdleFlushFrames sets how many frames without a capture trigger an
// asynchronous flush of queued buffers.
func WithIdleFlushFrames(n int) Option {
	return func(o *options) {
		o.idleFlushFrames = n
	}
}

// WithFs sets the filesystem screenshots are written to.
// The default is the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEncoder sets the image encoder. The file extension follows the
// encoder. The default is PNG.
func WithEncoder(enc Encoder) Option {
	return func(o *options) {
		o.encoder = enc
	}
}

// WithFilePrefix sets the file name prefix (default "screenshot").
func WithFilePrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithAllocator sets the capture buffer allocator, overriding both the
// host default and an Allocator implemented by the device provider.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithErrorHandler registers fn to be called for every file that fails to
// write. fn runs on the save worker goroutine and must not call back into
// the pipeline.
func WithErrorHandler(fn func(path string, err error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

func (o *options) validate() error {
	switch {
	case o.poolSize < 1:
		return fmt.Errorf("%w: pool size %d, need at least 1", ErrInvalidConfig, o.poolSize)
	case o.writeBehind < 0 || o.writeBehind >= o.poolSize:
		return fmt.Errorf("%w: write-behind %d must be in [0, %d)", ErrInvalidConfig, o.writeBehind, o.poolSize)
	case o.idleFlushFrames < 1:
		return fmt.Errorf("%w: idle flush frames %d, need at least 1", ErrInvalidConfig, o.idleFlushFrames)
	case o.encoder == nil:
		return fmt.Errorf("%w: nil encoder", ErrInvalidConfig)
	case o.prefix == "":
		return fmt.Errorf("%w: empty file prefix", ErrInvalidConfig)
	}
	return nil
}
