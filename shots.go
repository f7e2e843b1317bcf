// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/spf13/afero"
)

// controlSlack is extra request queue capacity for flush and
// change-directory messages on top of one slot per pooled buffer.
const controlSlack = 8

// Shots captures rendered frames and saves them to disk on a background
// worker without stalling the render loop.
//
// Shots is NOT safe for concurrent use. Take, Capture, OutputDir and Flush
// must all be called from the render goroutine; the shot and idle-frame
// counters are owned by that goroutine alone.
type Shots struct {
	provider gpucontext.DeviceProvider
	surface  Surface
	fs       afero.Fs
	root     string // {baseDir}/dist
	opts     options
	pool     *bufferPool

	pending   int  // screenshots requested but not yet captured
	idle      int  // frames since the last capture
	flushOwed bool // an idle flush could not be queued yet
	closed    bool

	requests chan request
	returns  chan *Buffer
	done     chan struct{}
	worker   *saveWorker
	stats    *counters
}

// New creates a capture pipeline for the given surface and starts its save
// worker. Screenshots are written under {baseDir}/dist, created if absent.
//
// The pool is pre-filled with buffers sized to the current surface. An
// Allocator implemented by provider is used for them unless WithAllocator
// overrides it.
//
// Typical use from a render loop:
//
//	s, err := shots.New(provider, surface, baseDir)
//	_ = s.OutputDir("run1")
//	// per frame, after rendering:
//	if keyPressed { s.Take() }
//	_ = s.Capture(frame)
//	// on exit:
//	err = s.Flush(100 * time.Millisecond)
func New(provider gpucontext.DeviceProvider, surface Surface, baseDir string, opts ...Option) (*Shots, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if surface == nil {
		return nil, ErrNilSurface
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	alloc := o.alloc
	if alloc == nil {
		alloc = HostAllocator
		if a, ok := provider.(Allocator); ok {
			alloc = a
		}
	}

	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: surface is %dx%d", ErrInvalidDimensions, w, h)
	}

	root := filepath.Join(baseDir, OutputRoot)
	if err := o.fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("shots: create output directory %s: %w", root, err)
	}

	pool := newBufferPool(alloc, o.poolSize)
	returns := make(chan *Buffer, o.poolSize)
	if err := pool.fill(returns, w, h); err != nil {
		return nil, err
	}

	s := &Shots{
		provider: provider,
		surface:  surface,
		fs:       o.fs,
		root:     root,
		opts:     o,
		pool:     pool,
		idle:     o.idleFlushFrames + 1, // no flush before the first capture
		requests: make(chan request, o.poolSize+controlSlack),
		returns:  returns,
		done:     make(chan struct{}),
		stats:    &counters{},
	}
	s.worker = &saveWorker{
		writer:   newShotWriter(o.fs, o.encoder, o.prefix, root),
		depth:    o.writeBehind,
		requests: s.requests,
		returns:  s.returns,
		onError:  o.onError,
		stats:    s.stats,
	}

	Logger().Info("shots: pipeline created",
		"root", root, "width", w, "height", h,
		"pool", o.poolSize, "format", provider.SurfaceFormat())

	go func() {
		defer close(s.done)
		s.worker.run()
	}()
	return s, nil
}

// Take requests one more screenshot. The next Capture call with a pending
// request reads the frame back. Take may be called repeatedly to queue
// several future captures.
func (s *Shots) Take() {
	if s.closed {
		return
	}
	s.pending++
}

// Pending returns the number of requested screenshots not yet captured.
func (s *Shots) Pending() int {
	return s.pending
}

// Capture must be called exactly once per rendered frame, whether or not a
// screenshot is pending. Without a pending request it only advances the
// idle-frame counter.
//
// With a pending request it takes a free buffer, blocking while every
// buffer is queued for writing, resizes the buffer if the surface size
// changed, reads the frame back into it and hands it to the save worker.
//
// A readback error consumes the request and returns the buffer to the pool.
// After Flush, Capture is a no-op.
func (s *Shots) Capture(frame Frame) error {
	if s.closed {
		return nil
	}
	if s.flushOwed {
		s.signalFlush()
	}
	if s.pending == 0 {
		s.idleFrame()
		return nil
	}

	w, h := s.surface.Size()
	if w <= 0 || h <= 0 {
		// Minimized window: keep the request for a later frame.
		s.idleFrame()
		return nil
	}

	buf := <-s.returns

	resized, err := s.pool.fit(buf, w, h)
	if err != nil {
		s.release(buf)
		return fmt.Errorf("shots: resize buffer to %dx%d: %w", w, h, err)
	}
	if resized {
		s.stats.reallocated.Add(1)
		Logger().Debug("shots: buffer reallocated", "buffer", buf.id, "width", w, "height", h)
	}

	if err := frame.ReadPixels(buf.Pix, w, h); err != nil {
		s.release(buf)
		Logger().Warn("shots: frame readback failed", "err", err)
		return fmt.Errorf("shots: read back frame: %w", err)
	}

	s.requests <- request{kind: reqBuffer, buf: buf}
	s.pending--
	s.idle = 0
	s.stats.captured.Add(1)
	return nil
}

// release puts an unused buffer back, consumes the pending request and
// counts the frame as idle.
func (s *Shots) release(buf *Buffer) {
	s.returns <- buf
	s.pending--
	s.idleFrame()
}

// idleFrame advances the idle counter and queues a flush when it reaches
// the threshold, so buffers held for write-behind do not wait forever for
// captures that may never come.
func (s *Shots) idleFrame() {
	if s.idle > s.opts.idleFlushFrames {
		return
	}
	s.idle++
	if s.idle == s.opts.idleFlushFrames {
		s.signalFlush()
	}
}

// signalFlush queues a flush without blocking the render goroutine. If the
// request queue is full the flush is retried on the next Capture.
func (s *Shots) signalFlush() {
	select {
	case s.requests <- request{kind: reqFlush}:
		s.flushOwed = false
	default:
		s.flushOwed = true
	}
}

// OutputDir switches the active output directory to {baseDir}/dist/subdir,
// creating it recursively. Buffers captured earlier are written to the old
// directory first; numbering in the new directory starts at 1.
// An empty subdir selects {baseDir}/dist itself.
func (s *Shots) OutputDir(subdir string) error {
	if s.closed {
		return ErrClosed
	}
	dir := s.root
	if subdir != "" {
		if !filepath.IsLocal(subdir) {
			return fmt.Errorf("%w: %q", ErrInvalidSubdir, subdir)
		}
		dir = filepath.Join(s.root, subdir)
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("shots: create output directory %s: %w", dir, err)
	}
	s.requests <- request{kind: reqChangeDir, dir: dir}
	return nil
}

// Flush shuts the pipeline down. It sleeps for wait so in-flight GPU work
// can settle, tells the worker to write everything it holds, and blocks
// until the worker exits. Every captured frame has been written (or has
// failed) when Flush returns.
//
// The returned error joins every per-file write failure of the pipeline's
// lifetime. Shots is not reusable after Flush.
func (s *Shots) Flush(wait time.Duration) error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	time.Sleep(wait)
	s.requests <- request{kind: reqKill}
	<-s.done

	return errors.Join(s.worker.errs...)
}

// Stats returns a snapshot of pipeline counters.
func (s *Shots) Stats() Stats {
	return s.stats.snapshot()
}
