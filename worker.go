// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"sync/atomic"
)

// requestKind tags a message sent from the render side to the save worker.
type requestKind uint8

const (
	// reqBuffer carries a filled buffer to persist.
	reqBuffer requestKind = iota

	// reqFlush drains every queued buffer to disk.
	reqFlush

	// reqChangeDir drains the queue, then switches the output directory
	// and restarts file numbering.
	reqChangeDir

	// reqKill drains the queue and stops the worker.
	reqKill
)

func (k requestKind) String() string {
	switch k {
	case reqBuffer:
		return "buffer"
	case reqFlush:
		return "flush"
	case reqChangeDir:
		return "change-dir"
	case reqKill:
		return "kill"
	default:
		return "unknown"
	}
}

// request is consumed exactly once by the worker and never retried.
type request struct {
	kind requestKind
	buf  *Buffer // reqBuffer
	dir  string  // reqChangeDir
}

// Stats counts pipeline activity. All fields are read atomically, so Stats
// may be called from any goroutine while the worker runs.
type Stats struct {
	// Captured is the number of frames read back and handed to the worker.
	Captured uint64

	// Saved is the number of files written successfully.
	Saved uint64

	// Failed is the number of files whose write failed.
	Failed uint64

	// Reallocated is the number of buffer reallocations caused by a
	// surface size change.
	Reallocated uint64
}

type counters struct {
	captured    atomic.Uint64
	saved       atomic.Uint64
	failed      atomic.Uint64
	reallocated atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Captured:    c.captured.Load(),
		Saved:       c.saved.Load(),
		Failed:      c.failed.Load(),
		Reallocated: c.reallocated.Load(),
	}
}

// saveWorker is the single background loop that persists captured frames.
//
// It keeps up to depth buffers in a FIFO (write-behind) and writes the
// oldest once the FIFO grows past depth. Every written buffer goes back to
// the render side on returns, whether the write succeeded or not.
type saveWorker struct {
	writer   *shotWriter
	depth    int
	queue    []*Buffer
	requests <-chan request
	returns  chan<- *Buffer
	onError  func(path string, err error)
	stats    *counters

	errs []error // per-file failures, read by Flush after the worker exits
}

// run processes requests until reqKill. The loop also ends if requests is
// closed, after draining what it holds.
func (w *saveWorker) run() {
	log := Logger()
	log.Info("shots: save worker started", "dir", w.writer.dir, "depth", w.depth)
	defer log.Info("shots: save worker stopped",
		"saved", w.stats.saved.Load(), "failed", w.stats.failed.Load())

	for req := range w.requests {
		if !w.handle(req) {
			return
		}
	}
	w.drain()
}

// handle applies one request and reports whether the loop should continue.
func (w *saveWorker) handle(req request) bool {
	switch req.kind {
	case reqBuffer:
		w.queue = append(w.queue, req.buf)
		if len(w.queue) > w.depth {
			w.writeOldest()
		}
	case reqFlush:
		w.drain()
	case reqChangeDir:
		w.drain()
		w.writer.setDir(req.dir)
		Logger().Info("shots: output directory changed", "dir", req.dir)
	case reqKill:
		w.drain()
		return false
	}
	return true
}

// drain writes every queued buffer in capture order.
func (w *saveWorker) drain() {
	for len(w.queue) > 0 {
		w.writeOldest()
	}
}

func (w *saveWorker) writeOldest() {
	b := w.queue[0]
	w.queue[0] = nil
	w.queue = w.queue[1:]

	path, err := w.writer.save(b)
	if err != nil {
		w.stats.failed.Add(1)
		w.errs = append(w.errs, err)
		Logger().Warn("shots: screenshot write failed", "path", path, "err", err)
		if w.onError != nil {
			w.onError(path, err)
		}
	} else {
		w.stats.saved.Add(1)
		Logger().Debug("shots: screenshot saved", "path", path, "width", b.Width, "height", b.Height)
	}

	// The return channel holds the whole pool, so this never blocks.
	select {
	case w.returns <- b:
	default:
	}
}
