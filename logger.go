// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. The save worker logs from its own
// goroutine, so the pointer is swapped atomically.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for shots and its sub-packages.
// By default shots produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by shots:
//   - [slog.LevelDebug]: per-frame diagnostics (buffer hand-off, reallocation)
//   - [slog.LevelInfo]: lifecycle events (worker start/stop, directory switch)
//   - [slog.LevelWarn]: per-file write failures and readback errors
//
// Example:
//
//	shots.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by shots.
// Sub-packages (halcapture, display) call this to share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
