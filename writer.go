// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shots

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
)

// shotWriter persists buffers into the current output directory.
// It is owned by the save worker and never touched by the render side.
type shotWriter struct {
	fs     afero.Fs
	enc    Encoder
	prefix string
	dir    string
	seq    int // files numbered in dir so far, including failed ones
}

func newShotWriter(fs afero.Fs, enc Encoder, prefix, dir string) *shotWriter {
	return &shotWriter{fs: fs, enc: enc, prefix: prefix, dir: dir}
}

// setDir switches the output directory and restarts numbering at 1.
func (w *shotWriter) setDir(dir string) {
	w.dir = dir
	w.seq = 0
}

// nextPath consumes the next sequence number and returns its file path.
func (w *shotWriter) nextPath() string {
	w.seq++
	return filepath.Join(w.dir, w.prefix+strconv.Itoa(w.seq)+"."+w.enc.Extension())
}

// save writes b to the next numbered file. The sequence number is consumed
// even when the write fails, and a partially written file is removed.
func (w *shotWriter) save(b *Buffer) (string, error) {
	path := w.nextPath()

	f, err := w.fs.Create(path)
	if err != nil {
		return path, fmt.Errorf("shots: create %s: %w", path, err)
	}

	encErr := w.enc.Encode(f, b.Image())
	closeErr := f.Close()
	if err := errors.Join(encErr, closeErr); err != nil {
		_ = w.fs.Remove(path)
		return path, fmt.Errorf("shots: write %s: %w", path, err)
	}
	return path, nil
}
