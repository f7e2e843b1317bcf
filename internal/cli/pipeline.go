// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/shots"
	"github.com/gogpu/shots/internal/config"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// openPipeline creates a capture pipeline from cfg and switches it to the
// configured output directory. It returns the directory files are written to.
func openPipeline(cfg *config.Config, provider gpucontext.DeviceProvider, surface shots.Surface) (*shots.Shots, string, error) {
	enc, err := shots.EncoderByName(cfg.Output.Format)
	if err != nil {
		return nil, "", err
	}
	s, err := shots.New(provider, surface, cfg.Output.Dir,
		shots.WithPoolSize(cfg.Capture.PoolSize),
		shots.WithWriteBehind(cfg.Capture.WriteBehind),
		shots.WithIdleFlushFrames(cfg.Capture.IdleFlushFrames),
		shots.WithEncoder(enc),
		shots.WithFilePrefix(cfg.Output.Prefix),
	)
	if err != nil {
		return nil, "", err
	}

	subdir := cfg.Output.Subdir
	if cfg.Output.UniqueSubdir {
		subdir = filepath.Join(subdir, uuid.NewString())
	}
	if err := s.OutputDir(subdir); err != nil {
		_ = s.Flush(0)
		return nil, "", err
	}
	return s, filepath.Join(cfg.Output.Dir, shots.OutputRoot, subdir), nil
}

// summary is the end-of-run report.
type summary struct {
	Frames int
	Dir    string
	Stats  shots.Stats
}

func (r summary) print(w io.Writer) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%d frames rendered, %d captured, %d saved, %d failed, %d reallocations\n",
		r.Frames, r.Stats.Captured, r.Stats.Saved, r.Stats.Failed, r.Stats.Reallocated)
	fmt.Fprintf(w, "output: %s\n", r.Dir)
}
