// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"context"
	"errors"

	"github.com/gogpu/gg"
	"github.com/gogpu/shots"
	"github.com/gogpu/shots/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an animation with gg and save every Nth frame",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			sum, err := runRender(cmd.Context(), cfg)
			if sum.Dir != "" {
				sum.print(cmd.OutOrStdout())
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.Int("width", 640, "canvas width")
	flags.Int("height", 480, "canvas height")
	flags.IntP("frames", "n", 60, "number of frames to render")
	flags.Int("every", 10, "take a screenshot every N frames (0 = first frame only)")
	flags.Int("resize-at", 0, "resize the canvas at this frame (0 = never)")
	flags.Int("resize-width", 800, "canvas width after resize")
	flags.Int("resize-height", 600, "canvas height after resize")

	bindFlags(v, flags, map[string]string{
		"render.width":         "width",
		"render.height":        "height",
		"render.frames":        "frames",
		"render.every":         "every",
		"render.resize_at":     "resize-at",
		"render.resize_width":  "resize-width",
		"render.resize_height": "resize-height",
	})
	return cmd
}

// runRender drives a headless render loop, calling Capture after every
// frame. The returned summary is valid even when err is not nil.
func runRender(ctx context.Context, cfg *config.Config) (summary, error) {
	dc := gg.NewContext(cfg.Render.Width, cfg.Render.Height)
	defer func() { _ = dc.Close() }()

	s, dir, err := openPipeline(cfg, hostProvider{}, canvasSurface(dc))
	if err != nil {
		return summary{}, err
	}
	log := shots.Logger()
	frame := canvasFrame(dc)

	var errs []error
	n := 0
	for ; n < cfg.Render.Frames; n++ {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if cfg.Render.ResizeAt > 0 && n == cfg.Render.ResizeAt {
			if err := dc.Resize(cfg.Render.ResizeWidth, cfg.Render.ResizeHeight); err != nil {
				errs = append(errs, err)
				break
			}
			log.Info("shots: canvas resized", "frame", n, "width", dc.Width(), "height", dc.Height())
		}

		drawScene(dc, n)
		if n == 0 || (cfg.Render.Every > 0 && n%cfg.Render.Every == 0) {
			s.Take()
		}
		if err := s.Capture(frame); err != nil {
			log.Warn("shots: capture failed", "frame", n, "err", err)
		}
	}

	if err := s.Flush(cfg.Capture.FlushWait()); err != nil {
		errs = append(errs, err)
	}
	return summary{Frames: n, Dir: dir, Stats: s.Stats()}, errors.Join(errs...)
}
