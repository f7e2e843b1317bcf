// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"context"
	"errors"
	"time"

	"github.com/gogpu/shots"
	"github.com/gogpu/shots/display"
	"github.com/gogpu/shots/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// screen is the readback source for the display command.
type screen interface {
	shots.Surface
	shots.Frame
}

// openDisplay is replaced in tests.
var openDisplay = func(index int) (screen, error) {
	return display.New(index)
}

func newDisplayCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "display",
		Short: "Capture the desktop at a fixed interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			sum, err := runDisplay(cmd.Context(), cfg)
			if sum.Dir != "" {
				sum.print(cmd.OutOrStdout())
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.Int("display", 0, "display index (0 is primary)")
	flags.IntP("frames", "n", 5, "number of screenshots")
	flags.Duration("interval", 200*time.Millisecond, "time between screenshots")

	bindFlags(v, flags, map[string]string{
		"display.index":  "display",
		"display.frames": "frames",
	})
	// interval is a duration flag; the config key holds milliseconds.
	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		if f := cmd.Flags().Lookup("interval"); f.Changed {
			d, _ := cmd.Flags().GetDuration("interval")
			v.Set("display.interval_ms", d.Milliseconds())
		}
	}
	return cmd
}

// runDisplay takes one screenshot per tick.
func runDisplay(ctx context.Context, cfg *config.Config) (summary, error) {
	src, err := openDisplay(cfg.Display.Index)
	if err != nil {
		return summary{}, err
	}
	s, dir, err := openPipeline(cfg, hostProvider{}, src)
	if err != nil {
		return summary{}, err
	}
	log := shots.Logger()

	ticker := time.NewTicker(max(cfg.Display.Interval(), time.Millisecond))
	defer ticker.Stop()

	var errs []error
	n := 0
loop:
	for ; n < cfg.Display.Frames; n++ {
		s.Take()
		if err := s.Capture(src); err != nil {
			log.Warn("shots: display capture failed", "frame", n, "err", err)
		}
		if n == cfg.Display.Frames-1 {
			continue
		}
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			n++
			break loop
		case <-ticker.C:
		}
	}

	if err := s.Flush(cfg.Capture.FlushWait()); err != nil {
		errs = append(errs, err)
	}
	return summary{Frames: n, Dir: dir, Stats: s.Stats()}, errors.Join(errs...)
}
