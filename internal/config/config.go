// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads shots CLI settings from flags, environment, .env and
// config files through viper.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SHOTS_OUTPUT_DIR for
// output.dir.
const EnvPrefix = "SHOTS"

// Config is the complete shots CLI configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Capture CaptureConfig `mapstructure:"capture"`
	Render  RenderConfig  `mapstructure:"render"`
	Display DisplayConfig `mapstructure:"display"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OutputConfig controls where and how screenshots are written.
type OutputConfig struct {
	// Dir is the project directory; files go under Dir/dist.
	Dir string `mapstructure:"dir"`
	// Subdir is the directory below dist ("" writes into dist itself).
	Subdir string `mapstructure:"subdir"`
	// UniqueSubdir appends a random run id to Subdir so runs never collide.
	UniqueSubdir bool `mapstructure:"unique_subdir"`
	// Prefix is the file name prefix (default: "screenshot").
	Prefix string `mapstructure:"prefix"`
	// Format is the image format: "png", "tiff" or "bmp".
	Format string `mapstructure:"format"`
}

// CaptureConfig tunes the capture pipeline.
type CaptureConfig struct {
	PoolSize        int `mapstructure:"pool_size"`
	WriteBehind     int `mapstructure:"write_behind"`
	IdleFlushFrames int `mapstructure:"idle_flush_frames"`
	// FlushWaitMs is the grace period before the final flush.
	FlushWaitMs int `mapstructure:"flush_wait_ms"`
}

// RenderConfig drives the headless render loop.
type RenderConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
	Frames int `mapstructure:"frames"`
	// Every takes a screenshot every N frames (0 = only the first frame).
	Every int `mapstructure:"every"`
	// ResizeAt resizes the canvas at this frame (0 = never).
	ResizeAt     int `mapstructure:"resize_at"`
	ResizeWidth  int `mapstructure:"resize_width"`
	ResizeHeight int `mapstructure:"resize_height"`
}

// DisplayConfig drives desktop capture.
type DisplayConfig struct {
	Index      int `mapstructure:"index"`
	Frames     int `mapstructure:"frames"`
	IntervalMs int `mapstructure:"interval_ms"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    ".",
			Prefix: "screenshot",
			Format: "png",
		},
		Capture: CaptureConfig{
			PoolSize:        3,
			WriteBehind:     2,
			IdleFlushFrames: 2,
			FlushWaitMs:     100,
		},
		Render: RenderConfig{
			Width:        640,
			Height:       480,
			Frames:       60,
			Every:        10,
			ResizeWidth:  800,
			ResizeHeight: 600,
		},
		Display: DisplayConfig{
			Frames:     5,
			IntervalMs: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// FlushWait returns the flush grace period as a Duration.
func (c *CaptureConfig) FlushWait() time.Duration {
	return time.Duration(c.FlushWaitMs) * time.Millisecond
}

// Interval returns the display capture interval as a Duration.
func (c *DisplayConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.subdir", defaults.Output.Subdir)
	v.SetDefault("output.unique_subdir", defaults.Output.UniqueSubdir)
	v.SetDefault("output.prefix", defaults.Output.Prefix)
	v.SetDefault("output.format", defaults.Output.Format)

	v.SetDefault("capture.pool_size", defaults.Capture.PoolSize)
	v.SetDefault("capture.write_behind", defaults.Capture.WriteBehind)
	v.SetDefault("capture.idle_flush_frames", defaults.Capture.IdleFlushFrames)
	v.SetDefault("capture.flush_wait_ms", defaults.Capture.FlushWaitMs)

	v.SetDefault("render.width", defaults.Render.Width)
	v.SetDefault("render.height", defaults.Render.Height)
	v.SetDefault("render.frames", defaults.Render.Frames)
	v.SetDefault("render.every", defaults.Render.Every)
	v.SetDefault("render.resize_at", defaults.Render.ResizeAt)
	v.SetDefault("render.resize_width", defaults.Render.ResizeWidth)
	v.SetDefault("render.resize_height", defaults.Render.ResizeHeight)

	v.SetDefault("display.index", defaults.Display.Index)
	v.SetDefault("display.frames", defaults.Display.Frames)
	v.SetDefault("display.interval_ms", defaults.Display.IntervalMs)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}

// LoadEnvFile loads variables from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Load reads the configuration from v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}
