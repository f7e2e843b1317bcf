// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string // config key, e.g. "capture.pool_size"
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects every invalid setting found by Validate.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the accepted logging.format values.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// ValidFormats returns the accepted output.format values.
func ValidFormats() []string {
	return []string{"png", "tiff", "tif", "bmp"}
}

// Validate returns all validation errors in c.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateOutput()...)
	errs = append(errs, c.validateCapture()...)
	errs = append(errs, c.validateRender()...)
	errs = append(errs, c.validateDisplay()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateOutput() []ValidationError {
	var errs []ValidationError
	if c.Output.Dir == "" {
		errs = append(errs, ValidationError{Field: "output.dir", Value: c.Output.Dir, Message: "must not be empty"})
	}
	if c.Output.Subdir != "" && !filepath.IsLocal(c.Output.Subdir) {
		errs = append(errs, ValidationError{Field: "output.subdir", Value: c.Output.Subdir, Message: "must be a relative path inside the output directory"})
	}
	if c.Output.Prefix == "" || strings.ContainsAny(c.Output.Prefix, `/\`) {
		errs = append(errs, ValidationError{Field: "output.prefix", Value: c.Output.Prefix, Message: "must be a non-empty file name prefix"})
	}
	if !slices.Contains(ValidFormats(), strings.ToLower(c.Output.Format)) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidFormats(), ", ")),
		})
	}
	return errs
}

func (c *Config) validateCapture() []ValidationError {
	var errs []ValidationError
	if c.Capture.PoolSize < 1 {
		errs = append(errs, ValidationError{Field: "capture.pool_size", Value: c.Capture.PoolSize, Message: "must be at least 1"})
	}
	if c.Capture.WriteBehind < 0 || (c.Capture.PoolSize >= 1 && c.Capture.WriteBehind >= c.Capture.PoolSize) {
		errs = append(errs, ValidationError{Field: "capture.write_behind", Value: c.Capture.WriteBehind, Message: "must be between 0 and pool_size-1"})
	}
	if c.Capture.IdleFlushFrames < 1 {
		errs = append(errs, ValidationError{Field: "capture.idle_flush_frames", Value: c.Capture.IdleFlushFrames, Message: "must be at least 1"})
	}
	if c.Capture.FlushWaitMs < 0 {
		errs = append(errs, ValidationError{Field: "capture.flush_wait_ms", Value: c.Capture.FlushWaitMs, Message: "must be non-negative"})
	}
	return errs
}

func (c *Config) validateRender() []ValidationError {
	var errs []ValidationError
	positive := []struct {
		field string
		value int
	}{
		{"render.width", c.Render.Width},
		{"render.height", c.Render.Height},
		{"render.frames", c.Render.Frames},
	}
	for _, p := range positive {
		if p.value < 1 {
			errs = append(errs, ValidationError{Field: p.field, Value: p.value, Message: "must be at least 1"})
		}
	}
	if c.Render.Every < 0 {
		errs = append(errs, ValidationError{Field: "render.every", Value: c.Render.Every, Message: "must be non-negative"})
	}
	if c.Render.ResizeAt < 0 {
		errs = append(errs, ValidationError{Field: "render.resize_at", Value: c.Render.ResizeAt, Message: "must be non-negative"})
	}
	if c.Render.ResizeAt > 0 && (c.Render.ResizeWidth < 1 || c.Render.ResizeHeight < 1) {
		errs = append(errs, ValidationError{
			Field:   "render.resize_width",
			Value:   fmt.Sprintf("%dx%d", c.Render.ResizeWidth, c.Render.ResizeHeight),
			Message: "resize dimensions must be at least 1 when resize_at is set",
		})
	}
	return errs
}

func (c *Config) validateDisplay() []ValidationError {
	var errs []ValidationError
	if c.Display.Index < 0 {
		errs = append(errs, ValidationError{Field: "display.index", Value: c.Display.Index, Message: "must be non-negative"})
	}
	if c.Display.Frames < 1 {
		errs = append(errs, ValidationError{Field: "display.frames", Value: c.Display.Frames, Message: "must be at least 1"})
	}
	if c.Display.IntervalMs < 0 {
		errs = append(errs, ValidationError{Field: "display.interval_ms", Value: c.Display.IntervalMs, Message: "must be non-negative"})
	}
	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}
	return errs
}
