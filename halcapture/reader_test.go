// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package halcapture

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/shots"
)

// fakeHalProvider exposes HAL accessors that return the wrong types.
type fakeHalProvider struct {
	device any
	queue  any
}

func (p fakeHalProvider) HalDevice() any { return p.device }
func (p fakeHalProvider) HalQueue() any  { return p.queue }

func TestNewReader_RejectsProviders(t *testing.T) {
	tests := []struct {
		name     string
		provider any
	}{
		{name: "nil", provider: nil},
		{name: "no HAL methods", provider: struct{}{}},
		{name: "wrong device type", provider: fakeHalProvider{device: "device", queue: "queue"}},
		{name: "nil handles", provider: fakeHalProvider{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.provider)
			if !errors.Is(err, ErrNoHAL) {
				t.Errorf("NewReader() error = %v, want ErrNoHAL", err)
			}
			if r != nil {
				t.Error("NewReader() returned a reader on error")
			}
		})
	}
}

func TestReaderFrame_Validation(t *testing.T) {
	r := NewReaderFromHAL(nil, nil)

	if err := r.Frame(nil, gputypes.TextureFormatBGRA8Unorm).ReadPixels(make([]byte, 16), 2, 2); !errors.Is(err, ErrNilTexture) {
		t.Errorf("nil texture error = %v, want ErrNilTexture", err)
	}
}

func TestReaderRead_Validation(t *testing.T) {
	r := NewReaderFromHAL(nil, nil)
	if err := r.read(nil, gputypes.TextureFormatRGBA8Unorm, nil, 0, 2); !errors.Is(err, shots.ErrInvalidDimensions) {
		t.Errorf("zero width error = %v, want ErrInvalidDimensions", err)
	}
	if err := r.read(nil, gputypes.TextureFormatRGBA8Unorm, make([]byte, 3), 2, 2); !errors.Is(err, shots.ErrShortBuffer) {
		t.Errorf("short dst error = %v, want ErrShortBuffer", err)
	}
}

func TestReaderRelease_Idempotent(t *testing.T) {
	r := NewReaderFromHAL(nil, nil)
	r.Release()
	r.Release()
	if r.staging != nil || r.scratch != nil {
		t.Error("Release() left staging state behind")
	}
}
