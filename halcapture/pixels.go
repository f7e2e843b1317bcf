// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halcapture

import "github.com/gogpu/gputypes"

// copyPitchAlignment is the BytesPerRow alignment WebGPU (and DX12)
// require for texture-to-buffer copies.
const copyPitchAlignment = 256

// alignedRowBytes returns the padded row pitch for a texture width in
// 4-byte pixels.
func alignedRowBytes(width uint32) uint32 {
	row := width * 4
	return (row + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// isBGRA reports whether texels of format are stored blue first.
func isBGRA(format gputypes.TextureFormat) bool {
	return format == gputypes.TextureFormatBGRA8Unorm || format == gputypes.TextureFormatBGRA8UnormSrgb
}

// unpackRows copies height rows of width pixels from a padded staging
// image into dst, converting BGRA to RGBA when swizzle is set.
func unpackRows(dst, src []byte, width, height int, pitch int, swizzle bool) {
	row := width * 4
	for y := 0; y < height; y++ {
		s := src[y*pitch : y*pitch+row]
		d := dst[y*row : (y+1)*row]
		if !swizzle {
			copy(d, s)
			continue
		}
		for i := 0; i < row; i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
}
