// Copyright (c) 2025 The go-raster Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of codec.
//
// codec is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// codec is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with codec.  If not, see <https://www.gnu.org/licenses/>.

package codec

func init() {
	registerFormat(FormatRLA, func() Codec { return NewRLA() })
}

// RLA implements the Wavefront RLA RLE packet codec: a signed header
// byte n selects a run (n>=0: repeat the next byte n+1 times) or a literal
// (n<0: copy the next -n bytes).
type RLA struct {
	base
	noEncoder
	noDecodeEnd
}

// NewRLA constructs a ready-to-use RLA RLE codec.
func NewRLA() *RLA { return &RLA{base: newBase()} }

// DecodeInit resets status to Ok.
func (c *RLA) DecodeInit() { c.status = StatusOk }

// Decode expands RLA RLE packets from source into dest.
func (c *RLA) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}
	src, dst := source, dest
	status := StatusOk

loop:
	for len(src) > 0 && len(dst) > 0 {
		n := int8(src[0])
		src = src[1:]

		if n >= 0 {
			count := int(n) + 1
			if len(src) < 1 {
				status = StatusNotEnoughInput
				break loop
			}
			value := src[0]
			src = src[1:]
			if count > len(dst) {
				count = len(dst)
				status = StatusOutputBufferTooSmall
			}
			for i := 0; i < count; i++ {
				dst[i] = value
			}
			dst = dst[count:]
			if status == StatusOutputBufferTooSmall {
				break loop
			}
		} else {
			count := int(-n)
			avail := min(count, len(dst), len(src))
			copy(dst[:avail], src[:avail])
			dst = dst[avail:]
			src = src[avail:]
			if avail < count {
				if len(dst) == 0 {
					status = StatusOutputBufferTooSmall
				} else {
					status = StatusNotEnoughInput
				}
				break loop
			}
		}
	}

	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = len(src)
	c.status = status
	return len(source) - len(src), c.decompressedBytes
}
