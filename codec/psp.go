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
	registerFormat(FormatPSP, func() Codec { return NewPSP() })
}

// PSP implements Paint Shop Pro's RLE packet codec: an unsigned
// header byte n selects a run (n>=128: repeat the next byte n-128 times)
// or a literal (n<128: copy the next n bytes).
type PSP struct {
	base
	noEncoder
	noDecodeEnd
}

// NewPSP constructs a ready-to-use PSP RLE codec.
func NewPSP() *PSP { return &PSP{base: newBase()} }

// DecodeInit resets status to Ok.
func (c *PSP) DecodeInit() { c.status = StatusOk }

// Decode expands PSP RLE packets from source into dest.
func (c *PSP) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}
	src, dst := source, dest
	status := StatusOk

loop:
	for len(src) > 0 && len(dst) > 0 {
		n := int(src[0])
		src = src[1:]

		if n >= 128 {
			count := n - 128
			if count == 0 {
				continue loop
			}
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
			count := n
			if count == 0 {
				continue loop
			}
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
