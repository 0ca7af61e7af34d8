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
	registerFormat(FormatPCX, func() Codec { return NewPCX() })
}

// PCX implements the ZSoft PCX RLE packet codec: a header byte whose
// top two bits are both set encodes a run of (header & 0x3F) copies of the
// following byte; any other header byte is a single literal byte.
type PCX struct {
	base
	noEncoder
	noDecodeEnd
}

// NewPCX constructs a ready-to-use PCX RLE codec.
func NewPCX() *PCX { return &PCX{base: newBase()} }

// DecodeInit resets status to Ok.
func (c *PCX) DecodeInit() { c.status = StatusOk }

// Decode expands PCX RLE packets from source into dest.
func (c *PCX) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}
	src, dst := source, dest
	status := StatusOk

loop:
	for len(src) > 0 && len(dst) > 0 {
		header := src[0]
		src = src[1:]

		if header&0xC0 == 0xC0 {
			count := int(header & 0x3F)
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
			dst[0] = header
			dst = dst[1:]
		}
	}

	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = len(src)
	c.status = status
	return len(source) - len(src), c.decompressedBytes
}
