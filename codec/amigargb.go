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

import "encoding/binary"

// AmigaWordSize selects between the 16-bit RGBN and 32-bit RGB8 Amiga deep
// chunk word layouts.
type AmigaWordSize int

// Supported Amiga data word sizes.
const (
	AmigaWord16 AmigaWordSize = 2 // RGBN: 3-bit count in bits 8-10
	AmigaWord32 AmigaWordSize = 4 // RGB8: 7-bit count in bits 24-30
)

// AmigaRGB implements the Amiga RGBN/RGB8 "deep" chunk codec. Each
// packet is one 16- or 32-bit big-endian data word carrying both a pixel
// value and a repeat count above it. A count of zero means
// "read one more byte as the real count"; if that extension byte is also
// zero, a further big-endian 16-bit word supplies the count. The decoded
// word (count bits included, exactly as received) is replicated count
// times into dest — stripping the count bits back out of the pixel value
// is the format driver's and color manager's concern, not this codec's.
type AmigaRGB struct {
	base
	noEncoder
	noDecodeEnd
	wordSize AmigaWordSize
}

// NewAmigaRGB constructs an Amiga deep-chunk codec for the given word size.
// Any value other than AmigaWord16/AmigaWord32 leaves the codec in
// StatusInitializationError.
func NewAmigaRGB(wordSize AmigaWordSize) *AmigaRGB {
	c := &AmigaRGB{base: newBase(), wordSize: wordSize}
	switch wordSize {
	case AmigaWord16, AmigaWord32:
		c.status = StatusUninitialized
	default:
		c.status = StatusInitializationError
	}
	return c
}

// DecodeInit resets status to Ok, unless construction failed.
func (c *AmigaRGB) DecodeInit() {
	if c.status != StatusInitializationError {
		c.status = StatusOk
	}
}

// DecodeEnd is a no-op; AmigaRGB holds no resumable state.
func (c *AmigaRGB) DecodeEnd() {}

func (c *AmigaRGB) countShift() uint {
	if c.wordSize == AmigaWord32 {
		return 24
	}
	return 8
}

func (c *AmigaRGB) countMask() uint32 {
	if c.wordSize == AmigaWord32 {
		return 0x7F
	}
	return 0x7
}

func (c *AmigaRGB) readWord(src []byte) (uint32, bool) {
	if len(src) < int(c.wordSize) {
		return 0, false
	}
	if c.wordSize == AmigaWord32 {
		return binary.BigEndian.Uint32(src), true
	}
	return uint32(binary.BigEndian.Uint16(src)), true
}

func (c *AmigaRGB) writeWord(dst []byte, value uint32) {
	if c.wordSize == AmigaWord32 {
		binary.BigEndian.PutUint32(dst, value)
		return
	}
	binary.BigEndian.PutUint16(dst, uint16(value))
}

// Decode expands Amiga RGBN/RGB8 packets from source into dest.
func (c *AmigaRGB) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if c.status == StatusInitializationError {
		return 0, 0
	}
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}

	ws := int(c.wordSize)
	shift, mask := c.countShift(), c.countMask()
	src, dst := source, dest
	status := StatusOk

loop:
	for len(src) > 0 && len(dst) >= ws {
		word, ok := c.readWord(src)
		if !ok {
			status = StatusNotEnoughInput
			break loop
		}
		src = src[ws:]

		count := int((word >> shift) & mask)
		if count == 0 {
			if len(src) < 1 {
				status = StatusNotEnoughInput
				break loop
			}
			ext := int(src[0])
			src = src[1:]
			if ext == 0 {
				if len(src) < 2 {
					status = StatusNotEnoughInput
					break loop
				}
				count = int(binary.BigEndian.Uint16(src))
				src = src[2:]
			} else {
				count = ext
			}
		}

		if count*ws > len(dst) {
			count = len(dst) / ws
			status = StatusOutputBufferTooSmall
		}
		for i := 0; i < count; i++ {
			c.writeWord(dst[i*ws:(i+1)*ws], word)
		}
		dst = dst[count*ws:]
		if status == StatusOutputBufferTooSmall {
			break loop
		}
	}

	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = len(src)
	c.status = status
	return len(source) - len(src), c.decompressedBytes
}

func init() {
	registerFormat(FormatAmigaRGB, func() Codec { return NewAmigaRGB(AmigaWord16) })
}
