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

// SGISampleSize is the width, in bytes, of one SGI sample word: 1 for the
// classic 8-bit-per-channel RLE, 2 for the big-endian 16-bit variant.
type SGISampleSize int

// Supported SGI sample sizes; any other value is an InitializationError.
const (
	SGISample8  SGISampleSize = 1
	SGISample16 SGISampleSize = 2
)

// SGI implements the SGI/IRIS RLE packet codec: a count byte/word
// whose high bit is set introduces a raw (literal) packet of count
// samples; high bit clear introduces a run packet, one sample repeated
// count times. A count of zero ends the stream. The 16-bit variant reads
// every count and sample as a big-endian word instead of a single byte.
type SGI struct {
	base
	noEncoder
	noDecodeEnd
	sampleSize SGISampleSize
}

// NewSGI constructs an SGI RLE codec for the given sample size (1 or 2
// bytes). Any other value leaves the codec in StatusInitializationError.
func NewSGI(sampleSize SGISampleSize) *SGI {
	c := &SGI{base: newBase(), sampleSize: sampleSize}
	switch sampleSize {
	case SGISample8, SGISample16:
		c.status = StatusUninitialized
	default:
		c.status = StatusInitializationError
	}
	return c
}

// DecodeInit resets status to Ok, unless construction failed.
func (c *SGI) DecodeInit() {
	if c.status != StatusInitializationError {
		c.status = StatusOk
	}
}

// DecodeEnd is a no-op; SGI holds no resumable state.
func (c *SGI) DecodeEnd() {}

func (c *SGI) readSample(src []byte) (uint32, bool) {
	if len(src) < int(c.sampleSize) {
		return 0, false
	}
	if c.sampleSize == SGISample16 {
		return uint32(binary.BigEndian.Uint16(src)), true
	}
	return uint32(src[0]), true
}

// Decode expands SGI RLE packets from source into dest.
func (c *SGI) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if c.status == StatusInitializationError {
		return 0, 0
	}
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}

	ss := int(c.sampleSize)
	src, dst := source, dest
	status := StatusOk

loop:
	for len(src) > 0 && len(dst) >= ss {
		header, ok := c.readSample(src)
		if !ok {
			status = StatusNotEnoughInput
			break loop
		}
		src = src[ss:]

		count := int(header & 0x7F)
		if count == 0 {
			break loop
		}

		if header&0x80 != 0 {
			// Raw/literal packet: count distinct samples copied verbatim.
			want := count * ss
			avail := min(want, len(dst), len(src))
			avail -= avail % ss
			copy(dst[:avail], src[:avail])
			dst = dst[avail:]
			src = src[avail:]
			if avail < want {
				if len(dst) < ss {
					status = StatusOutputBufferTooSmall
				} else {
					status = StatusNotEnoughInput
				}
				break loop
			}
		} else {
			// Run packet: one sample repeated count times.
			value, ok := c.readSample(src)
			if !ok {
				status = StatusNotEnoughInput
				break loop
			}
			src = src[ss:]

			if count*ss > len(dst) {
				count = len(dst) / ss
				status = StatusOutputBufferTooSmall
			}
			for i := 0; i < count; i++ {
				c.writeSample(dst[i*ss:(i+1)*ss], value)
			}
			dst = dst[count*ss:]
			if status == StatusOutputBufferTooSmall {
				break loop
			}
		}
	}

	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = len(src)
	c.status = status
	return len(source) - len(src), c.decompressedBytes
}

func (c *SGI) writeSample(dst []byte, value uint32) {
	if c.sampleSize == SGISample16 {
		binary.BigEndian.PutUint16(dst, uint16(value))
		return
	}
	dst[0] = byte(value)
}

func init() {
	registerFormat(FormatSGI, func() Codec { return NewSGI(SGISample8) })
}
