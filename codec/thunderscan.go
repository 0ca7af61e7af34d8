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

// thunderSkip marks a delta-table entry that leaves the pixel unchanged.
const thunderSkip = 0x7fff

// threeDeltaTable holds the four 2-bit deltas used by the three-pixel
// opcode: {0, +1, skip, -1}.
var threeDeltaTable = [4]int{0, +1, thunderSkip, -1}

// twoDeltaTable holds the eight 3-bit deltas used by the two-pixel opcode:
// {0, +1, +2, +3, skip, -3, -2, -1}.
var twoDeltaTable = [8]int{0, +1, +2, +3, thunderSkip, -3, -2, -1}

// ThunderScan implements the 4-bit-pixel ThunderScan codec. Pixels
// are nibble-packed two per output byte. Each input byte splits into a
// 2-bit opcode (top) and 6-bit payload (bottom): a run of the last pixel,
// three pixels via three 2-bit deltas, two pixels via two 3-bit deltas, or
// one raw literal pixel. A packet is only committed once every pixel it
// would produce is known to fit in the remaining destination room, keeping
// the pending-nibble and last-pixel state consistent across calls.
type ThunderScan struct {
	base
	noEncoder

	width int // row width in pixels; a row holds 2*width codec pixels

	lastPixel   byte
	haveHigh    bool
	highNibble  byte
	pixelsInRow int
}

// NewThunderScan constructs a ThunderScan decoder for the given row width
// in pixels. width must be > 0.
func NewThunderScan(width int) *ThunderScan {
	c := &ThunderScan{base: newBase(), width: width}
	if width <= 0 {
		c.status = StatusInitializationError
	} else {
		c.status = StatusUninitialized
	}
	return c
}

// DecodeInit resets status, the pixel-packing cursor and the row counter.
func (c *ThunderScan) DecodeInit() {
	if c.status == StatusInitializationError {
		return
	}
	c.lastPixel = 0
	c.haveHigh = false
	c.highNibble = 0
	c.pixelsInRow = 0
	c.status = StatusOk
}

// DecodeEnd is a no-op; ThunderScan's row/nibble cursor is cheap to keep
// around and is simply reset by the next DecodeInit.
func (c *ThunderScan) DecodeEnd() {}

// bytesNeededFor reports how many whole output bytes committing n more
// pixels would require, given the current pending-nibble state.
func (c *ThunderScan) bytesNeededFor(n int) int {
	pending := 0
	if c.haveHigh {
		pending = 1
	}
	return (pending + n) / 2
}

// commitPixels writes pixels[0:n] into dst (which must already have enough
// room per bytesNeededFor), updating the nibble-packing cursor.
func (c *ThunderScan) commitPixels(dst []byte, pixels []byte) []byte {
	for _, p := range pixels {
		if c.haveHigh {
			dst[0] = (c.highNibble << 4) | (p & 0x0F)
			dst = dst[1:]
			c.haveHigh = false
		} else {
			c.highNibble = p & 0x0F
			c.haveHigh = true
		}
	}
	return dst
}

// applyDelta returns the pixel value for cur after applying delta, where
// delta may be thunderSkip (pixel unchanged).
func applyDelta(cur byte, delta int) byte {
	if delta == thunderSkip {
		return cur
	}
	return byte((int(cur) + delta) & 0x0F)
}

// Decode expands ThunderScan packets from source into dest.
func (c *ThunderScan) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if c.status == StatusInitializationError {
		return 0, 0
	}
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}

	rowTarget := 2 * c.width
	src, dst := source, dest
	status := StatusOk

loop:
	for len(src) > 0 {
		header := src[0]
		opcode := header >> 6
		payload := header & 0x3F

		var pixels []byte
		switch opcode {
		case 0: // run
			count := int(payload)
			buf := make([]byte, count)
			for i := range buf {
				buf[i] = c.lastPixel
			}
			pixels = buf

		case 1: // three pixels via three 2-bit deltas
			cur := c.lastPixel
			buf := make([]byte, 3)
			shifts := [3]uint{4, 2, 0}
			for i, sh := range shifts {
				idx := (payload >> sh) & 0x3
				cur = applyDelta(cur, threeDeltaTable[idx])
				buf[i] = cur
			}
			pixels = buf

		case 2: // two pixels via two 3-bit deltas
			cur := c.lastPixel
			buf := make([]byte, 2)
			shifts := [2]uint{3, 0}
			for i, sh := range shifts {
				idx := (payload >> sh) & 0x7
				cur = applyDelta(cur, twoDeltaTable[idx])
				buf[i] = cur
			}
			pixels = buf

		default: // raw literal pixel
			pixels = []byte{payload & 0x0F}
		}

		need := c.bytesNeededFor(len(pixels))
		if need > len(dst) {
			status = StatusOutputBufferTooSmall
			break loop
		}

		dst = c.commitPixels(dst, pixels)
		if len(pixels) > 0 {
			c.lastPixel = pixels[len(pixels)-1]
		}
		src = src[1:]

		c.pixelsInRow = (c.pixelsInRow + len(pixels)) % rowTarget
	}

	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = len(src)
	c.status = status
	return len(source) - len(src), c.decompressedBytes
}

func init() {
	registerFormat(FormatThunderScan, func() Codec { return NewThunderScan(640) })
}
