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

// TIFF LZW fixes the control codes and initial code width; unlike GIF there
// is no constructor parameter.
const (
	tiffClearCode = 256
	tiffEOICode   = 257
	tiffBaseCode  = 258
)

// TIFFLZW implements the MSB-first LZW variant used by TIFF: same
// prefix/suffix walk as GIFLZW, but the bit accumulator is left-aligned, the
// control codes are fixed (clear=256, EOI=257), and the code size only ever
// grows up to 12 bits — there is no max_code latch, the table simply waits
// for the next clear once it's full.
//
// Like GIFLZW, the bit cursor and any expansion bytes that did not fit the
// previous call's destination persist between Decode calls.
type TIFFLZW struct {
	base
	noEncoder

	codeSize int
	free     uint32
	oldCode  int32
	firstCh  byte

	accData uint32
	accBits int
	pending []byte

	prefix [4096]int32
	suffix [4096]byte
	stack  [4096]byte
}

// NewTIFFLZW constructs a ready-to-use TIFF LZW decoder.
func NewTIFFLZW() *TIFFLZW { return &TIFFLZW{base: newBase()} }

// DecodeInit resets the code table, the persisted bit cursor and the
// pending-output buffer, as if a clear code had just been read at the very
// start of a stream.
func (c *TIFFLZW) DecodeInit() {
	c.resetTable()
	c.accData, c.accBits = 0, 0
	c.pending = nil
	c.status = StatusOk
}

// DecodeEnd releases the persisted bit cursor and pending-output buffer.
func (c *TIFFLZW) DecodeEnd() {
	c.accData, c.accBits = 0, 0
	c.pending = nil
}

func (c *TIFFLZW) resetTable() {
	c.codeSize = 9
	c.free = tiffBaseCode
	c.oldCode = noCode
	for i := 0; i < tiffClearCode; i++ {
		c.suffix[i] = byte(i)
	}
}

// emit delivers one expansion byte: into dst while there is room, else into
// the pending buffer, which the next Decode call flushes first.
func (c *TIFFLZW) emit(dst []byte, b byte) []byte {
	if len(dst) > 0 {
		dst[0] = b
		return dst[1:]
	}
	c.pending = append(c.pending, b)
	return dst
}

// Decode expands a TIFF LZW bit stream from source into dest.
func (c *TIFFLZW) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}

	r := newMSBBitReader(source)
	r.restore(c.accData, c.accBits)
	dst := dest
	status := StatusOk

	if len(c.pending) > 0 {
		n := copy(dst, c.pending)
		c.pending = c.pending[n:]
		dst = dst[n:]
		if len(c.pending) > 0 {
			status = StatusOutputBufferTooSmall
		}
	}

loop:
	for status == StatusOk && len(dst) > 0 {
		code, ok := r.read(c.codeSize)
		if !ok {
			status = StatusNotEnoughInput
			break loop
		}

		switch {
		case code == tiffClearCode:
			c.resetTable()
			continue loop

		case code == tiffEOICode:
			break loop

		case c.oldCode == noCode:
			if code >= c.free {
				status = StatusInvalidInput
				break loop
			}
			dst[0] = c.suffix[code]
			dst = dst[1:]
			c.firstCh = c.suffix[code]
			c.oldCode = int32(code)

		default:
			if code > c.free {
				status = StatusInvalidInput
				break loop
			}
			kwkwk := code == c.free
			walk := code
			if kwkwk {
				walk = uint32(c.oldCode)
			}

			sp := 0
			for walk >= tiffClearCode {
				if sp >= len(c.stack) {
					status = StatusBufferOverflow
					break loop
				}
				c.stack[sp] = c.suffix[walk]
				sp++
				walk = uint32(c.prefix[walk])
			}
			root := byte(walk)

			// The code is already consumed, so the whole expansion is
			// committed: whatever dest cannot hold spills into pending, and
			// the table update below happens regardless, keeping the decoder
			// resumable after a destination-limited exit.
			dst = c.emit(dst, root)
			for i := sp - 1; i >= 0; i-- {
				dst = c.emit(dst, c.stack[i])
			}
			if kwkwk {
				dst = c.emit(dst, root)
			}
			c.firstCh = root

			if c.free < 4095 {
				c.prefix[c.free] = c.oldCode
				c.suffix[c.free] = c.firstCh
				c.free++
			}
			if c.free == (uint32(1)<<uint(c.codeSize)) && c.codeSize < 12 {
				c.codeSize++
			}
			c.oldCode = int32(code)

			if len(c.pending) > 0 {
				status = StatusOutputBufferTooSmall
				break loop
			}
		}
	}

	c.accData, c.accBits = r.save()
	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = r.bytesRemaining()
	c.status = status
	return len(source) - r.bytesRemaining(), c.decompressedBytes
}

func init() {
	registerFormat(FormatTIFFLZW, func() Codec { return NewTIFFLZW() })
}
