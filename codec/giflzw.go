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

// noCode marks GIFLZW.oldCode as "nothing decoded yet since the last clear".
const noCode = -1

// GIFLZW implements the LSB-first LZW variant used by GIF. It is
// constructed with an initial code size k in [2, 8]; clearCode = 1<<k,
// endOfInformation = clearCode+1. Unlike TIFF LZW, the code size latches at
// 12 bits instead of wrapping on table exhaustion (maxCode).
//
// The codec is resumable: the bit cursor and any expansion bytes that did
// not fit the previous call's destination persist between Decode calls, so
// a driver may decode one scanline-sized slice at a time.
type GIFLZW struct {
	base
	noEncoder

	initialCodeSize int

	codeSize int
	mask     uint32
	clear    uint32
	eoi      uint32
	free     uint32
	maxCode  bool
	oldCode  int32
	firstCh  byte

	accData uint32
	accBits int
	pending []byte

	prefix [4096]int32
	suffix [4096]byte
	stack  [4096]byte
}

// NewGIFLZW constructs a GIF LZW decoder with the given initial code size
// (the k from the codestream's first byte), which must be in [2, 8].
func NewGIFLZW(initialCodeSize int) *GIFLZW {
	c := &GIFLZW{base: newBase(), initialCodeSize: initialCodeSize}
	if initialCodeSize < 2 || initialCodeSize > 8 {
		c.status = StatusInitializationError
	} else {
		c.status = StatusUninitialized
	}
	return c
}

// DecodeInit resets the code table, the persisted bit cursor and the
// pending-output buffer, as if a clear code had just been read at the very
// start of a stream.
func (c *GIFLZW) DecodeInit() {
	if c.status == StatusInitializationError {
		return
	}
	c.resetTable()
	c.accData, c.accBits = 0, 0
	c.pending = nil
	c.status = StatusOk
}

// DecodeEnd releases the persisted bit cursor and pending-output buffer.
func (c *GIFLZW) DecodeEnd() {
	c.accData, c.accBits = 0, 0
	c.pending = nil
}

func (c *GIFLZW) resetTable() {
	c.clear = uint32(1) << uint(c.initialCodeSize)
	c.eoi = c.clear + 1
	c.free = c.clear + 2
	c.codeSize = c.initialCodeSize + 1
	c.mask = (uint32(1) << uint(c.codeSize)) - 1
	c.maxCode = false
	c.oldCode = noCode
	for i := uint32(0); i < c.clear; i++ {
		c.suffix[i] = byte(i)
	}
}

// emit delivers one expansion byte: into dst while there is room, else into
// the pending buffer, which the next Decode call flushes first.
func (c *GIFLZW) emit(dst []byte, b byte) []byte {
	if len(dst) > 0 {
		dst[0] = b
		return dst[1:]
	}
	c.pending = append(c.pending, b)
	return dst
}

// Decode expands a GIF LZW bit stream from source into dest.
func (c *GIFLZW) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if c.status == StatusInitializationError {
		return 0, 0
	}
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}

	r := newLSBBitReader(source)
	r.restore(c.accData, c.accBits)
	dst := dest
	status := StatusOk

	// Expansion bytes held over from a destination-limited call go out
	// before any new code is read.
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
		case code == c.clear:
			c.resetTable()
			continue loop

		case code == c.eoi:
			break loop

		case c.oldCode == noCode:
			// First data code since a clear: emit it directly.
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
			// code == free_code is the classic KwKwK case: the table entry
			// doesn't exist yet, so walk oldCode's chain instead and append
			// oldCode's own first byte as the trailing repeat.
			kwkwk := code == c.free
			walk := code
			if kwkwk {
				walk = uint32(c.oldCode)
			}

			sp := 0
			for walk >= c.clear {
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

			if !c.maxCode {
				c.prefix[c.free] = c.oldCode
				c.suffix[c.free] = c.firstCh
			}
			if c.free == c.mask {
				if c.codeSize < 12 {
					c.codeSize++
					c.mask = (uint32(1) << uint(c.codeSize)) - 1
				} else {
					c.maxCode = true
				}
			}
			if c.free < 4095 {
				c.free++
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
	registerFormat(FormatGIFLZW, func() Codec { return NewGIFLZW(8) })
}
