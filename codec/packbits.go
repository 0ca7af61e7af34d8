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
	registerFormat(FormatPackbits, func() Codec { return NewPackbits() })
}

// Packbits implements the PackBits packet codec used by PSD and Amiga
// ILBM: a signed header byte n selects a run (n<0: repeat the next byte
// -n+1 times, n=-128 a no-op) or a literal (n>=0: copy the next n+1 bytes).
type Packbits struct {
	base
	noEncoder
	noDecodeEnd

	// UpdateSource and UpdateDest are independent resume-cursor flags.
	// Decode always returns accurate (bytesConsumed, bytesProduced)
	// regardless of these flags; they exist for drivers that inspect them
	// before deciding whether to resume mid-stream.
	UpdateSource bool
	UpdateDest   bool
}

// NewPackbits constructs a ready-to-use PackBits codec.
func NewPackbits() *Packbits {
	return &Packbits{base: newBase()}
}

// DecodeInit resets status to Ok.
func (c *Packbits) DecodeInit() { c.status = StatusOk }

// Decode expands PackBits packets from source into dest.
func (c *Packbits) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}
	src, dst := source, dest
	status := StatusOk

loop:
	for len(src) > 0 && len(dst) > 0 {
		n := int8(src[0])
		src = src[1:]

		switch {
		case n == -128:
			// No-op packet.
			continue loop
		case n < 0:
			count := int(-n) + 1
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
		default:
			count := int(n) + 1
			avail := min(count, len(dst), len(src))
			copy(dst[:avail], src[:avail])
			dst = dst[avail:]
			src = src[avail:]
			switch {
			case avail < count && len(dst) == 0:
				status = StatusOutputBufferTooSmall
				break loop
			case avail < count:
				status = StatusNotEnoughInput
				break loop
			}
		}
	}

	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = len(src)
	c.status = status
	return len(source) - len(src), c.decompressedBytes
}
