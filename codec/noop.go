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
	registerFormat(FormatNoCompression, func() Codec { return NewNoCompression() })
}

// NoCompression is the identity codec: Decode copies
// min(packedSize, unpackedSize) bytes verbatim, and Encode does the same in
// reverse. It exists mainly as a driver fallback for already-uncompressed
// scanlines.
type NoCompression struct {
	base
	noEncoder
	noDecodeEnd
}

// NewNoCompression constructs a ready-to-use no-compression codec.
func NewNoCompression() *NoCompression {
	return &NoCompression{base: newBase()}
}

// DecodeInit resets status to Ok; NoCompression holds no resumable state.
func (c *NoCompression) DecodeInit() { c.setStatus(StatusOk) }

// Decode copies min(len(source), len(dest)) bytes from source to dest. The
// status rule is keyed off the two sizes directly, not off how many bytes
// actually moved: unpackedSize <
// packedSize reports NotEnoughInput (there was more packed data than the
// caller gave room to unpack), unpackedSize > packedSize reports
// OutputBufferTooSmall, and equal sizes report Ok.
func (c *NoCompression) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}
	n := min(len(source), len(dest))
	copy(dest[:n], source[:n])

	c.decompressedBytes = n
	c.compressedAvailable = len(source) - n
	switch {
	case len(dest) < len(source):
		c.status = StatusNotEnoughInput
	case len(dest) > len(source):
		c.status = StatusOutputBufferTooSmall
	default:
		c.status = StatusOk
	}
	return n, n
}

// Encode copies min(len(source), len(dest)) bytes from source to dest and
// returns the count stored; the symmetric no-op of Decode.
func (c *NoCompression) Encode(source, dest []byte) (bytesStored int) {
	n := min(len(source), len(dest))
	copy(dest[:n], source[:n])
	return n
}
