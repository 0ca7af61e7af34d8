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

func init() {
	registerFormat(FormatVDAT, func() Codec { return NewVDAT() })
}

// VDAT implements the Amiga VDAT split-stream codec. The stream
// opens with a big-endian u16 giving the command-byte count minus 2,
// followed by that many signed command bytes, followed by a big-endian
// 16-bit data-word stream consumed as the commands are executed:
//
//   - cmd == 0: the next data word is a count; emit that many following
//     data words literally.
//   - cmd == 1: the next data word is a count; emit one further data word
//     replicated that many times.
//   - cmd < 0: emit -cmd data words literally.
//   - cmd >= 2: emit cmd copies of one data word.
//
// The boundary between the "replicate a count word" special case and the
// general positive-repeat case is cmd >= 2.
type VDAT struct {
	base
	noEncoder
	noDecodeEnd
}

// NewVDAT constructs a ready-to-use VDAT codec.
func NewVDAT() *VDAT { return &VDAT{base: newBase()} }

// DecodeInit resets status to Ok.
func (c *VDAT) DecodeInit() { c.status = StatusOk }

func readWord16(src []byte) (uint16, bool) {
	if len(src) < 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(src), true
}

// Decode expands a VDAT split stream from source into dest.
func (c *VDAT) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}
	if len(source) < 2 {
		c.status = StatusNotEnoughInput
		c.compressedAvailable = len(source)
		return 0, 0
	}

	header, _ := readWord16(source)
	n := int(header) + 2
	rest := source[2:]
	if n > len(rest) {
		c.status = StatusNotEnoughInput
		c.compressedAvailable = len(source)
		return 0, 0
	}
	cmdBytes := rest[:n]
	data := rest[n:]
	dst := dest
	status := StatusOk

loop:
	for i := 0; i < len(cmdBytes); i++ {
		cmd := int8(cmdBytes[i])

		switch {
		case cmd == 0:
			countWord, ok := readWord16(data)
			if !ok {
				status = StatusNotEnoughInput
				break loop
			}
			data = data[2:]
			count := int(countWord)
			avail := min(count, len(dst)/2, len(data)/2)
			for j := 0; j < avail; j++ {
				w, _ := readWord16(data)
				binary.BigEndian.PutUint16(dst, w)
				dst = dst[2:]
				data = data[2:]
			}
			if avail < count {
				if len(dst) < 2 {
					status = StatusOutputBufferTooSmall
				} else {
					status = StatusNotEnoughInput
				}
				break loop
			}

		case cmd == 1:
			countWord, ok := readWord16(data)
			if !ok {
				status = StatusNotEnoughInput
				break loop
			}
			data = data[2:]
			value, ok := readWord16(data)
			if !ok {
				status = StatusNotEnoughInput
				break loop
			}
			data = data[2:]
			count := int(countWord)
			if count*2 > len(dst) {
				count = len(dst) / 2
				status = StatusOutputBufferTooSmall
			}
			for j := 0; j < count; j++ {
				binary.BigEndian.PutUint16(dst[j*2:j*2+2], value)
			}
			dst = dst[count*2:]
			if status == StatusOutputBufferTooSmall {
				break loop
			}

		case cmd < 0:
			count := int(-cmd)
			avail := min(count, len(dst)/2, len(data)/2)
			for j := 0; j < avail; j++ {
				w, _ := readWord16(data)
				binary.BigEndian.PutUint16(dst, w)
				dst = dst[2:]
				data = data[2:]
			}
			if avail < count {
				if len(dst) < 2 {
					status = StatusOutputBufferTooSmall
				} else {
					status = StatusNotEnoughInput
				}
				break loop
			}

		default: // cmd >= 2
			value, ok := readWord16(data)
			if !ok {
				status = StatusNotEnoughInput
				break loop
			}
			data = data[2:]
			count := int(cmd)
			if count*2 > len(dst) {
				count = len(dst) / 2
				status = StatusOutputBufferTooSmall
			}
			for j := 0; j < count; j++ {
				binary.BigEndian.PutUint16(dst[j*2:j*2+2], value)
			}
			dst = dst[count*2:]
			if status == StatusOutputBufferTooSmall {
				break loop
			}
		}
	}

	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = len(data)
	c.status = status
	return len(source) - len(data), c.decompressedBytes
}
