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

import (
	"bytes"
	"errors"
	"testing"
)

// pcdBitWriter packs individual bits MSB-first into a byte slice, mirroring
// the bit order photocdBitReader (msbBitReader) consumes.
type pcdBitWriter struct {
	buf  []byte
	cur  byte
	nbit int
}

func (w *pcdBitWriter) writeBits(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := byte((v >> uint(i)) & 1)
		w.cur = (w.cur << 1) | bit
		w.nbit++
		if w.nbit == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.nbit = 0
		}
	}
}

func (w *pcdBitWriter) bytes() []byte {
	buf := append([]byte(nil), w.buf...)
	if w.nbit > 0 {
		buf = append(buf, w.cur<<uint(8-w.nbit))
	}
	return buf
}

// TestPhotoCDSingleRowAllZero builds a minimal one-row, width-4 Photo-CD
// stream: sync24, sync32, a row/plane header selecting row 0 plane 0 (Y),
// then width symbols each coding the zero delta (the length-1 canonical
// code assigned to key 0 by buildCanonicalPCDTable), and checks the decoded
// Y plane stays all zero and the row-completion counter advances.
func TestPhotoCDSingleRowAllZero(t *testing.T) {
	c := NewPhotoCD(4, 1)
	c.DecodeInit()

	var w pcdBitWriter
	w.writeBits(photocdSyncPrefix24, 24)
	w.writeBits(photocdSyncMarker32, 32)
	// header: row=0 (13 bits), plane=0 (2 bits), 9 trailing bits of padding
	w.writeBits(0, 24)
	for i := 0; i < 4; i++ {
		w.writeBits(0, 1) // key 0, the length-1 canonical code
	}
	// trailing padding so every peek(16) during the last symbol has enough
	// bits buffered without running past the real source.
	w.writeBits(0, 16)

	source := w.bytes()
	y := make([]byte, 4)
	cb := make([]byte, 4)
	cr := make([]byte, 4)

	_, produced := c.DecodePlanes(source, y, cb, cr)
	if c.Status() != StatusOk {
		t.Fatalf("status = %q, want Ok", c.Status())
	}
	if produced != 4 {
		t.Fatalf("produced = %d, want 4", produced)
	}
	if !bytes.Equal(y, []byte{0, 0, 0, 0}) {
		t.Fatalf("y = %v, want all zero", y)
	}
	if c.yRows != 1 {
		t.Fatalf("yRows = %d, want 1", c.yRows)
	}
}

// TestPhotoCDInvalidPlaneAborts checks that a header naming an out-of-range
// plane sets InvalidInput rather
// than panicking or looping.
func TestPhotoCDInvalidPlaneAborts(t *testing.T) {
	c := NewPhotoCD(4, 1)
	c.DecodeInit()

	var w pcdBitWriter
	w.writeBits(photocdSyncPrefix24, 24)
	w.writeBits(photocdSyncMarker32, 32)
	// plane occupies bits 9..10 of the 24-bit header; set it to 1, which
	// maps to no plane (only 0, 2 and 3 do).
	w.writeBits(1<<9, 24)
	w.writeBits(0, 16)

	y := make([]byte, 4)
	cb := make([]byte, 4)
	cr := make([]byte, 4)
	c.DecodePlanes(w.bytes(), y, cb, cr)
	if c.Status() != StatusInvalidInput {
		t.Fatalf("status = %q, want InvalidInput", c.Status())
	}
}

// TestPhotoCDTruncatedStreamReportsNotEnoughInput feeds a stream that ends
// mid-sync-scan and checks the decoder reports NotEnoughInput rather than
// hanging or panicking.
func TestPhotoCDTruncatedStreamReportsNotEnoughInput(t *testing.T) {
	c := NewPhotoCD(4, 1)
	c.DecodeInit()

	source := []byte{0x00, 0xFF} // far short of either sync pattern
	y := make([]byte, 4)
	cb := make([]byte, 4)
	cr := make([]byte, 4)
	_, produced := c.DecodePlanes(source, y, cb, cr)
	if produced != 0 {
		t.Fatalf("produced = %d, want 0", produced)
	}
	if c.Status() != StatusNotEnoughInput {
		t.Fatalf("status = %q, want NotEnoughInput", c.Status())
	}
}

// TestPhotoCDInitializationError checks construction with a non-positive
// dimension leaves the codec permanently in InitializationError.
func TestPhotoCDInitializationError(t *testing.T) {
	c := NewPhotoCD(0, 100)
	if c.Status() != StatusInitializationError {
		t.Fatalf("status = %q, want InitializationError", c.Status())
	}
	c.DecodeInit()
	y := make([]byte, 10)
	cb := make([]byte, 10)
	cr := make([]byte, 10)
	_, produced := c.DecodePlanes([]byte{1, 2, 3}, y, cb, cr)
	if produced != 0 {
		t.Fatalf("produced = %d, want 0", produced)
	}
	if c.Status() != StatusInitializationError {
		t.Fatalf("status = %q, want InitializationError still", c.Status())
	}
}

// TestPhotoCDSetPlaneTable covers the driver-supplied-table path: a valid
// replacement table decodes with its own key assignment, and malformed
// tables or plane numbers are rejected without touching the installed one.
func TestPhotoCDSetPlaneTable(t *testing.T) {
	c := NewPhotoCD(4, 1)
	c.DecodeInit()

	// Two symbols, lengths 1 and 1: complete code, keys +2 and -2.
	if err := c.SetPlaneTable(0, []int8{2, -2}, []uint8{1, 1}); err != nil {
		t.Fatalf("SetPlaneTable: %v", err)
	}

	if err := c.SetPlaneTable(1, []int8{0}, []uint8{1}); !errors.Is(err, ErrInvalidPlane) {
		t.Fatalf("SetPlaneTable(plane 1) error = %v, want ErrInvalidPlane", err)
	}
	if err := c.SetPlaneTable(0, []int8{0}, []uint8{17}); !errors.Is(err, ErrMalformedHuffmanTable) {
		t.Fatalf("SetPlaneTable(length 17) error = %v, want ErrMalformedHuffmanTable", err)
	}
	if err := c.SetPlaneTable(0, []int8{0, 1}, []uint8{1}); !errors.Is(err, ErrMalformedHuffmanTable) {
		t.Fatalf("SetPlaneTable(mismatched lengths) error = %v, want ErrMalformedHuffmanTable", err)
	}

	var w pcdBitWriter
	w.writeBits(photocdSyncPrefix24, 24)
	w.writeBits(photocdSyncMarker32, 32)
	w.writeBits(0, 24) // row 0, plane 0
	for i := 0; i < 4; i++ {
		w.writeBits(0, 1) // code 0 -> key +2 in the replacement table
	}
	w.writeBits(0, 16)

	y := make([]byte, 4)
	cb := make([]byte, 4)
	cr := make([]byte, 4)
	_, produced := c.DecodePlanes(w.bytes(), y, cb, cr)
	if c.Status() != StatusOk {
		t.Fatalf("status = %q, want Ok", c.Status())
	}
	if produced != 4 {
		t.Fatalf("produced = %d, want 4", produced)
	}
	if !bytes.Equal(y, []byte{2, 2, 2, 2}) {
		t.Fatalf("y = %v, want all 2 (key +2 applied once per column)", y)
	}
}

// FuzzPhotoCDDecode checks bounds safety: arbitrary and
// truncated input must never read or write outside the supplied planes.
func FuzzPhotoCDDecode(f *testing.F) {
	f.Add([]byte{0x00, 0xFF, 0xF0, 0x00, 0xFF, 0xFF, 0xFE, 0x00, 0x00, 0x00, 0x00})
	f.Fuzz(func(t *testing.T, data []byte) {
		c := NewPhotoCD(8, 2)
		c.DecodeInit()
		y := make([]byte, 8*2)
		cb := make([]byte, 8*1)
		cr := make([]byte, 8*1)
		c.DecodePlanes(data, y, cb, cr)
	})
}
