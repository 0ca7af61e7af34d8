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
	"testing"
)

// TestGIFLZWClearThenTwoLiterals hand-packs a minimal LSB-first code stream
// (initial code size 2): clear, code 0, code 1, eoi. Neither data code
// references a table entry that needs building, so this exercises the
// first-code-after-clear path and one plain single-byte expansion.
func TestGIFLZWClearThenTwoLiterals(t *testing.T) {
	c := NewGIFLZW(2)
	c.DecodeInit()
	// codes [4 (clear), 0, 1, 5 (eoi)] packed 3 bits each, LSB-first.
	source := []byte{0x44, 0x0A}
	dest := make([]byte, 2)

	consumed, produced := c.Decode(source, dest)
	if !bytes.Equal(dest, []byte{0, 1}) {
		t.Fatalf("dest = %v, want [0 1]", dest)
	}
	if produced != 2 || consumed != 2 {
		t.Fatalf("consumed=%d produced=%d, want 2, 2", consumed, produced)
	}
	if c.Status() != StatusOk {
		t.Fatalf("status = %q, want Ok", c.Status())
	}
}

// TestGIFLZWOutputFullIsNormal confirms that exiting
// because the output buffer filled, with compressed input still unread, is
// not an error: status stays Ok.
func TestGIFLZWOutputFullIsNormal(t *testing.T) {
	c := NewGIFLZW(2)
	c.DecodeInit()
	source := []byte{0x44, 0x0A} // same stream as above
	dest := make([]byte, 1)      // room for only the first data code
	_, produced := c.Decode(source, dest)
	if produced != 1 {
		t.Fatalf("produced = %d, want 1", produced)
	}
	if c.Status() != StatusOk {
		t.Fatalf("status = %q, want Ok (buffer-full exit is normal)", c.Status())
	}
}

// TestGIFLZWShortDestSplitsExpansion drives the decoder the way a chunked
// scanline driver does: the destination of the first call ends in the middle
// of a multi-byte code expansion, and the second call (with the source
// advanced by the first call's consumed count) must deliver the held-over
// tail and then finish the stream. Codes [4 (clear), 0, 1, 6, 5 (eoi)]:
// code 6 is the two-byte table entry "01" built by the preceding pair.
func TestGIFLZWShortDestSplitsExpansion(t *testing.T) {
	c := NewGIFLZW(2)
	c.DecodeInit()
	// The 3-bit codes above packed LSB-first, plus one pad byte so the
	// stream does not end exactly at the split point.
	source := []byte{0x44, 0x5C, 0x00}

	dest1 := make([]byte, 3)
	consumed1, produced1 := c.Decode(source, dest1)
	if !bytes.Equal(dest1, []byte{0, 1, 0}) {
		t.Fatalf("first call dest = %v, want [0 1 0]", dest1)
	}
	if produced1 != 3 {
		t.Fatalf("first call produced = %d, want 3", produced1)
	}
	if c.Status() != StatusOutputBufferTooSmall {
		t.Fatalf("first call status = %q, want OutputBufferTooSmall", c.Status())
	}

	dest2 := make([]byte, 2)
	_, produced2 := c.Decode(source[consumed1:], dest2)
	if produced2 != 1 || dest2[0] != 1 {
		t.Fatalf("second call produced=%d dest=%v, want the held-over byte 1", produced2, dest2)
	}
	if c.Status() != StatusOk {
		t.Fatalf("second call status = %q, want Ok", c.Status())
	}
}

// TestGIFLZWInvalidCodeAfterClear sends a code that exceeds free_code as the
// very first code after a clear, which must report InvalidInput.
func TestGIFLZWInvalidCodeAfterClear(t *testing.T) {
	c := NewGIFLZW(2)
	c.DecodeInit()
	source := []byte{0x3C} // codes [4 (clear), 7] packed 3 bits each
	dest := make([]byte, 4)
	_, produced := c.Decode(source, dest)
	if produced != 0 {
		t.Fatalf("produced = %d, want 0", produced)
	}
	if c.Status() != StatusInvalidInput {
		t.Fatalf("status = %q, want InvalidInput", c.Status())
	}
}

func TestGIFLZWInitializationError(t *testing.T) {
	c := NewGIFLZW(1)
	if c.Status() != StatusInitializationError {
		t.Fatalf("status = %q, want InitializationError", c.Status())
	}
	c.DecodeInit()
	consumed, produced := c.Decode([]byte{0xFF}, make([]byte, 4))
	if consumed != 0 || produced != 0 {
		t.Fatalf("consumed=%d produced=%d, want 0, 0", consumed, produced)
	}
}

func TestGIFLZWNotEnoughInput(t *testing.T) {
	c := NewGIFLZW(8)
	c.DecodeInit()
	source := []byte{0x80} // 8 bits, one short of the first 9-bit code
	dest := make([]byte, 4)
	_, produced := c.Decode(source, dest)
	if produced != 0 {
		t.Fatalf("produced = %d, want 0", produced)
	}
	if c.Status() != StatusNotEnoughInput {
		t.Fatalf("status = %q, want NotEnoughInput", c.Status())
	}
}

func TestGIFLZWEmptySourceIsInvalidBufferSize(t *testing.T) {
	c := NewGIFLZW(2)
	c.DecodeInit()
	_, produced := c.Decode([]byte{}, make([]byte, 4))
	if produced != 0 {
		t.Fatalf("produced = %d, want 0", produced)
	}
	if c.Status() != StatusInvalidBufferSize {
		t.Fatalf("status = %q, want InvalidBufferSize", c.Status())
	}
}

func FuzzGIFLZWDecode(f *testing.F) {
	f.Add([]byte{0x44, 0x0A}, 2, 2)
	f.Add([]byte{0x3C}, 2, 4)
	f.Add([]byte{}, 8, 16)

	f.Fuzz(func(t *testing.T, source []byte, initialCodeSize int, destLen int) {
		if destLen < 0 || destLen > 1<<16 {
			return
		}
		ics := initialCodeSize%10 - 1 // spans a couple invalid values too
		c := NewGIFLZW(ics)
		c.DecodeInit()
		dest := make([]byte, destLen)
		consumed, produced := c.Decode(source, dest)
		if consumed < 0 || consumed > len(source) {
			t.Fatalf("consumed=%d out of range", consumed)
		}
		if produced < 0 || produced > len(dest) {
			t.Fatalf("produced=%d out of range", produced)
		}
	})
}
