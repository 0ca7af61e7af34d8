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

// TestNoCompressionWorkedExample checks that a source
// longer than dest reports NotEnoughInput, keyed off the size comparison,
// not the number of bytes actually moved.
func TestNoCompressionWorkedExample(t *testing.T) {
	c := NewNoCompression()
	c.DecodeInit()
	source := []byte{'A', 'B', 'C', 'D'}
	dest := make([]byte, 2)

	consumed, produced := c.Decode(source, dest)
	if !bytes.Equal(dest, []byte{'A', 'B'}) {
		t.Fatalf("dest = %v, want [A B]", dest)
	}
	if consumed != 2 || produced != 2 {
		t.Fatalf("consumed=%d produced=%d, want 2, 2", consumed, produced)
	}
	if c.Status() != StatusNotEnoughInput {
		t.Fatalf("status = %q, want NotEnoughInput", c.Status())
	}
	if c.CompressedAvailable() != 2 {
		t.Fatalf("compressedAvailable = %d, want 2", c.CompressedAvailable())
	}
}

func TestNoCompressionOutputBufferTooSmall(t *testing.T) {
	c := NewNoCompression()
	c.DecodeInit()
	source := []byte{1, 2}
	dest := make([]byte, 4)
	_, produced := c.Decode(source, dest)
	if produced != 2 {
		t.Fatalf("produced = %d, want 2", produced)
	}
	if c.Status() != StatusOutputBufferTooSmall {
		t.Fatalf("status = %q, want OutputBufferTooSmall", c.Status())
	}
}

func TestNoCompressionExactMatch(t *testing.T) {
	c := NewNoCompression()
	c.DecodeInit()
	source := []byte{1, 2, 3}
	dest := make([]byte, 3)
	consumed, produced := c.Decode(source, dest)
	if consumed != 3 || produced != 3 || c.Status() != StatusOk {
		t.Fatalf("got consumed=%d produced=%d status=%q, want 3,3,Ok", consumed, produced, c.Status())
	}
	if !bytes.Equal(dest, source) {
		t.Fatalf("dest = %v, want %v", dest, source)
	}
}

func TestNoCompressionInvalidBufferSize(t *testing.T) {
	c := NewNoCompression()
	c.DecodeInit()
	consumed, produced := c.Decode(nil, make([]byte, 2))
	if consumed != 0 || produced != 0 {
		t.Fatalf("consumed=%d produced=%d, want 0,0", consumed, produced)
	}
	if c.Status() != StatusInvalidBufferSize {
		t.Fatalf("status = %q, want InvalidBufferSize", c.Status())
	}
}

func TestNoCompressionEncodeIdempotence(t *testing.T) {
	c := NewNoCompression()
	source := []byte{9, 8, 7, 6}
	dest := make([]byte, 4)
	n := c.Encode(source, dest)
	if n != 4 || !bytes.Equal(dest, source) {
		t.Fatalf("Encode produced %v (n=%d), want %v, 4", dest, n, source)
	}
}

func FuzzNoCompressionDecode(f *testing.F) {
	f.Add([]byte("hello"), 3)
	f.Add([]byte{}, 0)
	f.Add([]byte{1, 2, 3, 4}, 10)

	f.Fuzz(func(t *testing.T, source []byte, destLen int) {
		if destLen < 0 || destLen > 1<<16 {
			return
		}
		c := NewNoCompression()
		c.DecodeInit()
		dest := make([]byte, destLen)
		consumed, produced := c.Decode(source, dest)
		if consumed < 0 || consumed > len(source) {
			t.Fatalf("consumed=%d out of range [0,%d]", consumed, len(source))
		}
		if produced < 0 || produced > len(dest) {
			t.Fatalf("produced=%d out of range [0,%d]", produced, len(dest))
		}
		if len(source) > 0 && destLen > 0 && produced+c.CompressedAvailable() != len(source) {
			t.Fatalf("counter law violated: produced=%d compressedAvailable=%d packedSize=%d",
				produced, c.CompressedAvailable(), len(source))
		}
	})
}
