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

// TestPCXWorkedExample decodes a run, a literal byte and another run.
func TestPCXWorkedExample(t *testing.T) {
	c := NewPCX()
	c.DecodeInit()
	source := []byte{0xC3, 0x55, 0x07, 0xC2, 0xAA}
	dest := make([]byte, 6)

	consumed, produced := c.Decode(source, dest)
	want := []byte{0x55, 0x55, 0x55, 0x07, 0xAA, 0xAA}
	if !bytes.Equal(dest, want) {
		t.Fatalf("dest = %v, want %v", dest, want)
	}
	if consumed != len(source) || produced != 6 {
		t.Fatalf("consumed=%d produced=%d, want %d, 6", consumed, produced, len(source))
	}
	if c.Status() != StatusOk {
		t.Fatalf("status = %q, want Ok", c.Status())
	}
}

func TestPCXZeroCountRunSkipped(t *testing.T) {
	c := NewPCX()
	c.DecodeInit()
	source := []byte{0xC0, 0x41} // run header with count 0, then literal 'A'
	dest := make([]byte, 1)
	_, produced := c.Decode(source, dest)
	if produced != 1 || !bytes.Equal(dest, []byte{0x41}) {
		t.Fatalf("dest = %v produced=%d, want [0x41], 1", dest, produced)
	}
}

func TestPCXOutputBufferTooSmall(t *testing.T) {
	c := NewPCX()
	c.DecodeInit()
	source := []byte{0xCA, 0xFF} // run of 10 copies
	dest := make([]byte, 3)
	_, produced := c.Decode(source, dest)
	if produced != 3 {
		t.Fatalf("produced = %d, want 3", produced)
	}
	if c.Status() != StatusOutputBufferTooSmall {
		t.Fatalf("status = %q, want OutputBufferTooSmall", c.Status())
	}
}

func TestPCXNotEnoughInput(t *testing.T) {
	c := NewPCX()
	c.DecodeInit()
	source := []byte{0xC5} // run header, payload byte missing
	dest := make([]byte, 10)
	_, produced := c.Decode(source, dest)
	if produced != 0 {
		t.Fatalf("produced = %d, want 0", produced)
	}
	if c.Status() != StatusNotEnoughInput {
		t.Fatalf("status = %q, want NotEnoughInput", c.Status())
	}
}

func FuzzPCXDecode(f *testing.F) {
	f.Add([]byte{0xC3, 0x55, 0x07, 0xC2, 0xAA}, 6)
	f.Add([]byte{0xC0}, 1)
	f.Add([]byte{}, 4)

	f.Fuzz(func(t *testing.T, source []byte, destLen int) {
		if destLen < 0 || destLen > 1<<16 {
			return
		}
		c := NewPCX()
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
