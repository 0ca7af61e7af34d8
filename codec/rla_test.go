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

func TestRLARunAndLiteral(t *testing.T) {
	c := NewRLA()
	c.DecodeInit()
	source := []byte{0x02, 0x07, 0xFD, 0x01, 0x02, 0x03} // n=2: run of 3 of 0x07; n=-3: literal 3 bytes
	dest := make([]byte, 6)

	consumed, produced := c.Decode(source, dest)
	want := []byte{0x07, 0x07, 0x07, 0x01, 0x02, 0x03}
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

func TestRLAOutputBufferTooSmall(t *testing.T) {
	c := NewRLA()
	c.DecodeInit()
	source := []byte{0x09, 0xAA} // run of 10
	dest := make([]byte, 4)
	_, produced := c.Decode(source, dest)
	if produced != 4 {
		t.Fatalf("produced = %d, want 4", produced)
	}
	if c.Status() != StatusOutputBufferTooSmall {
		t.Fatalf("status = %q, want OutputBufferTooSmall", c.Status())
	}
}

func TestRLANotEnoughInputOnLiteral(t *testing.T) {
	c := NewRLA()
	c.DecodeInit()
	source := []byte{0xFC, 0x01} // n=-4: literal of 4 bytes, only 1 supplied
	dest := make([]byte, 10)
	_, produced := c.Decode(source, dest)
	if produced != 1 {
		t.Fatalf("produced = %d, want 1", produced)
	}
	if c.Status() != StatusNotEnoughInput {
		t.Fatalf("status = %q, want NotEnoughInput", c.Status())
	}
}

func FuzzRLADecode(f *testing.F) {
	f.Add([]byte{0x02, 0x07, 0xFD, 0x01, 0x02, 0x03}, 6)
	f.Add([]byte{0x00}, 1)
	f.Add([]byte{}, 4)

	f.Fuzz(func(t *testing.T, source []byte, destLen int) {
		if destLen < 0 || destLen > 1<<16 {
			return
		}
		c := NewRLA()
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
