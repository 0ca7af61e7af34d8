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

import "fmt"

// photocdRangeLimit saturates addend arithmetic: 256 zeros, then 0..255,
// then 256 copies of 255. The identity run starts at index 256, so a
// current+key sum s reads t[256+s] and any sum outside [0,255] clamps
// instead of wrapping.
var photocdRangeLimit = func() [768]byte {
	var t [768]byte
	for i := 0; i < 256; i++ {
		t[256+i] = byte(i)
		t[512+i] = 255
		// t[i] (the first third) is left at its zero value.
	}
	return t
}()

func clampPhotoCD(cur byte, key int8) byte {
	return photocdRangeLimit[256+int(cur)+int(key)]
}

// pcdHuffEntry is one Huffman table entry: a code of length bits,
// left-justified in a 16-bit sequence, plus the signed addend it decodes to.
type pcdHuffEntry struct {
	length   uint8
	sequence uint16
	key      int8
}

// pcdHuffTable is one plane's Huffman table. Tables are tiny (17 entries),
// so codes are matched by linear scan rather than a lookup array.
type pcdHuffTable struct {
	entries []pcdHuffEntry
}

// match finds the entry whose top `length` bits equal the top `length` bits
// of the next 16 bits of the stream, without consuming anything.
func (t *pcdHuffTable) match(window16 uint32) (pcdHuffEntry, bool) {
	w := uint16(window16)
	for _, e := range t.entries {
		shift := 16 - uint(e.length)
		if w>>shift == e.sequence>>shift {
			return e, true
		}
	}
	return pcdHuffEntry{}, false
}

// buildCanonicalPCDTable assigns canonical (DEFLATE-style, RFC 1951 §3.2.2)
// prefix codes from a list of (key, length) pairs, emitting a flat,
// linearly-scanned entry list.
func buildCanonicalPCDTable(keys []int8, lengths []uint8) []pcdHuffEntry {
	maxLen := 0
	for _, l := range lengths {
		maxLen = max(maxLen, int(l))
	}
	blCount := make([]int, maxLen+1)
	for _, l := range lengths {
		blCount[l]++
	}
	nextCode := make([]int, maxLen+1)
	code := 0
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}
	entries := make([]pcdHuffEntry, len(keys))
	for i, l := range lengths {
		c := nextCode[l]
		nextCode[l]++
		entries[i] = pcdHuffEntry{
			length:   l,
			sequence: uint16(c) << (16 - l),
			key:      keys[i],
		}
	}
	return entries
}

// defaultPCDKeys/defaultPCDLengths build the default per-plane delta table:
// 17 symbols (zero plus +-1..+-8) with a complete canonical code (lengths
// 1..16 once each, plus one extra symbol at length 16 — Kraft sum exactly
// 1). This is a synthetic default, not Kodak's codebook; real PCD files
// carry their tables in the file header, which is the format driver's
// concern.
var defaultPCDKeys = []int8{0, 1, -1, 2, -2, 3, -3, 4, -4, 5, -5, 6, -6, 7, -7, 8, -8}
var defaultPCDLengths = []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 16}

func newDefaultPCDTable() *pcdHuffTable {
	return &pcdHuffTable{entries: buildCanonicalPCDTable(defaultPCDKeys, defaultPCDLengths)}
}

// photocdSyncPrefix24 and photocdSyncMarker32 are the two sync patterns,
// scanned for bit-by-bit (not byte-aligned).
const (
	photocdSyncPrefix24 = 0x00FFF000
	photocdSyncMarker32 = 0xFFFFFE00
)

// PhotoCD implements the Kodak Photo-CD planar Huffman decoder. It
// decodes a bit-level stream of row/plane-tagged Huffman-coded pixel deltas
// into three separate destination planes: luma (Y) at the full width/height,
// and two chroma planes (Cb, Cr) subsampled by 2 vertically (destination row
// index row>>1).
//
// Unlike every other codec in this package, Photo-CD's natural shape is
// three destination buffers, not one — DecodePlanes is the primary entry
// point; Decode (required by the Codec interface) adapts it to a single
// concatenated destination buffer sized via PlaneSizes.
type PhotoCD struct {
	base
	noEncoder

	width, height int
	tables        [3]*pcdHuffTable // Y, Cb, Cr

	yRowSeen []bool
	yRows    int
}

// NewPhotoCD constructs a Photo-CD decoder for the given pixel dimensions.
// Three independent Huffman tables are built when width > 1536;
// otherwise a single table is shared across all three planes. width and
// height must both be > 0.
func NewPhotoCD(width, height int) *PhotoCD {
	c := &PhotoCD{base: newBase(), width: width, height: height}
	if width <= 0 || height <= 0 {
		c.status = StatusInitializationError
		return c
	}
	c.status = StatusUninitialized
	if width > 1536 {
		c.tables[0] = newDefaultPCDTable()
		c.tables[1] = newDefaultPCDTable()
		c.tables[2] = newDefaultPCDTable()
	} else {
		shared := newDefaultPCDTable()
		c.tables[0], c.tables[1], c.tables[2] = shared, shared, shared
	}
	return c
}

// SetPlaneTable replaces the Huffman table for one plane with a
// caller-supplied (key, code length) list, as read from a PCD file header by
// the format driver. plane uses the stream's numbering: 0 selects Y, 2
// selects Cb, 3 selects Cr; anything else returns ErrInvalidPlane. A table
// with no entries, mismatched slice lengths, or an entry whose code length
// is zero or exceeds MaxPhotoCDHuffmanEntryLength returns
// ErrMalformedHuffmanTable and leaves the current table in place.
func (c *PhotoCD) SetPlaneTable(plane int, keys []int8, lengths []uint8) error {
	var idx int
	switch plane {
	case 0:
		idx = 0
	case 2:
		idx = 1
	case 3:
		idx = 2
	default:
		return fmt.Errorf("%w: %d", ErrInvalidPlane, plane)
	}
	if len(keys) == 0 || len(keys) != len(lengths) {
		return fmt.Errorf("%w: %d keys, %d lengths", ErrMalformedHuffmanTable, len(keys), len(lengths))
	}
	for _, l := range lengths {
		if l == 0 || int(l) > MaxPhotoCDHuffmanEntryLength {
			return fmt.Errorf("%w: code length %d", ErrMalformedHuffmanTable, l)
		}
	}
	c.tables[idx] = &pcdHuffTable{entries: buildCanonicalPCDTable(keys, lengths)}
	return nil
}

// PlaneSizes reports the byte length of the Y plane and of each chroma
// plane (Cb and Cr share a size), for callers using the concatenated-buffer
// Decode entry point.
func (c *PhotoCD) PlaneSizes() (ySize, chromaSize int) {
	return c.width * c.height, c.width * ((c.height + 1) / 2)
}

// DecodeInit resets the row-completion tracker; the Huffman tables are left
// as they are (the defaults, or whatever SetPlaneTable last installed).
func (c *PhotoCD) DecodeInit() {
	if c.status == StatusInitializationError {
		return
	}
	c.yRowSeen = make([]bool, c.height)
	c.yRows = 0
	c.status = StatusOk
}

// DecodeEnd releases the row-completion tracker.
func (c *PhotoCD) DecodeEnd() {
	c.yRowSeen = nil
	c.yRows = 0
}

// Decode adapts DecodePlanes to the uniform two-slice Decoder contract:
// dest is the concatenation of the Y, Cb and Cr planes in that order, sized
// per PlaneSizes.
func (c *PhotoCD) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	ySize, cSize := c.PlaneSizes()
	if !c.checkSizes(len(source), ySize+2*cSize) {
		return 0, 0
	}
	if len(dest) < ySize+2*cSize {
		c.status = StatusOutputBufferTooSmall
		return 0, 0
	}
	y := dest[:ySize]
	cb := dest[ySize : ySize+cSize]
	cr := dest[ySize+cSize : ySize+2*cSize]
	return c.DecodePlanes(source, y, cb, cr)
}

// DecodePlanes decodes source into the three caller-owned planes,
// each sized per PlaneSizes. It returns the same (bytesConsumed,
// bytesProduced) accounting as Decode; bytesProduced counts pixels written
// across all three planes combined.
func (c *PhotoCD) DecodePlanes(source, y, cb, cr []byte) (bytesConsumed, bytesProduced int) {
	if c.status == StatusInitializationError {
		return 0, 0
	}
	ySize, cSize := c.PlaneSizes()
	if len(y) < ySize || len(cb) < cSize || len(cr) < cSize {
		c.status = StatusOutputBufferTooSmall
		return 0, 0
	}
	if len(source) == 0 {
		c.status = StatusNotEnoughInput
		return 0, 0
	}
	if c.yRowSeen == nil {
		c.yRowSeen = make([]bool, c.height)
	}

	r := newMSBBitReader(source)
	status := StatusOk
	written := 0

rowLoop:
	for c.yRows < c.height {
		row, plane, ok := c.syncToRowHeader(r)
		if !ok {
			status = StatusNotEnoughInput
			break rowLoop
		}
		if row >= c.height {
			status = StatusInvalidInput
			break rowLoop
		}

		var dstRow []byte
		var table *pcdHuffTable
		switch plane {
		case 0:
			dstRow = y[row*c.width : row*c.width+c.width]
			table = c.tables[0]
		case 2, 3:
			crow := row >> 1
			if crow*c.width+c.width > cSize {
				status = StatusInvalidInput
				break rowLoop
			}
			if plane == 2 {
				dstRow = cb[crow*c.width : crow*c.width+c.width]
				table = c.tables[1]
			} else {
				dstRow = cr[crow*c.width : crow*c.width+c.width]
				table = c.tables[2]
			}
		default:
			status = StatusInvalidInput
			break rowLoop
		}

		col := 0
	symbolLoop:
		for col < c.width {
			window, pok := r.peek(16)
			if !pok {
				status = StatusNotEnoughInput
				break rowLoop
			}
			entry, found := table.match(window)
			if !found {
				// No entry matches: resync on the next sync marker rather
				// than aborting the whole decode.
				break symbolLoop
			}
			r.consume(int(entry.length))
			dstRow[col] = clampPhotoCD(dstRow[col], entry.key)
			written++
			col++
		}

		if col == c.width && plane == 0 && !c.yRowSeen[row] {
			c.yRowSeen[row] = true
			c.yRows++
		}
	}

	c.decompressedBytes = written
	c.compressedAvailable = r.bytesRemaining()
	c.status = status
	return len(source) - r.bytesRemaining(), written
}

// syncToRowHeader scans the bit stream for the two-part sync sequence
// (a 24-bit 0x00FFF000 prefix, then a 32-bit 0xFFFFFE00 marker) and
// decodes the row (13 bits) and plane (2 bits) that follow. It consumes one
// bit at a time, since the sync markers are not byte-aligned in general.
func (c *PhotoCD) syncToRowHeader(r *msbBitReader) (row, plane int, ok bool) {
	window := uint32(0)
	seen := 0
	for {
		bit, rok := r.read(1)
		if !rok {
			return 0, 0, false
		}
		window = ((window << 1) | bit) & 0x00FFFFFF
		seen++
		if seen >= 24 && window == photocdSyncPrefix24 {
			break
		}
	}

	window = 0
	seen = 0
	for {
		bit, rok := r.read(1)
		if !rok {
			return 0, 0, false
		}
		window = (window << 1) | bit
		seen++
		if seen >= 32 && window == photocdSyncMarker32 {
			break
		}
	}

	header, rok := r.read(24)
	if !rok {
		return 0, 0, false
	}
	row = int(header>>11) & 0x1FFF
	plane = int(header>>9) & 0x3
	return row, plane, true
}

func init() {
	registerFormat(FormatPhotoCD, func() Codec { return NewPhotoCD(640, 480) })
}
