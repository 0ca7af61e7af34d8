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

// CCITT options bits. CCITTOptionByteAlignEOL expects each EOL code to be
// preceded by zero fill bits so the code ends on a byte boundary.
// CCITTOptionUncompressed is accepted for streams that advertise the T.4
// uncompressed extension, but the extension itself is not decoded: a row
// entering it hits an unrecognized code and ends via the EOL resync path.
const (
	CCITTOption2D           uint8 = 1 << 0
	CCITTOptionUncompressed uint8 = 1 << 1
	CCITTOptionByteAlignEOL uint8 = 1 << 2
)

// ccittMode tags a decoded 2-D mode code.
type ccittMode int

const (
	ccittModeInvalid ccittMode = iota
	ccittModeEOL
	ccittModePass
	ccittModeHoriz
	ccittModeV0
	ccittModeVR1
	ccittModeVR2
	ccittModeVR3
	ccittModeVL1
	ccittModeVL2
	ccittModeVL3
)

const ccittMaxModeBits = 12

type ccittModeEntry struct {
	mode ccittMode
	bits uint8
	code uint16
}

var ccittModeCodes = []ccittModeEntry{
	{ccittModeV0, 1, 0x1},
	{ccittModeHoriz, 3, 0x1},
	{ccittModeVR1, 3, 0x3},
	{ccittModeVL1, 3, 0x2},
	{ccittModePass, 4, 0x1},
	{ccittModeVR2, 6, 0x3},
	{ccittModeVL2, 6, 0x2},
	{ccittModeVR3, 7, 0x3},
	{ccittModeVL3, 7, 0x2},
	{ccittModeEOL, 12, 0x1},
}

type ccittModeTable struct {
	mode [1 << ccittMaxModeBits]ccittMode
	bits [1 << ccittMaxModeBits]uint8
}

func buildCCITTModeTable() *ccittModeTable {
	t := &ccittModeTable{}
	for _, e := range ccittModeCodes {
		shift := uint(ccittMaxModeBits) - uint(e.bits)
		base := uint32(e.code) << shift
		span := uint32(1) << shift
		for i := uint32(0); i < span; i++ {
			t.mode[base+i] = e.mode
			t.bits[base+i] = e.bits
		}
	}
	return t
}

var ccittModeLookup = buildCCITTModeTable()

func (t *ccittModeTable) decode(r *msbBitReader) (ccittMode, bool) {
	code, ok := r.peek(ccittMaxModeBits)
	if !ok {
		for n := ccittMaxModeBits - 1; n >= 1; n-- {
			c, pOK := r.peek(n)
			if !pOK {
				continue
			}
			idx := c << uint(ccittMaxModeBits-n)
			if t.mode[idx] != ccittModeInvalid && int(t.bits[idx]) <= n {
				r.consume(int(t.bits[idx]))
				return t.mode[idx], true
			}
		}
		return ccittModeInvalid, false
	}
	m := t.mode[code]
	if m == ccittModeInvalid {
		return ccittModeInvalid, false
	}
	r.consume(int(t.bits[code]))
	return m, true
}

// CCITT implements the Group 3 1-D/2-D and Modified-Huffman fax decoders.
// Pixels decode into a 1-bit-per-pixel packed row (0 = white, 1 =
// black), whole rows only: a Decode call decodes as many complete rows as
// dest has room for; a call that cannot fit one more complete row reports
// OutputBufferTooSmall without starting it.
//
// The decoder is resumable: rows rarely end on a byte boundary, so the bit
// cursor (leftover accumulator bits plus the absolute stream offset)
// persists between Decode calls and the next call picks up mid-byte where
// the previous one stopped.
type CCITT struct {
	base
	noEncoder

	width           int
	options         uint8
	swapBits        bool
	wordAligned     bool
	strictRunLength bool

	accData       uint32
	accBits       int
	consumedTotal int

	refLine []int
	curLine []int
}

// NewCCITT constructs a fax decoder for the given line width (in pixels)
// and options bits (CCITTOption2D / CCITTOptionUncompressed /
// CCITTOptionByteAlignEOL). strictRunLength selects between the two
// documented behaviors for an over-long fill_run: false (default) clamps
// silently, true reports InvalidInput.
func NewCCITT(width int, options uint8, swapBits, wordAligned, strictRunLength bool) *CCITT {
	c := &CCITT{base: newBase(), width: width, options: options,
		swapBits: swapBits, wordAligned: wordAligned, strictRunLength: strictRunLength}
	if width <= 0 {
		c.status = StatusInitializationError
	} else {
		c.status = StatusUninitialized
	}
	return c
}

// DecodeInit resets the reference line to an all-white row, as required
// before decoding the first row of a page, and clears the persisted bit
// cursor.
func (c *CCITT) DecodeInit() {
	if c.status == StatusInitializationError {
		return
	}
	c.refLine = nil
	c.accData, c.accBits = 0, 0
	c.consumedTotal = 0
	c.status = StatusOk
}

// DecodeEnd releases the reference-line state and the bit cursor.
func (c *CCITT) DecodeEnd() {
	c.refLine = nil
	c.curLine = nil
	c.accData, c.accBits = 0, 0
	c.consumedTotal = 0
}

func (c *CCITT) rowBytes() int {
	n := (c.width + 7) / 8
	if c.wordAligned && n%2 != 0 {
		n++
	}
	return n
}

// maybeSwap reverses bit order within every byte of buf when swapBits is
// set, applying the reverseBitsTable lookup to the input once up front.
func (c *CCITT) maybeSwap(buf []byte) []byte {
	if !c.swapBits {
		return buf
	}
	out := make([]byte, len(buf))
	for i, b := range buf {
		out[i] = reverseBitsTable[b]
	}
	return out
}

// Decode expands CCITT fax rows from source into dest, one complete row at
// a time.
func (c *CCITT) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if c.status == StatusInitializationError {
		return 0, 0
	}
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}

	src := c.maybeSwap(source)
	r := newMSBBitReader(src)
	r.restore(c.accData, c.accBits)
	dst := dest
	rb := c.rowBytes()
	status := StatusOk

	if len(dst) < rb {
		c.decompressedBytes = 0
		c.compressedAvailable = len(source)
		c.status = StatusOutputBufferTooSmall
		return 0, 0
	}

loop:
	for len(dst) >= rb {
		c.skipEOLs(r)
		if r.bytesRemaining() == 0 && r.bits == 0 {
			break loop
		}

		row := make([]byte, rb)
		twoD := c.options&CCITTOption2D != 0

		var res rowResult
		if twoD {
			res = c.decode2DRow(r, row)
		} else {
			res = c.decode1DRow(r, row)
		}
		switch res {
		case rowSkip:
			continue loop
		case rowDry:
			status = StatusNotEnoughInput
			break loop
		case rowBad:
			status = StatusInvalidInput
			break loop
		}

		copy(dst[:rb], row)
		dst = dst[rb:]
		c.refLine = c.curLine
		c.alignRow(r, len(src))
	}

	c.accData, c.accBits = r.save()
	consumed := len(source) - r.bytesRemaining()
	c.consumedTotal += consumed
	c.decompressedBytes = len(dest) - len(dst)
	c.compressedAvailable = r.bytesRemaining()
	c.status = status
	return consumed, c.decompressedBytes
}

// alignRow discards the bit padding between rows: every row restarts on a
// byte boundary, and MH with wordAligned restarts on an even byte offset in
// the input stream.
func (c *CCITT) alignRow(r *msbBitReader, sourceLen int) {
	if n := r.bits % 8; n != 0 {
		r.consume(n)
	}
	if c.wordAligned && c.options&CCITTOption2D == 0 {
		off := c.consumedTotal + (sourceLen - r.bytesRemaining()) - r.bits/8
		if off%2 != 0 {
			// One pad byte lands the cursor on an even offset.
			_, _ = r.read(8)
		}
	}
}

// skipEOLs consumes any EOL sync codes (and, per MH convention, simply
// leaves row decoding to start wherever the stream currently sits when no
// EOL is present). With byte-aligned EOLs, up to 7 zero fill bits may pad
// each EOL so the code ends on a byte boundary; those are absorbed along
// with it.
func (c *CCITT) skipEOLs(r *msbBitReader) {
	for {
		if code, ok := r.peek(12); ok && code == 0x001 {
			r.consume(12)
			continue
		}
		if c.options&CCITTOptionByteAlignEOL == 0 {
			return
		}
		matched := false
		for fill := 1; fill <= 7; fill++ {
			code, ok := r.peek(12 + fill)
			if !ok {
				break
			}
			// A match means the leading fill bits are all zero and the low
			// 12 bits are the EOL code.
			if code == 0x001 {
				r.consume(12 + fill)
				matched = true
				break
			}
		}
		if !matched {
			return
		}
	}
}

// resyncToEOL discards bits until the 12-bit EOL code is next in the
// stream, or the input runs dry.
func (c *CCITT) resyncToEOL(r *msbBitReader) {
	for {
		code, ok := r.peek(12)
		if !ok {
			for {
				if _, ok := r.read(1); !ok {
					return
				}
			}
		}
		if code == 0x001 {
			return
		}
		r.consume(1)
	}
}

// rowResult classifies one row-decode attempt. An invalid bit sequence
// after part of the row has been produced ends that row (the decoder
// resyncs on the next EOL); the same failure before anything was produced
// is leading garbage, which yields rowSkip so the caller rescans from the
// resynced position instead of emitting a spurious blank row. Only input
// exhaustion and strict-mode rejection surface out of the row decoders.
type rowResult int

const (
	rowDone rowResult = iota
	rowSkip
	rowDry
	rowBad
)

func setRunBits(row []byte, pos, length int, black bool) {
	if !black {
		return
	}
	end := pos + length
	for i := pos; i < end && i/8 < len(row); i++ {
		row[i/8] |= 1 << uint(7-i%8)
	}
}

// decode1DRow decodes one Modified-Huffman row into row: alternating
// white/black runs, starting with white, until the row is fully written.
func (c *CCITT) decode1DRow(r *msbBitReader, row []byte) rowResult {
	pos := 0
	black := false
	var transitions []int

	for pos < c.width {
		table := ccittWhiteTable
		if black {
			table = ccittBlackTable
		}

		total := 0
		for {
			run, ok := table.decode(r)
			if !ok {
				// A failed full-width peek means the stream ended mid-code;
				// a full window matching no code is an invalid sequence,
				// which ends the row and resyncs on the next EOL.
				if _, full := r.peek(ccittMaxCodeBits); !full {
					return rowDry
				}
				c.resyncToEOL(r)
				if pos == 0 && len(transitions) == 0 {
					return rowSkip
				}
				c.curLine = transitions
				return rowDone
			}
			if run == ccittRunEOL {
				// EOL mid-row ends the row; the remainder stays white.
				c.curLine = transitions
				return rowDone
			}
			total += run
			if run < 64 {
				break
			}
		}

		if pos+total > c.width {
			if c.strictRunLength {
				return rowBad
			}
			total = c.width - pos
		}
		setRunBits(row, pos, total, black)
		pos += total
		transitions = append(transitions, pos)
		black = !black
	}

	c.curLine = transitions
	return rowDone
}

// decode2DRow decodes one Group 3 2-D row using Pass/Horizontal/Vertical
// modes against the previous row's changing elements.
func (c *CCITT) decode2DRow(r *msbBitReader, row []byte) rowResult {
	a0 := -1
	black := false
	var transitions []int

	findB1B2 := func() (b1, b2 int) {
		idx := 0
		for idx < len(c.refLine) && c.refLine[idx] <= a0 {
			idx++
		}
		// refLine[i] has color black if i is even (line starts white).
		colorAtIdx := func(i int) bool { return i%2 == 0 }
		if idx < len(c.refLine) && colorAtIdx(idx) == black {
			idx++
		}
		if idx < len(c.refLine) {
			b1 = c.refLine[idx]
		} else {
			b1 = c.width
		}
		if idx+1 < len(c.refLine) {
			b2 = c.refLine[idx+1]
		} else {
			b2 = c.width
		}
		return b1, b2
	}

	for a0 < c.width {
		mode, ok := ccittModeLookup.decode(r)
		if !ok {
			if _, full := r.peek(ccittMaxModeBits); !full {
				return rowDry
			}
			c.resyncToEOL(r)
			if a0 < 0 && len(transitions) == 0 {
				return rowSkip
			}
			c.curLine = transitions
			return rowDone
		}

		b1, b2 := findB1B2()
		start := a0
		if start < 0 {
			start = 0
		}

		switch mode {
		case ccittModeEOL:
			// EOL mid-row ends the row; the remainder stays white.
			c.curLine = transitions
			return rowDone

		case ccittModePass:
			setRunBits(row, start, b2-start, black)
			a0 = b2
			// Pass mode records no changing element of its own.

		case ccittModeHoriz:
			run1, ok1 := decodeRun(r, black)
			run2, ok2 := decodeRun(r, !black)
			if !ok1 || !ok2 {
				if _, full := r.peek(ccittMaxCodeBits); !full {
					return rowDry
				}
				c.resyncToEOL(r)
				if a0 < 0 && len(transitions) == 0 {
					return rowSkip
				}
				c.curLine = transitions
				return rowDone
			}
			if c.strictRunLength && (start+run1+run2 > c.width) {
				return rowBad
			}
			run1 = min(run1, c.width-start)
			setRunBits(row, start, run1, black)
			a1 := start + run1
			run2 = min(run2, c.width-a1)
			setRunBits(row, a1, run2, !black)
			a2 := a1 + run2
			transitions = append(transitions, a1, a2)
			a0 = a2

		case ccittModeV0, ccittModeVR1, ccittModeVR2, ccittModeVR3,
			ccittModeVL1, ccittModeVL2, ccittModeVL3:
			var offset int
			switch mode {
			case ccittModeVR1:
				offset = 1
			case ccittModeVR2:
				offset = 2
			case ccittModeVR3:
				offset = 3
			case ccittModeVL1:
				offset = -1
			case ccittModeVL2:
				offset = -2
			case ccittModeVL3:
				offset = -3
			}
			a1 := b1 + offset
			a1 = max(a1, start)
			a1 = min(a1, c.width)
			setRunBits(row, start, a1-start, black)
			transitions = append(transitions, a1)
			a0 = a1
			black = !black

		default:
			c.resyncToEOL(r)
			if a0 < 0 && len(transitions) == 0 {
				return rowSkip
			}
			c.curLine = transitions
			return rowDone
		}
	}

	c.curLine = transitions
	return rowDone
}

// decodeRun accumulates one run (terminating plus any makeup codes) of the
// given color.
func decodeRun(r *msbBitReader, black bool) (int, bool) {
	table := ccittWhiteTable
	if black {
		table = ccittBlackTable
	}
	total := 0
	for {
		run, ok := table.decode(r)
		if !ok || run == ccittRunEOL {
			return 0, false
		}
		total += run
		if run < 64 {
			return total, true
		}
	}
}

func init() {
	registerFormat(FormatCCITTFax3, func() Codec {
		return NewCCITT(1728, CCITTOption2D, false, false, false)
	})
	registerFormat(FormatCCITTMH, func() Codec {
		return NewCCITT(1728, 0, false, false, false)
	})
}
