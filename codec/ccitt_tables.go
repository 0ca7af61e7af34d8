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

// ccittMaxCodeBits is the longest run-length code in the ITU-T T.4 tables:
// 13 bits for the longest black makeup codes.
const ccittMaxCodeBits = 13

// ccittRunEOL marks the 12-bit EOL sync code; ccittRunInvalid marks an
// unfilled lookup slot (an invalid bit sequence).
const (
	ccittRunEOL     = -1
	ccittRunInvalid = -2
)

// ccittCodeEntry is one row of a standard CCITT Group 3 run-length code
// table: a run length (or a sentinel), its code length in bits, and the
// code value itself, left-justified conceptually but stored right-aligned.
type ccittCodeEntry struct {
	run  int
	bits uint8
	code uint16
}

// ccittWhiteCodes is the ITU-T T.4 white terminating (0-63) and makeup
// (64-1728) run-length code table.
var ccittWhiteCodes = []ccittCodeEntry{
	{0, 8, 0x35}, {1, 6, 0x07}, {2, 4, 0x07}, {3, 4, 0x08},
	{4, 4, 0x0B}, {5, 4, 0x0C}, {6, 4, 0x0E}, {7, 4, 0x0F},
	{8, 5, 0x13}, {9, 5, 0x14}, {10, 5, 0x07}, {11, 5, 0x08},
	{12, 6, 0x08}, {13, 6, 0x03}, {14, 6, 0x34}, {15, 6, 0x35},
	{16, 6, 0x2A}, {17, 6, 0x2B}, {18, 7, 0x27}, {19, 7, 0x0C},
	{20, 7, 0x08}, {21, 7, 0x17}, {22, 7, 0x03}, {23, 7, 0x04},
	{24, 7, 0x28}, {25, 7, 0x2B}, {26, 7, 0x13}, {27, 7, 0x24},
	{28, 7, 0x18}, {29, 8, 0x02}, {30, 8, 0x03}, {31, 8, 0x1A},
	{32, 8, 0x1B}, {33, 8, 0x12}, {34, 8, 0x13}, {35, 8, 0x14},
	{36, 8, 0x15}, {37, 8, 0x16}, {38, 8, 0x17}, {39, 8, 0x28},
	{40, 8, 0x29}, {41, 8, 0x2A}, {42, 8, 0x2B}, {43, 8, 0x2C},
	{44, 8, 0x2D}, {45, 8, 0x04}, {46, 8, 0x05}, {47, 8, 0x0A},
	{48, 8, 0x0B}, {49, 8, 0x52}, {50, 8, 0x53}, {51, 8, 0x54},
	{52, 8, 0x55}, {53, 8, 0x24}, {54, 8, 0x25}, {55, 8, 0x58},
	{56, 8, 0x59}, {57, 8, 0x5A}, {58, 8, 0x5B}, {59, 8, 0x4A},
	{60, 8, 0x4B}, {61, 8, 0x4C}, {62, 8, 0x4D}, {63, 8, 0x32},

	{64, 5, 0x1B}, {128, 5, 0x12}, {192, 6, 0x17}, {256, 7, 0x37},
	{320, 8, 0x36}, {384, 8, 0x37}, {448, 8, 0x64}, {512, 8, 0x65},
	{576, 8, 0x68}, {640, 8, 0x67}, {704, 9, 0x0CC}, {768, 9, 0x0CD},
	{832, 9, 0x0D2}, {896, 9, 0x0D3}, {960, 9, 0x0D4}, {1024, 9, 0x0D5},
	{1088, 9, 0x0D6}, {1152, 9, 0x0D7}, {1216, 9, 0x0D8}, {1280, 9, 0x0D9},
	{1344, 9, 0x0DA}, {1408, 9, 0x0DB}, {1472, 9, 0x098}, {1536, 9, 0x099},
	{1600, 9, 0x09A}, {1664, 6, 0x18}, {1728, 9, 0x09B},
}

// ccittBlackCodes is the ITU-T T.4 black terminating (0-63) and makeup
// (64-1728) run-length code table.
var ccittBlackCodes = []ccittCodeEntry{
	{0, 10, 0x37}, {1, 3, 0x02}, {2, 2, 0x03}, {3, 2, 0x02},
	{4, 3, 0x03}, {5, 4, 0x03}, {6, 4, 0x02}, {7, 5, 0x03},
	{8, 6, 0x05}, {9, 6, 0x04}, {10, 7, 0x04}, {11, 7, 0x05},
	{12, 7, 0x07}, {13, 8, 0x04}, {14, 8, 0x07}, {15, 9, 0x18},
	{16, 10, 0x17}, {17, 10, 0x18}, {18, 10, 0x08}, {19, 11, 0x67},
	{20, 11, 0x68}, {21, 11, 0x6C}, {22, 11, 0x37}, {23, 11, 0x28},
	{24, 11, 0x17}, {25, 11, 0x18}, {26, 12, 0x0CA}, {27, 12, 0x0CB},
	{28, 12, 0x0CC}, {29, 12, 0x0CD}, {30, 12, 0x068}, {31, 12, 0x069},
	{32, 12, 0x06A}, {33, 12, 0x06B}, {34, 12, 0x0D2}, {35, 12, 0x0D3},
	{36, 12, 0x0D4}, {37, 12, 0x0D5}, {38, 12, 0x0D6}, {39, 12, 0x0D7},
	{40, 12, 0x06C}, {41, 12, 0x06D}, {42, 12, 0x0DA}, {43, 12, 0x0DB},
	{44, 12, 0x054}, {45, 12, 0x055}, {46, 12, 0x056}, {47, 12, 0x057},
	{48, 12, 0x064}, {49, 12, 0x065}, {50, 12, 0x052}, {51, 12, 0x053},
	{52, 12, 0x024}, {53, 12, 0x037}, {54, 12, 0x038}, {55, 12, 0x027},
	{56, 12, 0x028}, {57, 12, 0x058}, {58, 12, 0x059}, {59, 12, 0x02B},
	{60, 12, 0x02C}, {61, 12, 0x05A}, {62, 12, 0x066}, {63, 12, 0x067},

	{64, 10, 0x0F}, {128, 12, 0x0C8}, {192, 12, 0x0C9}, {256, 12, 0x05B},
	{320, 12, 0x033}, {384, 12, 0x034}, {448, 12, 0x035},
	{512, 13, 0x06C}, {576, 13, 0x06D}, {640, 13, 0x04A}, {704, 13, 0x04B},
	{768, 13, 0x04C}, {832, 13, 0x04D}, {896, 13, 0x072}, {960, 13, 0x073},
	{1024, 13, 0x074}, {1088, 13, 0x075}, {1152, 13, 0x076}, {1216, 13, 0x077},
	{1280, 13, 0x052}, {1344, 13, 0x053}, {1408, 13, 0x054}, {1472, 13, 0x055},
	{1536, 13, 0x05A}, {1600, 13, 0x05B}, {1664, 13, 0x064}, {1728, 13, 0x065},
}

// ccittExtendedMakeup codes (1792-2560) are shared between white and black.
var ccittExtendedMakeup = []ccittCodeEntry{
	{1792, 11, 0x08}, {1856, 11, 0x0C}, {1920, 11, 0x0D},
	{1984, 12, 0x12}, {2048, 12, 0x13}, {2112, 12, 0x14},
	{2176, 12, 0x15}, {2240, 12, 0x16}, {2304, 12, 0x17},
	{2368, 12, 0x1C}, {2432, 12, 0x1D}, {2496, 12, 0x1E}, {2560, 12, 0x1F},
}

// ccittEOLCode is the 12-bit EOL sync code "000000000001", shared by both
// colors and by 2-D mode's end-of-block marker.
var ccittEOLCode = ccittCodeEntry{ccittRunEOL, 12, 0x001}

// ccittRunTable is a flat MSB-first prefix lookup built once per color:
// run[prefix] is the decoded run length (or a ccittRun* sentinel) and
// bits[prefix] is how many bits that code actually occupies, for every
// prefix of length ccittMaxCodeBits beginning with a valid code.
type ccittRunTable struct {
	run  [1 << ccittMaxCodeBits]int32
	bits [1 << ccittMaxCodeBits]uint8
}

func buildCCITTRunTable(tables ...[]ccittCodeEntry) *ccittRunTable {
	t := &ccittRunTable{}
	for i := range t.run {
		t.run[i] = ccittRunInvalid
	}
	for _, table := range tables {
		for _, e := range table {
			shift := uint(ccittMaxCodeBits) - uint(e.bits)
			base := uint32(e.code) << shift
			span := uint32(1) << shift
			for i := uint32(0); i < span; i++ {
				t.run[base+i] = int32(e.run)
				t.bits[base+i] = e.bits
			}
		}
	}
	return t
}

var (
	ccittWhiteTable = buildCCITTRunTable(ccittWhiteCodes, ccittExtendedMakeup, []ccittCodeEntry{ccittEOLCode})
	ccittBlackTable = buildCCITTRunTable(ccittBlackCodes, ccittExtendedMakeup, []ccittCodeEntry{ccittEOLCode})
)

// decode reads one run-length code (terminating, makeup, or EOL) from r,
// returning the run value. ok is false if r ran dry before a valid code was
// assembled, or if the bits at the cursor match no code in the table.
func (t *ccittRunTable) decode(r *msbBitReader) (run int, ok bool) {
	code, peekOK := r.peek(ccittMaxCodeBits)
	if !peekOK {
		// Try shorter peeks for codes near end of stream.
		for n := ccittMaxCodeBits - 1; n >= 1; n-- {
			c, pOK := r.peek(n)
			if !pOK {
				continue
			}
			shift := uint(ccittMaxCodeBits) - uint(n)
			idx := c << shift
			if t.run[idx] != ccittRunInvalid && int(t.bits[idx]) <= n {
				r.consume(int(t.bits[idx]))
				return int(t.run[idx]), true
			}
		}
		return 0, false
	}
	run32 := t.run[code]
	if run32 == ccittRunInvalid {
		return 0, false
	}
	r.consume(int(t.bits[code]))
	return int(run32), true
}
