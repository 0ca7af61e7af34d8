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
	"errors"
	"fmt"
)

// Construction-time limits guarding against attacker-controlled size
// fields.
const (
	// MaxLZWCodeTable is the fixed LZW code table size (4096 entries, the
	// largest value a 12-bit code can address).
	MaxLZWCodeTable = 4096

	// MaxPhotoCDHuffmanEntryLength is the largest valid Huffman code length
	// in a Photo-CD table; PhotoCD.SetPlaneTable rejects a table containing
	// a longer one with ErrMalformedHuffmanTable.
	MaxPhotoCDHuffmanEntryLength = 16

	// MaxCCITTRunLength is the largest run length representable by a single
	// makeup+terminating code pair (2560 + 63).
	MaxCCITTRunLength = 2623
)

// Sentinel errors for the package's error-returning entry points: New
// (unknown format) and PhotoCD.SetPlaneTable (table validation). Everyday malformed-input handling inside
// Decode is expressed through Status, not these errors; see codec.go.
var (
	// ErrInitialization is wrapped by New when no codec is registered for
	// the requested format.
	ErrInitialization = errors.New("codec: initialization error")

	// ErrMalformedHuffmanTable is returned by PhotoCD.SetPlaneTable when a
	// table entry's code length is zero or exceeds
	// MaxPhotoCDHuffmanEntryLength.
	ErrMalformedHuffmanTable = errors.New("codec: malformed huffman table")

	// ErrInvalidPlane is returned by PhotoCD.SetPlaneTable for a plane
	// number outside {0, 2, 3}.
	ErrInvalidPlane = errors.New("codec: invalid photo-cd plane")
)

// internalError is a panic reserved for a codec-internal bug (a
// remaining-bytes counter that would have gone negative), never for
// malformed input. Every decrement of a remaining-bytes counter in this
// package is preceded by a check that makes the underflow this guards
// against unreachable for any input, so this path is a debug assertion
// rather than an error-handling mechanism.
type internalError struct {
	codec string
	msg   string
}

func (e internalError) Error() string {
	return fmt.Sprintf("codec: internal error in %s: %s (this is a codec bug, not malformed input)", e.codec, e.msg)
}

// abort raises the fatal internal-error panic described above.
func abort(codecName, msg string) {
	panic(internalError{codec: codecName, msg: msg})
}
