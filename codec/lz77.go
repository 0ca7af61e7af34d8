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
	"io"

	"github.com/klauspost/compress/flate"
)

// LZ77FlushMode governs whether a short stream (no final block reached
// yet) is a normal pause or a genuine error.
type LZ77FlushMode int

// Supported flush modes.
const (
	// LZ77FlushPartial is used for streaming sources (PNG): an
	// under-delivered call just means more compressed data is still coming.
	LZ77FlushPartial LZ77FlushMode = iota
	// LZ77FlushFinish is used for one-shot sources (PSP): the stream must
	// reach its final deflate block within the bytes supplied.
	LZ77FlushFinish
)

// LZ77 bridges the byte-RLE family's Decode contract onto
// github.com/klauspost/compress/flate, a drop-in replacement for the
// standard library's decompressor. Two construction parameters:
// autoReset (TIFF resets the inflate state before
// every call, because each strip is an independent deflate stream; PNG
// leaves it false, because one deflate stream spans every IDAT chunk) and
// flushMode (whether an incomplete stream at end-of-input is expected).
//
// klauspost/compress/flate's Reader has no API for resuming a partial read
// once its underlying io.Reader reports EOF mid-stream, so the continuous
// (autoReset=false) mode keeps every compressed byte seen so far and
// re-runs the decompressor from the start of that buffer on each call,
// discarding the output already delivered to the driver. This is the
// correct thin-adapter shape for a stateless inflate API chained across
// resumable calls; it costs re-decoding the accumulated prefix instead of
// picking up a live window, which is acceptable for a non-streaming-critical
// bridge.
type LZ77 struct {
	base
	noEncoder

	flushMode LZ77FlushMode
	autoReset bool

	pending       []byte
	reader        io.ReadCloser
	delivered     int
	consumedTotal int
}

// NewLZ77 constructs an LZ77/deflate bridge with the given flush mode and
// auto-reset behavior.
func NewLZ77(flushMode LZ77FlushMode, autoReset bool) *LZ77 {
	return &LZ77{base: newBase(), flushMode: flushMode, autoReset: autoReset}
}

// DecodeInit calls the adapter's equivalent of inflate_init: resets all
// resumable state.
func (c *LZ77) DecodeInit() {
	c.pending = nil
	c.delivered = 0
	c.consumedTotal = 0
	if c.reader != nil {
		_ = c.reader.Close()
		c.reader = nil
	}
	c.status = StatusOk
}

// DecodeEnd calls the adapter's equivalent of inflate_end, releasing the
// underlying decompressor.
func (c *LZ77) DecodeEnd() {
	if c.reader != nil {
		_ = c.reader.Close()
		c.reader = nil
	}
	c.pending = nil
	c.delivered = 0
	c.consumedTotal = 0
}

// Decode inflates deflate-compressed bytes from source into dest.
func (c *LZ77) Decode(source, dest []byte) (bytesConsumed, bytesProduced int) {
	if !c.checkSizes(len(source), len(dest)) {
		return 0, 0
	}

	if c.autoReset {
		return c.decodeOneShot(source, dest)
	}
	return c.decodeContinuous(source, dest)
}

// decodeOneShot treats source as a self-contained deflate stream, matching
// inflate_reset being called before every Decode (TIFF strips).
func (c *LZ77) decodeOneShot(source, dest []byte) (int, int) {
	br := bytes.NewReader(source)
	r := flate.NewReader(br)
	defer func() { _ = r.Close() }()

	n, err := io.ReadFull(r, dest)
	status := c.statusForReadErr(err, n, len(dest))

	c.decompressedBytes = n
	c.compressedAvailable = br.Len()
	c.status = status
	return len(source) - br.Len(), n
}

// decodeContinuous treats source as the next chunk of one long-lived
// deflate stream (PNG-style), replaying from the start of the accumulated
// buffer each call and skipping bytes already delivered.
func (c *LZ77) decodeContinuous(source, dest []byte) (int, int) {
	c.pending = append(c.pending, source...)
	br := bytes.NewReader(c.pending)

	var err error
	if resetter, ok := c.reader.(flate.Resetter); ok {
		err = resetter.Reset(br, nil)
	}
	if c.reader == nil || err != nil {
		if c.reader != nil {
			_ = c.reader.Close()
		}
		c.reader = flate.NewReader(br)
	}

	if c.delivered > 0 {
		if _, skipErr := io.CopyN(io.Discard, c.reader, int64(c.delivered)); skipErr != nil {
			c.status = StatusInternalError
			c.compressedAvailable = len(source)
			c.decompressedBytes = 0
			return 0, 0
		}
	}

	n, readErr := io.ReadFull(c.reader, dest)
	status := c.statusForReadErr(readErr, n, len(dest))

	totalConsumed := len(c.pending) - br.Len()
	thisCallConsumed := totalConsumed - c.consumedTotal
	thisCallConsumed = max(thisCallConsumed, 0)
	thisCallConsumed = min(thisCallConsumed, len(source))
	c.consumedTotal = totalConsumed
	c.delivered += n

	c.decompressedBytes = n
	c.compressedAvailable = len(source) - thisCallConsumed
	c.status = status
	return thisCallConsumed, n
}

// statusForReadErr translates an io.ReadFull outcome into a codec Status,
// honoring flushMode for the "stream ended before dest was full" case.
func (c *LZ77) statusForReadErr(err error, n, wantLen int) Status {
	switch {
	case err == nil:
		return StatusOk
	case errors.Is(err, io.EOF):
		if n == 0 && wantLen > 0 {
			return StatusOk
		}
		return c.shortStreamStatus()
	case errors.Is(err, io.ErrUnexpectedEOF):
		return c.shortStreamStatus()
	default:
		return StatusInvalidInput
	}
}

func (c *LZ77) shortStreamStatus() Status {
	if c.flushMode == LZ77FlushFinish {
		return StatusInvalidInput
	}
	return StatusNotEnoughInput
}

func init() {
	registerFormat(FormatLZ77, func() Codec { return NewLZ77(LZ77FlushPartial, false) })
}
