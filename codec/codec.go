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

// Package codec implements the byte-stream compression codecs used by legacy
// raster image formats: the RLE packet dialects (Targa, Packbits, PSP, PCX,
// RLA, CUT, SGI, Amiga RGB(N), VDAT), both LZW variants (GIF and TIFF), an
// LZ77/deflate bridge, the ThunderScan nibble codec, CCITT Group 3 / Modified
// Huffman fax, and the Kodak Photo-CD planar Huffman codec.
//
// Every codec is a stateful Decoder (most) and/or Encoder (Targa RLE and the
// no-compression codec). A driver owns a Codec instance, optionally calls
// DecodeInit, then calls Decode one or more times with caller-owned source
// and destination slices, and finally DecodeEnd. Decode never reads or
// writes outside the supplied slices, regardless of how malformed the input
// is; see Status for the reporting contract.
package codec

import (
	"fmt"
	"sync"
)

// Status reports the outcome of the last Decode or Encode call.
type Status string

// Codec status values. Ok, NotEnoughInput and OutputBufferTooSmall are
// normal terminations that some drivers provoke deliberately (e.g. by
// calling Decode with a deliberately short destination to fill one
// scanline at a time). InvalidInput, BufferOverflow and InternalError are
// always errors.
const (
	// StatusUnused marks a codec that has never had Decode/Encode called.
	StatusUnused Status = "Unused"
	// StatusUninitialized marks a codec constructed but not yet through DecodeInit.
	StatusUninitialized Status = "Uninitialized"
	// StatusInitializationError marks a codec whose construction parameters were invalid.
	StatusInitializationError Status = "InitializationError"
	// StatusOk marks a call that completed cleanly.
	StatusOk Status = "Ok"
	// StatusNotEnoughInput marks a call that ran out of compressed input before
	// the destination was filled or the logical stream ended.
	StatusNotEnoughInput Status = "NotEnoughInput"
	// StatusOutputBufferTooSmall marks a call that ran out of destination space.
	StatusOutputBufferTooSmall Status = "OutputBufferTooSmall"
	// StatusInvalidInput marks malformed or adversarial compressed input.
	StatusInvalidInput Status = "InvalidInput"
	// StatusBufferOverflow marks an internal bound (e.g. an LZW expansion stack) being exceeded.
	StatusBufferOverflow Status = "BufferOverflow"
	// StatusInvalidBufferSize marks a call made with packedSize <= 0 or unpackedSize <= 0.
	StatusInvalidBufferSize Status = "InvalidBufferSize"
	// StatusInternalError marks a codec-internal bug (a counter would have gone
	// negative). Malformed input must never produce this status; see errors.go.
	StatusInternalError Status = "InternalError"
)

// IsError reports whether s represents a failure the caller should propagate
// as a decode failure for the image, as opposed to a normal or recoverable
// termination (StatusOk, StatusNotEnoughInput, StatusOutputBufferTooSmall).
func (s Status) IsError() bool {
	switch s {
	case StatusOk, StatusNotEnoughInput, StatusOutputBufferTooSmall:
		return false
	default:
		return true
	}
}

// Decoder is the read side of the Codec contract.
type Decoder interface {
	// DecodeInit resets the codec to StatusOk and (re)initializes any
	// resumable state. Safe to call again after a terminal status.
	DecodeInit()

	// Decode consumes bytes from source and writes decompressed bytes into
	// dest, returning the counts consumed and produced. It updates Status.
	// Decode never reads or writes outside source or dest.
	Decode(source, dest []byte) (bytesConsumed, bytesProduced int)

	// DecodeEnd releases any resumable state acquired by DecodeInit or Decode.
	DecodeEnd()

	// Status returns the status set by the most recent Decode call.
	Status() Status

	// CompressedAvailable returns the count of compressed bytes left unread
	// at the end of the last Decode call.
	CompressedAvailable() int

	// DecompressedBytes returns the count of bytes written to dest during
	// the last Decode call.
	DecompressedBytes() int
}

// Encoder is the write side of the Codec contract. Only Targa RLE and the
// no-compression codec implement it meaningfully; every other codec
// embeds noEncoder, whose Encode always reports 0 bytes stored.
type Encoder interface {
	EncodeInit()
	// Encode compresses source into dest, returning the number of bytes
	// stored. Implementations that do not support encoding return 0.
	Encode(source, dest []byte) (bytesStored int)
	EncodeEnd()
}

// Codec is the full decode+encode contract every concrete codec satisfies.
type Codec interface {
	Decoder
	Encoder
}

// Format names a concrete codec variant.
type Format string

// Supported codec formats.
const (
	FormatNoCompression Format = "NoCompression"
	FormatTargaRLE       Format = "TargaRLE"
	FormatPackbits       Format = "Packbits"
	FormatPSP            Format = "PSP"
	FormatPCX            Format = "PCX"
	FormatRLA            Format = "RLA"
	FormatCUT            Format = "CUT"
	FormatSGI            Format = "SGI"
	FormatAmigaRGB       Format = "AmigaRGB"
	FormatVDAT           Format = "VDAT"
	FormatGIFLZW         Format = "GIFLZW"
	FormatTIFFLZW        Format = "TIFFLZW"
	FormatLZ77           Format = "LZ77"
	FormatThunderScan    Format = "ThunderScan"
	FormatCCITTFax3      Format = "CCITTFax3"
	FormatCCITTMH        Format = "CCITTMH"
	FormatPhotoCD        Format = "PhotoCD"
)

// registry holds codec factories keyed by Format, so a format driver can
// construct a codec by symbolic name instead of hard-coding a switch.
var (
	registryMu sync.RWMutex
	registry   = make(map[Format]func() Codec)
)

// registerFormat registers a factory for the given format. Called from each
// codec file's init, so the registry is fully populated by the time any
// caller reaches New.
func registerFormat(f Format, factory func() Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[f] = factory
}

// New constructs a fresh, default-parameterized codec instance for the given
// format. Every format is registered; codecs that take construction
// parameters (color depth, initial code size, fax options, line width, …)
// are built with fixed defaults here, and their dedicated constructors
// (NewTargaRLE, NewSGI, NewCCITT, …) accept other values.
func New(f Format) (Codec, error) {
	registryMu.RLock()
	factory, ok := registry[f]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInitialization, f)
	}
	return factory(), nil
}

// base holds the bookkeeping fields common to every codec: status and the
// two counters from the last Decode call. Concrete codecs embed base and
// call its setters from within Decode.
type base struct {
	status              Status
	compressedAvailable int
	decompressedBytes   int
}

func newBase() base {
	return base{status: StatusUnused}
}

func (b *base) Status() Status           { return b.status }
func (b *base) CompressedAvailable() int { return b.compressedAvailable }
func (b *base) DecompressedBytes() int   { return b.decompressedBytes }

func (b *base) setStatus(s Status) { b.status = s }

// checkSizes validates packedSize/unpackedSize and, if invalid,
// sets StatusInvalidBufferSize and returns false. Every concrete Decode
// implementation calls this first.
func (b *base) checkSizes(packedSize, unpackedSize int) bool {
	if packedSize <= 0 || unpackedSize <= 0 {
		b.status = StatusInvalidBufferSize
		b.compressedAvailable = max(packedSize, 0)
		b.decompressedBytes = 0
		return false
	}
	return true
}

// noEncoder is embedded by codecs with no meaningful encoder:
// EncodeInit/EncodeEnd are no-ops and Encode always reports 0 bytes stored.
type noEncoder struct{}

func (noEncoder) EncodeInit()                          {}
func (noEncoder) EncodeEnd()                           {}
func (noEncoder) Encode(_, _ []byte) (bytesStored int) { return 0 }

// noDecodeEnd is embedded by codecs with no resumable state to release.
type noDecodeEnd struct{}

func (noDecodeEnd) DecodeEnd() {}
