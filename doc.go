// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package xisf reads and writes the XISF 1.0 (Extensible Image
// Serialization Format) container used to exchange astronomical
// image data together with rich typed metadata.
//
// The central types are [Image] (geometry, sample format, color
// space, pixel storage, an ordered [Property] table, FITS keywords,
// an optional color filter array and ICC profile, and the pixel
// payload as a [DataBlock]) and [Value], a closed tagged union over
// the forty XISF property types: scalars, complex pairs, a UTC
// timestamp, strings, and dense vectors/matrices for every numeric
// scalar type.
//
// [Reader] opens a stream, validates the "XISF0100" signature, parses
// the XML header into one or more Images, and fetches each Image's
// pixel attachment lazily on [Reader.Image]. [Writer] does the exact
// inverse: it builds the XML header with placeholder attachment
// offsets, serializes it to learn the header's final size, then
// back-patches the real offsets before appending the attachment
// payloads.
//
// [DataBlock] is the engine that moves bytes between the three
// on-disk locations a payload can occupy (embedded XML child element,
// inline base64/base16 text, or an attachment past the header) and
// in-memory pixel/property bytes, running byte-shuffle and
// compression (none, zlib, lz4, lz4hc, zstd, see
// internal/codec) as needed in both directions.
//
// Errors are reported as *[xisferr.Error] values carrying a
// [xisferr.Kind]; see that package for the closed set of kinds this
// module distinguishes. A file that fails to parse never yields a
// partially-populated Image, either the whole image parses or the
// caller gets an error and nothing else.
package xisf
