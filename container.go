// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import "github.com/joxda/libXISF/lib/xisferr"

// signature is the fixed 8-byte ASCII magic every XISF 1.0 file
// begins with.
const signature = "XISF0100"

// signatureAreaSize is the size in bytes of the fixed header area:
// signature (8) + headerSize (4) + reserved (4).
const signatureAreaSize = 16

// xisfXMLNamespace is the XML namespace every XISF document's root
// element must declare.
const xisfXMLNamespace = "http://www.pixinsight.com/xisf"

// maxChunkBytes is the attachment read chunk size a Reader falls back
// to when its ReaderOptions.MaxChunkBytes is not positive. Writes are
// chunked by WriterOptions.MaxChunkBytes instead.
const maxChunkBytes = 1 << 30

func checkSignature(b []byte) error {
	if len(b) < signatureAreaSize {
		return xisferr.New(xisferr.IoError, "short read: got %d bytes, need at least %d for the signature area", len(b), signatureAreaSize)
	}
	if string(b[:8]) != signature {
		return xisferr.New(xisferr.MalformedHeader, "bad signature %q, want %q", b[:8], signature)
	}
	return nil
}
