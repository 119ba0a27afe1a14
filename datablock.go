// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

package xisf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joxda/libXISF/internal/bytebuffer"
	"github.com/joxda/libXISF/internal/codec"
	"github.com/joxda/libXISF/internal/shuffle"
	"github.com/joxda/libXISF/lib/xisfconfig"
	"github.com/joxda/libXISF/lib/xisferr"
)

// Location identifies where a DataBlock's bytes live relative to the
// file that describes it.
type Location int

const (
	// LocationEmbedded means the bytes are a <Data> child element of
	// the XML node that owns this DataBlock.
	LocationEmbedded Location = iota
	// LocationInline means the bytes are base64 or base16 text
	// carried as the owning element's inner text.
	LocationInline
	// LocationAttachment means the bytes live past the XML header, at
	// an absolute file offset.
	LocationAttachment
)

// InlineEncoding names the transport encoding of an inline DataBlock.
type InlineEncoding int

const (
	InlineBase64 InlineEncoding = iota
	InlineBase16
)

func (e InlineEncoding) String() string {
	if e == InlineBase16 {
		return "base16"
	}
	return "base64"
}

// SubBlock is one (compressedLen, decompressedLen) pair describing a
// segment of a chunked compressed stream. It has the same shape as
// codec.SubBlock; DataBlock re-exports it under this name because it
// is also the public wire vocabulary for the "subblocks" XML attribute.
type SubBlock = codec.SubBlock

// DataBlock is a location-aware descriptor for a pixel or property
// payload: where the bytes live, how they are compressed and
// byte-shuffled, and, once resident, the decoded, uncompressed
// bytes themselves (data). Write/Read are pure transforms between
// those resident bytes and the compressed wire form; they never
// overwrite data themselves, so an Image's pixel buffer survives
// being serialized any number of times under different codecs.
//
// The zero value is an empty embedded block with no compression.
type DataBlock struct {
	location       Location
	inlineEncoding InlineEncoding

	attachmentPos  int64
	attachmentSize int64

	uncompressedSize int64
	byteShuffling    int
	codecName        codec.Name
	compressLevel    int
	subBlocks        []SubBlock

	data bytebuffer.Buffer
}

// NewEmbeddedDataBlock wraps data as an embedded, uncompressed block.
func NewEmbeddedDataBlock(data []byte) *DataBlock {
	return &DataBlock{
		location:         LocationEmbedded,
		uncompressedSize: int64(len(data)),
		compressLevel:    codec.DefaultLevel,
		data:             bytebuffer.FromBytes(data),
	}
}

// Location reports where db's bytes currently live.
func (db *DataBlock) Location() Location { return db.location }

// Codec reports the compression codec db uses (codec.None if
// uncompressed).
func (db *DataBlock) Codec() codec.Name { return db.codecName }

// IsResident reports whether db's decoded bytes are already in
// memory, i.e. no further attachment fetch is needed.
func (db *DataBlock) IsResident() bool {
	return db.location != LocationAttachment || db.attachmentPos == 0
}

// Bytes returns db's decoded, uncompressed bytes. Valid only when
// IsResident.
func (db *DataBlock) Bytes() []byte { return db.data.Bytes() }

// SetBytes replaces db's resident uncompressed bytes, e.g. after a
// Reader has decoded an attachment fetch, or when an Image's pixel
// buffer is rebuilt by SetGeometry/SetSampleFormat.
func (db *DataBlock) SetBytes(data []byte) {
	db.data = bytebuffer.FromBytes(data)
	db.uncompressedSize = int64(len(data))
	db.attachmentPos = 0
}

// SetCompression configures db to compress with name at the given
// level (codec.DefaultLevel for the codec's own default) and,
// optionally, byte-shuffle with the given item size (<=1 disables
// shuffling) before writing.
func (db *DataBlock) SetCompression(name codec.Name, level int, byteShuffleItemSize int) {
	db.codecName = name
	db.compressLevel = level
	db.byteShuffling = byteShuffleItemSize
}

// SetLocationAttachment marks db to be written as an attachment. The
// real offset is unknown until the Writer has serialized the header;
// Writer patches it in after the fact.
func (db *DataBlock) SetLocationAttachment() { db.location = LocationAttachment }

// SetLocationInline marks db to be written as inline text using enc.
func (db *DataBlock) SetLocationInline(enc InlineEncoding) {
	db.location = LocationInline
	db.inlineEncoding = enc
}

// SetLocationEmbedded marks db to be written as an embedded <Data>
// child element.
func (db *DataBlock) SetLocationEmbedded() { db.location = LocationEmbedded }

// ApplyDefaultCompression seeds db with name/level when db has no
// codec of its own yet (the zero value, codec.None). A DataBlock that
// already had SetCompression called on it is left untouched: an
// explicit per-Image/per-Property setting always wins over a Writer's
// default.
func (db *DataBlock) ApplyDefaultCompression(name codec.Name, level int) {
	if db.codecName != "" && db.codecName != codec.None {
		return
	}
	if name == "" || name == codec.None {
		return
	}
	db.codecName = name
	db.compressLevel = level
}

// ApplyEnvironmentOverride forces db onto the process-wide
// LIBXISF_COMPRESSION codec, replacing any per-Image setting, when
// that override is active. It is idempotent and cheap to call
// unconditionally before every write.
func (db *DataBlock) ApplyEnvironmentOverride() {
	o := xisfconfig.EnvOverride()
	if o == nil {
		return
	}
	db.codecName = o.Codec
	db.compressLevel = o.Level
	if db.byteShuffling <= 1 {
		db.byteShuffling = sampleItemSizeForShuffle
	}
}

// sampleItemSizeForShuffle is the item size ApplyEnvironmentOverride
// leaves on a block that had no shuffling set. A DataBlock does not
// know its sample size, and an item size of 1 means no shuffling;
// Writer sets the image's sample size on pixel blocks itself after
// calling ApplyEnvironmentOverride.
const sampleItemSizeForShuffle = 1

// Write runs the write-path pipeline on raw (the uncompressed pixel
// or property bytes this block owns) and returns the wire payload,
// shuffled and compressed per db's settings, ready for the caller to
// place per db.Location(). It records uncompressedSize, the
// sub-block list, and attachmentSize as a side effect, but leaves
// db's resident raw bytes (db.data, db.Bytes()) untouched: Image keeps
// working with the uncompressed buffer regardless of how it was last
// serialized.
func (db *DataBlock) Write(raw []byte) ([]byte, error) {
	db.uncompressedSize = int64(len(raw))

	shuffled := raw
	if db.byteShuffling > 1 {
		shuffled = shuffle.Forward(raw, db.byteShuffling)
	}

	if db.codecName == "" || db.codecName == codec.None {
		db.codecName = codec.None
		db.subBlocks = nil
		db.attachmentSize = int64(len(shuffled))
		return shuffled, nil
	}

	out, subBlocks, err := codec.Compress(db.codecName, shuffled, db.compressLevel)
	if err != nil {
		return nil, xisferr.Wrap(xisferr.CodecFailure, err, "compressing with %s", db.codecName)
	}
	db.subBlocks = subBlocks
	db.attachmentSize = int64(len(out))
	return out, nil
}

// Read runs the read-path pipeline on raw (the bytes fetched from
// db's location, already transport-decoded if inline) and returns the
// uncompressed, unshuffled payload. It does not mutate db's location
// bookkeeping; the caller (typically Reader) is responsible for
// clearing attachmentPos once the result is cached.
func (db *DataBlock) Read(raw []byte) ([]byte, error) {
	name := db.codecName
	if name == "" {
		name = codec.None
	}
	decompressed, err := codec.Decompress(name, raw, db.uncompressedSizeOrLen(raw), db.subBlocks)
	if err != nil {
		return nil, xisferr.Wrap(xisferr.CodecFailure, err, "decompressing with %s", name)
	}
	if db.byteShuffling > 1 {
		decompressed = shuffle.Inverse(decompressed, db.byteShuffling)
	}
	return decompressed, nil
}

func (db *DataBlock) uncompressedSizeOrLen(raw []byte) int64 {
	if db.codecName == "" || db.codecName == codec.None {
		return int64(len(raw))
	}
	return db.uncompressedSize
}

// FormatCompressionAttribute renders the "compression" XML attribute
// grammar: codecName("+sh")? ":" uncompressedSize (":" itemSize)?.
// Returns "" if db is uncompressed (the attribute is simply omitted).
func (db *DataBlock) FormatCompressionAttribute() string {
	if db.codecName == "" || db.codecName == codec.None {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(db.codecName))
	if db.byteShuffling > 1 {
		b.WriteString("+sh")
	}
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(db.uncompressedSize, 10))
	if db.byteShuffling > 1 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(db.byteShuffling))
	}
	return b.String()
}

// ParseCompressionAttribute parses the "compression" XML attribute
// grammar into db, replacing its codec/level/shuffle/size fields.
// level defaults to codec.DefaultLevel (the attribute carries no
// level field; level is only ever set by the process-wide environment
// override or by the writing application's own configuration, not by
// the wire format itself).
func (db *DataBlock) ParseCompressionAttribute(attr string) error {
	if attr == "" {
		db.codecName = codec.None
		db.byteShuffling = 0
		return nil
	}

	codecPart, rest, ok := strings.Cut(attr, ":")
	if !ok {
		return xisferr.New(xisferr.MalformedHeader, "compression attribute %q has no uncompressedSize field", attr)
	}

	shuffled := false
	codecText := codecPart
	if strings.HasSuffix(codecPart, "+sh") {
		shuffled = true
		codecText = strings.TrimSuffix(codecPart, "+sh")
	}
	name, ok := codec.ParseName(codecText)
	if !ok {
		return xisferr.New(xisferr.UnsupportedFeature, "unsupported compression codec %q", codecText)
	}

	sizeText, itemSizeText, hasItemSize := strings.Cut(rest, ":")
	size, err := strconv.ParseInt(sizeText, 10, 64)
	if err != nil {
		return xisferr.Wrap(xisferr.MalformedHeader, err, "compression attribute %q: bad uncompressedSize", attr)
	}

	itemSize := 0
	if hasItemSize {
		itemSize, err = strconv.Atoi(itemSizeText)
		if err != nil {
			return xisferr.Wrap(xisferr.MalformedHeader, err, "compression attribute %q: bad itemSize", attr)
		}
	} else if shuffled {
		return xisferr.New(xisferr.MalformedHeader, "compression attribute %q: \"+sh\" requires an itemSize field", attr)
	}

	db.codecName = name
	db.uncompressedSize = size
	db.compressLevel = codec.DefaultLevel
	if shuffled {
		db.byteShuffling = itemSize
	} else {
		db.byteShuffling = 0
	}
	return nil
}

// FormatSubBlocksAttribute renders the optional "subblocks" XML
// attribute: a ":"-separated list of "c,d" pairs. Returns "" if db
// has no explicit sub-block list (the decoder assumes a single
// implicit chunk).
func (db *DataBlock) FormatSubBlocksAttribute() string {
	if len(db.subBlocks) == 0 {
		return ""
	}
	parts := make([]string, len(db.subBlocks))
	for i, sb := range db.subBlocks {
		parts[i] = fmt.Sprintf("%d,%d", sb.CompressedLen, sb.DecompressedLen)
	}
	return strings.Join(parts, ":")
}

// ParseSubBlocksAttribute parses the "subblocks" attribute into db.
func (db *DataBlock) ParseSubBlocksAttribute(attr string) error {
	if attr == "" {
		db.subBlocks = nil
		return nil
	}
	parts := strings.Split(attr, ":")
	out := make([]SubBlock, 0, len(parts))
	for _, p := range parts {
		c, d, ok := strings.Cut(p, ",")
		if !ok {
			return xisferr.New(xisferr.MalformedHeader, "subblocks attribute %q: malformed pair %q", attr, p)
		}
		cLen, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return xisferr.Wrap(xisferr.MalformedHeader, err, "subblocks attribute %q", attr)
		}
		dLen, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return xisferr.Wrap(xisferr.MalformedHeader, err, "subblocks attribute %q", attr)
		}
		out = append(out, SubBlock{CompressedLen: cLen, DecompressedLen: dLen})
	}
	db.subBlocks = out
	return nil
}

// FormatLocationAttribute renders the "location" XML attribute
// grammar for db.
func (db *DataBlock) FormatLocationAttribute() string {
	switch db.location {
	case LocationEmbedded:
		return "embedded"
	case LocationInline:
		return "inline:" + db.inlineEncoding.String()
	case LocationAttachment:
		return fmt.Sprintf("attachment:%d:%d", db.attachmentPos, db.attachmentSize)
	}
	return "embedded"
}

// attachmentPlaceholderPos is substituted for the real offset during
// the first serialization pass, before the Writer knows the header's
// final size. It is large enough that no real offset (for any file
// under 2 GiB of header+attachments) needs more decimal digits, so
// patching in the real offset never lengthens the header.
const attachmentPlaceholderPos = int64(1) << 31

// ParseLocationAttribute parses the "location" XML attribute grammar
// and returns the location kind, inline encoding, and attachment
// position and size it describes.
func ParseLocationAttribute(attr string) (loc Location, enc InlineEncoding, pos, size int64, err error) {
	switch {
	case attr == "embedded":
		return LocationEmbedded, 0, 0, 0, nil
	case strings.HasPrefix(attr, "inline:"):
		switch strings.TrimPrefix(attr, "inline:") {
		case "base64":
			return LocationInline, InlineBase64, 0, 0, nil
		case "base16":
			return LocationInline, InlineBase16, 0, 0, nil
		}
		return 0, 0, 0, 0, xisferr.New(xisferr.MalformedHeader, "location attribute %q has an unknown inline encoding", attr)
	case strings.HasPrefix(attr, "attachment:"):
		fields := strings.Split(strings.TrimPrefix(attr, "attachment:"), ":")
		if len(fields) != 2 {
			return 0, 0, 0, 0, xisferr.New(xisferr.InvalidReference, "location attribute %q must have byteOffset:byteLength", attr)
		}
		pos, err = strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, 0, 0, 0, xisferr.Wrap(xisferr.InvalidReference, err, "location attribute %q", attr)
		}
		size, err = strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, 0, 0, 0, xisferr.Wrap(xisferr.InvalidReference, err, "location attribute %q", attr)
		}
		return LocationAttachment, 0, pos, size, nil
	}
	return 0, 0, 0, 0, xisferr.New(xisferr.MalformedHeader, "unrecognized location attribute %q", attr)
}
