// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package xisfconfig holds the module's process-wide configuration
// surface: the LIBXISF_COMPRESSION environment override (parsed once,
// immutable thereafter, read without synchronization) and the
// per-Reader/per-Writer functional options that everything else
// flows through.
//
// Mirrors the teacher's lib/config: a single, explicit source of
// truth with no hidden fallbacks, except here the "file" most
// callers use is a single environment variable rather than a YAML
// document, so the package stays small. An optional YAML defaults
// file is still supported for batch tooling that wants to pin
// defaults across many Writer instances without threading options
// through every call site (see LoadDefaultsFile).
package xisfconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/joxda/libXISF/internal/codec"
)

// CompressionOverride is a process-wide codec and level. Writer
// applies it to every Image's pixel DataBlock, replacing that Image's
// own codec and level and shuffling by the Image's sample size, and
// to the thumbnail's codec and level (its shuffling is left as set).
// Property and ICC profile DataBlocks are not affected by it.
type CompressionOverride struct {
	Codec codec.Name
	Level int
}

var (
	overrideOnce  sync.Once
	override      *CompressionOverride
)

// EnvOverride returns the process-wide compression override derived
// from LIBXISF_COMPRESSION, or nil if unset or unparseable. The
// environment variable is read exactly once; subsequent calls (from
// any goroutine) observe the same immutable value without locking.
func EnvOverride() *CompressionOverride {
	overrideOnce.Do(func() {
		override = parseCompressionEnv(os.Getenv("LIBXISF_COMPRESSION"))
	})
	return override
}

// resetForTest clears the one-shot state so tests can exercise
// EnvOverride under different environment values. Not exported: the
// production contract is genuinely one-shot per process.
func resetForTest() {
	overrideOnce = sync.Once{}
	override = nil
}

// parseCompressionEnv parses "LIBXISF_COMPRESSION=<codec>[+sh][:<level>]".
// Parsing is tolerant: an unparseable level is silently ignored
// (falls back to codec.DefaultLevel), and an unknown codec name
// leaves the override disabled (returns nil) rather than erroring,
// the environment variable is advisory, not a startup precondition.
func parseCompressionEnv(value string) *CompressionOverride {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	codecPart := value
	level := codec.DefaultLevel
	if idx := strings.IndexByte(value, ':'); idx >= 0 {
		codecPart = value[:idx]
		if parsed, err := strconv.Atoi(value[idx+1:]); err == nil {
			level = parsed
		}
	}

	codecPart = strings.TrimSuffix(codecPart, "+sh")

	name, ok := codec.ParseName(codecPart)
	if !ok {
		return nil
	}

	return &CompressionOverride{Codec: name, Level: level}
}

// WriterOptions configures a Writer beyond what an individual Image
// specifies.
type WriterOptions struct {
	// logger receives structured progress events. Nil
	// falls back to slog.Default().
	logger *slog.Logger

	// CreatorApplication is written into the Metadata block's
	// XISF:CreatorApplication property. Defaults to
	// "libXISF-go" if empty.
	CreatorApplication string

	// DefaultCodec/DefaultLevel seed newly-built DataBlocks that
	// don't specify their own codec. The per-process
	// LIBXISF_COMPRESSION override, when set, still takes final
	// precedence over these.
	DefaultCodec codec.Name
	DefaultLevel int

	// MaxChunkBytes bounds a single attachment read/write syscall.
	// Defaults to 1 GiB, per spec's "≤1 GiB chunks" chunked-I/O
	// requirement.
	MaxChunkBytes int64
}

// Option mutates a WriterOptions in place. ReaderOptions uses
// ReaderOption instead.
type Option func(*WriterOptions)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *WriterOptions) { o.logger = logger }
}

// WithCreatorApplication overrides the Metadata creator identifier.
func WithCreatorApplication(name string) Option {
	return func(o *WriterOptions) { o.CreatorApplication = name }
}

// WithDefaultCompression seeds newly-built DataBlocks with a codec
// and level when they don't specify their own.
func WithDefaultCompression(name codec.Name, level int) Option {
	return func(o *WriterOptions) {
		o.DefaultCodec = name
		o.DefaultLevel = level
	}
}

// WithMaxChunkBytes overrides the default 1 GiB I/O chunk size.
func WithMaxChunkBytes(n int64) Option {
	return func(o *WriterOptions) { o.MaxChunkBytes = n }
}

// DefaultMaxChunkBytes is the ≤1 GiB chunk size used for attachment
// reads and writes unless overridden.
const DefaultMaxChunkBytes int64 = 1 << 30

// DefaultCreatorApplication is used when WriterOptions.CreatorApplication
// is empty.
const DefaultCreatorApplication = "libXISF-go"

// NewWriterOptions applies opts over sensible defaults.
func NewWriterOptions(opts ...Option) WriterOptions {
	o := WriterOptions{
		CreatorApplication: DefaultCreatorApplication,
		DefaultCodec:       codec.None,
		DefaultLevel:       codec.DefaultLevel,
		MaxChunkBytes:      DefaultMaxChunkBytes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Logger returns o.Logger, or slog.Default() if unset.
func (o WriterOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// ReaderOptions configures a Reader. It is a distinct type from
// WriterOptions (a Reader has no codec defaults to seed, the codec
// used is whatever the file says) even though both share the
// logger/chunk-size concerns, to keep each type's field set honest
// about what it actually uses.
type ReaderOptions struct {
	logger        *slog.Logger
	MaxChunkBytes int64
}

// ReaderOption mutates a ReaderOptions in place.
type ReaderOption func(*ReaderOptions)

// WithReaderLogger injects a structured logger for a Reader.
func WithReaderLogger(logger *slog.Logger) ReaderOption {
	return func(o *ReaderOptions) { o.logger = logger }
}

// WithReaderMaxChunkBytes overrides the default 1 GiB read chunk size.
func WithReaderMaxChunkBytes(n int64) ReaderOption {
	return func(o *ReaderOptions) { o.MaxChunkBytes = n }
}

// NewReaderOptions applies opts over sensible defaults.
func NewReaderOptions(opts ...ReaderOption) ReaderOptions {
	o := ReaderOptions{MaxChunkBytes: DefaultMaxChunkBytes}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Logger returns o.Logger, or slog.Default() if unset.
func (o ReaderOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// FileDefaults is the optional YAML sidecar document loaded by
// LoadDefaultsFile, letting a batch conversion pin WriterOptions
// without threading flags through every call site, the same
// "config file is the single source of truth for its section" shape
// as the teacher's lib/config, scaled down to what this module
// actually needs.
type FileDefaults struct {
	CreatorApplication string `yaml:"creator_application"`
	Codec              string `yaml:"codec"`
	Level              int    `yaml:"level"`
}

// LoadDefaultsFile reads a YAML defaults file and returns the
// WriterOptions it describes. An empty or missing Codec field leaves
// the codec default untouched (codec.None).
func LoadDefaultsFile(path string) (WriterOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WriterOptions{}, fmt.Errorf("xisfconfig: reading defaults file: %w", err)
	}

	var fd FileDefaults
	if err := yaml.Unmarshal(data, &fd); err != nil {
		return WriterOptions{}, fmt.Errorf("xisfconfig: parsing defaults file: %w", err)
	}

	o := NewWriterOptions()
	if fd.CreatorApplication != "" {
		o.CreatorApplication = fd.CreatorApplication
	}
	if fd.Codec != "" {
		name, ok := codec.ParseName(fd.Codec)
		if !ok {
			return WriterOptions{}, fmt.Errorf("xisfconfig: defaults file: unknown codec %q", fd.Codec)
		}
		o.DefaultCodec = name
		o.DefaultLevel = fd.Level
	}
	return o, nil
}
