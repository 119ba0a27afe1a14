// Copyright 2026 The libXISF-go Authors
// SPDX-License-Identifier: Apache-2.0

// Package shuffle transposes interleaved multi-byte samples to and
// from a planar-by-byte layout, a preprocessing step that improves
// downstream compressor ratios on typed numeric data (grouping all
// high bytes together, all low bytes together, and so on).
package shuffle

// Forward reinterprets data as ⌊len(data)/itemSize⌋ records of
// itemSize bytes and writes all byte-0s contiguously, then all
// byte-1s, …, then byte-(itemSize-1)s. Trailing bytes that don't form
// a complete record are copied verbatim after the shuffled region.
// itemSize <= 1 is a no-op that returns data unchanged.
func Forward(data []byte, itemSize int) []byte {
	if itemSize <= 1 || len(data) == 0 {
		return data
	}

	recordCount := len(data) / itemSize
	remainder := len(data) % itemSize

	out := make([]byte, len(data))
	for record := 0; record < recordCount; record++ {
		base := record * itemSize
		for b := 0; b < itemSize; b++ {
			out[b*recordCount+record] = data[base+b]
		}
	}

	tailSrc := recordCount * itemSize
	copy(out[tailSrc:], data[tailSrc:tailSrc+remainder])

	return out
}

// Inverse reverses Forward: given shuffled data and the same
// itemSize, it reconstructs the original interleaved byte order.
func Inverse(data []byte, itemSize int) []byte {
	if itemSize <= 1 || len(data) == 0 {
		return data
	}

	recordCount := len(data) / itemSize
	remainder := len(data) % itemSize

	out := make([]byte, len(data))
	for record := 0; record < recordCount; record++ {
		base := record * itemSize
		for b := 0; b < itemSize; b++ {
			out[base+b] = data[b*recordCount+record]
		}
	}

	tailSrc := recordCount * itemSize
	copy(out[tailSrc:], data[tailSrc:tailSrc+remainder])

	return out
}
