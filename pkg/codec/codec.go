// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec selects and drives compression backends. External
// tools (lbzip2, pigz, xz, zstd, ...) are discovered once per process
// and ranked by parallel capability; compression and decompression are
// exposed as plain byte streams over the chosen tool's stdin/stdout.
// When no tool is installed for a codec, library implementations fill
// in where one exists.
//
// The parallel work itself belongs to the external tool's own
// threading. This package's job is selection, orchestration, and
// cleanup, never reimplementing codec internals.
package codec

import "strings"

// Codec identifies a compression format.
type Codec string

const (
	// None indicates no compression
	None Codec = "none"
	// Bzip2 is the bzip2 format (.bz2)
	Bzip2 Codec = "bzip2"
	// Gzip is the gzip format (.gz)
	Gzip Codec = "gzip"
	// Xz is the xz format (.xz)
	Xz Codec = "xz"
	// Lz4 is the lz4 frame format (.lz4)
	Lz4 Codec = "lz4"
	// Zstd is the Zstandard format (.zst)
	Zstd Codec = "zstd"
)

// IsValid returns true if the codec is recognized.
func (c Codec) IsValid() bool {
	switch c {
	case None, Bzip2, Gzip, Xz, Lz4, Zstd:
		return true
	default:
		return false
	}
}

// String returns the string representation of the codec.
func (c Codec) String() string {
	return string(c)
}

// Extension returns the conventional file suffix for the codec,
// including the leading dot. None returns "".
func (c Codec) Extension() string {
	switch c {
	case Bzip2:
		return ".bz2"
	case Gzip:
		return ".gz"
	case Xz:
		return ".xz"
	case Lz4:
		return ".lz4"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// ParseCodec parses a string into a Codec. Returns None for empty or
// unrecognized strings.
func ParseCodec(s string) Codec {
	switch c := Codec(strings.ToLower(s)); c {
	case Bzip2, Gzip, Xz, Lz4, Zstd, None:
		return c
	case "bz2":
		return Bzip2
	case "gz":
		return Gzip
	case "zst", "zstandard":
		return Zstd
	default:
		return None
	}
}

// DetectFromPath infers the codec from a file name suffix. Returns
// None when the suffix is not recognized.
func DetectFromPath(path string) Codec {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".bz2"), strings.HasSuffix(lower, ".tbz2"):
		return Bzip2
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".tgz"):
		return Gzip
	case strings.HasSuffix(lower, ".xz"), strings.HasSuffix(lower, ".txz"):
		return Xz
	case strings.HasSuffix(lower, ".lz4"):
		return Lz4
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".tzst"):
		return Zstd
	default:
		return None
	}
}
