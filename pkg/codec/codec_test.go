// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecIsValid(t *testing.T) {
	tests := []struct {
		codec Codec
		valid bool
	}{
		{None, true},
		{Bzip2, true},
		{Gzip, true},
		{Xz, true},
		{Lz4, true},
		{Zstd, true},
		{"", false},
		{"brotli", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.codec), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.codec.IsValid())
		})
	}
}

func TestParseCodec(t *testing.T) {
	tests := []struct {
		input    string
		expected Codec
	}{
		{"bzip2", Bzip2},
		{"bz2", Bzip2},
		{"gzip", Gzip},
		{"gz", Gzip},
		{"xz", Xz},
		{"lz4", Lz4},
		{"zstd", Zstd},
		{"zst", Zstd},
		{"ZSTD", Zstd},
		{"none", None},
		{"", None},
		{"brotli", None},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCodec(tt.input))
		})
	}
}

func TestDetectFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Codec
	}{
		{"archive.tar.bz2", Bzip2},
		{"archive.tbz2", Bzip2},
		{"data.gz", Gzip},
		{"backup.tgz", Gzip},
		{"kernel.tar.xz", Xz},
		{"dump.lz4", Lz4},
		{"layer.zst", Zstd},
		{"UPPER.GZ", Gzip},
		{"plain.tar", None},
		{"noext", None},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFromPath(tt.path))
		})
	}
}

func TestExtensionRoundTrip(t *testing.T) {
	for _, c := range []Codec{Bzip2, Gzip, Xz, Lz4, Zstd} {
		assert.Equal(t, c, DetectFromPath("file"+c.Extension()), "extension of %s must detect back", c)
	}
	assert.Equal(t, "", None.Extension())
}
