// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Library backends keep round-trips working on hosts with no external
// tools installed. They always rank below external tools in the
// registry. bzip2 is decode-only (no Go encoder to bundle) and xz has
// no library backend at all.
func libraryBackends() map[Codec]*Backend {
	return map[Codec]*Backend{
		Gzip: {
			Codec: Gzip, Tool: "klauspost/gzip",
			CanEncode: true, CanDecode: true,
		},
		Zstd: {
			Codec: Zstd, Tool: "klauspost/zstd",
			ParallelEncode: true,
			CanEncode:      true, CanDecode: true,
		},
		Lz4: {
			Codec: Lz4, Tool: "pierrec/lz4",
			ParallelEncode: true,
			CanEncode:      true, CanDecode: true,
		},
		Bzip2: {
			Codec: Bzip2, Tool: "stdlib/bzip2",
			CanDecode: true,
		},
	}
}

var lz4Levels = []lz4.CompressionLevel{
	lz4.Fast,
	lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5,
	lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

func newLibraryReader(c Codec, r io.Reader, o options) (io.ReadCloser, error) {
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("codec: gzip reader: %w", err)
		}
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(o.workers))
		if err != nil {
			return nil, fmt.Errorf("codec: zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil
	case Lz4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w for %s %s", ErrBackendUnavailable, c, DirDecompress)
	}
}

func newLibraryWriter(c Codec, w io.Writer, o options) (io.WriteCloser, error) {
	switch c {
	case Gzip:
		level := gzip.DefaultCompression
		if o.level > 0 {
			level = o.level
		}
		zw, err := gzip.NewWriterLevel(w, level)
		if err != nil {
			return nil, fmt.Errorf("codec: gzip writer: %w", err)
		}
		return zw, nil
	case Zstd:
		zopts := []zstd.EOption{zstd.WithEncoderConcurrency(o.workers)}
		if o.level > 0 {
			zopts = append(zopts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(o.level)))
		}
		zw, err := zstd.NewWriter(w, zopts...)
		if err != nil {
			return nil, fmt.Errorf("codec: zstd writer: %w", err)
		}
		return zw, nil
	case Lz4:
		zw := lz4.NewWriter(w)
		lopts := []lz4.Option{lz4.ConcurrencyOption(o.workers)}
		if o.level > 0 && o.level < len(lz4Levels) {
			lopts = append(lopts, lz4.CompressionLevelOption(lz4Levels[o.level]))
		}
		if err := zw.Apply(lopts...); err != nil {
			return nil, fmt.Errorf("codec: lz4 writer: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("%w for %s %s", ErrBackendUnavailable, c, DirCompress)
	}
}
