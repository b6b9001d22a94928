// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/LeeDigitalWorks/zapress/pkg/atomicfile"
)

// CompressFile compresses src into the file at target. The target
// becomes visible only after the full stream has been flushed and the
// backend process has exited cleanly; any failure discards the
// temporary file, so target is never observed partially written.
func CompressFile(ctx context.Context, c Codec, src io.Reader, target string, opts ...Option) error {
	o := newOptions(opts)
	backend, err := ResolveFor(c, DirCompress, o.parallel)
	if err != nil {
		// Resolved before any file is touched: no partial artifact,
		// no stray temp file.
		return err
	}
	return compressToFile(ctx, backend, src, target, o)
}

func compressToFile(ctx context.Context, backend *Backend, src io.Reader, target string, o options) error {
	af, err := atomicfile.Open(target)
	if err != nil {
		return err
	}
	// Discards unless Commit below succeeded first.
	defer af.Close()

	w, err := newWriterBackend(backend, af, o)
	if err != nil {
		return err
	}

	copyErr := copyCtx(ctx, w, src)
	// Close must run even after a copy error: it reaps the backend
	// process.
	if err := firstError(copyErr, w.Close()); err != nil {
		return err
	}

	return af.Commit()
}

// DecompressFile decompresses the compressed stream src into the file
// at target, with the same all-or-nothing visibility as CompressFile.
func DecompressFile(ctx context.Context, c Codec, src io.Reader, target string, opts ...Option) error {
	o := newOptions(opts)
	backend, err := ResolveFor(c, DirDecompress, o.parallel)
	if err != nil {
		return err
	}

	af, err := atomicfile.Open(target)
	if err != nil {
		return err
	}
	defer af.Close()

	r, err := newReaderBackend(backend, src, o)
	if err != nil {
		return err
	}

	if err := firstError(copyCtx(ctx, af, r), r.Close()); err != nil {
		return err
	}

	return af.Commit()
}

// firstError picks the error to surface when both the data copy and
// the stream close failed. A backend process failure explains any
// pipe error the copy saw, so it wins.
func firstError(copyErr, closeErr error) error {
	var procErr *ProcessError
	if errors.As(closeErr, &procErr) {
		return closeErr
	}
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// copyCtx copies with a cancellation check between chunks. There is no
// mid-chunk cancellation; a blocked pipe transfer is only abandoned by
// closing the stream.
func copyCtx(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, 64<<10)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("codec: copy canceled: %w", err)
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}
