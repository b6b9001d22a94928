// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, c Codec, payload []byte, opts ...Option) {
	t.Helper()

	var compressed bytes.Buffer
	w, err := NewWriter(c, &compressed, opts...)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(c, bytes.NewReader(compressed.Bytes()), opts...)
	require.NoError(t, err)
	decompressed, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, payload, decompressed)
}

func TestRoundTrip(t *testing.T) {
	compressible := []byte(strings.Repeat("hello world ", 1000))
	random := make([]byte, 64<<10)
	_, err := rand.Read(random)
	require.NoError(t, err)

	for _, c := range []Codec{Bzip2, Gzip, Xz, Lz4, Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			if _, err := ResolveFor(c, DirCompress, false); errors.Is(err, ErrBackendUnavailable) {
				t.Skipf("no %s backend on this host", c)
			}
			roundTrip(t, c, compressible)
			roundTrip(t, c, random)
			roundTrip(t, c, []byte{})
		})
	}
}

func TestRoundTripParallel(t *testing.T) {
	payload := []byte(strings.Repeat("parallel payload ", 4096))

	for _, c := range []Codec{Gzip, Zstd, Lz4} {
		t.Run(c.String(), func(t *testing.T) {
			roundTrip(t, c, payload, WithParallel(true))
			roundTrip(t, c, payload, WithWorkers(2))
		})
	}
}

func TestRoundTripWithLevel(t *testing.T) {
	payload := []byte(strings.Repeat("levelled payload ", 2048))
	roundTrip(t, Gzip, payload, WithLevel(9))
	roundTrip(t, Zstd, payload, WithLevel(3))
}

func TestLibraryRoundTrip(t *testing.T) {
	// Exercises the bundled implementations directly, independent of
	// which tools the host has installed.
	payload := []byte(strings.Repeat("library payload ", 512))
	o := options{workers: 1}

	for _, c := range []Codec{Gzip, Zstd, Lz4} {
		t.Run(c.String(), func(t *testing.T) {
			var compressed bytes.Buffer
			w, err := newLibraryWriter(c, &compressed, o)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := newLibraryReader(c, bytes.NewReader(compressed.Bytes()), o)
			require.NoError(t, err)
			decompressed, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())

			assert.Equal(t, payload, decompressed)
		})
	}
}

func TestLibraryWriterUnsupported(t *testing.T) {
	_, err := newLibraryWriter(Xz, io.Discard, options{workers: 1})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	_, err = newLibraryWriter(Bzip2, io.Discard, options{workers: 1})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

// failingBackend fakes an external tool that exits with status 1
// mid-stream.
func failingBackend() *Backend {
	return &Backend{
		Codec:     Gzip,
		Tool:      "sh",
		Path:      "/bin/sh",
		CanEncode: true,
		CanDecode: true,
		encodeArgs: func(options) []string {
			return []string{"-c", "head -c 16 >/dev/null; echo boom >&2; exit 1"}
		},
		decodeArgs: func(options) []string {
			return []string{"-c", "echo boom >&2; exit 1"}
		},
	}
}

func TestWriterSurfacesProcessFailure(t *testing.T) {
	w, err := newWriterBackend(failingBackend(), io.Discard, options{workers: 1})
	require.NoError(t, err)

	// Writes may or may not fail depending on pipe timing; Close must
	// report the failure either way.
	w.Write(bytes.Repeat([]byte("x"), 16))
	err = w.Close()

	var procErr *ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 1, procErr.ExitCode)
	assert.Contains(t, procErr.Stderr, "boom")

	// Close is idempotent and keeps returning the failure.
	assert.ErrorAs(t, w.Close(), &procErr)
}

func TestReaderSurfacesProcessFailure(t *testing.T) {
	r, err := newReaderBackend(failingBackend(), strings.NewReader("input"), options{workers: 1})
	require.NoError(t, err)

	_, _ = io.ReadAll(r)
	err = r.Close()

	var procErr *ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 1, procErr.ExitCode)
}

func TestTailBufferCapsRetention(t *testing.T) {
	tb := &tailBuffer{limit: 8}
	n, err := tb.Write([]byte("0123456789abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 16, n, "writes are accepted in full")
	assert.Equal(t, "01234567", tb.String())
}
