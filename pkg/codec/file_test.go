// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(strings.Repeat("file payload ", 2048))

	compressed := filepath.Join(dir, "payload.gz")
	err := CompressFile(context.Background(), Gzip, bytes.NewReader(payload), compressed)
	require.NoError(t, err)

	stat, err := os.Stat(compressed)
	require.NoError(t, err)
	assert.Less(t, stat.Size(), int64(len(payload)))

	in, err := os.Open(compressed)
	require.NoError(t, err)
	defer in.Close()

	restored := filepath.Join(dir, "payload.out")
	err = DecompressFile(context.Background(), Gzip, in, restored)
	require.NoError(t, err)

	content, err := os.ReadFile(restored)
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestCompressFileUnavailableBackendLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.bz2")
	payload := bytes.Repeat([]byte("hello world"), 1000)

	// Decode-only library backends cannot serve compression, so a
	// host without bzip2 tooling must fail before touching the target.
	if _, err := ResolveFor(Bzip2, DirCompress, false); err == nil {
		t.Skip("bzip2 tool installed on this host")
	}

	err := CompressFile(context.Background(), Bzip2, bytes.NewReader(payload), target)
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "no partial file may exist")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp residue may exist")
}

func TestCompressFileProcessFailureDiscards(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.gz")

	err := compressToFile(context.Background(), failingBackend(),
		strings.NewReader(strings.Repeat("x", 1<<16)), target, options{workers: 1})

	var procErr *ProcessError
	require.ErrorAs(t, err, &procErr)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "failed compression must discard, not commit")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestCompressFileCanceledContext(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.gz")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CompressFile(ctx, Gzip, strings.NewReader("data"), target)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}
