// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package atomicfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitMakesContentVisible(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")

	f, err := Open(target)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = f.Write([]byte("world"))
	require.NoError(t, err)

	// Nothing visible before commit.
	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.Commit())
	assert.Equal(t, Committed, f.State())

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), content)

	// Temp file is gone after the rename.
	_, err = os.Stat(f.TempPath())
	assert.True(t, os.IsNotExist(err))
}

func TestCloseWithoutCommitDiscards(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")

	f, err := Open(target)
	require.NoError(t, err)

	_, err = f.Write(make([]byte, 1<<20))
	require.NoError(t, err)

	require.NoError(t, f.Close())
	assert.Equal(t, Discarded, f.State())

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err), "target must not exist without commit")
	_, err = os.Stat(f.TempPath())
	assert.True(t, os.IsNotExist(err), "temp file must be removed")
}

func TestDiscardLeavesExistingTargetUntouched(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))

	f, err := Open(target)
	require.NoError(t, err)

	_, err = f.Write([]byte("replacement"))
	require.NoError(t, err)

	require.NoError(t, f.Discard())
	// Discard is idempotent.
	require.NoError(t, f.Discard())

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), content)
}

func TestCommitAfterReleaseFails(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")

	f, err := Open(target)
	require.NoError(t, err)
	_, err = f.Write([]byte("data"))
	require.NoError(t, err)

	require.NoError(t, f.Commit())
	assert.ErrorIs(t, f.Commit(), ErrInvalidState)

	g, err := Open(target)
	require.NoError(t, err)
	require.NoError(t, g.Discard())
	assert.ErrorIs(t, g.Commit(), ErrInvalidState)

	_, err = g.Write([]byte("late"))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLastRenameWins(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.bin")

	first, err := Open(target)
	require.NoError(t, err)
	second, err := Open(target)
	require.NoError(t, err)

	_, err = first.Write([]byte("first"))
	require.NoError(t, err)
	_, err = second.Write([]byte("second"))
	require.NoError(t, err)

	require.NoError(t, first.Commit())
	require.NoError(t, second.Commit())

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), content)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "committed", Committed.String())
	assert.Equal(t, "discarded", Discarded.String())
}
