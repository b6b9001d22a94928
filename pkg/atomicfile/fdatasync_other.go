// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package atomicfile

import "os"

// Fdatasync falls back to standard Sync on non-Linux platforms.
// On macOS, fsync already has fdatasync-like behavior.
func Fdatasync(f *os.File) error {
	return f.Sync()
}
