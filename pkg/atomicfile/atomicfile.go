// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile provides a transactional file-write primitive:
// bytes are buffered in a temporary file next to the target and become
// visible at the target path only on an explicit Commit, via rename.
// Other processes never observe a partially written target.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidState is returned when Commit or Write is attempted on a
// handle that has already been committed or discarded. This is a
// programmer error, not a recoverable condition.
var ErrInvalidState = errors.New("atomicfile: handle is no longer active")

// State tracks the handle lifecycle. A handle transitions from Active
// to exactly one of Committed or Discarded.
type State uint8

const (
	Active State = iota
	Committed
	Discarded
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Committed:
		return "committed"
	case Discarded:
		return "discarded"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// File is a pending atomic write. It implements io.WriteCloser. Close
// without a prior Commit discards the temporary file, so a commit is
// always an explicit decision.
//
// Concurrent writers to the same target race at rename time; the last
// rename wins. Callers needing mutual exclusion must serialize
// externally.
type File struct {
	target string
	tmp    *os.File
	state  State
}

// Open creates a temporary file in the same directory as target. Same
// directory means same filesystem, which keeps the final rename atomic.
func Open(target string) (*File, error) {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("atomicfile: create temp in %s: %w", dir, err)
	}
	return &File{target: target, tmp: tmp}, nil
}

// Write appends to the temporary file.
func (f *File) Write(p []byte) (int, error) {
	if f.state != Active {
		return 0, ErrInvalidState
	}
	return f.tmp.Write(p)
}

// State reports the current lifecycle state.
func (f *File) State() State {
	return f.state
}

// TempPath returns the temporary file path backing the handle.
func (f *File) TempPath() string {
	return f.tmp.Name()
}

// Commit syncs the temporary file and renames it over the target,
// making the full content visible in one step. A second Commit (or a
// Commit after Discard) fails with ErrInvalidState.
func (f *File) Commit() error {
	if f.state != Active {
		return ErrInvalidState
	}
	if err := Fdatasync(f.tmp); err != nil {
		f.abort()
		return fmt.Errorf("atomicfile: sync %s: %w", f.tmp.Name(), err)
	}
	if err := f.tmp.Close(); err != nil {
		f.state = Discarded
		os.Remove(f.tmp.Name())
		return fmt.Errorf("atomicfile: close %s: %w", f.tmp.Name(), err)
	}
	if err := os.Rename(f.tmp.Name(), f.target); err != nil {
		f.state = Discarded
		os.Remove(f.tmp.Name())
		return fmt.Errorf("atomicfile: rename to %s: %w", f.target, err)
	}
	f.state = Committed
	return nil
}

// Discard removes the temporary file and leaves the target untouched.
// Calling Discard on an already released handle is a no-op.
func (f *File) Discard() error {
	if f.state != Active {
		return nil
	}
	f.abort()
	return nil
}

// Close discards the handle if it is still active. Committed handles
// close as a no-op, so `defer f.Close()` pairs safely with an explicit
// Commit on the success path.
func (f *File) Close() error {
	return f.Discard()
}

func (f *File) abort() {
	f.state = Discarded
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}
