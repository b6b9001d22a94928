// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable is returned when no backend, external or
// library, can serve the requested codec and direction. The operation
// is not retried; the environment is only re-probed on process start.
var ErrBackendUnavailable = errors.New("codec: no backend available")

// ProcessError reports an external compression tool that exited
// non-zero or crashed. The caller may retry with a different
// parallelism preference; this package never retries on its own.
type ProcessError struct {
	Codec    Codec
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("codec: %s backend %q exited with status %d: %s", e.Codec, e.Tool, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("codec: %s backend %q failed: %v", e.Codec, e.Tool, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
