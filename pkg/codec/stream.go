// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/LeeDigitalWorks/zapress/pkg/logger"
)

// NewReader returns a stream that decompresses r. The backend is
// resolved from the registry; for external tools the subprocess is
// started immediately with its stdin wired to r. Close is required on
// every path: it reaps the subprocess and surfaces a *ProcessError if
// the tool exited non-zero.
func NewReader(c Codec, r io.Reader, opts ...Option) (io.ReadCloser, error) {
	o := newOptions(opts)
	b, err := ResolveFor(c, DirDecompress, o.parallel)
	if err != nil {
		return nil, err
	}
	return newReaderBackend(b, r, o)
}

// NewWriter returns a stream that compresses everything written to it
// into w. Close flushes, waits for the backend to exit, and surfaces
// a *ProcessError on non-zero exit status.
func NewWriter(c Codec, w io.Writer, opts ...Option) (io.WriteCloser, error) {
	o := newOptions(opts)
	b, err := ResolveFor(c, DirCompress, o.parallel)
	if err != nil {
		return nil, err
	}
	return newWriterBackend(b, w, o)
}

func newReaderBackend(b *Backend, r io.Reader, o options) (io.ReadCloser, error) {
	if b.Internal() {
		return newLibraryReader(b.Codec, r, o)
	}

	cmd := exec.Command(b.Path, b.decodeArgs(o)...)
	stderr := &tailBuffer{limit: 4 << 10}
	in := &countingReader{r: r}
	cmd.Stdin = in
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ProcessError{Codec: b.Codec, Tool: b.Tool, ExitCode: -1, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &ProcessError{Codec: b.Codec, Tool: b.Tool, ExitCode: -1, Err: err}
	}
	logger.Debug().Str("tool", b.Tool).Strs("args", cmd.Args[1:]).Msg("started decompression backend")

	return &procReader{
		backend: b,
		cmd:     cmd,
		stdout:  stdout,
		in:      in,
		stderr:  stderr,
		started: time.Now(),
	}, nil
}

func newWriterBackend(b *Backend, w io.Writer, o options) (io.WriteCloser, error) {
	if b.Internal() {
		return newLibraryWriter(b.Codec, w, o)
	}

	cmd := exec.Command(b.Path, b.encodeArgs(o)...)
	stderr := &tailBuffer{limit: 4 << 10}
	out := &countingWriter{w: w}
	cmd.Stdout = out
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &ProcessError{Codec: b.Codec, Tool: b.Tool, ExitCode: -1, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &ProcessError{Codec: b.Codec, Tool: b.Tool, ExitCode: -1, Err: err}
	}
	logger.Debug().Str("tool", b.Tool).Strs("args", cmd.Args[1:]).Msg("started compression backend")

	return &procWriter{
		backend: b,
		cmd:     cmd,
		stdin:   stdin,
		out:     out,
		stderr:  stderr,
		started: time.Now(),
	}, nil
}

// procReader decompresses by reading the tool's stdout. Exclusively
// owned by one operation; reads are strictly ordered, blocking on pipe
// I/O with no buffering beyond the OS pipe.
type procReader struct {
	backend *Backend
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	in      *countingReader
	stderr  *tailBuffer
	started time.Time

	bytesOut int64
	closed   bool
	closeErr error
}

func (r *procReader) Read(p []byte) (int, error) {
	n, err := r.stdout.Read(p)
	r.bytesOut += int64(n)
	return n, err
}

// Close reaps the subprocess. Guaranteed on every exit path: even
// after a read error the process is waited on, never leaked.
func (r *procReader) Close() error {
	if r.closed {
		return r.closeErr
	}
	r.closed = true

	r.stdout.Close()
	r.closeErr = reap(r.cmd, r.backend, r.stderr)
	if r.closeErr == nil {
		observeStream(r.backend.Codec, DirDecompress, r.in.n, r.bytesOut, time.Since(r.started))
	}
	return r.closeErr
}

// procWriter compresses by writing to the tool's stdin.
type procWriter struct {
	backend *Backend
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	out     *countingWriter
	stderr  *tailBuffer
	started time.Time

	bytesIn  int64
	closed   bool
	closeErr error
}

func (w *procWriter) Write(p []byte) (int, error) {
	n, err := w.stdin.Write(p)
	w.bytesIn += int64(n)
	return n, err
}

// Close flushes the writer end and waits for the tool to exit. Called
// after an earlier write error it still performs the wait, so the
// process is reaped on every path.
func (w *procWriter) Close() error {
	if w.closed {
		return w.closeErr
	}
	w.closed = true

	w.stdin.Close()
	w.closeErr = reap(w.cmd, w.backend, w.stderr)
	if w.closeErr == nil {
		observeStream(w.backend.Codec, DirCompress, w.bytesIn, w.out.n, time.Since(w.started))
	}
	return w.closeErr
}

func reap(cmd *exec.Cmd, b *Backend, stderr *tailBuffer) error {
	err := cmd.Wait()
	if err == nil {
		return nil
	}
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &ProcessError{
		Codec:    b.Codec,
		Tool:     b.Tool,
		ExitCode: code,
		Stderr:   stderr.String(),
		Err:      err,
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// tailBuffer keeps the first limit bytes written, enough stderr
// context for error messages without unbounded growth.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	if remaining := t.limit - len(t.buf); remaining > 0 {
		if len(p) > remaining {
			t.buf = append(t.buf, p[:remaining]...)
		} else {
			t.buf = append(t.buf, p...)
		}
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
