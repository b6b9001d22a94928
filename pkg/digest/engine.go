// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sync"

	"github.com/LeeDigitalWorks/zapress/pkg/cputopo"
)

// Source is anything that can hand out independent readers over the
// same bytes. Parallel computation opens one reader per digest, so
// Open must be callable more than once.
type Source interface {
	Open() (io.ReadCloser, error)
}

type fileSource struct {
	path string
}

// FileSource reads from a file on disk.
func FileSource(path string) Source {
	return fileSource{path: path}
}

func (s fileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

type bytesSource struct {
	data []byte
}

// BytesSource reads from an in-memory buffer.
func BytesSource(b []byte) Source {
	return bytesSource{data: b}
}

func (s bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// ComputeError reports which digest failed and why.
type ComputeError struct {
	Kind Kind
	Err  error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("digest: compute %s: %v", e.Kind, e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}

// Result maps each requested kind to its digest bytes.
type Result map[Kind][]byte

// Hex returns the lowercase hex encoding of the digest for the kind,
// or "" when the kind was not computed.
func (r Result) Hex(k Kind) string {
	sum, ok := r[k]
	if !ok {
		return ""
	}
	return hex.EncodeToString(sum)
}

// Compute calculates every requested digest over the source. Duplicate
// kinds are collapsed. All kinds are resolved before any byte is read,
// so an unsupported kind never costs I/O. With more than one kind on a
// multi-core host each digest runs in its own goroutine over its own
// reader; otherwise a single pass feeds all hash states.
func Compute(ctx context.Context, src Source, kinds ...Kind) (Result, error) {
	ks := dedupe(kinds)
	if len(ks) == 0 {
		return Result{}, nil
	}

	descs := make([]Descriptor, len(ks))
	for i, k := range ks {
		d, err := Resolve(k)
		if err != nil {
			return nil, err
		}
		descs[i] = d
	}

	if len(ks) > 1 && cputopo.Physical() > 1 {
		return computeParallel(ctx, src, descs)
	}
	return computeSequential(ctx, src, descs)
}

func computeSequential(ctx context.Context, src Source, descs []Descriptor) (Result, error) {
	r, err := src.Open()
	if err != nil {
		return nil, &ComputeError{Kind: descs[0].Kind, Err: err}
	}
	defer r.Close()

	states := make([]hash.Hash, len(descs))
	writers := make([]io.Writer, len(descs))
	for i, d := range descs {
		states[i] = getHasher(d)
		writers[i] = states[i]
	}
	defer func() {
		for i, d := range descs {
			putHasher(d.Kind, states[i])
		}
	}()

	if err := copyCtx(ctx, io.MultiWriter(writers...), r); err != nil {
		return nil, &ComputeError{Kind: descs[0].Kind, Err: err}
	}

	out := make(Result, len(descs))
	for i, d := range descs {
		out[d.Kind] = states[i].Sum(nil)
	}
	return out, nil
}

func computeParallel(ctx context.Context, src Source, descs []Descriptor) (Result, error) {
	sums := make([][]byte, len(descs))
	errs := make([]error, len(descs))

	var wg sync.WaitGroup
	for i, d := range descs {
		wg.Add(1)
		go func(i int, d Descriptor) {
			defer wg.Done()
			sums[i], errs[i] = computeOne(ctx, src, d)
		}(i, d)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &ComputeError{Kind: descs[i].Kind, Err: err}
		}
	}

	out := make(Result, len(descs))
	for i, d := range descs {
		out[d.Kind] = sums[i]
	}
	return out, nil
}

func computeOne(ctx context.Context, src Source, d Descriptor) ([]byte, error) {
	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	h := getHasher(d)
	defer putHasher(d.Kind, h)

	if err := copyCtx(ctx, h, r); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

func dedupe(kinds []Kind) []Kind {
	seen := make(map[Kind]struct{}, len(kinds))
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func copyCtx(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
