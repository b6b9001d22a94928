// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"sync"

	"github.com/LeeDigitalWorks/zapress/pkg/logger"
)

// Direction selects between compression and decompression.
type Direction uint8

const (
	DirCompress Direction = iota
	DirDecompress
)

func (d Direction) String() string {
	if d == DirCompress {
		return "compress"
	}
	return "decompress"
}

// Backend describes one way to run a codec: an external tool resolved
// on PATH, or a bundled library implementation. Backends are immutable
// once probed.
type Backend struct {
	Codec Codec
	// Tool is the command name ("lbzip2"), or the library identifier
	// for bundled implementations ("klauspost/gzip").
	Tool string
	// Path is the resolved executable path. Empty for library backends.
	Path string

	// ParallelDecode: can decode any archive of this codec with
	// multiple workers, regardless of which tool produced it.
	ParallelDecode bool
	// ParallelDecodeOwn: can parallel-decode only archives it produced
	// itself (multi-stream / multi-block output).
	ParallelDecodeOwn bool
	ParallelEncode    bool

	CanEncode bool
	CanDecode bool

	encodeArgs func(o options) []string
	decodeArgs func(o options) []string
}

// Internal reports whether the backend is a bundled library
// implementation rather than an external tool.
func (b *Backend) Internal() bool {
	return b.Path == ""
}

func (b *Backend) supports(dir Direction) bool {
	if dir == DirCompress {
		return b.CanEncode
	}
	return b.CanDecode
}

func (b *Backend) String() string {
	return fmt.Sprintf("%s(%s)", b.Codec, b.Tool)
}

// toolSpec is one row of the probe table.
type toolSpec struct {
	tool              string
	parallelDecode    bool
	parallelDecodeOwn bool
	parallelEncode    bool
	encode            func(o options) []string
	decode            func(o options) []string
}

func levelArg(o options) []string {
	if o.level > 0 {
		return []string{"-" + strconv.Itoa(o.level)}
	}
	return nil
}

// probeTable lists candidate external tools per codec, most capable
// first. Ordering encodes the tie-break: broad parallel decode beats
// own-output-only parallel decode beats single-threaded.
var probeTable = map[Codec][]toolSpec{
	Bzip2: {
		{
			// lbzip2 splits any .bz2 into independently decodable
			// blocks, so it parallel-decodes archives produced by
			// plain bzip2 too.
			tool:           "lbzip2",
			parallelDecode: true, parallelEncode: true,
			encode: func(o options) []string {
				return append(append([]string{"-z", "-c"}, levelArg(o)...), "-n", strconv.Itoa(o.workers))
			},
			decode: func(o options) []string {
				return []string{"-d", "-c", "-n", strconv.Itoa(o.workers)}
			},
		},
		{
			tool:              "pbzip2",
			parallelDecodeOwn: true, parallelEncode: true,
			encode: func(o options) []string {
				return append(append([]string{"-z", "-c"}, levelArg(o)...), "-p"+strconv.Itoa(o.workers))
			},
			decode: func(o options) []string {
				return []string{"-d", "-c", "-p" + strconv.Itoa(o.workers)}
			},
		},
		{
			tool: "bzip2",
			encode: func(o options) []string {
				return append([]string{"-z", "-c"}, levelArg(o)...)
			},
			decode: func(o options) []string {
				return []string{"-d", "-c"}
			},
		},
	},
	Gzip: {
		{
			tool:           "pigz",
			parallelEncode: true,
			encode: func(o options) []string {
				return append(append([]string{"-c"}, levelArg(o)...), "-p", strconv.Itoa(o.workers))
			},
			decode: func(o options) []string {
				return []string{"-d", "-c"}
			},
		},
		{
			tool: "gzip",
			encode: func(o options) []string {
				return append([]string{"-c"}, levelArg(o)...)
			},
			decode: func(o options) []string {
				return []string{"-d", "-c"}
			},
		},
	},
	Xz: {
		{
			// xz -T parallel-decodes only multi-block archives, i.e.
			// those produced with -T in the first place.
			tool:              "xz",
			parallelDecodeOwn: true, parallelEncode: true,
			encode: func(o options) []string {
				return append(append([]string{"-z", "-c"}, levelArg(o)...), "-T", strconv.Itoa(o.workers))
			},
			decode: func(o options) []string {
				return []string{"-d", "-c", "-T", strconv.Itoa(o.workers)}
			},
		},
	},
	Lz4: {
		{
			tool: "lz4",
			encode: func(o options) []string {
				return append([]string{"-z", "-c"}, levelArg(o)...)
			},
			decode: func(o options) []string {
				return []string{"-d", "-c"}
			},
		},
	},
	Zstd: {
		{
			tool:              "pzstd",
			parallelDecodeOwn: true, parallelEncode: true,
			encode: func(o options) []string {
				return append(append([]string{"-c"}, levelArg(o)...), "-p", strconv.Itoa(o.workers))
			},
			decode: func(o options) []string {
				return []string{"-d", "-c", "-p", strconv.Itoa(o.workers)}
			},
		},
		{
			tool:           "zstd",
			parallelEncode: true,
			encode: func(o options) []string {
				return append(append([]string{"-c"}, levelArg(o)...), "-T", strconv.Itoa(o.workers))
			},
			decode: func(o options) []string {
				return []string{"-d", "-c"}
			},
		},
	},
}

var (
	probeOnce sync.Once
	registry  map[Codec][]*Backend
)

func ensureProbed() {
	probeOnce.Do(func() {
		registry = probe(exec.LookPath)
		for _, c := range []Codec{Bzip2, Gzip, Xz, Lz4, Zstd} {
			for _, b := range registry[c] {
				logger.Debug().
					Str("codec", c.String()).
					Str("tool", b.Tool).
					Str("path", b.Path).
					Bool("parallel_decode", b.ParallelDecode || b.ParallelDecodeOwn).
					Bool("parallel_encode", b.ParallelEncode).
					Msg("probed compression backend")
			}
		}
	})
}

// probe resolves each candidate tool on PATH and appends library
// fallbacks. Tool installation changes are not observed until next
// process start; this staleness window is accepted.
func probe(lookPath func(string) (string, error)) map[Codec][]*Backend {
	found := make(map[Codec][]*Backend, len(probeTable))
	for c, specs := range probeTable {
		for _, s := range specs {
			path, err := lookPath(s.tool)
			if err != nil {
				continue
			}
			found[c] = append(found[c], &Backend{
				Codec:             c,
				Tool:              s.tool,
				Path:              path,
				ParallelDecode:    s.parallelDecode,
				ParallelDecodeOwn: s.parallelDecodeOwn,
				ParallelEncode:    s.parallelEncode,
				CanEncode:         true,
				CanDecode:         true,
				encodeArgs:        s.encode,
				decodeArgs:        s.decode,
			})
		}
	}
	for c, b := range libraryBackends() {
		found[c] = append(found[c], b)
	}
	return found
}

// Resolve returns the best backend for the codec under the given
// parallelism preference, or ErrBackendUnavailable. With wantParallel
// set, tools that parallel-decode arbitrary archives outrank tools
// that only parallel-decode their own output, which outrank
// single-threaded tools. Without it, the canonical single-threaded
// tool wins when present.
func Resolve(c Codec, wantParallel bool) (*Backend, error) {
	ensureProbed()
	return resolveIn(registry, c, DirCompress, wantParallel)
}

// ResolveFor is Resolve with an explicit direction, needed because
// some library backends are decode-only.
func ResolveFor(c Codec, dir Direction, wantParallel bool) (*Backend, error) {
	ensureProbed()
	return resolveIn(registry, c, dir, wantParallel)
}

func resolveIn(m map[Codec][]*Backend, c Codec, dir Direction, wantParallel bool) (*Backend, error) {
	var candidates []*Backend
	for _, b := range m[c] {
		if b.supports(dir) {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w for %s %s", ErrBackendUnavailable, c, dir)
	}

	if !wantParallel {
		// Canonical single-threaded external tool first, then any
		// external tool, then library fallback. Candidate order
		// already places externals before fallbacks.
		for _, b := range candidates {
			if !b.Internal() && !b.ParallelDecode && !b.ParallelDecodeOwn && !b.ParallelEncode {
				return b, nil
			}
		}
		return candidates[0], nil
	}

	best := candidates[0]
	for _, b := range candidates[1:] {
		if parallelRank(b) > parallelRank(best) {
			best = b
		}
	}
	return best, nil
}

// parallelRank orders candidates under a parallel preference. Broad
// decode compatibility dominates; library backends never outrank an
// external tool of equal capability because probe order breaks ties
// and externals come first.
func parallelRank(b *Backend) int {
	rank := 0
	if b.ParallelDecode {
		rank += 4
	} else if b.ParallelDecodeOwn {
		rank += 2
	}
	if b.ParallelEncode {
		rank++
	}
	return rank
}

// Backends returns every probed backend, ordered by codec then
// capability, for diagnostics.
func Backends() []*Backend {
	ensureProbed()
	var all []*Backend
	for _, list := range registry {
		all = append(all, list...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Codec != all[j].Codec {
			return all[i].Codec < all[j].Codec
		}
		return parallelRank(all[i]) > parallelRank(all[j])
	})
	return all
}
