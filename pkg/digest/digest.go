// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest maps digest kinds to hash implementations and
// computes several digests over one source concurrently. Accelerated
// implementations (SIMD, hardware CRC) are preferred over standard
// ones, which are preferred over pure-Go fallbacks; the preference is
// a static table resolved once, not runtime type inspection.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	stdsha256 "crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"strings"

	"github.com/jzelinskie/whirlpool"
	"github.com/minio/crc64nvme"
	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
)

// ErrUnsupportedDigest is returned when a requested digest kind has no
// implementation. Surfaced before any I/O begins, so partial work is
// never started.
var ErrUnsupportedDigest = errors.New("digest: unsupported digest kind")

// Kind identifies a checksum/hash algorithm.
type Kind uint8

const (
	KindNone Kind = iota
	KindMD5
	KindSHA1
	KindSHA256
	KindSHA512
	KindBlake3
	KindCRC32
	KindCRC64NVMe
	KindWhirlpool
)

var (
	kindNames = map[Kind]string{
		KindMD5:       "md5",
		KindSHA1:      "sha1",
		KindSHA256:    "sha256",
		KindSHA512:    "sha512",
		KindBlake3:    "blake3",
		KindCRC32:     "crc32",
		KindCRC64NVMe: "crc64nvme",
		KindWhirlpool: "whirlpool",
	}
	kindValues = map[string]Kind{
		"md5":       KindMD5,
		"sha1":      KindSHA1,
		"sha256":    KindSHA256,
		"sha512":    KindSHA512,
		"blake3":    KindBlake3,
		"crc32":     KindCRC32,
		"crc64nvme": KindCRC64NVMe,
		"whirlpool": KindWhirlpool,
	}
)

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "none"
}

func (k Kind) IsValid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind parses a digest kind name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindValues[strings.ToLower(s)]; ok {
		return k, nil
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnsupportedDigest, s)
}

// ImplSource classifies where an implementation comes from.
type ImplSource uint8

const (
	// SourceAccelerated uses SIMD or dedicated hardware instructions.
	SourceAccelerated ImplSource = iota
	// SourceStandard is the standard library implementation.
	SourceStandard
	// SourceFallback is a bundled pure-Go implementation.
	SourceFallback
)

func (s ImplSource) String() string {
	switch s {
	case SourceAccelerated:
		return "accelerated"
	case SourceStandard:
		return "standard"
	default:
		return "fallback"
	}
}

// Descriptor is a resolved digest implementation. Immutable.
type Descriptor struct {
	Kind   Kind
	Source ImplSource
	// Concurrent marks implementations that profit from running on
	// their own OS thread alongside other digest work.
	Concurrent bool
	// Size is the digest length in bytes.
	Size int

	factory func() hash.Hash
}

// New returns a fresh hash state for the descriptor.
func (d Descriptor) New() hash.Hash {
	return d.factory()
}

type provider struct {
	source     ImplSource
	concurrent bool
	size       int
	factory    func() hash.Hash
}

// providers lists implementations per kind, most preferred first:
// accelerated > standard > fallback.
var providers = map[Kind][]provider{
	KindMD5: {
		{SourceStandard, false, md5.Size, md5.New},
	},
	KindSHA1: {
		{SourceStandard, false, sha1.Size, sha1.New},
	},
	KindSHA256: {
		{SourceAccelerated, true, sha256.Size, sha256.New},
		{SourceStandard, false, stdsha256.Size, stdsha256.New},
	},
	KindSHA512: {
		{SourceStandard, false, sha512.Size, sha512.New},
	},
	KindBlake3: {
		{SourceAccelerated, true, 32, func() hash.Hash { return blake3.New() }},
	},
	KindCRC32: {
		{SourceStandard, false, crc32.Size, func() hash.Hash { return crc32.NewIEEE() }},
	},
	KindCRC64NVMe: {
		{SourceAccelerated, true, crc64nvme.Size, func() hash.Hash { return crc64nvme.New() }},
	},
	KindWhirlpool: {
		{SourceFallback, false, 64, whirlpool.New},
	},
}

// Resolve returns the preferred implementation for the kind, or
// ErrUnsupportedDigest.
func Resolve(k Kind) (Descriptor, error) {
	impls, ok := providers[k]
	if !ok || len(impls) == 0 {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedDigest, k)
	}
	p := impls[0]
	return Descriptor{
		Kind:       k,
		Source:     p.source,
		Concurrent: p.concurrent,
		Size:       p.size,
		factory:    p.factory,
	}, nil
}

// Kinds returns every supported digest kind in stable order.
func Kinds() []Kind {
	return []Kind{
		KindMD5, KindSHA1, KindSHA256, KindSHA512,
		KindBlake3, KindCRC32, KindCRC64NVMe, KindWhirlpool,
	}
}
