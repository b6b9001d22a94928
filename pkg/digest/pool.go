// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"hash"
	"sync"
)

// Hash states are pooled per kind so repeated Compute calls over many
// files reuse allocations instead of rebuilding SIMD state each time.
var hasherPools sync.Map // Kind -> *sync.Pool

func getHasher(d Descriptor) hash.Hash {
	v, ok := hasherPools.Load(d.Kind)
	if !ok {
		factory := d.factory
		v, _ = hasherPools.LoadOrStore(d.Kind, &sync.Pool{
			New: func() any { return factory() },
		})
	}
	h := v.(*sync.Pool).Get().(hash.Hash)
	h.Reset()
	return h
}

func putHasher(k Kind, h hash.Hash) {
	v, ok := hasherPools.Load(k)
	if !ok {
		return
	}
	h.Reset()
	v.(*sync.Pool).Put(h)
}
