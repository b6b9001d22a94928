// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import "github.com/LeeDigitalWorks/zapress/pkg/cputopo"

type options struct {
	parallel bool
	workers  int
	level    int
}

// Option configures stream construction.
type Option func(*options)

// WithParallel requests a multi-worker-capable backend sized to the
// physical core count.
func WithParallel(parallel bool) Option {
	return func(o *options) {
		o.parallel = parallel
	}
}

// WithWorkers requests an explicit tool worker count. Implies a
// parallel backend preference when n > 1. The count is capped at the
// detected physical core count; contending hyperthread siblings add
// CPU consumption without throughput gain.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
		if n > 1 {
			o.parallel = true
		}
	}
}

// WithLevel sets the codec compression level (1-9 for the external
// tool families; mapped for library backends). Zero means the tool's
// default.
func WithLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cores := cputopo.Physical()
	switch {
	case o.workers <= 0:
		if o.parallel {
			o.workers = cores
		} else {
			o.workers = 1
		}
	case o.workers > cores:
		o.workers = cores
	}
	return o
}
