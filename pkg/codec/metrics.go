// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StreamBytesIn tracks bytes entering a stream (raw bytes for
	// compression, compressed bytes for decompression).
	StreamBytesIn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zapress",
			Subsystem: "codec",
			Name:      "bytes_in_total",
			Help:      "Total bytes consumed by compression/decompression streams",
		},
		[]string{"codec", "operation"},
	)

	// StreamBytesOut tracks bytes produced by a stream.
	StreamBytesOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zapress",
			Subsystem: "codec",
			Name:      "bytes_out_total",
			Help:      "Total bytes produced by compression/decompression streams",
		},
		[]string{"codec", "operation"},
	)

	// StreamDuration tracks wall time from stream open to successful close.
	StreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zapress",
			Subsystem: "codec",
			Name:      "duration_seconds",
			Help:      "Time from stream open to close",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"codec", "operation"},
	)
)

func observeStream(c Codec, dir Direction, bytesIn, bytesOut int64, elapsed time.Duration) {
	codecStr, opStr := c.String(), dir.String()
	StreamBytesIn.WithLabelValues(codecStr, opStr).Add(float64(bytesIn))
	StreamBytesOut.WithLabelValues(codecStr, opStr).Add(float64(bytesOut))
	StreamDuration.WithLabelValues(codecStr, opStr).Observe(elapsed.Seconds())
}
