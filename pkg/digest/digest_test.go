// Copyright 2026 Zapress Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"sha256", KindSHA256, false},
		{"SHA256", KindSHA256, false},
		{"Blake3", KindBlake3, false},
		{"crc64nvme", KindCRC64NVMe, false},
		{"whirlpool", KindWhirlpool, false},
		{"md4", KindNone, true},
		{"", KindNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedDigest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		require.NoError(t, err, "kind %s", k)
		assert.Equal(t, k, got)
	}
}

func TestResolvePreference(t *testing.T) {
	tests := []struct {
		kind       Kind
		source     ImplSource
		concurrent bool
		size       int
	}{
		{KindSHA256, SourceAccelerated, true, 32},
		{KindSHA512, SourceStandard, false, 64},
		{KindBlake3, SourceAccelerated, true, 32},
		{KindCRC32, SourceStandard, false, 4},
		{KindCRC64NVMe, SourceAccelerated, true, 8},
		{KindWhirlpool, SourceFallback, false, 64},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			d, err := Resolve(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.source, d.Source)
			assert.Equal(t, tt.concurrent, d.Concurrent)
			assert.Equal(t, tt.size, d.Size)
			assert.Len(t, d.New().Sum(nil), tt.size)
		})
	}
}

func TestResolveUnsupported(t *testing.T) {
	_, err := Resolve(KindNone)
	require.ErrorIs(t, err, ErrUnsupportedDigest)

	_, err = Resolve(Kind(200))
	require.ErrorIs(t, err, ErrUnsupportedDigest)
}

func TestDescriptorNewIsFresh(t *testing.T) {
	d, err := Resolve(KindSHA256)
	require.NoError(t, err)

	h1 := d.New()
	h2 := d.New()
	_, err = h1.Write([]byte("tainted"))
	require.NoError(t, err)

	assert.NotEqual(t, h1.Sum(nil), h2.Sum(nil))
}
