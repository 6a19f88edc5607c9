// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaxChunks(t *testing.T) {
	require := require.New(t)

	chunks, ok := MaxChunks(EncodeChunks([]byte{0x1}, 4))
	require.True(ok)
	require.Equal(uint16(4), chunks)

	_, ok = MaxChunks([]byte{0x1})
	require.False(ok)
}

func TestNumChunks(t *testing.T) {
	tests := []struct {
		size   int
		chunks uint16
	}{
		{size: 0, chunks: 0},
		{size: 1, chunks: 1},
		{size: ChunkSize - 1, chunks: 1},
		{size: ChunkSize, chunks: 2},
		{size: ChunkSize * 3, chunks: 4},
	}
	for _, tt := range tests {
		chunks, ok := NumChunks(make([]byte, tt.size))
		require.True(t, ok)
		require.Equal(t, tt.chunks, chunks, "size %d", tt.size)
	}
}

func TestVerifyValue(t *testing.T) {
	require := require.New(t)
	k := EncodeChunks([]byte{0x1}, 1)

	require.True(VerifyValue(k, nil))
	require.True(VerifyValue(k, make([]byte, ChunkSize-1)))
	require.False(VerifyValue(k, make([]byte, ChunkSize)))
	require.False(VerifyValue([]byte{0x1}, []byte{0x1}))
}
