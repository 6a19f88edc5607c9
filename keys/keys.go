// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keys encodes the value-size allowance every state key carries in
// its last two bytes.
package keys

import (
	"encoding/binary"
	"math"

	"github.com/fetch-ld/ldengine/consts"
)

// ChunkSize is the granularity at which value sizes are accounted.
const ChunkSize = 64 // bytes

// EncodeChunks suffixes [key] with an allowance of [chunks].
func EncodeChunks(key []byte, chunks uint16) []byte {
	return binary.BigEndian.AppendUint16(key, chunks)
}

// MaxChunks returns the allowance suffixed to [key].
func MaxChunks(key []byte) (uint16, bool) {
	if len(key) < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(key[len(key)-consts.Uint16Len:]), true
}

// NumChunks returns how many chunks [value] occupies. An empty value
// occupies none.
func NumChunks(value []byte) (uint16, bool) {
	if len(value) == 0 {
		return 0, true
	}
	n := len(value)/ChunkSize + 1
	if n > math.MaxUint16 {
		return 0, false
	}
	return uint16(n), true
}

// VerifyValue reports whether [value] fits in the allowance of [key].
func VerifyValue(key []byte, value []byte) bool {
	allowed, ok := MaxChunks(key)
	if !ok {
		return false
	}
	used, ok := NumChunks(value)
	return ok && used <= allowed
}
