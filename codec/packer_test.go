// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestPackerRecord(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(2, ids.GenerateTestID())
	amount, err := uint256.FromDecimal("500000000000000000000")
	require.NoError(err)

	wp := NewWriter(128, 256)
	wp.PackAddress(addr)
	wp.PackUint256(amount)
	wp.PackUint256(nil)
	wp.PackInt64(1_700_000_000_000)
	wp.PackBool(true)
	wp.PackString("cut")
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), 256)
	var parsed Address
	rp.UnpackAddress(&parsed)
	require.Equal(addr, parsed)
	require.Equal(amount, rp.UnpackUint256(true))
	require.True(rp.UnpackUint256(false).IsZero())
	require.Equal(int64(1_700_000_000_000), rp.UnpackInt64(true))
	require.True(rp.UnpackBool())
	require.Equal("cut", rp.UnpackString(true))
	require.True(rp.Empty())
	require.NoError(rp.Err())
}

func TestPackerRequired(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(32, 32)
	wp.PackUint256(nil)
	rp := NewReader(wp.Bytes(), 32)
	rp.UnpackUint256(true)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerLimit(t *testing.T) {
	require := require.New(t)
	wp := NewWriter(8, 8)
	wp.PackUint256(uint256.NewInt(1))
	require.Error(wp.Err())
}
