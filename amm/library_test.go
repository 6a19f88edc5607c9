// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
)

func TestGetAmountOut(t *testing.T) {
	tests := []struct {
		name       string
		amountIn   uint64
		reserveIn  uint64
		reserveOut uint64
		expected   uint64
		err        error
	}{
		{name: "balanced pool", amountIn: 1_000, reserveIn: 1_000_000, reserveOut: 1_000_000, expected: 996},
		{name: "deep out reserve", amountIn: 10, reserveIn: 100, reserveOut: 1_000, expected: 90},
		{name: "zero input", amountIn: 0, reserveIn: 100, reserveOut: 100, err: ErrInsufficientInputAmount},
		{name: "empty pool", amountIn: 10, reserveIn: 0, reserveOut: 100, err: ErrInsufficientLiquidity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			out, err := GetAmountOut(uint256.NewInt(tt.amountIn), uint256.NewInt(tt.reserveIn), uint256.NewInt(tt.reserveOut))
			require.ErrorIs(err, tt.err)
			if tt.err == nil {
				require.Equal(uint256.NewInt(tt.expected), out)
			}
		})
	}
}

func TestGetAmountInRoundTrip(t *testing.T) {
	require := require.New(t)
	reserveIn, reserveOut := uint256.NewInt(5_000_000), uint256.NewInt(2_000_000)
	want := uint256.NewInt(12_345)

	in, err := GetAmountIn(want, reserveIn, reserveOut)
	require.NoError(err)
	out, err := GetAmountOut(in, reserveIn, reserveOut)
	require.NoError(err)
	require.False(out.Lt(want))

	_, err = GetAmountIn(reserveOut, reserveIn, reserveOut)
	require.ErrorIs(err, ErrInsufficientLiquidity)
}

func TestQuote(t *testing.T) {
	require := require.New(t)
	v, err := Quote(uint256.NewInt(10), uint256.NewInt(100), uint256.NewInt(250))
	require.NoError(err)
	require.Equal(uint256.NewInt(25), v)

	_, err = Quote(new(uint256.Int), uint256.NewInt(1), uint256.NewInt(1))
	require.ErrorIs(err, ErrInsufficientAmount)
}

func TestSortTokens(t *testing.T) {
	require := require.New(t)
	a := codec.CreateAddress(consts.AssetID, ids.ID{1})
	b := codec.CreateAddress(consts.AssetID, ids.ID{2})

	t0, t1, err := SortTokens(b, a)
	require.NoError(err)
	require.Equal(a, t0)
	require.Equal(b, t1)

	_, _, err = SortTokens(a, a)
	require.ErrorIs(err, ErrIdenticalAddresses)
	_, _, err = SortTokens(codec.EmptyAddress, a)
	require.ErrorIs(err, ErrZeroAddress)
}
