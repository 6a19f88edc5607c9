// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/utils"
)

var (
	owner     = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
	alice     = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
	bob       = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
	collector = codec.CreateAddress(consts.AccountID, ids.GenerateTestID())
)

func newFeeToken(t *testing.T, mu state.Mutable) codec.Address {
	asset, err := Create(context.Background(), mu, owner, "Fetch", "FET", 2, collector, utils.Units(1_000))
	require.NoError(t, err)
	require.NoError(t, Mint(context.Background(), mu, asset, alice, utils.Units(10_000)))
	return asset
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		fee    uint64
		err    error
	}{
		{name: "", symbol: "X", err: ErrNameEmpty},
		{name: "Token", symbol: "WAYTOOLONG", err: ErrSymbolTooLarge},
		{name: "Token", symbol: "X", fee: 101, err: ErrInvalidFee},
		{name: "Token", symbol: "X", fee: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name+tt.symbol, func(t *testing.T) {
			_, err := Create(context.Background(), state.MutableStorage{}, owner, tt.name, tt.symbol, tt.fee, collector, nil)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTransferFee(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}
	asset := newFeeToken(t, mu)

	received, err := Transfer(ctx, mu, asset, alice, bob, utils.Units(100))
	require.NoError(err)
	require.Equal(utils.Units(98), received)

	bal, err := BalanceOf(ctx, mu, asset, bob)
	require.NoError(err)
	require.Equal(utils.Units(98), bal)
	bal, err = BalanceOf(ctx, mu, asset, collector)
	require.NoError(err)
	require.Equal(utils.Units(2), bal)

	// either side excluded skips the fee
	require.NoError(ExcludeFromFee(ctx, mu, asset, owner, bob, true))
	received, err = Transfer(ctx, mu, asset, alice, bob, utils.Units(100))
	require.NoError(err)
	require.Equal(utils.Units(100), received)

	excluded, err := IsExcludedFromFee(ctx, mu, asset, bob)
	require.NoError(err)
	require.True(excluded)
}

func TestTransferLimit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}
	asset := newFeeToken(t, mu)

	_, err := Transfer(ctx, mu, asset, alice, bob, utils.Units(1_001))
	require.ErrorIs(err, ErrTransferLimitExceeded)

	require.NoError(ExcludeFromTransferLimit(ctx, mu, asset, owner, alice, true))
	_, err = Transfer(ctx, mu, asset, alice, bob, utils.Units(1_001))
	require.NoError(err)

	excluded, err := IsExcludedFromTransferLimit(ctx, mu, asset, alice)
	require.NoError(err)
	require.True(excluded)
}

func TestTransferInsufficient(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}
	asset := newFeeToken(t, mu)

	_, err := Transfer(ctx, mu, asset, bob, alice, uint256.NewInt(1))
	require.ErrorIs(err, ErrInsufficientBalance)

	received, err := Transfer(ctx, mu, asset, bob, alice, new(uint256.Int))
	require.NoError(err)
	require.True(received.IsZero())
}

func TestExclusionOwnerOnly(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}
	asset := newFeeToken(t, mu)

	require.ErrorIs(ExcludeFromFee(ctx, mu, asset, alice, alice, true), storage.ErrNotOwner)
	require.ErrorIs(ExcludeFromTransferLimit(ctx, mu, asset, alice, alice, true), storage.ErrNotOwner)
	require.ErrorIs(ExcludeFromFee(ctx, mu, storage.NativeAsset, owner, alice, true), ErrNativeNotConfigurable)
}

func TestTransferFrom(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}
	asset := newFeeToken(t, mu)
	require.NoError(ExcludeFromFee(ctx, mu, asset, owner, alice, true))

	_, err := TransferFrom(ctx, mu, asset, bob, alice, bob, utils.Units(5))
	require.ErrorIs(err, ErrInsufficientAllowance)

	require.NoError(Approve(ctx, mu, asset, alice, bob, utils.Units(10)))
	_, err = TransferFrom(ctx, mu, asset, bob, alice, bob, utils.Units(4))
	require.NoError(err)

	left, err := Allowance(ctx, mu, asset, alice, bob)
	require.NoError(err)
	require.Equal(utils.Units(6), left)
}

func TestNativeAndWrap(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.MutableStorage{}
	weth, err := Create(ctx, mu, owner, "Wrapped Native", "WETH", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	require.NoError(Mint(ctx, mu, storage.NativeAsset, alice, utils.Units(3)))

	require.NoError(Wrap(ctx, mu, weth, alice, utils.Units(2)))
	bal, err := BalanceOf(ctx, mu, weth, alice)
	require.NoError(err)
	require.Equal(utils.Units(2), bal)
	bal, err = BalanceOf(ctx, mu, storage.NativeAsset, weth)
	require.NoError(err)
	require.Equal(utils.Units(2), bal)

	require.NoError(Unwrap(ctx, mu, weth, alice, utils.Units(2)))
	bal, err = BalanceOf(ctx, mu, storage.NativeAsset, alice)
	require.NoError(err)
	require.Equal(utils.Units(3), bal)

	a, err := Info(ctx, mu, weth)
	require.NoError(err)
	require.True(a.TotalSupply.IsZero())

	require.ErrorIs(Unwrap(ctx, mu, weth, alice, utils.Units(1)), ErrInsufficientWrapReserve)

	exists, err := Exists(ctx, mu, storage.NativeAsset)
	require.NoError(err)
	require.True(exists)
	exists, err = Exists(ctx, mu, bob)
	require.NoError(err)
	require.False(exists)
}
