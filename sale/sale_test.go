// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sale

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/fetch-ld/ldengine/amm"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
	"github.com/fetch-ld/ldengine/utils"
)

type env struct {
	mu     state.MutableStorage
	owner  codec.Address
	buyer  codec.Address
	wallet codec.Address
	asset  codec.Address
	router codec.Address
	sale   codec.Address
}

func newEnv(t *testing.T, supply uint64) *env {
	require := require.New(t)
	ctx := context.Background()
	e := &env{
		mu:     state.MutableStorage{},
		owner:  codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
		buyer:  codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
		wallet: codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
	}
	weth, err := token.Create(ctx, e.mu, e.owner, "Wrapped Native", "WETH", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	e.asset, err = token.Create(ctx, e.mu, e.owner, "Fetch", "FET", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	factory, err := amm.DeployFactory(ctx, e.mu, e.owner)
	require.NoError(err)
	e.router, err = amm.DeployRouter(ctx, e.mu, e.owner, factory, weth)
	require.NoError(err)
	e.sale, err = Deploy(ctx, e.mu, e.owner, e.asset, e.router, e.wallet)
	require.NoError(err)

	require.NoError(token.Mint(ctx, e.mu, storage.NativeAsset, e.owner, utils.Units(100)))
	require.NoError(token.Mint(ctx, e.mu, storage.NativeAsset, e.buyer, utils.Units(10)))
	require.NoError(token.Mint(ctx, e.mu, e.asset, e.owner, utils.Units(10_000)))
	require.NoError(token.Mint(ctx, e.mu, e.asset, e.sale, utils.Units(supply)))
	require.NoError(token.Approve(ctx, e.mu, e.asset, e.owner, e.router, utils.Units(10_000)))
	_, err = amm.AddLiquidityETH(
		ctx, e.mu, e.router, e.owner,
		utils.Units(100), e.asset, utils.Units(10_000),
		new(uint256.Int), new(uint256.Int), e.owner, 0, 0,
	)
	require.NoError(err)
	return e
}

func TestWhitelistOwnerOnly(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t, 1_000)

	require.ErrorIs(UpdateWhiteList(ctx, e.mu, e.sale, e.buyer, e.buyer, true), storage.ErrNotOwner)
	ok, err := IsWhitelisted(ctx, e.mu, e.sale, e.buyer)
	require.NoError(err)
	require.False(ok)

	require.NoError(UpdateWhiteList(ctx, e.mu, e.sale, e.owner, e.buyer, true))
	ok, err = IsWhitelisted(ctx, e.mu, e.sale, e.buyer)
	require.NoError(err)
	require.True(ok)
}

func TestBuy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t, 1_000)
	beneficiary := codec.CreateAddress(consts.AccountID, ids.GenerateTestID())

	_, err := Buy(ctx, e.mu, e.sale, e.buyer, beneficiary, utils.Units(1))
	require.ErrorIs(err, ErrNotWhitelisted)

	require.NoError(UpdateWhiteList(ctx, e.mu, e.sale, e.owner, e.buyer, true))
	quoted, err := Price(ctx, e.mu, e.sale, utils.Units(1))
	require.NoError(err)
	received, err := Buy(ctx, e.mu, e.sale, e.buyer, beneficiary, utils.Units(1))
	require.NoError(err)
	require.Equal(quoted, received)

	got, err := token.BalanceOf(ctx, e.mu, e.asset, beneficiary)
	require.NoError(err)
	require.Equal(received, got)
	proceeds, err := token.BalanceOf(ctx, e.mu, storage.NativeAsset, e.wallet)
	require.NoError(err)
	require.Equal(utils.Units(1), proceeds)

	_, err = Buy(ctx, e.mu, e.sale, e.buyer, beneficiary, new(uint256.Int))
	require.ErrorIs(err, ErrZeroPurchase)
}

func TestBuyInsufficientSupply(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t, 50)
	require.NoError(UpdateWhiteList(ctx, e.mu, e.sale, e.owner, e.buyer, true))

	// one native quotes ~98.7 tokens
	_, err := Buy(ctx, e.mu, e.sale, e.buyer, e.buyer, utils.Units(1))
	require.ErrorIs(err, ErrInsufficientSupply)

	native, err := token.BalanceOf(ctx, e.mu, storage.NativeAsset, e.buyer)
	require.NoError(err)
	require.Equal(utils.Units(10), native)
}
