// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package oracle

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

type pools struct {
	mu     state.MutableStorage
	owner  codec.Address
	router codec.Address
	token  codec.Address
	stable codec.Address
}

func newPools(t *testing.T) *pools {
	require := require.New(t)
	ctx := context.Background()
	p := &pools{
		mu:    state.MutableStorage{},
		owner: codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
	}
	weth, err := token.Create(ctx, p.mu, p.owner, "Wrapped Native", "WETH", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	p.token, err = token.Create(ctx, p.mu, p.owner, "Fetch", "FET", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	p.stable, err = token.Create(ctx, p.mu, p.owner, "Dai", "DAI", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	factory, err := amm.DeployFactory(ctx, p.mu, p.owner)
	require.NoError(err)
	p.router, err = amm.DeployRouter(ctx, p.mu, p.owner, factory, weth)
	require.NoError(err)

	require.NoError(token.Mint(ctx, p.mu, storage.NativeAsset, p.owner, utils.Units(1_000)))
	for _, asset := range []codec.Address{p.token, p.stable} {
		require.NoError(token.Mint(ctx, p.mu, asset, p.owner, utils.Units(1_000_000)))
		require.NoError(token.Approve(ctx, p.mu, asset, p.owner, p.router, utils.Units(1_000_000)))
	}
	return p
}

func (p *pools) seed(t *testing.T, asset codec.Address, native, tokens uint64) {
	_, err := amm.AddLiquidityETH(
		context.Background(), p.mu, p.router, p.owner,
		utils.Units(native), asset, utils.Units(tokens),
		new(uint256.Int), new(uint256.Int), p.owner, 1<<40, 0,
	)
	require.NoError(t, err)
}

// requireNear checks that [actual] is within 1% below [expected].
func requireNear(t *testing.T, expected, actual *uint256.Int) {
	lower := new(uint256.Int).Div(new(uint256.Int).Mul(expected, uint256.NewInt(99)), uint256.NewInt(100))
	require.True(t, !actual.Lt(lower) && !actual.Gt(expected), "expected ~%s, got %s", expected, actual)
}

func TestRate(t *testing.T) {
	require := require.New(t)
	p := newPools(t)
	p.seed(t, p.token, 100, 10_000)
	p.seed(t, p.stable, 1, 1_000)

	rate, err := New(p.router, p.token, p.stable).Rate(context.Background(), p.mu)
	require.NoError(err)

	// 100 tokens per native, 1_000 stable per native
	requireNear(t, new(uint256.Int).Div(utils.Unit(), uint256.NewInt(100)), rate.TokenInNative)
	requireNear(t, utils.Units(1_000), rate.NativeInStable)
}

func TestRateTracksReserves(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := newPools(t)
	p.seed(t, p.token, 100, 10_000)
	p.seed(t, p.stable, 1, 1_000)
	adapter := New(p.router, p.token, p.stable)

	before, err := adapter.Rate(ctx, p.mu)
	require.NoError(err)
	p.seed(t, p.stable, 1, 1_000)
	after, err := adapter.Rate(ctx, p.mu)
	require.NoError(err)

	// deeper pool at the same price quotes the probe with less slippage
	require.False(after.NativeInStable.Lt(before.NativeInStable))
}

func TestRateMissingPool(t *testing.T) {
	p := newPools(t)
	p.seed(t, p.token, 100, 10_000)

	_, err := New(p.router, p.token, p.stable).Rate(context.Background(), p.mu)
	require.ErrorIs(t, err, amm.ErrPairNotFound)
}

func TestValue(t *testing.T) {
	require := require.New(t)
	v, err := Value(utils.Units(10), utils.Units(70))
	require.NoError(err)
	require.Equal(utils.Units(700), v)
}
