// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

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
	"github.com/fetch-ld/ldengine/token"
	"github.com/fetch-ld/ldengine/utils"
)

const deadline = int64(1 << 40)

type env struct {
	mu      state.MutableStorage
	owner   codec.Address
	weth    codec.Address
	asset   codec.Address
	factory codec.Address
	router  codec.Address
}

func newEnv(t *testing.T) *env {
	require := require.New(t)
	ctx := context.Background()
	e := &env{
		mu:    state.MutableStorage{},
		owner: codec.CreateAddress(consts.AccountID, ids.GenerateTestID()),
	}
	var err error
	e.weth, err = token.Create(ctx, e.mu, e.owner, "Wrapped Native", "WETH", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	e.asset, err = token.Create(ctx, e.mu, e.owner, "Fetch", "FET", 0, codec.EmptyAddress, nil)
	require.NoError(err)
	e.factory, err = DeployFactory(ctx, e.mu, e.owner)
	require.NoError(err)
	e.router, err = DeployRouter(ctx, e.mu, e.owner, e.factory, e.weth)
	require.NoError(err)

	require.NoError(token.Mint(ctx, e.mu, storage.NativeAsset, e.owner, utils.Units(1_000)))
	require.NoError(token.Mint(ctx, e.mu, e.asset, e.owner, utils.Units(1_000_000)))
	require.NoError(token.Approve(ctx, e.mu, e.asset, e.owner, e.router, utils.Units(1_000_000)))
	return e
}

func (e *env) addLiquidity(t *testing.T, native, tokens uint64) *LiquidityResult {
	res, err := AddLiquidityETH(
		context.Background(), e.mu, e.router, e.owner,
		utils.Units(native), e.asset, utils.Units(tokens),
		new(uint256.Int), new(uint256.Int), e.owner, deadline, 0,
	)
	require.NoError(t, err)
	return res
}

func TestRouterGetters(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)

	f, err := GetFactory(ctx, e.mu, e.router)
	require.NoError(err)
	require.Equal(e.factory, f)
	w, err := WETH(ctx, e.mu, e.router)
	require.NoError(err)
	require.Equal(e.weth, w)
}

func TestAddLiquidityETHCreatesPair(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)

	res := e.addLiquidity(t, 100, 10_000)
	expectedPair, err := PairFor(e.factory, e.weth, e.asset)
	require.NoError(err)
	require.Equal(expectedPair, res.Pair)

	// sqrt(100e18 * 10_000e18) - 1000
	expectedLiquidity := new(uint256.Int).Sub(utils.Units(1_000), MinimumLiquidity)
	require.Equal(expectedLiquidity, res.Liquidity)

	n, err := AllPairsLength(ctx, e.mu, e.factory)
	require.NoError(err)
	require.Equal(uint64(1), n)
	p0, err := AllPairs(ctx, e.mu, e.factory, 0)
	require.NoError(err)
	require.Equal(res.Pair, p0)

	locked, err := token.BalanceOf(ctx, e.mu, res.Pair, codec.EmptyAddress)
	require.NoError(err)
	require.Equal(MinimumLiquidity, locked)

	_, err = CreatePair(ctx, e.mu, e.factory, e.asset, e.weth)
	require.ErrorIs(err, ErrPairExists)
}

func TestAddLiquidityETHRefundsExcessNative(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	e.addLiquidity(t, 100, 10_000)

	// price is 100 tokens per native; 5_000 tokens need 50 native
	res := e.addLiquidity(t, 80, 5_000)
	require.Equal(utils.Units(50), res.AmountETH)
	require.Equal(utils.Units(5_000), res.AmountToken)

	native, err := token.BalanceOf(ctx, e.mu, storage.NativeAsset, e.owner)
	require.NoError(err)
	require.Equal(utils.Units(850), native)
	routerNative, err := token.BalanceOf(ctx, e.mu, storage.NativeAsset, e.router)
	require.NoError(err)
	require.True(routerNative.IsZero())
}

func TestSwapRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	res := e.addLiquidity(t, 100, 10_000)

	amounts, err := GetAmountsOut(ctx, e.mu, e.router, utils.Units(1), []codec.Address{e.weth, e.asset})
	require.NoError(err)

	received, err := SwapExactETHForTokens(ctx, e.mu, e.router, e.owner, utils.Units(1), amounts[1], []codec.Address{e.weth, e.asset}, e.owner, deadline, 0)
	require.NoError(err)
	require.Equal(amounts[1], received)

	r0, r1, err := GetReserves(ctx, e.mu, res.Pair)
	require.NoError(err)
	p, err := GetPair(ctx, e.mu, res.Pair)
	require.NoError(err)
	rw, ra := r0, r1
	if p.Token0 != e.weth {
		rw, ra = r1, r0
	}
	require.Equal(utils.Units(101), rw)
	require.Equal(new(uint256.Int).Sub(utils.Units(10_000), received), ra)

	back, err := SwapExactTokensForETH(ctx, e.mu, e.router, e.owner, received, new(uint256.Int), []codec.Address{e.asset, e.weth}, e.owner, deadline, 0)
	require.NoError(err)
	require.True(back.Lt(utils.Units(1)))
}

func TestSwapMinimumAndDeadline(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	e.addLiquidity(t, 100, 10_000)
	path := []codec.Address{e.weth, e.asset}

	_, err := SwapExactETHForTokens(ctx, e.mu, e.router, e.owner, utils.Units(1), utils.Units(100), path, e.owner, deadline, 0)
	require.ErrorIs(err, ErrInsufficientOutputAmount)

	_, err = SwapExactETHForTokens(ctx, e.mu, e.router, e.owner, utils.Units(1), new(uint256.Int), path, e.owner, 10, 11)
	require.ErrorIs(err, ErrExpired)

	_, err = SwapExactETHForTokens(ctx, e.mu, e.router, e.owner, utils.Units(1), new(uint256.Int), []codec.Address{e.asset, e.weth}, e.owner, deadline, 0)
	require.ErrorIs(err, ErrInvalidPath)
}

func TestRemoveLiquidityETH(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	res := e.addLiquidity(t, 100, 10_000)

	require.NoError(token.Approve(ctx, e.mu, res.Pair, e.owner, e.router, res.Liquidity))
	amountToken, amountETH, err := RemoveLiquidityETH(ctx, e.mu, e.router, e.owner, e.asset, res.Liquidity, new(uint256.Int), new(uint256.Int), e.owner, deadline, 0)
	require.NoError(err)

	// only MinimumLiquidity worth of reserves stays behind
	require.True(amountETH.Lt(utils.Units(100)))
	require.True(amountToken.Lt(utils.Units(10_000)))
	native, err := token.BalanceOf(ctx, e.mu, storage.NativeAsset, e.owner)
	require.NoError(err)
	require.Equal(new(uint256.Int).Add(utils.Units(900), amountETH), native)

	supply, err := TotalSupply(ctx, e.mu, res.Pair)
	require.NoError(err)
	require.Equal(MinimumLiquidity, supply)
}

func TestSwapRequiresInput(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	res := e.addLiquidity(t, 100, 10_000)

	err := Swap(ctx, e.mu, res.Pair, uint256.NewInt(1), new(uint256.Int), e.owner)
	require.ErrorIs(err, ErrInsufficientInputAmount)

	err = Swap(ctx, e.mu, res.Pair, new(uint256.Int), new(uint256.Int), e.owner)
	require.ErrorIs(err, ErrInsufficientOutputAmount)
}

func TestSyncAbsorbsDonation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	res := e.addLiquidity(t, 100, 10_000)

	_, err := token.Transfer(ctx, e.mu, e.asset, e.owner, res.Pair, utils.Units(5))
	require.NoError(err)
	require.NoError(Sync(ctx, e.mu, res.Pair))

	p, err := GetPair(ctx, e.mu, res.Pair)
	require.NoError(err)
	_, reserveAsset := p.ReservesFor(e.weth)
	require.Equal(utils.Units(10_005), reserveAsset)
}
