// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
	"github.com/fetch-ld/ldengine/utils"
)

const (
	LiquidityTokenName   = "LD-Pair"
	LiquidityTokenSymbol = "LDP"
)

// MinimumLiquidity is locked forever on the first mint of every pair.
var MinimumLiquidity = uint256.NewInt(1_000)

// Pair is a constant-product pool of two assets. Its own address is the
// liquidity token.
type Pair struct {
	Factory  codec.Address `json:"factory"`
	Token0   codec.Address `json:"token0"`
	Token1   codec.Address `json:"token1"`
	Reserve0 *uint256.Int  `json:"reserve0"`
	Reserve1 *uint256.Int  `json:"reserve1"`
}

func (p *Pair) Marshal(pk *codec.Packer) {
	pk.PackAddress(p.Factory)
	pk.PackAddress(p.Token0)
	pk.PackAddress(p.Token1)
	pk.PackUint256(p.Reserve0)
	pk.PackUint256(p.Reserve1)
}

func (p *Pair) Unmarshal(pk *codec.Packer) {
	pk.UnpackAddress(&p.Factory)
	pk.UnpackAddress(&p.Token0)
	pk.UnpackAddress(&p.Token1)
	p.Reserve0 = pk.UnpackUint256(false)
	p.Reserve1 = pk.UnpackUint256(false)
}

// ReservesFor returns the reserves ordered as ([tokenA], other).
func (p *Pair) ReservesFor(tokenA codec.Address) (*uint256.Int, *uint256.Int) {
	if tokenA == p.Token0 {
		return p.Reserve0, p.Reserve1
	}
	return p.Reserve1, p.Reserve0
}

func GetPair(ctx context.Context, im state.Immutable, pair codec.Address) (*Pair, error) {
	var p Pair
	found, err := storage.GetRecord(ctx, im, storage.PairKey(pair), &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPairNotFound
	}
	return &p, nil
}

// GetReserves returns the reserves of [pair] in token0/token1 order.
func GetReserves(ctx context.Context, im state.Immutable, pair codec.Address) (*uint256.Int, *uint256.Int, error) {
	p, err := GetPair(ctx, im, pair)
	if err != nil {
		return nil, nil, err
	}
	return p.Reserve0, p.Reserve1, nil
}

// TotalSupply returns the outstanding liquidity tokens of [pair].
func TotalSupply(ctx context.Context, im state.Immutable, pair codec.Address) (*uint256.Int, error) {
	a, err := token.Info(ctx, im, pair)
	if err != nil {
		return nil, err
	}
	return a.TotalSupply, nil
}

func balances(ctx context.Context, im state.Immutable, pair codec.Address, p *Pair) (*uint256.Int, *uint256.Int, error) {
	b0, err := token.BalanceOf(ctx, im, p.Token0, pair)
	if err != nil {
		return nil, nil, err
	}
	b1, err := token.BalanceOf(ctx, im, p.Token1, pair)
	if err != nil {
		return nil, nil, err
	}
	return b0, b1, nil
}

func update(ctx context.Context, mu state.Mutable, pair codec.Address, p *Pair, b0, b1 *uint256.Int) error {
	p.Reserve0 = b0
	p.Reserve1 = b1
	return storage.SetRecord(ctx, mu, storage.PairKey(pair), p)
}

// Mint issues liquidity tokens to [to] for whatever was transferred into
// [pair] since the last reserve update.
func Mint(ctx context.Context, mu state.Mutable, pair codec.Address, to codec.Address) (*uint256.Int, error) {
	p, err := GetPair(ctx, mu, pair)
	if err != nil {
		return nil, err
	}
	b0, b1, err := balances(ctx, mu, pair, p)
	if err != nil {
		return nil, err
	}
	amount0, err := utils.Sub(b0, p.Reserve0)
	if err != nil {
		return nil, err
	}
	amount1, err := utils.Sub(b1, p.Reserve1)
	if err != nil {
		return nil, err
	}
	supply, err := TotalSupply(ctx, mu, pair)
	if err != nil {
		return nil, err
	}

	var liquidity *uint256.Int
	if supply.IsZero() {
		k, err := utils.Mul(amount0, amount1)
		if err != nil {
			return nil, err
		}
		root := utils.Sqrt(k)
		if !root.Gt(MinimumLiquidity) {
			return nil, ErrInsufficientLiquidityMinted
		}
		liquidity = new(uint256.Int).Sub(root, MinimumLiquidity)
		if err := token.Mint(ctx, mu, pair, codec.EmptyAddress, MinimumLiquidity); err != nil {
			return nil, err
		}
	} else {
		l0, err := utils.MulDiv(amount0, supply, p.Reserve0)
		if err != nil {
			return nil, err
		}
		l1, err := utils.MulDiv(amount1, supply, p.Reserve1)
		if err != nil {
			return nil, err
		}
		liquidity = utils.Min(l0, l1)
	}
	if liquidity.IsZero() {
		return nil, ErrInsufficientLiquidityMinted
	}
	if err := token.Mint(ctx, mu, pair, to, liquidity); err != nil {
		return nil, err
	}
	return liquidity, update(ctx, mu, pair, p, b0, b1)
}

// Burn redeems the liquidity tokens held by [pair] itself and sends the
// underlying assets to [to].
func Burn(ctx context.Context, mu state.Mutable, pair codec.Address, to codec.Address) (*uint256.Int, *uint256.Int, error) {
	p, err := GetPair(ctx, mu, pair)
	if err != nil {
		return nil, nil, err
	}
	b0, b1, err := balances(ctx, mu, pair, p)
	if err != nil {
		return nil, nil, err
	}
	liquidity, err := token.BalanceOf(ctx, mu, pair, pair)
	if err != nil {
		return nil, nil, err
	}
	supply, err := TotalSupply(ctx, mu, pair)
	if err != nil {
		return nil, nil, err
	}
	if supply.IsZero() {
		return nil, nil, ErrInsufficientLiquidityBurned
	}
	amount0, err := utils.MulDiv(liquidity, b0, supply)
	if err != nil {
		return nil, nil, err
	}
	amount1, err := utils.MulDiv(liquidity, b1, supply)
	if err != nil {
		return nil, nil, err
	}
	if amount0.IsZero() || amount1.IsZero() {
		return nil, nil, ErrInsufficientLiquidityBurned
	}
	if err := token.Burn(ctx, mu, pair, pair, liquidity); err != nil {
		return nil, nil, err
	}
	if _, err := token.Transfer(ctx, mu, p.Token0, pair, to, amount0); err != nil {
		return nil, nil, err
	}
	if _, err := token.Transfer(ctx, mu, p.Token1, pair, to, amount1); err != nil {
		return nil, nil, err
	}
	b0, b1, err = balances(ctx, mu, pair, p)
	if err != nil {
		return nil, nil, err
	}
	return amount0, amount1, update(ctx, mu, pair, p, b0, b1)
}

// Swap sends the requested outputs to [to] and checks that the inputs
// already transferred into [pair] keep the fee-adjusted product from
// decreasing.
func Swap(
	ctx context.Context,
	mu state.Mutable,
	pair codec.Address,
	amount0Out *uint256.Int,
	amount1Out *uint256.Int,
	to codec.Address,
) error {
	if amount0Out.IsZero() && amount1Out.IsZero() {
		return ErrInsufficientOutputAmount
	}
	p, err := GetPair(ctx, mu, pair)
	if err != nil {
		return err
	}
	if !amount0Out.Lt(p.Reserve0) || !amount1Out.Lt(p.Reserve1) {
		return ErrInsufficientLiquidity
	}
	if to == p.Token0 || to == p.Token1 {
		return ErrInvalidTo
	}
	if _, err := token.Transfer(ctx, mu, p.Token0, pair, to, amount0Out); err != nil {
		return err
	}
	if _, err := token.Transfer(ctx, mu, p.Token1, pair, to, amount1Out); err != nil {
		return err
	}
	b0, b1, err := balances(ctx, mu, pair, p)
	if err != nil {
		return err
	}

	amount0In := amountIn(b0, p.Reserve0, amount0Out)
	amount1In := amountIn(b1, p.Reserve1, amount1Out)
	if amount0In.IsZero() && amount1In.IsZero() {
		return ErrInsufficientInputAmount
	}
	adj0, err := adjusted(b0, amount0In)
	if err != nil {
		return err
	}
	adj1, err := adjusted(b1, amount1In)
	if err != nil {
		return err
	}
	lhs, overflow := new(uint256.Int).MulOverflow(adj0, adj1)
	if overflow {
		return utils.ErrOverflow
	}
	rhs, overflow := new(uint256.Int).MulOverflow(p.Reserve0, p.Reserve1)
	if overflow {
		return utils.ErrOverflow
	}
	if _, overflow := rhs.MulOverflow(rhs, uint256.NewInt(1_000_000)); overflow {
		return utils.ErrOverflow
	}
	if lhs.Lt(rhs) {
		return ErrK
	}
	return update(ctx, mu, pair, p, b0, b1)
}

// Sync forces the reserves to match the balances.
func Sync(ctx context.Context, mu state.Mutable, pair codec.Address) error {
	p, err := GetPair(ctx, mu, pair)
	if err != nil {
		return err
	}
	b0, b1, err := balances(ctx, mu, pair, p)
	if err != nil {
		return err
	}
	return update(ctx, mu, pair, p, b0, b1)
}

// amountIn is balance - (reserve - out), floored at zero.
func amountIn(balance, reserve, out *uint256.Int) *uint256.Int {
	remaining := new(uint256.Int).Sub(reserve, out)
	if !balance.Gt(remaining) {
		return new(uint256.Int)
	}
	return remaining.Sub(balance, remaining)
}

// adjusted is balance*1000 - in*3.
func adjusted(balance, in *uint256.Int) (*uint256.Int, error) {
	b, err := utils.Mul(balance, feeDen)
	if err != nil {
		return nil, err
	}
	fee, err := utils.Mul(in, uint256.NewInt(3))
	if err != nil {
		return nil, err
	}
	return utils.Sub(b, fee)
}
