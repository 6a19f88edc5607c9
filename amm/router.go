// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
	"github.com/fetch-ld/ldengine/utils"
)

// Router is the periphery contract every swap and liquidity change of the
// engine goes through. Native currency enters and leaves as wrapped native.
type Router struct {
	Factory codec.Address `json:"factory"`
	WETH    codec.Address `json:"weth"`
}

func (r *Router) Marshal(p *codec.Packer) {
	p.PackAddress(r.Factory)
	p.PackAddress(r.WETH)
}

func (r *Router) Unmarshal(p *codec.Packer) {
	p.UnpackAddress(&r.Factory)
	p.UnpackAddress(&r.WETH)
}

// DeployRouter creates a router over [factory] and [weth].
func DeployRouter(ctx context.Context, mu state.Mutable, deployer, factory, weth codec.Address) (codec.Address, error) {
	if _, err := getFactory(ctx, mu, factory); err != nil {
		return codec.EmptyAddress, err
	}
	addr, err := storage.DeployAddress(ctx, mu, deployer, consts.RouterID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return addr, storage.SetRecord(ctx, mu, storage.RouterKey(addr), &Router{Factory: factory, WETH: weth})
}

func GetRouter(ctx context.Context, im state.Immutable, router codec.Address) (*Router, error) {
	var r Router
	found, err := storage.GetRecord(ctx, im, storage.RouterKey(router), &r)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRouterNotFound
	}
	return &r, nil
}

// GetFactory returns the factory [router] trades through.
func GetFactory(ctx context.Context, im state.Immutable, router codec.Address) (codec.Address, error) {
	r, err := GetRouter(ctx, im, router)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return r.Factory, nil
}

// WETH returns the wrapped native asset of [router].
func WETH(ctx context.Context, im state.Immutable, router codec.Address) (codec.Address, error) {
	r, err := GetRouter(ctx, im, router)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return r.WETH, nil
}

func ensure(deadline, now int64) error {
	if deadline < now {
		return fmt.Errorf("%w: deadline=%d now=%d", ErrExpired, deadline, now)
	}
	return nil
}

// reservesFor returns the reserves of the (a, b) pair ordered as (a, b).
func reservesFor(ctx context.Context, im state.Immutable, factory, a, b codec.Address) (*uint256.Int, *uint256.Int, error) {
	pair, err := PairFor(factory, a, b)
	if err != nil {
		return nil, nil, err
	}
	p, err := GetPair(ctx, im, pair)
	if err != nil {
		return nil, nil, err
	}
	ra, rb := p.ReservesFor(a)
	return ra, rb, nil
}

// GetAmountsOut performs chained GetAmountOut calculations along [path].
func GetAmountsOut(ctx context.Context, im state.Immutable, router codec.Address, amountIn *uint256.Int, path []codec.Address) ([]*uint256.Int, error) {
	r, err := GetRouter(ctx, im, router)
	if err != nil {
		return nil, err
	}
	if len(path) < 2 {
		return nil, ErrInvalidPath
	}
	amounts := make([]*uint256.Int, len(path))
	amounts[0] = amountIn
	for i := 0; i < len(path)-1; i++ {
		reserveIn, reserveOut, err := reservesFor(ctx, im, r.Factory, path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		amounts[i+1], err = GetAmountOut(amounts[i], reserveIn, reserveOut)
		if err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

// LiquidityResult is what AddLiquidityETH deposited and minted.
type LiquidityResult struct {
	Pair        codec.Address `json:"pair"`
	AmountToken *uint256.Int  `json:"amountToken"`
	AmountETH   *uint256.Int  `json:"amountETH"`
	Liquidity   *uint256.Int  `json:"liquidity"`
}

// AddLiquidityETH pairs [value] native currency sent by [caller] with
// project tokens pulled from [caller] through the router's allowance. Native
// currency not needed at the current price is refunded to [caller].
func AddLiquidityETH(
	ctx context.Context,
	mu state.Mutable,
	router codec.Address,
	caller codec.Address,
	value *uint256.Int,
	asset codec.Address,
	amountTokenDesired *uint256.Int,
	amountTokenMin *uint256.Int,
	amountETHMin *uint256.Int,
	to codec.Address,
	deadline int64,
	now int64,
) (*LiquidityResult, error) {
	if err := ensure(deadline, now); err != nil {
		return nil, err
	}
	r, err := GetRouter(ctx, mu, router)
	if err != nil {
		return nil, err
	}
	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, caller, router, value); err != nil {
		return nil, err
	}

	pair, exists, err := LookupPair(ctx, mu, r.Factory, asset, r.WETH)
	if err != nil {
		return nil, err
	}
	if !exists {
		pair, err = CreatePair(ctx, mu, r.Factory, asset, r.WETH)
		if err != nil {
			return nil, err
		}
	}
	amountToken, amountETH, err := optimalAmounts(ctx, mu, pair, asset, amountTokenDesired, value, amountTokenMin, amountETHMin)
	if err != nil {
		return nil, err
	}

	if _, err := token.TransferFrom(ctx, mu, asset, router, caller, pair, amountToken); err != nil {
		return nil, err
	}
	if err := token.Wrap(ctx, mu, r.WETH, router, amountETH); err != nil {
		return nil, err
	}
	if _, err := token.Transfer(ctx, mu, r.WETH, router, pair, amountETH); err != nil {
		return nil, err
	}
	liquidity, err := Mint(ctx, mu, pair, to)
	if err != nil {
		return nil, err
	}
	if value.Gt(amountETH) {
		refund := new(uint256.Int).Sub(value, amountETH)
		if _, err := token.Transfer(ctx, mu, storage.NativeAsset, router, caller, refund); err != nil {
			return nil, err
		}
	}
	return &LiquidityResult{
		Pair:        pair,
		AmountToken: amountToken,
		AmountETH:   amountETH,
		Liquidity:   liquidity,
	}, nil
}

func optimalAmounts(
	ctx context.Context,
	im state.Immutable,
	pair codec.Address,
	tokenA codec.Address,
	amountADesired, amountBDesired *uint256.Int,
	amountAMin, amountBMin *uint256.Int,
) (*uint256.Int, *uint256.Int, error) {
	p, err := GetPair(ctx, im, pair)
	if err != nil {
		return nil, nil, err
	}
	reserveA, reserveB := p.ReservesFor(tokenA)
	if reserveA.IsZero() && reserveB.IsZero() {
		return amountADesired, amountBDesired, nil
	}
	amountBOptimal, err := Quote(amountADesired, reserveA, reserveB)
	if err != nil {
		return nil, nil, err
	}
	if !amountBOptimal.Gt(amountBDesired) {
		if amountBOptimal.Lt(amountBMin) {
			return nil, nil, ErrInsufficientBAmount
		}
		return amountADesired, amountBOptimal, nil
	}
	amountAOptimal, err := Quote(amountBDesired, reserveB, reserveA)
	if err != nil {
		return nil, nil, err
	}
	if amountAOptimal.Gt(amountADesired) {
		return nil, nil, ErrExcessiveInputAmount
	}
	if amountAOptimal.Lt(amountAMin) {
		return nil, nil, ErrInsufficientAAmount
	}
	return amountAOptimal, amountBDesired, nil
}

// RemoveLiquidityETH burns [liquidity] pulled from [caller] and sends the
// project tokens and native currency to [to].
func RemoveLiquidityETH(
	ctx context.Context,
	mu state.Mutable,
	router codec.Address,
	caller codec.Address,
	asset codec.Address,
	liquidity *uint256.Int,
	amountTokenMin *uint256.Int,
	amountETHMin *uint256.Int,
	to codec.Address,
	deadline int64,
	now int64,
) (*uint256.Int, *uint256.Int, error) {
	if err := ensure(deadline, now); err != nil {
		return nil, nil, err
	}
	r, err := GetRouter(ctx, mu, router)
	if err != nil {
		return nil, nil, err
	}
	pair, err := PairFor(r.Factory, asset, r.WETH)
	if err != nil {
		return nil, nil, err
	}
	p, err := GetPair(ctx, mu, pair)
	if err != nil {
		return nil, nil, err
	}
	if _, err := token.TransferFrom(ctx, mu, pair, router, caller, pair, liquidity); err != nil {
		return nil, nil, err
	}
	amount0, amount1, err := Burn(ctx, mu, pair, router)
	if err != nil {
		return nil, nil, err
	}
	amountToken, amountETH := amount0, amount1
	if p.Token0 != asset {
		amountToken, amountETH = amount1, amount0
	}
	if amountToken.Lt(amountTokenMin) {
		return nil, nil, ErrInsufficientAAmount
	}
	if amountETH.Lt(amountETHMin) {
		return nil, nil, ErrInsufficientBAmount
	}
	if _, err := token.Transfer(ctx, mu, asset, router, to, amountToken); err != nil {
		return nil, nil, err
	}
	if err := token.Unwrap(ctx, mu, r.WETH, router, amountETH); err != nil {
		return nil, nil, err
	}
	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, router, to, amountETH); err != nil {
		return nil, nil, err
	}
	return amountToken, amountETH, nil
}

// swap walks [path] assuming the first pair already holds the input. Input
// amounts are measured from pair balances so fee-on-transfer assets settle
// correctly.
func swap(ctx context.Context, mu state.Mutable, factory codec.Address, path []codec.Address, to codec.Address) error {
	for i := 0; i < len(path)-1; i++ {
		input, output := path[i], path[i+1]
		pair, err := PairFor(factory, input, output)
		if err != nil {
			return err
		}
		p, err := GetPair(ctx, mu, pair)
		if err != nil {
			return err
		}
		reserveIn, reserveOut := p.ReservesFor(input)
		balance, err := token.BalanceOf(ctx, mu, input, pair)
		if err != nil {
			return err
		}
		amountInput, err := utils.Sub(balance, reserveIn)
		if err != nil {
			return err
		}
		amountOutput, err := GetAmountOut(amountInput, reserveIn, reserveOut)
		if err != nil {
			return err
		}
		amount0Out, amount1Out := new(uint256.Int), amountOutput
		if input != p.Token0 {
			amount0Out, amount1Out = amountOutput, new(uint256.Int)
		}
		next := to
		if i < len(path)-2 {
			next, err = PairFor(factory, output, path[i+2])
			if err != nil {
				return err
			}
		}
		if err := Swap(ctx, mu, pair, amount0Out, amount1Out, next); err != nil {
			return err
		}
	}
	return nil
}

// SwapExactETHForTokens sells [value] native currency from [caller] along
// [path] and returns what [to] received.
func SwapExactETHForTokens(
	ctx context.Context,
	mu state.Mutable,
	router codec.Address,
	caller codec.Address,
	value *uint256.Int,
	amountOutMin *uint256.Int,
	path []codec.Address,
	to codec.Address,
	deadline int64,
	now int64,
) (*uint256.Int, error) {
	if err := ensure(deadline, now); err != nil {
		return nil, err
	}
	r, err := GetRouter(ctx, mu, router)
	if err != nil {
		return nil, err
	}
	if len(path) < 2 || path[0] != r.WETH {
		return nil, ErrInvalidPath
	}
	out := path[len(path)-1]
	before, err := token.BalanceOf(ctx, mu, out, to)
	if err != nil {
		return nil, err
	}
	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, caller, router, value); err != nil {
		return nil, err
	}
	if err := token.Wrap(ctx, mu, r.WETH, router, value); err != nil {
		return nil, err
	}
	first, err := PairFor(r.Factory, path[0], path[1])
	if err != nil {
		return nil, err
	}
	if _, err := token.Transfer(ctx, mu, r.WETH, router, first, value); err != nil {
		return nil, err
	}
	if err := swap(ctx, mu, r.Factory, path, to); err != nil {
		return nil, err
	}
	after, err := token.BalanceOf(ctx, mu, out, to)
	if err != nil {
		return nil, err
	}
	received := new(uint256.Int).Sub(after, before)
	if received.Lt(amountOutMin) {
		return nil, ErrInsufficientOutputAmount
	}
	return received, nil
}

// SwapExactTokensForETH sells [amountIn] of path[0] pulled from [caller]
// through the router's allowance and sends the native proceeds to [to].
func SwapExactTokensForETH(
	ctx context.Context,
	mu state.Mutable,
	router codec.Address,
	caller codec.Address,
	amountIn *uint256.Int,
	amountOutMin *uint256.Int,
	path []codec.Address,
	to codec.Address,
	deadline int64,
	now int64,
) (*uint256.Int, error) {
	if err := ensure(deadline, now); err != nil {
		return nil, err
	}
	r, err := GetRouter(ctx, mu, router)
	if err != nil {
		return nil, err
	}
	if len(path) < 2 || path[len(path)-1] != r.WETH {
		return nil, ErrInvalidPath
	}
	first, err := PairFor(r.Factory, path[0], path[1])
	if err != nil {
		return nil, err
	}
	if _, err := token.TransferFrom(ctx, mu, path[0], router, caller, first, amountIn); err != nil {
		return nil, err
	}
	before, err := token.BalanceOf(ctx, mu, r.WETH, router)
	if err != nil {
		return nil, err
	}
	if err := swap(ctx, mu, r.Factory, path, router); err != nil {
		return nil, err
	}
	after, err := token.BalanceOf(ctx, mu, r.WETH, router)
	if err != nil {
		return nil, err
	}
	amountOut := new(uint256.Int).Sub(after, before)
	if amountOut.Lt(amountOutMin) {
		return nil, ErrInsufficientOutputAmount
	}
	if err := token.Unwrap(ctx, mu, r.WETH, router, amountOut); err != nil {
		return nil, err
	}
	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, router, to, amountOut); err != nil {
		return nil, err
	}
	return amountOut, nil
}
