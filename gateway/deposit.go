// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/amm"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/oracle"
	"github.com/fetch-ld/ldengine/sale"
	"github.com/fetch-ld/ldengine/split"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
	"github.com/fetch-ld/ldengine/utils"
)

// Receipt describes how one deposit was split.
type Receipt struct {
	Depositor codec.Address `json:"depositor"`
	AmountIn  *uint256.Int  `json:"amountIn"`
	Timestamp int64         `json:"timestamp"`

	// Cut is the share sent to the DAO wallet before splitting.
	Cut   *uint256.Int `json:"cut"`
	Rate  *oracle.Rate `json:"rate"`
	// Value is the deposit after the cut, in stable wei at [Rate].
	Value *uint256.Int `json:"value"`
	Split split.Split  `json:"split"`

	LiquidityNative *uint256.Int `json:"liquidityNative"`
	// SwappedNative is the part of the liquidity leg that bought tokens in
	// swap mode.
	SwappedNative *uint256.Int        `json:"swappedNative"`
	Position      *ldmanager.Position `json:"position,omitempty"`

	SaleNative   *uint256.Int `json:"saleNative"`
	TokensBought *uint256.Int `json:"tokensBought"`

	// Refunded is native currency returned by the pool and forwarded to the
	// DAO wallet.
	Refunded *uint256.Int `json:"refunded"`
}

// Deposit pulls [amountIn] native currency from [depositor] and splits it
// according to the active formula at the current pool rates. Either every
// leg settles or, on state that supports checkpoints, none does.
func Deposit(
	ctx context.Context,
	mu state.Mutable,
	gateway codec.Address,
	depositor codec.Address,
	amountIn *uint256.Int,
	now int64,
) (*Receipt, error) {
	g, err := Get(ctx, mu, gateway)
	if err != nil {
		return nil, err
	}
	f, err := split.Load(ctx, mu, g.SplitFormula)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSplitExecutionFailed, err)
	}
	return g.deposit(ctx, mu, gateway, oracle.New(g.Router, g.Token, g.Stable), f, depositor, amountIn, now)
}

func (g *Gateway) deposit(
	ctx context.Context,
	mu state.Mutable,
	gateway codec.Address,
	src oracle.Source,
	f split.Formula,
	depositor codec.Address,
	amountIn *uint256.Int,
	now int64,
) (*Receipt, error) {
	if amountIn == nil || amountIn.IsZero() {
		return nil, ErrZeroDeposit
	}
	cp, canRollback := mu.(state.Checkpointer)
	restorePoint := 0
	if canRollback {
		restorePoint = cp.OpIndex()
	}
	fail := func(step string, err error) (*Receipt, error) {
		if canRollback {
			cp.Rollback(ctx, restorePoint)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSplitExecutionFailed, step, err)
	}

	held, err := token.BalanceOf(ctx, mu, storage.NativeAsset, gateway)
	if err != nil {
		return fail("balance", err)
	}
	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, depositor, gateway, amountIn); err != nil {
		return fail("pull deposit", err)
	}
	r := &Receipt{
		Depositor:       depositor,
		AmountIn:        amountIn,
		Timestamp:       now,
		Cut:             new(uint256.Int),
		LiquidityNative: new(uint256.Int),
		SwappedNative:   new(uint256.Int),
		SaleNative:      new(uint256.Int),
		TokensBought:    new(uint256.Int),
		Refunded:        new(uint256.Int),
	}

	working := new(uint256.Int).Set(amountIn)
	if g.IsCutActive && g.CutPercent > 0 {
		r.Cut, err = utils.MulDiv(amountIn, uint256.NewInt(g.CutPercent), uint256.NewInt(100))
		if err != nil {
			return fail("cut", err)
		}
		if _, err := token.Transfer(ctx, mu, storage.NativeAsset, gateway, g.DAOWallet, r.Cut); err != nil {
			return fail("cut", err)
		}
		working.Sub(working, r.Cut)
	}

	r.Rate, err = src.Rate(ctx, mu)
	if err != nil {
		return fail("rate", err)
	}
	r.Value, err = oracle.Value(working, r.Rate.NativeInStable)
	if err != nil {
		return fail("value", err)
	}
	r.Split = f.ComputeSplit(r.Rate.NativeInStable, working)
	liquidityNative, saleNative := r.Split.Apply(working)

	if !liquidityNative.IsZero() {
		if err := g.addLiquidity(ctx, mu, gateway, liquidityNative, now, r); err != nil {
			return fail("liquidity", err)
		}
	}
	if !saleNative.IsZero() {
		r.SaleNative = saleNative
		r.TokensBought, err = sale.Buy(ctx, mu, g.Sale, gateway, depositor, saleNative)
		if err != nil {
			return fail("sale", err)
		}
	}

	after, err := token.BalanceOf(ctx, mu, storage.NativeAsset, gateway)
	if err != nil {
		return fail("balance", err)
	}
	if after.Gt(held) {
		r.Refunded = new(uint256.Int).Sub(after, held)
		if _, err := token.Transfer(ctx, mu, storage.NativeAsset, gateway, g.DAOWallet, r.Refunded); err != nil {
			return fail("refund", err)
		}
	}
	return r, nil
}

// addLiquidity runs the liquidity leg for [native] and records it on [r].
func (g *Gateway) addLiquidity(
	ctx context.Context,
	mu state.Mutable,
	gateway codec.Address,
	native *uint256.Int,
	now int64,
	r *Receipt,
) error {
	r.LiquidityNative = native
	paired := native
	if g.LiquidityMode == SwapMode {
		half := new(uint256.Int).Rsh(native, 1)
		if !half.IsZero() {
			if _, err := amm.SwapExactETHForTokens(
				ctx, mu, g.Router, gateway, half, new(uint256.Int),
				[]codec.Address{g.WETH, g.Token}, g.LDManager, now, now,
			); err != nil {
				return err
			}
		}
		r.SwappedNative = half
		paired = new(uint256.Int).Sub(native, half)
	}

	tokenAmount, err := g.quoteTokens(ctx, mu, paired)
	if err != nil {
		return err
	}
	r.Position, err = ldmanager.AddLiquidity(ctx, mu, g.LDManager, gateway, paired, tokenAmount, now)
	return err
}

// quoteTokens returns the project tokens matching [native] at current pool
// reserves.
func (g *Gateway) quoteTokens(ctx context.Context, im state.Immutable, native *uint256.Int) (*uint256.Int, error) {
	factory, err := amm.GetFactory(ctx, im, g.Router)
	if err != nil {
		return nil, err
	}
	pair, err := amm.PairFor(factory, g.WETH, g.Token)
	if err != nil {
		return nil, err
	}
	p, err := amm.GetPair(ctx, im, pair)
	if err != nil {
		return nil, err
	}
	reserveNative, reserveToken := p.ReservesFor(g.WETH)
	return amm.Quote(native, reserveNative, reserveToken)
}
