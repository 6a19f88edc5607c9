// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package oracle reads exchange rates off the AMM router.
package oracle

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/amm"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/utils"
)

// ProbeAmount is the input quoted through the router. It is small enough
// that price impact is negligible and large enough to keep 9 digits.
var (
	ProbeAmount = uint256.NewInt(1_000_000_000)
	probeScale  = new(uint256.Int).Div(utils.Unit(), ProbeAmount)
)

// Rate is the price of one whole unit of the base asset, in wei of the
// quote asset.
type Rate struct {
	// TokenInNative is native wei per whole project token.
	TokenInNative *uint256.Int `json:"tokenInNative"`
	// NativeInStable is stable wei per whole native unit.
	NativeInStable *uint256.Int `json:"nativeInStable"`
}

// Source provides a fresh rate on every call.
type Source interface {
	Rate(ctx context.Context, im state.Immutable) (*Rate, error)
}

var _ Source = (*Adapter)(nil)

// Adapter quotes rates from the pools of [Router].
type Adapter struct {
	Router codec.Address
	Token  codec.Address
	Stable codec.Address
}

func New(router, token, stable codec.Address) *Adapter {
	return &Adapter{Router: router, Token: token, Stable: stable}
}

// Rate reads both prices from current pool reserves. Nothing is cached.
func (a *Adapter) Rate(ctx context.Context, im state.Immutable) (*Rate, error) {
	weth, err := amm.WETH(ctx, im, a.Router)
	if err != nil {
		return nil, err
	}
	tokenInNative, err := a.quote(ctx, im, a.Token, weth)
	if err != nil {
		return nil, fmt.Errorf("token/native: %w", err)
	}
	nativeInStable, err := a.quote(ctx, im, weth, a.Stable)
	if err != nil {
		return nil, fmt.Errorf("native/stable: %w", err)
	}
	return &Rate{TokenInNative: tokenInNative, NativeInStable: nativeInStable}, nil
}

func (a *Adapter) quote(ctx context.Context, im state.Immutable, from, to codec.Address) (*uint256.Int, error) {
	amounts, err := amm.GetAmountsOut(ctx, im, a.Router, ProbeAmount, []codec.Address{from, to})
	if err != nil {
		return nil, err
	}
	return utils.Mul(amounts[1], probeScale)
}

// Value converts [amount] of the base asset into the quote asset at [rate].
func Value(amount, rate *uint256.Int) (*uint256.Int, error) {
	return utils.MulDiv(amount, rate, utils.Unit())
}
