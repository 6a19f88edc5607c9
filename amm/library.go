// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/utils"
)

// 0.3% swap fee => multiplier 997/1000
var (
	feeMul = uint256.NewInt(997)
	feeDen = uint256.NewInt(1000)
)

// SortTokens returns the pair's token ordering.
func SortTokens(tokenA, tokenB codec.Address) (codec.Address, codec.Address, error) {
	if tokenA == tokenB {
		return codec.EmptyAddress, codec.EmptyAddress, ErrIdenticalAddresses
	}
	t0, t1 := tokenA, tokenB
	if tokenA.Compare(tokenB) > 0 {
		t0, t1 = tokenB, tokenA
	}
	if t0 == codec.EmptyAddress {
		return codec.EmptyAddress, codec.EmptyAddress, ErrZeroAddress
	}
	return t0, t1, nil
}

// Quote returns the amount of B equal in value to [amountA] at the given
// reserves.
func Quote(amountA, reserveA, reserveB *uint256.Int) (*uint256.Int, error) {
	if amountA.IsZero() {
		return nil, ErrInsufficientAmount
	}
	if reserveA.IsZero() || reserveB.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	return utils.MulDiv(amountA, reserveB, reserveA)
}

// GetAmountOut returns the maximum output for [amountIn] after the swap fee.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	amountInWithFee, err := utils.Mul(amountIn, feeMul)
	if err != nil {
		return nil, err
	}
	numerator, err := utils.Mul(amountInWithFee, reserveOut)
	if err != nil {
		return nil, err
	}
	denominator, err := utils.Mul(reserveIn, feeDen)
	if err != nil {
		return nil, err
	}
	denominator, err = utils.Add(denominator, amountInWithFee)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).Div(numerator, denominator), nil
}

// GetAmountIn returns the input required to receive [amountOut].
func GetAmountIn(amountOut, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountOut.IsZero() {
		return nil, ErrInsufficientOutputAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() || !amountOut.Lt(reserveOut) {
		return nil, ErrInsufficientLiquidity
	}
	numerator, err := utils.Mul(reserveIn, amountOut)
	if err != nil {
		return nil, err
	}
	numerator, err = utils.Mul(numerator, feeDen)
	if err != nil {
		return nil, err
	}
	denominator := new(uint256.Int).Sub(reserveOut, amountOut)
	denominator, err = utils.Mul(denominator, feeMul)
	if err != nil {
		return nil, err
	}
	amountIn := new(uint256.Int).Div(numerator, denominator)
	return amountIn.AddUint64(amountIn, 1), nil
}
