// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/amm"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
)

var (
	_ Action      = (*SwapExactETHForTokens)(nil)
	_ Action      = (*SwapExactTokensForETH)(nil)
	_ codec.Typed = (*SwapResult)(nil)
)

type SwapResult struct {
	AmountOut *uint256.Int `json:"amountOut"`
}

func (*SwapResult) GetTypeID() uint8 {
	return SwapResultID
}

// deadline defaults to the execution time when unset.
func deadline(d, timestamp int64) int64 {
	if d == 0 {
		return timestamp
	}
	return d
}

type SwapExactETHForTokens struct {
	Router       codec.Address   `json:"router"`
	Value        *uint256.Int    `json:"value"`
	AmountOutMin *uint256.Int    `json:"amountOutMin"`
	Path         []codec.Address `json:"path"`
	To           codec.Address   `json:"to"`
	Deadline     int64           `json:"deadline"`
}

func (*SwapExactETHForTokens) GetTypeID() uint8 {
	return SwapExactETHForTokensID
}

func (s *SwapExactETHForTokens) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	if s.Value == nil || s.Value.IsZero() {
		return nil, ErrValueZero
	}
	minOut := s.AmountOutMin
	if minOut == nil {
		minOut = new(uint256.Int)
	}
	out, err := amm.SwapExactETHForTokens(ctx, mu, s.Router, actor, s.Value, minOut, s.Path, s.To, deadline(s.Deadline, timestamp), timestamp)
	if err != nil {
		return nil, err
	}
	return &SwapResult{AmountOut: out}, nil
}

type SwapExactTokensForETH struct {
	Router       codec.Address   `json:"router"`
	AmountIn     *uint256.Int    `json:"amountIn"`
	AmountOutMin *uint256.Int    `json:"amountOutMin"`
	Path         []codec.Address `json:"path"`
	To           codec.Address   `json:"to"`
	Deadline     int64           `json:"deadline"`
}

func (*SwapExactTokensForETH) GetTypeID() uint8 {
	return SwapExactTokensForETHID
}

func (s *SwapExactTokensForETH) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	if s.AmountIn == nil || s.AmountIn.IsZero() {
		return nil, ErrValueZero
	}
	minOut := s.AmountOutMin
	if minOut == nil {
		minOut = new(uint256.Int)
	}
	out, err := amm.SwapExactTokensForETH(ctx, mu, s.Router, actor, s.AmountIn, minOut, s.Path, s.To, deadline(s.Deadline, timestamp), timestamp)
	if err != nil {
		return nil, err
	}
	return &SwapResult{AmountOut: out}, nil
}
