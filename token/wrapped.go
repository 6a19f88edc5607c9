// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
)

// Wrap locks [amount] native currency of [account] in the [weth] contract
// and mints the same amount of [weth] to [account].
func Wrap(ctx context.Context, mu state.Mutable, weth, account codec.Address, amount *uint256.Int) error {
	if _, err := Transfer(ctx, mu, storage.NativeAsset, account, weth, amount); err != nil {
		return err
	}
	return Mint(ctx, mu, weth, account, amount)
}

// Unwrap burns [amount] of [weth] held by [account] and releases the same
// amount of native currency to it.
func Unwrap(ctx context.Context, mu state.Mutable, weth, account codec.Address, amount *uint256.Int) error {
	reserve, err := BalanceOf(ctx, mu, storage.NativeAsset, weth)
	if err != nil {
		return err
	}
	if reserve.Lt(amount) {
		return ErrInsufficientWrapReserve
	}
	if err := Burn(ctx, mu, weth, account, amount); err != nil {
		return err
	}
	_, err = Transfer(ctx, mu, storage.NativeAsset, weth, account, amount)
	return err
}
