// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/utils"
)

// Transfer moves [amount] of [asset] from [from] to [to] and returns what
// [to] actually received after the transfer fee.
func Transfer(
	ctx context.Context,
	mu state.Mutable,
	asset codec.Address,
	from codec.Address,
	to codec.Address,
	amount *uint256.Int,
) (*uint256.Int, error) {
	if amount.IsZero() {
		return new(uint256.Int), nil
	}
	if asset == storage.NativeAsset {
		if err := debit(ctx, mu, asset, from, amount); err != nil {
			return nil, err
		}
		_, err := storage.AddAmount(ctx, mu, storage.BalanceKey(asset, to), amount)
		return amount, err
	}

	a, err := Info(ctx, mu, asset)
	if err != nil {
		return nil, err
	}
	if !a.MaxTransfer.IsZero() && amount.Gt(a.MaxTransfer) {
		excluded, err := eitherFlagged(ctx, mu, storage.LimitExcludedKey(asset, from), storage.LimitExcludedKey(asset, to))
		if err != nil {
			return nil, err
		}
		if !excluded {
			return nil, fmt.Errorf("%w: %s > %s", ErrTransferLimitExceeded, utils.FormatAmount(amount), utils.FormatAmount(a.MaxTransfer))
		}
	}

	fee := new(uint256.Int)
	if a.FeePercent > 0 {
		excluded, err := eitherFlagged(ctx, mu, storage.FeeExcludedKey(asset, from), storage.FeeExcludedKey(asset, to))
		if err != nil {
			return nil, err
		}
		if !excluded {
			fee, err = utils.MulDiv(amount, uint256.NewInt(a.FeePercent), uint256.NewInt(100))
			if err != nil {
				return nil, err
			}
		}
	}

	if err := debit(ctx, mu, asset, from, amount); err != nil {
		return nil, err
	}
	received := new(uint256.Int).Sub(amount, fee)
	if _, err := storage.AddAmount(ctx, mu, storage.BalanceKey(asset, to), received); err != nil {
		return nil, err
	}
	if !fee.IsZero() {
		if _, err := storage.AddAmount(ctx, mu, storage.BalanceKey(asset, a.FeeCollector), fee); err != nil {
			return nil, err
		}
	}
	return received, nil
}

// Approve sets the amount [spender] may move out of [owner]'s balance.
func Approve(ctx context.Context, mu state.Mutable, asset, owner, spender codec.Address, amount *uint256.Int) error {
	return storage.SetAmount(ctx, mu, storage.AllowanceKey(asset, owner, spender), amount)
}

func Allowance(ctx context.Context, im state.Immutable, asset, owner, spender codec.Address) (*uint256.Int, error) {
	return storage.GetAmount(ctx, im, storage.AllowanceKey(asset, owner, spender))
}

// TransferFrom moves [amount] out of [from] on behalf of [spender], spending
// the allowance [from] granted.
func TransferFrom(
	ctx context.Context,
	mu state.Mutable,
	asset codec.Address,
	spender codec.Address,
	from codec.Address,
	to codec.Address,
	amount *uint256.Int,
) (*uint256.Int, error) {
	if spender != from {
		k := storage.AllowanceKey(asset, from, spender)
		if _, err := storage.SubAmount(ctx, mu, k, amount); err != nil {
			if errors.Is(err, utils.ErrUnderflow) {
				return nil, ErrInsufficientAllowance
			}
			return nil, err
		}
	}
	return Transfer(ctx, mu, asset, from, to, amount)
}

func debit(ctx context.Context, mu state.Mutable, asset, from codec.Address, amount *uint256.Int) error {
	_, err := storage.SubAmount(ctx, mu, storage.BalanceKey(asset, from), amount)
	if errors.Is(err, utils.ErrUnderflow) {
		return fmt.Errorf("%w: %s of %s", ErrInsufficientBalance, from.Short(), asset.Short())
	}
	return err
}

func eitherFlagged(ctx context.Context, im state.Immutable, a, b []byte) (bool, error) {
	ok, err := storage.GetFlag(ctx, im, a)
	if err != nil || ok {
		return ok, err
	}
	return storage.GetFlag(ctx, im, b)
}
