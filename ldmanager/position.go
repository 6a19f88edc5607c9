// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ldmanager

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/amm"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
)

// Position is one time-locked batch of LP tokens. Positions are appended
// under increasing ids and removed only when released or rebalanced.
type Position struct {
	ID          uint64        `json:"id"`
	Pair        codec.Address `json:"pair"`
	Liquidity   *uint256.Int  `json:"liquidity"`
	Native      *uint256.Int  `json:"native"`
	Token       *uint256.Int  `json:"token"`
	DepositedAt int64         `json:"depositedAt"`
	UnlockAt    int64         `json:"unlockAt"`
}

func (pos *Position) Marshal(p *codec.Packer) {
	p.PackUint64(pos.ID)
	p.PackAddress(pos.Pair)
	p.PackUint256(pos.Liquidity)
	p.PackUint256(pos.Native)
	p.PackUint256(pos.Token)
	p.PackInt64(pos.DepositedAt)
	p.PackInt64(pos.UnlockAt)
}

func (pos *Position) Unmarshal(p *codec.Packer) {
	pos.ID = p.UnpackUint64(false)
	p.UnpackAddress(&pos.Pair)
	pos.Liquidity = p.UnpackUint256(true)
	pos.Native = p.UnpackUint256(false)
	pos.Token = p.UnpackUint256(false)
	pos.DepositedAt = p.UnpackInt64(false)
	pos.UnlockAt = p.UnpackInt64(false)
}

// Matured reports whether the position may leave the manager at [now].
func (pos *Position) Matured(now int64) bool {
	return now >= pos.UnlockAt
}

func GetPosition(ctx context.Context, im state.Immutable, manager codec.Address, id uint64) (*Position, error) {
	var pos Position
	found, err := storage.GetRecord(ctx, im, storage.PositionKey(manager, id), &pos)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return &pos, nil
}

// Pending lists the open positions of [manager] in deposit order.
func Pending(ctx context.Context, im state.Immutable, manager codec.Address) ([]*Position, error) {
	n, err := storage.GetCounter(ctx, im, storage.PositionCountKey(manager))
	if err != nil {
		return nil, err
	}
	positions := []*Position{}
	for id := uint64(0); id < n; id++ {
		var pos Position
		found, err := storage.GetRecord(ctx, im, storage.PositionKey(manager, id), &pos)
		if err != nil {
			return nil, err
		}
		if found {
			positions = append(positions, &pos)
		}
	}
	return positions, nil
}

// AddLiquidity pairs [nativeAmount] sent by [caller] with up to
// [tokenAmount] from the reserve and locks the resulting LP tokens for the
// anti-dumping delay. Native currency the pool did not take at its current
// price is returned to [caller].
func AddLiquidity(
	ctx context.Context,
	mu state.Mutable,
	manager codec.Address,
	caller codec.Address,
	nativeAmount *uint256.Int,
	tokenAmount *uint256.Int,
	now int64,
) (*Position, error) {
	m, err := Get(ctx, mu, manager)
	if err != nil {
		return nil, err
	}
	if err := m.authorize(ctx, mu, manager, caller); err != nil {
		return nil, err
	}
	if nativeAmount.IsZero() || tokenAmount.IsZero() {
		return nil, ErrZeroLiquidity
	}
	reserve, err := token.BalanceOf(ctx, mu, m.Token, manager)
	if err != nil {
		return nil, err
	}
	if reserve.Lt(tokenAmount) {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientReserve, reserve, tokenAmount)
	}

	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, caller, manager, nativeAmount); err != nil {
		return nil, err
	}
	if err := token.Approve(ctx, mu, m.Token, manager, m.Router, tokenAmount); err != nil {
		return nil, err
	}
	res, err := amm.AddLiquidityETH(
		ctx, mu, m.Router, manager,
		nativeAmount, m.Token, tokenAmount,
		new(uint256.Int), new(uint256.Int),
		manager, now, now,
	)
	if err != nil {
		return nil, err
	}
	if err := token.Approve(ctx, mu, m.Token, manager, m.Router, new(uint256.Int)); err != nil {
		return nil, err
	}
	if nativeAmount.Gt(res.AmountETH) {
		refund := new(uint256.Int).Sub(nativeAmount, res.AmountETH)
		if _, err := token.Transfer(ctx, mu, storage.NativeAsset, manager, caller, refund); err != nil {
			return nil, err
		}
	}

	id, err := storage.NextCounter(ctx, mu, storage.PositionCountKey(manager))
	if err != nil {
		return nil, err
	}
	pos := &Position{
		ID:          id,
		Pair:        res.Pair,
		Liquidity:   res.Liquidity,
		Native:      res.AmountETH,
		Token:       res.AmountToken,
		DepositedAt: now,
		UnlockAt:    now + m.AntiDumpingDelay,
	}
	return pos, storage.SetRecord(ctx, mu, storage.PositionKey(manager, id), pos)
}

// matured loads position [id] for the owner, failing while it is locked.
func matured(ctx context.Context, im state.Immutable, manager, caller codec.Address, id uint64, now int64) (*Manager, *Position, error) {
	m, err := Get(ctx, im, manager)
	if err != nil {
		return nil, nil, err
	}
	if caller != m.Owner {
		return nil, nil, storage.ErrNotOwner
	}
	pos, err := GetPosition(ctx, im, manager, id)
	if err != nil {
		return nil, nil, err
	}
	if !pos.Matured(now) {
		return nil, nil, fmt.Errorf("%w: %d until %d", ErrPositionLocked, id, pos.UnlockAt)
	}
	return m, pos, nil
}

// ReleaseMatured sends the LP tokens of an unlocked position to the owner
// and deletes the position.
func ReleaseMatured(ctx context.Context, mu state.Mutable, manager, caller codec.Address, id uint64, now int64) (*uint256.Int, error) {
	m, pos, err := matured(ctx, mu, manager, caller, id, now)
	if err != nil {
		return nil, err
	}
	if _, err := token.Transfer(ctx, mu, pos.Pair, manager, m.Owner, pos.Liquidity); err != nil {
		return nil, err
	}
	if err := mu.Remove(ctx, storage.PositionKey(manager, id)); err != nil {
		return nil, err
	}
	return pos.Liquidity, nil
}

// RebalanceMatured withdraws an unlocked position from the pool. The
// project tokens return to the reserve and the native currency goes to the
// owner.
func RebalanceMatured(
	ctx context.Context,
	mu state.Mutable,
	manager codec.Address,
	caller codec.Address,
	id uint64,
	now int64,
) (*uint256.Int, *uint256.Int, error) {
	m, pos, err := matured(ctx, mu, manager, caller, id, now)
	if err != nil {
		return nil, nil, err
	}
	if err := token.Approve(ctx, mu, pos.Pair, manager, m.Router, pos.Liquidity); err != nil {
		return nil, nil, err
	}
	amountToken, amountNative, err := amm.RemoveLiquidityETH(
		ctx, mu, m.Router, manager, m.Token,
		pos.Liquidity, new(uint256.Int), new(uint256.Int),
		manager, now, now,
	)
	if err != nil {
		return nil, nil, err
	}
	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, manager, m.Owner, amountNative); err != nil {
		return nil, nil, err
	}
	if err := mu.Remove(ctx, storage.PositionKey(manager, id)); err != nil {
		return nil, nil, err
	}
	return amountToken, amountNative, nil
}
