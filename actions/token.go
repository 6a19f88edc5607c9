// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/token"
)

var (
	_ Action      = (*Transfer)(nil)
	_ Action      = (*Approve)(nil)
	_ Action      = (*ExcludeFromFee)(nil)
	_ Action      = (*ExcludeFromTransferLimit)(nil)
	_ codec.Typed = (*TransferResult)(nil)
)

type TransferResult struct {
	Received *uint256.Int `json:"received"`
}

func (*TransferResult) GetTypeID() uint8 {
	return TransferResultID
}

type Transfer struct {
	Asset codec.Address `json:"asset"`
	To    codec.Address `json:"to"`
	Value *uint256.Int  `json:"value"`
}

func (*Transfer) GetTypeID() uint8 {
	return TransferID
}

func (t *Transfer) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	if t.Value == nil || t.Value.IsZero() {
		return nil, ErrValueZero
	}
	received, err := token.Transfer(ctx, mu, t.Asset, actor, t.To, t.Value)
	if err != nil {
		return nil, err
	}
	return &TransferResult{Received: received}, nil
}

type Approve struct {
	Asset   codec.Address `json:"asset"`
	Spender codec.Address `json:"spender"`
	Value   *uint256.Int  `json:"value"`
}

func (*Approve) GetTypeID() uint8 {
	return ApproveID
}

func (a *Approve) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	if err := token.Approve(ctx, mu, a.Asset, actor, a.Spender, a.Value); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: a.Asset}, nil
}

// ExcludeFromFee toggles the transfer fee for [Account]. Owner only.
type ExcludeFromFee struct {
	Asset    codec.Address `json:"asset"`
	Account  codec.Address `json:"account"`
	Excluded bool          `json:"excluded"`
}

func (*ExcludeFromFee) GetTypeID() uint8 {
	return ExcludeFromFeeID
}

func (e *ExcludeFromFee) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	if err := token.ExcludeFromFee(ctx, mu, e.Asset, actor, e.Account, e.Excluded); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: e.Asset}, nil
}

// ExcludeFromTransferLimit toggles the per-transfer cap for [Account].
// Owner only.
type ExcludeFromTransferLimit struct {
	Asset    codec.Address `json:"asset"`
	Account  codec.Address `json:"account"`
	Excluded bool          `json:"excluded"`
}

func (*ExcludeFromTransferLimit) GetTypeID() uint8 {
	return ExcludeFromTransferLimitID
}

func (e *ExcludeFromTransferLimit) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	if err := token.ExcludeFromTransferLimit(ctx, mu, e.Asset, actor, e.Account, e.Excluded); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: e.Asset}, nil
}
