// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/gateway"
	"github.com/fetch-ld/ldengine/state"
)

var (
	_ Action      = (*Deposit)(nil)
	_ codec.Typed = (*DepositResult)(nil)
)

type DepositResult struct {
	*gateway.Receipt
}

func (*DepositResult) GetTypeID() uint8 {
	return DepositResultID
}

// Deposit sends [Value] native currency from the actor through [Gateway].
type Deposit struct {
	Gateway codec.Address `json:"gateway"`
	Value   *uint256.Int  `json:"value"`
}

func (*Deposit) GetTypeID() uint8 {
	return DepositID
}

func (d *Deposit) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	if d.Value == nil || d.Value.IsZero() {
		return nil, ErrValueZero
	}
	r, err := gateway.Deposit(ctx, mu, d.Gateway, actor, d.Value, timestamp)
	if err != nil {
		return nil, err
	}
	return &DepositResult{Receipt: r}, nil
}
