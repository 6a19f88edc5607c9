// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/state"
)

var (
	_ Action      = (*ReleaseMatured)(nil)
	_ Action      = (*RebalanceMatured)(nil)
	_ codec.Typed = (*ReleaseResult)(nil)
	_ codec.Typed = (*RebalanceResult)(nil)
)

type ReleaseResult struct {
	PositionID uint64       `json:"positionID"`
	Liquidity  *uint256.Int `json:"liquidity"`
}

func (*ReleaseResult) GetTypeID() uint8 {
	return ReleaseResultID
}

// ReleaseMatured hands the LP tokens of an unlocked position to the
// manager's owner.
type ReleaseMatured struct {
	Manager    codec.Address `json:"manager"`
	PositionID uint64        `json:"positionID"`
}

func (*ReleaseMatured) GetTypeID() uint8 {
	return ReleaseMaturedID
}

func (r *ReleaseMatured) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	liquidity, err := ldmanager.ReleaseMatured(ctx, mu, r.Manager, actor, r.PositionID, timestamp)
	if err != nil {
		return nil, err
	}
	return &ReleaseResult{PositionID: r.PositionID, Liquidity: liquidity}, nil
}

type RebalanceResult struct {
	PositionID uint64       `json:"positionID"`
	Token      *uint256.Int `json:"token"`
	Native     *uint256.Int `json:"native"`
}

func (*RebalanceResult) GetTypeID() uint8 {
	return RebalanceResultID
}

// RebalanceMatured withdraws an unlocked position back into the reserve.
type RebalanceMatured struct {
	Manager    codec.Address `json:"manager"`
	PositionID uint64        `json:"positionID"`
}

func (*RebalanceMatured) GetTypeID() uint8 {
	return RebalanceMaturedID
}

func (r *RebalanceMatured) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	amountToken, amountNative, err := ldmanager.RebalanceMatured(ctx, mu, r.Manager, actor, r.PositionID, timestamp)
	if err != nil {
		return nil, err
	}
	return &RebalanceResult{PositionID: r.PositionID, Token: amountToken, Native: amountNative}, nil
}
