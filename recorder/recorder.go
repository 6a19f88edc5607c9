// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package recorder archives committed actions for later analysis.
package recorder

import (
	"context"

	"github.com/fetch-ld/ldengine/engine"
)

// Deposit is one archived deposit receipt. Amounts are decimal strings in
// base units.
type Deposit struct {
	Timestamp       int64
	Depositor       string
	AmountIn        string
	Cut             string
	Rate            string
	LiquidityNative string
	SaleNative      string
	TokensBought    string
	PositionID      *uint64
}

// Release is one archived release or rebalance of a matured position.
type Release struct {
	Timestamp  int64
	Action     string
	Actor      string
	PositionID uint64
	Output     string
}

type Recorder interface {
	engine.Listener

	Deposits(ctx context.Context, depositor string) ([]*Deposit, error)
	Releases(ctx context.Context) ([]*Release, error)
	Close() error
}
