// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ldmanager

import "errors"

var (
	ErrManagerNotFound     = errors.New("liquidity manager does not exist")
	ErrNotOperator         = errors.New("caller is not an operator")
	ErrInsufficientReserve = errors.New("insufficient token reserve")
	ErrZeroLiquidity       = errors.New("zero liquidity amount")
	ErrNotFound            = errors.New("position does not exist")
	ErrPositionLocked      = errors.New("position is still locked")
	ErrInvalidDelay        = errors.New("anti-dumping delay is negative")
)
