// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import "errors"

var (
	ErrInsufficientAmount          = errors.New("insufficient amount")
	ErrInsufficientInputAmount     = errors.New("insufficient input amount")
	ErrInsufficientOutputAmount    = errors.New("insufficient output amount")
	ErrInsufficientLiquidity       = errors.New("insufficient liquidity")
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.New("insufficient liquidity burned")
	ErrInsufficientAAmount         = errors.New("insufficient A amount")
	ErrInsufficientBAmount         = errors.New("insufficient B amount")
	ErrInvalidPath                 = errors.New("invalid path")
	ErrInvalidTo                   = errors.New("invalid to")
	ErrK                           = errors.New("constant product decreased")
	ErrIdenticalAddresses          = errors.New("identical addresses")
	ErrZeroAddress                 = errors.New("zero address")
	ErrPairExists                  = errors.New("pair exists")
	ErrPairNotFound                = errors.New("pair does not exist")
	ErrFactoryNotFound             = errors.New("factory does not exist")
	ErrRouterNotFound              = errors.New("router does not exist")
	ErrExpired                     = errors.New("deadline expired")
	ErrExcessiveInputAmount        = errors.New("excessive input amount")
)
