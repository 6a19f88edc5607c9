// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import "errors"

var (
	ErrAssetNotFound           = errors.New("asset does not exist")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInsufficientAllowance   = errors.New("insufficient allowance")
	ErrTransferLimitExceeded   = errors.New("transfer exceeds max transfer amount")
	ErrInvalidFee              = errors.New("fee percent is not between 0 and 100")
	ErrNameEmpty               = errors.New("asset name is empty")
	ErrNameTooLarge            = errors.New("asset name is too large")
	ErrSymbolTooLarge          = errors.New("asset symbol is too large")
	ErrNativeNotConfigurable   = errors.New("native asset has no owner")
	ErrInsufficientWrapReserve = errors.New("wrapper holds insufficient native")
)
