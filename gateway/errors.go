// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gateway

import (
	"errors"

	"github.com/fetch-ld/ldengine/storage"
)

var (
	ErrGatewayNotFound      = errors.New("gateway does not exist")
	ErrNotOwner             = storage.ErrNotOwner
	ErrZeroDeposit          = errors.New("zero deposit")
	ErrInvalidCutPercent    = errors.New("cut percent above 100")
	ErrUnknownFormula       = errors.New("unknown split formula")
	ErrUnknownMode          = errors.New("unknown liquidity mode")
	ErrSplitExecutionFailed = errors.New("split execution failed")
)
