// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrValueZero     = errors.New("value is zero")
)
