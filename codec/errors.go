// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrInvalidSize      = errors.New("invalid size")
	ErrAmountOverflow   = errors.New("amount does not fit in 256 bits")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrUnexpectedLength = errors.New("unexpected trailing bytes")
)

var ErrFieldNotPopulated = errors.New("field is not populated")
