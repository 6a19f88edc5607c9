// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
	Uint16Len = 2
	Uint64Len = 8
	Int64Len  = 8
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)

	// Uint256Len is the fixed width of a packed amount.
	Uint256Len = 32

	MillisecondsPerSecond = 1000
	MillisecondsPerDay    = 24 * 60 * 60 * MillisecondsPerSecond
)

// Address type IDs. The first byte of every [codec.Address] tells what kind
// of object lives behind it.
const (
	AccountID uint8 = iota
	AssetID
	PairID
	RouterID
	FactoryID
	FormulaID
	ManagerID
	SaleID
	GatewayID
)
