// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "github.com/fetch-ld/ldengine/codec"

// Database namespaces under the data directory.
const (
	StateNamespace = "statedb"
)

// Key prefixes
const (
	balancePrefix byte = iota
	allowancePrefix
	assetPrefix
	feeExcludedPrefix
	limitExcludedPrefix

	pairPrefix
	pairLookupPrefix
	pairIndexPrefix
	pairCountPrefix
	factoryPrefix
	routerPrefix

	formulaPrefix

	managerPrefix
	operatorPrefix
	positionPrefix
	positionCountPrefix

	salePrefix
	whitelistPrefix

	gatewayPrefix
	auditPrefix
	auditCountPrefix

	noncePrefix
)

// Chunks
const (
	AmountChunks   uint16 = 1
	FlagChunks     uint16 = 1
	CounterChunks  uint16 = 1
	AddressChunks  uint16 = 1
	AssetChunks    uint16 = 4
	PairChunks     uint16 = 4
	ContractChunks uint16 = 6
	PositionChunks uint16 = 4
	AuditChunks    uint16 = 4
)

// MaxRecordSize is the largest value any record in the engine encodes to.
const MaxRecordSize = 6 * 64

// NativeAsset is the ledger address of the native currency. Balances of the
// native currency are tracked like any other asset.
var NativeAsset = codec.CreateAddress(0xff, [32]byte{})
