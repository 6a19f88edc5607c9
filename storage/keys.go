// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"bytes"
	"encoding/binary"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
)

func addressKey(prefix byte, chunks uint16, addrs ...codec.Address) []byte {
	k := make([]byte, 1+len(addrs)*codec.AddressLen+consts.Uint16Len)
	k[0] = prefix
	for i, a := range addrs {
		copy(k[1+i*codec.AddressLen:], a[:])
	}
	binary.BigEndian.PutUint16(k[len(k)-consts.Uint16Len:], chunks)
	return k
}

func indexedKey(prefix byte, chunks uint16, addr codec.Address, i uint64) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint64Len+consts.Uint16Len)
	k[0] = prefix
	copy(k[1:], addr[:])
	binary.BigEndian.PutUint64(k[1+codec.AddressLen:], i)
	binary.BigEndian.PutUint16(k[1+codec.AddressLen+consts.Uint64Len:], chunks)
	return k
}

// SortAddresses returns a and b in byte order.
func SortAddresses(a, b codec.Address) (codec.Address, codec.Address) {
	if bytes.Compare(a[:], b[:]) < 0 {
		return a, b
	}
	return b, a
}

func BalanceKey(asset codec.Address, account codec.Address) []byte {
	return addressKey(balancePrefix, AmountChunks, asset, account)
}

func AllowanceKey(asset, owner, spender codec.Address) []byte {
	return addressKey(allowancePrefix, AmountChunks, asset, owner, spender)
}

func AssetKey(asset codec.Address) []byte {
	return addressKey(assetPrefix, AssetChunks, asset)
}

func FeeExcludedKey(asset codec.Address, account codec.Address) []byte {
	return addressKey(feeExcludedPrefix, FlagChunks, asset, account)
}

func LimitExcludedKey(asset codec.Address, account codec.Address) []byte {
	return addressKey(limitExcludedPrefix, FlagChunks, asset, account)
}

func PairKey(pair codec.Address) []byte {
	return addressKey(pairPrefix, PairChunks, pair)
}

// PairLookupKey is independent of the order of [tokenA] and [tokenB].
func PairLookupKey(factory, tokenA, tokenB codec.Address) []byte {
	t0, t1 := SortAddresses(tokenA, tokenB)
	return addressKey(pairLookupPrefix, AddressChunks, factory, t0, t1)
}

func PairIndexKey(factory codec.Address, i uint64) []byte {
	return indexedKey(pairIndexPrefix, AddressChunks, factory, i)
}

func PairCountKey(factory codec.Address) []byte {
	return addressKey(pairCountPrefix, CounterChunks, factory)
}

func FactoryKey(factory codec.Address) []byte {
	return addressKey(factoryPrefix, ContractChunks, factory)
}

func RouterKey(router codec.Address) []byte {
	return addressKey(routerPrefix, ContractChunks, router)
}

func FormulaKey(formula codec.Address) []byte {
	return addressKey(formulaPrefix, ContractChunks, formula)
}

func ManagerKey(manager codec.Address) []byte {
	return addressKey(managerPrefix, ContractChunks, manager)
}

func OperatorKey(manager, account codec.Address) []byte {
	return addressKey(operatorPrefix, FlagChunks, manager, account)
}

func PositionKey(manager codec.Address, id uint64) []byte {
	return indexedKey(positionPrefix, PositionChunks, manager, id)
}

func PositionCountKey(manager codec.Address) []byte {
	return addressKey(positionCountPrefix, CounterChunks, manager)
}

func SaleKey(sale codec.Address) []byte {
	return addressKey(salePrefix, ContractChunks, sale)
}

func WhitelistKey(sale, account codec.Address) []byte {
	return addressKey(whitelistPrefix, FlagChunks, sale, account)
}

func GatewayKey(gateway codec.Address) []byte {
	return addressKey(gatewayPrefix, ContractChunks, gateway)
}

func AuditKey(gateway codec.Address, seq uint64) []byte {
	return indexedKey(auditPrefix, AuditChunks, gateway, seq)
}

func AuditCountKey(gateway codec.Address) []byte {
	return addressKey(auditCountPrefix, CounterChunks, gateway)
}

func NonceKey(deployer codec.Address) []byte {
	return addressKey(noncePrefix, CounterChunks, deployer)
}
