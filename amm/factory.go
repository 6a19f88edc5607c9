// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
)

// pairCode identifies the pair implementation. Pair addresses commit to its
// hash, so routers can derive a pair address without reading state.
const pairCode = "ldengine/amm/pair:constant-product:997/1000:min-liquidity=1000"

var pairCodeHash = keccak([]byte(pairCode))

func keccak(parts ...[]byte) ids.ID {
	h := sha3.NewLegacyKeccak256()
	for _, b := range parts {
		_, _ = h.Write(b)
	}
	var id ids.ID
	h.Sum(id[:0])
	return id
}

// PairCodeHash returns the fingerprint every pair address commits to.
func PairCodeHash() ids.ID {
	return pairCodeHash
}

// Factory creates and indexes pairs.
type Factory struct {
	Owner codec.Address `json:"owner"`
}

func (f *Factory) Marshal(p *codec.Packer) {
	p.PackAddress(f.Owner)
}

func (f *Factory) Unmarshal(p *codec.Packer) {
	p.UnpackAddress(&f.Owner)
}

// DeployFactory creates a factory owned by [deployer].
func DeployFactory(ctx context.Context, mu state.Mutable, deployer codec.Address) (codec.Address, error) {
	addr, err := storage.DeployAddress(ctx, mu, deployer, consts.FactoryID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return addr, storage.SetRecord(ctx, mu, storage.FactoryKey(addr), &Factory{Owner: deployer})
}

func getFactory(ctx context.Context, im state.Immutable, factory codec.Address) (*Factory, error) {
	var f Factory
	found, err := storage.GetRecord(ctx, im, storage.FactoryKey(factory), &f)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrFactoryNotFound
	}
	return &f, nil
}

// PairFor derives the address of the ([tokenA], [tokenB]) pair of
// [factory] whether or not it has been created.
func PairFor(factory, tokenA, tokenB codec.Address) (codec.Address, error) {
	t0, t1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return codec.EmptyAddress, err
	}
	salt := keccak(t0[:], t1[:])
	return codec.CreateAddress(consts.PairID, keccak([]byte{0xff}, factory[:], salt[:], pairCodeHash[:])), nil
}

// CreatePair creates the pair of [tokenA] and [tokenB].
func CreatePair(ctx context.Context, mu state.Mutable, factory, tokenA, tokenB codec.Address) (codec.Address, error) {
	if _, err := getFactory(ctx, mu, factory); err != nil {
		return codec.EmptyAddress, err
	}
	t0, t1, err := SortTokens(tokenA, tokenB)
	if err != nil {
		return codec.EmptyAddress, err
	}
	lookup := storage.PairLookupKey(factory, t0, t1)
	if _, exists, err := storage.GetAddress(ctx, mu, lookup); err != nil {
		return codec.EmptyAddress, err
	} else if exists {
		return codec.EmptyAddress, ErrPairExists
	}
	pair, err := PairFor(factory, t0, t1)
	if err != nil {
		return codec.EmptyAddress, err
	}
	p := &Pair{
		Factory:  factory,
		Token0:   t0,
		Token1:   t1,
		Reserve0: new(uint256.Int),
		Reserve1: new(uint256.Int),
	}
	if err := storage.SetRecord(ctx, mu, storage.PairKey(pair), p); err != nil {
		return codec.EmptyAddress, err
	}
	if err := token.Register(ctx, mu, pair, &token.Asset{
		Name:   LiquidityTokenName,
		Symbol: LiquidityTokenSymbol,
		Owner:  factory,
	}); err != nil {
		return codec.EmptyAddress, err
	}
	if err := storage.SetAddress(ctx, mu, lookup, pair); err != nil {
		return codec.EmptyAddress, err
	}
	i, err := storage.NextCounter(ctx, mu, storage.PairCountKey(factory))
	if err != nil {
		return codec.EmptyAddress, err
	}
	return pair, storage.SetAddress(ctx, mu, storage.PairIndexKey(factory, i), pair)
}

// LookupPair returns the pair of [tokenA] and [tokenB], if created.
func LookupPair(ctx context.Context, im state.Immutable, factory, tokenA, tokenB codec.Address) (codec.Address, bool, error) {
	return storage.GetAddress(ctx, im, storage.PairLookupKey(factory, tokenA, tokenB))
}

// AllPairs returns the [i]th pair created by [factory].
func AllPairs(ctx context.Context, im state.Immutable, factory codec.Address, i uint64) (codec.Address, error) {
	addr, ok, err := storage.GetAddress(ctx, im, storage.PairIndexKey(factory, i))
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !ok {
		return codec.EmptyAddress, ErrPairNotFound
	}
	return addr, nil
}

func AllPairsLength(ctx context.Context, im state.Immutable, factory codec.Address) (uint64, error) {
	return storage.GetCounter(ctx, im, storage.PairCountKey(factory))
}
