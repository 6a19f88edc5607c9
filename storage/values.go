// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/utils"
)

var (
	ErrNotOwner       = errors.New("caller is not the owner")
	ErrCorruptedValue = errors.New("corrupted value")
)

// GetAmount returns the amount stored at [key]. A missing key reads as zero.
func GetAmount(ctx context.Context, im state.Immutable, key []byte) (*uint256.Int, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	if len(v) != consts.Uint256Len {
		return nil, ErrCorruptedValue
	}
	return new(uint256.Int).SetBytes(v), nil
}

// SetAmount stores [amount] at [key]. Zero amounts are removed.
func SetAmount(ctx context.Context, mu state.Mutable, key []byte, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return mu.Remove(ctx, key)
	}
	b := amount.Bytes32()
	return mu.Insert(ctx, key, b[:])
}

// AddAmount adds [delta] to the amount at [key].
func AddAmount(ctx context.Context, mu state.Mutable, key []byte, delta *uint256.Int) (*uint256.Int, error) {
	cur, err := GetAmount(ctx, mu, key)
	if err != nil {
		return nil, err
	}
	next, err := utils.Add(cur, delta)
	if err != nil {
		return nil, err
	}
	return next, SetAmount(ctx, mu, key, next)
}

// SubAmount subtracts [delta] from the amount at [key].
func SubAmount(ctx context.Context, mu state.Mutable, key []byte, delta *uint256.Int) (*uint256.Int, error) {
	cur, err := GetAmount(ctx, mu, key)
	if err != nil {
		return nil, err
	}
	next, err := utils.Sub(cur, delta)
	if err != nil {
		return nil, err
	}
	return next, SetAmount(ctx, mu, key, next)
}

func GetFlag(ctx context.Context, im state.Immutable, key []byte) (bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(v) == consts.BoolLen && v[0] == 1, nil
}

// SetFlag stores true flags and removes false ones.
func SetFlag(ctx context.Context, mu state.Mutable, key []byte, flag bool) error {
	if !flag {
		return mu.Remove(ctx, key)
	}
	return mu.Insert(ctx, key, []byte{1})
}

func GetCounter(ctx context.Context, im state.Immutable, key []byte) (uint64, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrCorruptedValue
	}
	return binary.BigEndian.Uint64(v), nil
}

func SetCounter(ctx context.Context, mu state.Mutable, key []byte, n uint64) error {
	return mu.Insert(ctx, key, binary.BigEndian.AppendUint64(nil, n))
}

// NextCounter returns the current counter at [key] and stores it plus one.
func NextCounter(ctx context.Context, mu state.Mutable, key []byte) (uint64, error) {
	n, err := GetCounter(ctx, mu, key)
	if err != nil {
		return 0, err
	}
	return n, SetCounter(ctx, mu, key, n+1)
}

func GetAddress(ctx context.Context, im state.Immutable, key []byte) (codec.Address, bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, false, nil
	}
	if err != nil {
		return codec.EmptyAddress, false, err
	}
	addr, err := codec.ToAddress(v)
	if err != nil {
		return codec.EmptyAddress, false, ErrCorruptedValue
	}
	return addr, true, nil
}

func SetAddress(ctx context.Context, mu state.Mutable, key []byte, addr codec.Address) error {
	return mu.Insert(ctx, key, addr[:])
}

// Marshaler is implemented by every record stored with [SetRecord].
type Marshaler interface {
	Marshal(p *codec.Packer)
}

// Unmarshaler is implemented by every record read with [GetRecord].
type Unmarshaler interface {
	Unmarshal(p *codec.Packer)
}

// SetRecord packs [r] and stores it at [key].
func SetRecord(ctx context.Context, mu state.Mutable, key []byte, r Marshaler) error {
	p := codec.NewWriter(128, MaxRecordSize)
	r.Marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, key, p.Bytes())
}

// GetRecord reads the record at [key] into [r]. It returns false when the
// key is missing.
func GetRecord(ctx context.Context, im state.Immutable, key []byte, r Unmarshaler) (bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	p := codec.NewReader(v, MaxRecordSize)
	r.Unmarshal(p)
	if err := p.Err(); err != nil {
		return false, err
	}
	if !p.Empty() {
		return false, codec.ErrUnexpectedLength
	}
	return true, nil
}

// DeployAddress derives a fresh contract address of [typeID] from
// [deployer] and its deploy nonce.
func DeployAddress(ctx context.Context, mu state.Mutable, deployer codec.Address, typeID uint8) (codec.Address, error) {
	nonce, err := NextCounter(ctx, mu, NonceKey(deployer))
	if err != nil {
		return codec.EmptyAddress, err
	}
	v := make([]byte, codec.AddressLen+consts.Uint64Len+consts.ByteLen)
	copy(v, deployer[:])
	binary.BigEndian.PutUint64(v[codec.AddressLen:], nonce)
	v[len(v)-1] = typeID
	return codec.CreateAddress(typeID, utils.ToID(v)), nil
}
