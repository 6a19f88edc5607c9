// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"errors"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/utils"
)

const (
	MaxNameSize   = 64
	MaxSymbolSize = 8
)

// Asset is the configuration of a fungible asset. Balances are stored
// separately per holder.
type Asset struct {
	Name   string        `json:"name"`
	Symbol string        `json:"symbol"`
	Owner  codec.Address `json:"owner"`

	// FeePercent of every transfer goes to FeeCollector unless either side
	// is excluded from fees.
	FeePercent   uint64        `json:"feePercent"`
	FeeCollector codec.Address `json:"feeCollector"`

	// MaxTransfer bounds a single transfer unless either side is excluded.
	// Zero disables the limit.
	MaxTransfer *uint256.Int `json:"maxTransfer"`

	TotalSupply *uint256.Int `json:"totalSupply"`
}

func (a *Asset) Marshal(p *codec.Packer) {
	p.PackString(a.Name)
	p.PackString(a.Symbol)
	p.PackAddress(a.Owner)
	p.PackUint64(a.FeePercent)
	p.PackAddress(a.FeeCollector)
	p.PackUint256(a.MaxTransfer)
	p.PackUint256(a.TotalSupply)
}

func (a *Asset) Unmarshal(p *codec.Packer) {
	a.Name = p.UnpackString(true)
	a.Symbol = p.UnpackString(false)
	p.UnpackAddress(&a.Owner)
	a.FeePercent = p.UnpackUint64(false)
	p.UnpackAddress(&a.FeeCollector)
	a.MaxTransfer = p.UnpackUint256(false)
	a.TotalSupply = p.UnpackUint256(false)
}

// Create deploys a new asset owned by [owner] and returns its address.
func Create(
	ctx context.Context,
	mu state.Mutable,
	owner codec.Address,
	name string,
	symbol string,
	feePercent uint64,
	feeCollector codec.Address,
	maxTransfer *uint256.Int,
) (codec.Address, error) {
	if len(name) == 0 {
		return codec.EmptyAddress, ErrNameEmpty
	}
	if len(name) > MaxNameSize {
		return codec.EmptyAddress, ErrNameTooLarge
	}
	if len(symbol) > MaxSymbolSize {
		return codec.EmptyAddress, ErrSymbolTooLarge
	}
	if feePercent > 100 {
		return codec.EmptyAddress, ErrInvalidFee
	}
	addr, err := storage.DeployAddress(ctx, mu, owner, consts.AssetID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if maxTransfer == nil {
		maxTransfer = new(uint256.Int)
	}
	a := &Asset{
		Name:         name,
		Symbol:       symbol,
		Owner:        owner,
		FeePercent:   feePercent,
		FeeCollector: feeCollector,
		MaxTransfer:  maxTransfer,
		TotalSupply:  new(uint256.Int),
	}
	return addr, storage.SetRecord(ctx, mu, storage.AssetKey(addr), a)
}

// Register stores [a] at a caller-chosen address. Contracts whose shares are
// themselves assets use it to make their own address transferable.
func Register(ctx context.Context, mu state.Mutable, addr codec.Address, a *Asset) error {
	if len(a.Name) == 0 {
		return ErrNameEmpty
	}
	if a.MaxTransfer == nil {
		a.MaxTransfer = new(uint256.Int)
	}
	if a.TotalSupply == nil {
		a.TotalSupply = new(uint256.Int)
	}
	return storage.SetRecord(ctx, mu, storage.AssetKey(addr), a)
}

// Info returns the configuration of [asset].
func Info(ctx context.Context, im state.Immutable, asset codec.Address) (*Asset, error) {
	var a Asset
	found, err := storage.GetRecord(ctx, im, storage.AssetKey(asset), &a)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrAssetNotFound
	}
	return &a, nil
}

// Exists reports whether [asset] is the native asset or a created asset.
func Exists(ctx context.Context, im state.Immutable, asset codec.Address) (bool, error) {
	if asset == storage.NativeAsset {
		return true, nil
	}
	_, err := Info(ctx, im, asset)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrAssetNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Mint credits [amount] of [asset] to [to]. Native currency can be minted
// only at genesis, which is the only caller.
func Mint(ctx context.Context, mu state.Mutable, asset codec.Address, to codec.Address, amount *uint256.Int) error {
	if asset != storage.NativeAsset {
		a, err := Info(ctx, mu, asset)
		if err != nil {
			return err
		}
		supply, err := utils.Add(a.TotalSupply, amount)
		if err != nil {
			return err
		}
		a.TotalSupply = supply
		if err := storage.SetRecord(ctx, mu, storage.AssetKey(asset), a); err != nil {
			return err
		}
	}
	_, err := storage.AddAmount(ctx, mu, storage.BalanceKey(asset, to), amount)
	return err
}

// Burn debits [amount] of [asset] from [from].
func Burn(ctx context.Context, mu state.Mutable, asset codec.Address, from codec.Address, amount *uint256.Int) error {
	if err := debit(ctx, mu, asset, from, amount); err != nil {
		return err
	}
	if asset == storage.NativeAsset {
		return nil
	}
	a, err := Info(ctx, mu, asset)
	if err != nil {
		return err
	}
	a.TotalSupply = new(uint256.Int).Sub(a.TotalSupply, amount)
	return storage.SetRecord(ctx, mu, storage.AssetKey(asset), a)
}

// BalanceOf returns the balance of [account]. Unknown accounts hold zero.
func BalanceOf(ctx context.Context, im state.Immutable, asset codec.Address, account codec.Address) (*uint256.Int, error) {
	return storage.GetAmount(ctx, im, storage.BalanceKey(asset, account))
}

func ExcludeFromFee(ctx context.Context, mu state.Mutable, asset, caller, account codec.Address, excluded bool) error {
	if err := onlyOwner(ctx, mu, asset, caller); err != nil {
		return err
	}
	return storage.SetFlag(ctx, mu, storage.FeeExcludedKey(asset, account), excluded)
}

func ExcludeFromTransferLimit(ctx context.Context, mu state.Mutable, asset, caller, account codec.Address, excluded bool) error {
	if err := onlyOwner(ctx, mu, asset, caller); err != nil {
		return err
	}
	return storage.SetFlag(ctx, mu, storage.LimitExcludedKey(asset, account), excluded)
}

func IsExcludedFromFee(ctx context.Context, im state.Immutable, asset, account codec.Address) (bool, error) {
	return storage.GetFlag(ctx, im, storage.FeeExcludedKey(asset, account))
}

func IsExcludedFromTransferLimit(ctx context.Context, im state.Immutable, asset, account codec.Address) (bool, error) {
	return storage.GetFlag(ctx, im, storage.LimitExcludedKey(asset, account))
}

func onlyOwner(ctx context.Context, im state.Immutable, asset, caller codec.Address) error {
	if asset == storage.NativeAsset {
		return ErrNativeNotConfigurable
	}
	a, err := Info(ctx, im, asset)
	if err != nil {
		return err
	}
	if a.Owner != caller {
		return storage.ErrNotOwner
	}
	return nil
}
