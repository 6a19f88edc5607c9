// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sale sells project tokens from the sale's own balance at the
// current pool price to whitelisted callers.
package sale

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fetch-ld/ldengine/amm"
	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/consts"
	"github.com/fetch-ld/ldengine/state"
	"github.com/fetch-ld/ldengine/storage"
	"github.com/fetch-ld/ldengine/token"
)

var (
	ErrSaleNotFound       = errors.New("sale does not exist")
	ErrNotWhitelisted     = errors.New("caller is not whitelisted")
	ErrInsufficientSupply = errors.New("insufficient sale supply")
	ErrZeroPurchase       = errors.New("zero purchase amount")
)

// Sale is the configuration stored at a sale address. Proceeds go to
// [Wallet].
type Sale struct {
	Owner  codec.Address `json:"owner"`
	Token  codec.Address `json:"token"`
	Router codec.Address `json:"router"`
	Wallet codec.Address `json:"wallet"`
}

func (s *Sale) Marshal(p *codec.Packer) {
	p.PackAddress(s.Owner)
	p.PackAddress(s.Token)
	p.PackAddress(s.Router)
	p.PackAddress(s.Wallet)
}

func (s *Sale) Unmarshal(p *codec.Packer) {
	p.UnpackAddress(&s.Owner)
	p.UnpackAddress(&s.Token)
	p.UnpackAddress(&s.Router)
	p.UnpackAddress(&s.Wallet)
}

func Deploy(ctx context.Context, mu state.Mutable, owner, asset, router, wallet codec.Address) (codec.Address, error) {
	addr, err := storage.DeployAddress(ctx, mu, owner, consts.SaleID)
	if err != nil {
		return codec.EmptyAddress, err
	}
	s := &Sale{
		Owner:  owner,
		Token:  asset,
		Router: router,
		Wallet: wallet,
	}
	return addr, storage.SetRecord(ctx, mu, storage.SaleKey(addr), s)
}

func Get(ctx context.Context, im state.Immutable, sale codec.Address) (*Sale, error) {
	var s Sale
	found, err := storage.GetRecord(ctx, im, storage.SaleKey(sale), &s)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSaleNotFound
	}
	return &s, nil
}

// UpdateWhiteList adds or removes [account] from the buyers of [sale].
func UpdateWhiteList(ctx context.Context, mu state.Mutable, sale, caller, account codec.Address, whitelisted bool) error {
	s, err := Get(ctx, mu, sale)
	if err != nil {
		return err
	}
	if caller != s.Owner {
		return storage.ErrNotOwner
	}
	return storage.SetFlag(ctx, mu, storage.WhitelistKey(sale, account), whitelisted)
}

func IsWhitelisted(ctx context.Context, im state.Immutable, sale, account codec.Address) (bool, error) {
	return storage.GetFlag(ctx, im, storage.WhitelistKey(sale, account))
}

// Price returns the tokens [value] native currency buys at current pool
// reserves.
func Price(ctx context.Context, im state.Immutable, sale codec.Address, value *uint256.Int) (*uint256.Int, error) {
	s, err := Get(ctx, im, sale)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, im, value)
}

func (s *Sale) price(ctx context.Context, im state.Immutable, value *uint256.Int) (*uint256.Int, error) {
	weth, err := amm.WETH(ctx, im, s.Router)
	if err != nil {
		return nil, err
	}
	amounts, err := amm.GetAmountsOut(ctx, im, s.Router, value, []codec.Address{weth, s.Token})
	if err != nil {
		return nil, err
	}
	return amounts[1], nil
}

// Buy sells tokens worth [value] native currency, paid by [caller], to
// [beneficiary]. It returns what [beneficiary] received after the token's
// transfer fee.
func Buy(
	ctx context.Context,
	mu state.Mutable,
	sale codec.Address,
	caller codec.Address,
	beneficiary codec.Address,
	value *uint256.Int,
) (*uint256.Int, error) {
	s, err := Get(ctx, mu, sale)
	if err != nil {
		return nil, err
	}
	ok, err := IsWhitelisted(ctx, mu, sale, caller)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotWhitelisted, caller)
	}
	if value.IsZero() {
		return nil, ErrZeroPurchase
	}
	amount, err := s.price(ctx, mu, value)
	if err != nil {
		return nil, err
	}
	supply, err := token.BalanceOf(ctx, mu, s.Token, sale)
	if err != nil {
		return nil, err
	}
	if supply.Lt(amount) {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientSupply, supply, amount)
	}
	if _, err := token.Transfer(ctx, mu, storage.NativeAsset, caller, s.Wallet, value); err != nil {
		return nil, err
	}
	return token.Transfer(ctx, mu, s.Token, sale, beneficiary, amount)
}
