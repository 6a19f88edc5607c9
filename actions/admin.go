// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/fetch-ld/ldengine/codec"
	"github.com/fetch-ld/ldengine/gateway"
	"github.com/fetch-ld/ldengine/ldmanager"
	"github.com/fetch-ld/ldengine/sale"
	"github.com/fetch-ld/ldengine/state"
)

var (
	_ Action      = (*UpdateSplitFormula)(nil)
	_ Action      = (*UpdateDAOWallet)(nil)
	_ Action      = (*UpdateCutStatus)(nil)
	_ Action      = (*UpdateOperator)(nil)
	_ Action      = (*UpdateWhiteList)(nil)
	_ codec.Typed = (*UpdateResult)(nil)
)

// UpdateResult is returned by every owner-only setter.
type UpdateResult struct {
	Contract codec.Address `json:"contract"`
}

func (*UpdateResult) GetTypeID() uint8 {
	return UpdateResultID
}

type UpdateSplitFormula struct {
	Gateway codec.Address `json:"gateway"`
	Formula codec.Address `json:"formula"`
}

func (*UpdateSplitFormula) GetTypeID() uint8 {
	return UpdateSplitFormulaID
}

func (u *UpdateSplitFormula) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	if err := gateway.UpdateSplitFormula(ctx, mu, u.Gateway, actor, u.Formula, timestamp); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: u.Gateway}, nil
}

type UpdateDAOWallet struct {
	Gateway codec.Address `json:"gateway"`
	Wallet  codec.Address `json:"wallet"`
}

func (*UpdateDAOWallet) GetTypeID() uint8 {
	return UpdateDAOWalletID
}

func (u *UpdateDAOWallet) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	if err := gateway.UpdateDAOWallet(ctx, mu, u.Gateway, actor, u.Wallet, timestamp); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: u.Gateway}, nil
}

type UpdateCutStatus struct {
	Gateway codec.Address `json:"gateway"`
	Active  bool          `json:"active"`
}

func (*UpdateCutStatus) GetTypeID() uint8 {
	return UpdateCutStatusID
}

func (u *UpdateCutStatus) Execute(ctx context.Context, mu state.Mutable, timestamp int64, actor codec.Address) (codec.Typed, error) {
	if err := gateway.UpdateCutStatus(ctx, mu, u.Gateway, actor, u.Active, timestamp); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: u.Gateway}, nil
}

// UpdateOperator grants or revokes an account's right to add liquidity
// through [Manager].
type UpdateOperator struct {
	Manager  codec.Address `json:"manager"`
	Operator codec.Address `json:"operator"`
	Enabled  bool          `json:"enabled"`
}

func (*UpdateOperator) GetTypeID() uint8 {
	return UpdateOperatorID
}

func (u *UpdateOperator) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	if err := ldmanager.UpdateOperator(ctx, mu, u.Manager, actor, u.Operator, u.Enabled); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: u.Manager}, nil
}

type UpdateWhiteList struct {
	Sale        codec.Address `json:"sale"`
	Account     codec.Address `json:"account"`
	Whitelisted bool          `json:"whitelisted"`
}

func (*UpdateWhiteList) GetTypeID() uint8 {
	return UpdateWhiteListID
}

func (u *UpdateWhiteList) Execute(ctx context.Context, mu state.Mutable, _ int64, actor codec.Address) (codec.Typed, error) {
	if err := sale.UpdateWhiteList(ctx, mu, u.Sale, actor, u.Account, u.Whitelisted); err != nil {
		return nil, err
	}
	return &UpdateResult{Contract: u.Sale}, nil
}
